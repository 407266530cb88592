package repository

import (
	"context"
	"fmt"

	"github.com/Ashutoshverma77/store-app-be/internal/apperr"
	"github.com/Ashutoshverma77/store-app-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IssueRepository interface {
	Create(ctx context.Context, iss *model.Issue) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Issue, error)
	// FindByIDForUpdate locks the document row for the surrounding
	// transaction, serializing concurrent workflow operations on this issue.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Issue, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, page, limit int, search string, statuses []model.DocStatus) ([]model.Issue, int64, error)
	// ListApprovedByItem returns APPROVED issues that still carry a line for
	// the item, for the distribution/return pickers.
	ListApprovedByItem(ctx context.Context, itemID uuid.UUID) ([]model.Issue, error)
	Save(ctx context.Context, iss *model.Issue) error
	ReplaceLines(ctx context.Context, issID uuid.UUID, lines []model.IssueLine) error
	UpdateLine(ctx context.Context, line *model.IssueLine) error
	// TransitionStatus applies a guarded status flip: the move must be legal
	// per the DocStatus transition table, and the row must still be in from
	// at apply time.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.DocStatus, set map[string]interface{}) error
}

type issueRepository struct {
	db *gorm.DB
}

func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &issueRepository{db: db}
}

func (r *issueRepository) Create(ctx context.Context, iss *model.Issue) error {
	return GetDB(ctx, r.db).Create(iss).Error
}

func (r *issueRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Issue, error) {
	var iss model.Issue
	if err := GetDB(ctx, r.db).Preload("Lines").First(&iss, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &iss, nil
}

func (r *issueRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Issue, error) {
	var iss model.Issue
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&iss, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := GetDB(ctx, r.db).Where("issue_id = ?", id).Find(&iss.Lines).Error; err != nil {
		return nil, err
	}
	return &iss, nil
}

func (r *issueRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Issue{}).Count(&n).Error
	return n, err
}

func (r *issueRepository) List(ctx context.Context, page, limit int, search string, statuses []model.DocStatus) ([]model.Issue, int64, error) {
	var rows []model.Issue
	var total int64

	base := GetDB(ctx, r.db).Model(&model.Issue{})
	if search != "" {
		base = base.Where("iss_no ILIKE ? OR reason ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if len(statuses) > 0 {
		base = base.Where("status IN ?", statuses)
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := base.Preload("Lines").Order("created_at desc").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *issueRepository) ListApprovedByItem(ctx context.Context, itemID uuid.UUID) ([]model.Issue, error) {
	var rows []model.Issue
	err := GetDB(ctx, r.db).Preload("Lines").
		Joins("JOIN issue_lines ON issue_lines.issue_id = issues.id").
		Where("issues.status = ? AND issue_lines.item_id = ?", model.StatusApproved, itemID).
		Group("issues.id").
		Order("issues.created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *issueRepository) Save(ctx context.Context, iss *model.Issue) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(iss).Error
}

func (r *issueRepository) ReplaceLines(ctx context.Context, issID uuid.UUID, lines []model.IssueLine) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("issue_id = ?", issID).Delete(&model.IssueLine{}).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].IssueID = issID
	}
	return db.Create(&lines).Error
}

func (r *issueRepository) UpdateLine(ctx context.Context, line *model.IssueLine) error {
	return GetDB(ctx, r.db).Save(line).Error
}

func (r *issueRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.DocStatus, set map[string]interface{}) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: issue cannot move %s -> %s", apperr.ErrInvalidState, from, to)
	}
	if set == nil {
		set = map[string]interface{}{}
	}
	set["status"] = to
	res := GetDB(ctx, r.db).Model(&model.Issue{}).
		Where("id = ? AND status = ?", id, from).
		Updates(set)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", apperr.ErrPersistence, res.Error)
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("%w: issue status changed concurrently", apperr.ErrPersistence)
	}
	return nil
}
