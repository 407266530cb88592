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

type ReceivingRepository interface {
	Create(ctx context.Context, rec *model.Receiving) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Receiving, error)
	// FindByIDForUpdate locks the document row for the duration of the
	// surrounding transaction, serializing concurrent workflow operations on
	// the same receiving.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Receiving, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, page, limit int, search string, statuses []model.DocStatus) ([]model.Receiving, int64, error)
	Save(ctx context.Context, rec *model.Receiving) error
	ReplaceLines(ctx context.Context, recID uuid.UUID, lines []model.ReceivingLine) error
	UpdateLine(ctx context.Context, line *model.ReceivingLine) error
	// TransitionStatus applies a guarded status flip: the move must be legal
	// per the DocStatus transition table, and it succeeds only if the
	// document is still in from at apply time. A missed guard means a
	// concurrent writer won the race.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.DocStatus, set map[string]interface{}) error
}

type receivingRepository struct {
	db *gorm.DB
}

func NewReceivingRepository(db *gorm.DB) ReceivingRepository {
	return &receivingRepository{db: db}
}

func (r *receivingRepository) Create(ctx context.Context, rec *model.Receiving) error {
	return GetDB(ctx, r.db).Create(rec).Error
}

func (r *receivingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Receiving, error) {
	var rec model.Receiving
	if err := GetDB(ctx, r.db).Preload("Lines").First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *receivingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Receiving, error) {
	var rec model.Receiving
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := GetDB(ctx, r.db).Where("receiving_id = ?", id).Find(&rec.Lines).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *receivingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Receiving{}).Count(&n).Error
	return n, err
}

func (r *receivingRepository) List(ctx context.Context, page, limit int, search string, statuses []model.DocStatus) ([]model.Receiving, int64, error) {
	var rows []model.Receiving
	var total int64

	base := GetDB(ctx, r.db).Model(&model.Receiving{})
	if search != "" {
		base = base.Where("rec_no ILIKE ? OR source ILIKE ?", "%"+search+"%", "%"+search+"%")
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

func (r *receivingRepository) Save(ctx context.Context, rec *model.Receiving) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(rec).Error
}

func (r *receivingRepository) ReplaceLines(ctx context.Context, recID uuid.UUID, lines []model.ReceivingLine) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("receiving_id = ?", recID).Delete(&model.ReceivingLine{}).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].ReceivingID = recID
	}
	return db.Create(&lines).Error
}

func (r *receivingRepository) UpdateLine(ctx context.Context, line *model.ReceivingLine) error {
	return GetDB(ctx, r.db).Save(line).Error
}

func (r *receivingRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.DocStatus, set map[string]interface{}) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: receiving cannot move %s -> %s", apperr.ErrInvalidState, from, to)
	}
	if set == nil {
		set = map[string]interface{}{}
	}
	set["status"] = to
	res := GetDB(ctx, r.db).Model(&model.Receiving{}).
		Where("id = ? AND status = ?", id, from).
		Updates(set)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", apperr.ErrPersistence, res.Error)
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("%w: receiving status changed concurrently", apperr.ErrPersistence)
	}
	return nil
}
