package repository

import (
	"context"
	"time"

	"github.com/Ashutoshverma77/store-app-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementFilter narrows movement listings. Zero values mean "no filter".
type MovementFilter struct {
	ItemID   *uuid.UUID
	PlaceID  *uuid.UUID
	Type     string
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string // matches ref_no or note
	Page     int
	Limit    int
}

// MovementRepository is append-only: movements are written once and never
// updated or deleted.
type MovementRepository interface {
	Append(ctx context.Context, mv *model.StockMovement) error
	AppendMany(ctx context.Context, mvs []model.StockMovement) error
	ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]model.StockMovement, error)
	List(ctx context.Context, filter MovementFilter) ([]model.StockMovement, int64, error)
	Recent(ctx context.Context, limit int) ([]model.StockMovement, error)
}

type movementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) MovementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) Append(ctx context.Context, mv *model.StockMovement) error {
	return GetDB(ctx, r.db).Create(mv).Error
}

func (r *movementRepository) AppendMany(ctx context.Context, mvs []model.StockMovement) error {
	if len(mvs) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&mvs).Error
}

func (r *movementRepository) ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]model.StockMovement, error) {
	if limit <= 0 {
		limit = 200
	}
	var rows []model.StockMovement
	err := GetDB(ctx, r.db).Preload("Item").Preload("Place").Preload("Operator").
		Where("item_id = ?", itemID).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *movementRepository) List(ctx context.Context, filter MovementFilter) ([]model.StockMovement, int64, error) {
	base := GetDB(ctx, r.db).Model(&model.StockMovement{})
	if filter.Type != "" {
		base = base.Where("type = ?", filter.Type)
	}
	if filter.ItemID != nil {
		base = base.Where("item_id = ?", *filter.ItemID)
	}
	if filter.PlaceID != nil {
		base = base.Where("place_id = ?", *filter.PlaceID)
	}
	if filter.DateFrom != nil {
		base = base.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		base = base.Where("created_at <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		base = base.Where("ref_no ILIKE ? OR note ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var rows []model.StockMovement
	err := base.Preload("Item").Preload("Place").Preload("Operator").
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *movementRepository) Recent(ctx context.Context, limit int) ([]model.StockMovement, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []model.StockMovement
	err := GetDB(ctx, r.db).Preload("Item").Preload("Place").Preload("Operator").
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
