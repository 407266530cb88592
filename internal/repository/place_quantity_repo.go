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

// PlaceQuantityRepository is the per-(item,place) stock ledger. Records are
// created lazily on the first delivery and never deleted. Guarded methods keep
// issued + completed <= total and every counter non-negative.
type PlaceQuantityRepository interface {
	Find(ctx context.Context, itemID, placeID uuid.UUID) (*model.PlaceItemQuantity, error)
	ListByPlace(ctx context.Context, placeID uuid.UUID) ([]model.PlaceItemQuantity, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.PlaceItemQuantity, error)
	ListAll(ctx context.Context) ([]model.PlaceItemQuantity, error)

	// UpsertOnReceive creates the record with total=qty or atomically adds qty
	// to an existing total.
	UpsertOnReceive(ctx context.Context, itemID, placeID uuid.UUID, qty int, createdBy *uuid.UUID) error
	// MarkIssued moves place stock into the issued bucket, guarded by
	// total - issued - completed >= qty.
	MarkIssued(ctx context.Context, itemID, placeID uuid.UUID, qty int) error
	// ReverseIssued undoes a distribution: issued -= qty, total += qty,
	// guarded by issued >= qty.
	ReverseIssued(ctx context.Context, itemID, placeID uuid.UUID, qty int) error
	// ReduceTotalForScrap removes written-off stock from the place, guarded by
	// total - issued - completed >= qty.
	ReduceTotalForScrap(ctx context.Context, itemID, placeID uuid.UUID, qty int) error
}

type placeQuantityRepository struct {
	db *gorm.DB
}

func NewPlaceQuantityRepository(db *gorm.DB) PlaceQuantityRepository {
	return &placeQuantityRepository{db: db}
}

func (r *placeQuantityRepository) Find(ctx context.Context, itemID, placeID uuid.UUID) (*model.PlaceItemQuantity, error) {
	var piq model.PlaceItemQuantity
	if err := GetDB(ctx, r.db).Where("item_id = ? AND place_id = ?", itemID, placeID).First(&piq).Error; err != nil {
		return nil, err
	}
	return &piq, nil
}

func (r *placeQuantityRepository) ListByPlace(ctx context.Context, placeID uuid.UUID) ([]model.PlaceItemQuantity, error) {
	var rows []model.PlaceItemQuantity
	if err := GetDB(ctx, r.db).Preload("Item").Preload("Place").Where("place_id = ?", placeID).Order("updated_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *placeQuantityRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.PlaceItemQuantity, error) {
	var rows []model.PlaceItemQuantity
	if err := GetDB(ctx, r.db).Preload("Item").Preload("Place").Where("item_id = ?", itemID).Order("updated_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *placeQuantityRepository) ListAll(ctx context.Context) ([]model.PlaceItemQuantity, error) {
	var rows []model.PlaceItemQuantity
	if err := GetDB(ctx, r.db).Preload("Item").Preload("Place").Order("updated_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *placeQuantityRepository) UpsertOnReceive(ctx context.Context, itemID, placeID uuid.UUID, qty int, createdBy *uuid.UUID) error {
	piq := model.PlaceItemQuantity{
		ItemID:    itemID,
		PlaceID:   placeID,
		Total:     qty,
		CreatedBy: createdBy,
	}
	res := GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "item_id"}, {Name: "place_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total": gorm.Expr("place_item_quantities.total + ?", qty),
		}),
	}).Create(&piq)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", apperr.ErrPersistence, res.Error)
	}
	return nil
}

func (r *placeQuantityRepository) applyGuarded(ctx context.Context, itemID, placeID uuid.UUID, guard string, qty int, updates map[string]interface{}) error {
	res := GetDB(ctx, r.db).Model(&model.PlaceItemQuantity{}).
		Where("item_id = ? AND place_id = ?", itemID, placeID).
		Where(guard, qty).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", apperr.ErrPersistence, res.Error)
	}
	if res.RowsAffected != 1 {
		return apperr.ErrInsufficientStock
	}
	return nil
}

func (r *placeQuantityRepository) MarkIssued(ctx context.Context, itemID, placeID uuid.UUID, qty int) error {
	return r.applyGuarded(ctx, itemID, placeID, "total - issued - completed >= ?", qty, map[string]interface{}{
		"issued": gorm.Expr("issued + ?", qty),
	})
}

func (r *placeQuantityRepository) ReverseIssued(ctx context.Context, itemID, placeID uuid.UUID, qty int) error {
	return r.applyGuarded(ctx, itemID, placeID, "issued >= ?", qty, map[string]interface{}{
		"issued": gorm.Expr("issued - ?", qty),
		"total":  gorm.Expr("total + ?", qty),
	})
}

func (r *placeQuantityRepository) ReduceTotalForScrap(ctx context.Context, itemID, placeID uuid.UUID, qty int) error {
	return r.applyGuarded(ctx, itemID, placeID, "total - issued - completed >= ?", qty, map[string]interface{}{
		"total": gorm.Expr("total - ?", qty),
	})
}
