package repository

import (
	"context"
	"fmt"

	"github.com/Ashutoshverma77/store-app-be/internal/apperr"
	"github.com/Ashutoshverma77/store-app-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemRepository is the item master plus the item stock ledger. Every ledger
// method is a guarded atomic increment: the precondition is evaluated by the
// database inside a single UPDATE, never read-then-write, so concurrent callers
// serialize at the store and no counter can go negative. A failed guard is
// reported as apperr.ErrInsufficientStock with nothing applied.
type ItemRepository interface {
	Create(ctx context.Context, item *model.StoreItem) error
	Update(ctx context.Context, item *model.StoreItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StoreItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.StoreItem, error)
	List(ctx context.Context, page, limit int, search string) ([]model.StoreItem, int64, error)

	// Stock ledger. Conservation: total == available + reserved + completed + scrapped.
	Receive(ctx context.Context, id uuid.UUID, qty int) error            // available += qty; total += qty
	Scrap(ctx context.Context, id uuid.UUID, qty int) error              // scrapped += qty; total += qty
	ScrapFromAvailable(ctx context.Context, id uuid.UUID, qty int) error // available -= qty; scrapped += qty
	ReserveForIssue(ctx context.Context, id uuid.UUID, qty int) error    // available -= qty; reserved += qty
	ReleaseReservation(ctx context.Context, id uuid.UUID, qty int) error // reserved -= qty; available += qty
	ConfirmCompleted(ctx context.Context, id uuid.UUID, qty int) error   // reserved -= qty; completed += qty
	ReverseCompleted(ctx context.Context, id uuid.UUID, qty int) error   // completed -= qty; available += qty
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.StoreItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *itemRepository) Update(ctx context.Context, item *model.StoreItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.StoreItem{}).Error
}

func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.StoreItem, error) {
	var item model.StoreItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.StoreItem, error) {
	var items []model.StoreItem
	if err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) List(ctx context.Context, page, limit int, search string) ([]model.StoreItem, int64, error) {
	var items []model.StoreItem
	var total int64

	db := GetDB(ctx, r.db).Model(&model.StoreItem{})
	if search != "" {
		db = db.Where("name ILIKE ? OR category ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// applyGuarded runs one conditional counter update and translates a missed
// guard into ErrInsufficientStock. guard is an extra WHERE fragment; the row
// must also exist, so zero affected rows with a live item means the guard lost.
func (r *itemRepository) applyGuarded(ctx context.Context, id uuid.UUID, guard string, guardArgs []interface{}, updates map[string]interface{}) error {
	db := GetDB(ctx, r.db).Model(&model.StoreItem{}).Where("id = ?", id)
	if guard != "" {
		db = db.Where(guard, guardArgs...)
	}
	res := db.Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", apperr.ErrPersistence, res.Error)
	}
	if res.RowsAffected != 1 {
		return apperr.ErrInsufficientStock
	}
	return nil
}

func (r *itemRepository) Receive(ctx context.Context, id uuid.UUID, qty int) error {
	return r.applyGuarded(ctx, id, "", nil, map[string]interface{}{
		"available": gorm.Expr("available + ?", qty),
		"total":     gorm.Expr("total + ?", qty),
	})
}

func (r *itemRepository) Scrap(ctx context.Context, id uuid.UUID, qty int) error {
	return r.applyGuarded(ctx, id, "", nil, map[string]interface{}{
		"scrapped": gorm.Expr("scrapped + ?", qty),
		"total":    gorm.Expr("total + ?", qty),
	})
}

func (r *itemRepository) ScrapFromAvailable(ctx context.Context, id uuid.UUID, qty int) error {
	return r.applyGuarded(ctx, id, "available >= ?", []interface{}{qty}, map[string]interface{}{
		"available": gorm.Expr("available - ?", qty),
		"scrapped":  gorm.Expr("scrapped + ?", qty),
	})
}

func (r *itemRepository) ReserveForIssue(ctx context.Context, id uuid.UUID, qty int) error {
	return r.applyGuarded(ctx, id, "available >= ?", []interface{}{qty}, map[string]interface{}{
		"available":          gorm.Expr("available - ?", qty),
		"reserved_for_issue": gorm.Expr("reserved_for_issue + ?", qty),
	})
}

func (r *itemRepository) ReleaseReservation(ctx context.Context, id uuid.UUID, qty int) error {
	return r.applyGuarded(ctx, id, "reserved_for_issue >= ?", []interface{}{qty}, map[string]interface{}{
		"reserved_for_issue": gorm.Expr("reserved_for_issue - ?", qty),
		"available":          gorm.Expr("available + ?", qty),
	})
}

func (r *itemRepository) ConfirmCompleted(ctx context.Context, id uuid.UUID, qty int) error {
	return r.applyGuarded(ctx, id, "reserved_for_issue >= ?", []interface{}{qty}, map[string]interface{}{
		"reserved_for_issue": gorm.Expr("reserved_for_issue - ?", qty),
		"completed":          gorm.Expr("completed + ?", qty),
	})
}

func (r *itemRepository) ReverseCompleted(ctx context.Context, id uuid.UUID, qty int) error {
	return r.applyGuarded(ctx, id, "completed >= ?", []interface{}{qty}, map[string]interface{}{
		"completed": gorm.Expr("completed - ?", qty),
		"available": gorm.Expr("available + ?", qty),
	})
}
