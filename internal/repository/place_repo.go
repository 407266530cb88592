package repository

import (
	"context"

	"github.com/Ashutoshverma77/store-app-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlaceRepository interface {
	Create(ctx context.Context, place *model.StorePlace) error
	Update(ctx context.Context, place *model.StorePlace) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StorePlace, error)
	List(ctx context.Context, page, limit int, search string) ([]model.StorePlace, int64, error)
}

type placeRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

func (r *placeRepository) Create(ctx context.Context, place *model.StorePlace) error {
	return GetDB(ctx, r.db).Create(place).Error
}

func (r *placeRepository) Update(ctx context.Context, place *model.StorePlace) error {
	return GetDB(ctx, r.db).Save(place).Error
}

func (r *placeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.StorePlace{}).Error
}

func (r *placeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.StorePlace, error) {
	var place model.StorePlace
	if err := GetDB(ctx, r.db).First(&place, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &place, nil
}

func (r *placeRepository) List(ctx context.Context, page, limit int, search string) ([]model.StorePlace, int64, error) {
	var places []model.StorePlace
	var total int64

	db := GetDB(ctx, r.db).Model(&model.StorePlace{})
	if search != "" {
		db = db.Where("name ILIKE ? OR code ILIKE ? OR type ILIKE ?", "%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&places).Error; err != nil {
		return nil, 0, err
	}

	return places, total, nil
}
