package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ashutoshverma77/store-app-be/internal/apperr"
	"github.com/Ashutoshverma77/store-app-be/internal/model"
	"github.com/Ashutoshverma77/store-app-be/internal/repository"
	ws "github.com/Ashutoshverma77/store-app-be/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Unit        string  `json:"unit" binding:"required"`
	ImageURL    string  `json:"image_url"`
	Price       float64 `json:"price" binding:"min=0"`
}

type UpdateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Unit        string  `json:"unit" binding:"required"`
	ImageURL    string  `json:"image_url"`
	Price       float64 `json:"price" binding:"min=0"`
}

// ScrapFromPlaceRequest writes usable stock off directly from a place,
// outside any issue workflow.
type ScrapFromPlaceRequest struct {
	PlaceID string `json:"place_id" binding:"required"`
	Qty     int    `json:"qty" binding:"required,gt=0"`
	Note    string `json:"note"`
}

type ItemService interface {
	Create(ctx context.Context, userID string, req CreateItemRequest) (*model.StoreItem, error)
	Update(ctx context.Context, userID string, id string, req UpdateItemRequest) (*model.StoreItem, error)
	Delete(ctx context.Context, userID string, id string) error
	Get(ctx context.Context, id string) (*model.StoreItem, error)
	List(ctx context.Context, page, limit int, search string) ([]model.StoreItem, int64, error)
	ScrapFromPlace(ctx context.Context, userID string, itemID string, req ScrapFromPlaceRequest) error
}

type itemService struct {
	itemRepo  repository.ItemRepository
	piqRepo   repository.PlaceQuantityRepository
	placeRepo repository.PlaceRepository
	movRepo   repository.MovementRepository
	userRepo  repository.UserRepository
	txManager repository.TransactionManager
	hub       *ws.Hub
}

func NewItemService(
	itemRepo repository.ItemRepository,
	piqRepo repository.PlaceQuantityRepository,
	placeRepo repository.PlaceRepository,
	movRepo repository.MovementRepository,
	userRepo repository.UserRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) ItemService {
	return &itemService{
		itemRepo:  itemRepo,
		piqRepo:   piqRepo,
		placeRepo: placeRepo,
		movRepo:   movRepo,
		userRepo:  userRepo,
		txManager: txManager,
		hub:       hub,
	}
}

func (s *itemService) resolveOperator(ctx context.Context, userID string) (uuid.UUID, error) {
	uid, err := parseUUID(userID, "user id")
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, fmt.Errorf("%w: operator %s", apperr.ErrNotFound, userID)
		}
		return uuid.Nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return uid, nil
}

func (s *itemService) Create(ctx context.Context, userID string, req CreateItemRequest) (*model.StoreItem, error) {
	uid, err := s.resolveOperator(ctx, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrValidation)
	}

	item := model.StoreItem{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Unit:        req.Unit,
		ImageURL:    req.ImageURL,
		Price:       decimal.NewFromFloat(req.Price),
		CreatedBy:   &uid,
	}
	if err := s.itemRepo.Create(ctx, &item); err != nil {
		return nil, fmt.Errorf("%w: failed to create item: %v", apperr.ErrPersistence, err)
	}

	s.hub.BroadcastEvent("store:itemChanged", map[string]interface{}{"id": item.ID.String()})
	return &item, nil
}

func (s *itemService) Update(ctx context.Context, userID string, id string, req UpdateItemRequest) (*model.StoreItem, error) {
	if _, err := s.resolveOperator(ctx, userID); err != nil {
		return nil, err
	}
	itemID, err := parseUUID(id, "item id")
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item %s", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}

	item.Name = req.Name
	item.Description = req.Description
	item.Category = req.Category
	item.Unit = req.Unit
	item.ImageURL = req.ImageURL
	item.Price = decimal.NewFromFloat(req.Price)
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: failed to update item: %v", apperr.ErrPersistence, err)
	}

	s.hub.BroadcastEvent("store:itemChanged", map[string]interface{}{"id": id})
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, userID string, id string) error {
	if _, err := s.resolveOperator(ctx, userID); err != nil {
		return err
	}
	itemID, err := parseUUID(id, "item id")
	if err != nil {
		return err
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: item %s", apperr.ErrNotFound, id)
		}
		return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	if item.Total != 0 {
		return fmt.Errorf("%w: item %s still tracks stock and cannot be deleted", apperr.ErrInvalidState, item.Name)
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("%w: failed to delete item: %v", apperr.ErrPersistence, err)
	}

	s.hub.BroadcastEvent("store:itemChanged", map[string]interface{}{"id": id, "deleted": true})
	return nil
}

func (s *itemService) Get(ctx context.Context, id string) (*model.StoreItem, error) {
	itemID, err := parseUUID(id, "item id")
	if err != nil {
		return nil, err
	}
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item %s", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return item, nil
}

func (s *itemService) List(ctx context.Context, page, limit int, search string) ([]model.StoreItem, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.itemRepo.List(ctx, page, limit, search)
}

// ScrapFromPlace removes usable stock at a place and writes it off:
// place total shrinks, item available moves to scrapped, item total is
// unchanged because the stock stays accounted for in the scrapped bucket.
func (s *itemService) ScrapFromPlace(ctx context.Context, userID string, itemID string, req ScrapFromPlaceRequest) error {
	uid, err := s.resolveOperator(ctx, userID)
	if err != nil {
		return err
	}
	iid, err := parseUUID(itemID, "item id")
	if err != nil {
		return err
	}
	pid, err := parseUUID(req.PlaceID, "place id")
	if err != nil {
		return err
	}
	if req.Qty <= 0 {
		return fmt.Errorf("%w: qty must be positive", apperr.ErrValidation)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.itemRepo.FindByID(txCtx, iid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: item %s", apperr.ErrNotFound, itemID)
			}
			return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
		}
		if _, err := s.placeRepo.FindByID(txCtx, pid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: place %s", apperr.ErrNotFound, req.PlaceID)
			}
			return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
		}

		if err := s.piqRepo.ReduceTotalForScrap(txCtx, iid, pid, req.Qty); err != nil {
			if errors.Is(err, apperr.ErrInsufficientStock) {
				return fmt.Errorf("%w: place does not hold %d of %s", apperr.ErrInsufficientStock, req.Qty, item.Name)
			}
			return err
		}
		if err := s.itemRepo.ScrapFromAvailable(txCtx, iid, req.Qty); err != nil {
			return err
		}

		return s.movRepo.Append(txCtx, &model.StockMovement{
			ItemID:     iid,
			PlaceID:    &pid,
			Type:       model.MovementScrap,
			Qty:        req.Qty,
			OperatedBy: uid,
			Note:       req.Note,
		})
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastEvent("store:stockChanged", map[string]interface{}{"item_id": itemID})
	return nil
}
