package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ashutoshverma77/store-app-be/internal/apperr"
	"github.com/Ashutoshverma77/store-app-be/internal/model"
	"github.com/Ashutoshverma77/store-app-be/internal/repository"
	ws "github.com/Ashutoshverma77/store-app-be/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type CreatePlaceRequest struct {
	Name   string `json:"name" binding:"required"`
	Code   string `json:"code"`
	Type   string `json:"type"`
	Remark string `json:"remark"`
}

type UpdatePlaceRequest struct {
	Name   string `json:"name" binding:"required"`
	Code   string `json:"code"`
	Type   string `json:"type"`
	Remark string `json:"remark"`
}

// PlaceStockView is one (item, place) stock row with resolved names.
type PlaceStockView struct {
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	Unit      string `json:"unit"`
	PlaceID   string `json:"place_id"`
	PlaceName string `json:"place_name"`
	Total     int    `json:"total"`
	Issued    int    `json:"issued"`
	Completed int    `json:"completed"`
	Available int    `json:"available"`
}

type PlaceService interface {
	Create(ctx context.Context, userID string, req CreatePlaceRequest) (*model.StorePlace, error)
	Update(ctx context.Context, userID string, id string, req UpdatePlaceRequest) (*model.StorePlace, error)
	Delete(ctx context.Context, userID string, id string) error
	Get(ctx context.Context, id string) (*model.StorePlace, error)
	List(ctx context.Context, page, limit int, search string) ([]model.StorePlace, int64, error)
	StockAtPlace(ctx context.Context, placeID string) ([]PlaceStockView, error)
	StockOfItem(ctx context.Context, itemID string) ([]PlaceStockView, error)
	StockAll(ctx context.Context) ([]PlaceStockView, error)
}

type placeService struct {
	placeRepo repository.PlaceRepository
	piqRepo   repository.PlaceQuantityRepository
	userRepo  repository.UserRepository
	hub       *ws.Hub
}

func NewPlaceService(
	placeRepo repository.PlaceRepository,
	piqRepo repository.PlaceQuantityRepository,
	userRepo repository.UserRepository,
	hub *ws.Hub,
) PlaceService {
	return &placeService{
		placeRepo: placeRepo,
		piqRepo:   piqRepo,
		userRepo:  userRepo,
		hub:       hub,
	}
}

func (s *placeService) resolveOperator(ctx context.Context, userID string) (uuid.UUID, error) {
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

func (s *placeService) Create(ctx context.Context, userID string, req CreatePlaceRequest) (*model.StorePlace, error) {
	uid, err := s.resolveOperator(ctx, userID)
	if err != nil {
		return nil, err
	}

	place := model.StorePlace{
		Name:      req.Name,
		Code:      req.Code,
		Type:      req.Type,
		Remark:    req.Remark,
		CreatedBy: &uid,
	}
	if err := s.placeRepo.Create(ctx, &place); err != nil {
		return nil, fmt.Errorf("%w: failed to create place: %v", apperr.ErrPersistence, err)
	}

	s.hub.BroadcastEvent("store:placeChanged", map[string]interface{}{"id": place.ID.String()})
	return &place, nil
}

func (s *placeService) Update(ctx context.Context, userID string, id string, req UpdatePlaceRequest) (*model.StorePlace, error) {
	if _, err := s.resolveOperator(ctx, userID); err != nil {
		return nil, err
	}
	placeID, err := parseUUID(id, "place id")
	if err != nil {
		return nil, err
	}

	place, err := s.placeRepo.FindByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: place %s", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}

	place.Name = req.Name
	place.Code = req.Code
	place.Type = req.Type
	place.Remark = req.Remark
	if err := s.placeRepo.Update(ctx, place); err != nil {
		return nil, fmt.Errorf("%w: failed to update place: %v", apperr.ErrPersistence, err)
	}

	s.hub.BroadcastEvent("store:placeChanged", map[string]interface{}{"id": id})
	return place, nil
}

func (s *placeService) Delete(ctx context.Context, userID string, id string) error {
	if _, err := s.resolveOperator(ctx, userID); err != nil {
		return err
	}
	placeID, err := parseUUID(id, "place id")
	if err != nil {
		return err
	}

	// A place with live stock cannot be removed.
	rows, err := s.piqRepo.ListByPlace(ctx, placeID)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	for _, q := range rows {
		if q.AvailableAtPlace() > 0 || q.Issued > 0 {
			return fmt.Errorf("%w: place still holds stock and cannot be deleted", apperr.ErrInvalidState)
		}
	}

	if err := s.placeRepo.Delete(ctx, placeID); err != nil {
		return fmt.Errorf("%w: failed to delete place: %v", apperr.ErrPersistence, err)
	}

	s.hub.BroadcastEvent("store:placeChanged", map[string]interface{}{"id": id, "deleted": true})
	return nil
}

func (s *placeService) Get(ctx context.Context, id string) (*model.StorePlace, error) {
	placeID, err := parseUUID(id, "place id")
	if err != nil {
		return nil, err
	}
	place, err := s.placeRepo.FindByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: place %s", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return place, nil
}

func (s *placeService) List(ctx context.Context, page, limit int, search string) ([]model.StorePlace, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.placeRepo.List(ctx, page, limit, search)
}

func toStockViews(rows []model.PlaceItemQuantity) []PlaceStockView {
	views := make([]PlaceStockView, 0, len(rows))
	for _, q := range rows {
		views = append(views, PlaceStockView{
			ItemID:    q.ItemID.String(),
			ItemName:  q.Item.Name,
			Unit:      q.Item.Unit,
			PlaceID:   q.PlaceID.String(),
			PlaceName: q.Place.Name,
			Total:     q.Total,
			Issued:    q.Issued,
			Completed: q.Completed,
			Available: q.AvailableAtPlace(),
		})
	}
	return views
}

func (s *placeService) StockAtPlace(ctx context.Context, placeID string) ([]PlaceStockView, error) {
	pid, err := parseUUID(placeID, "place id")
	if err != nil {
		return nil, err
	}
	rows, err := s.piqRepo.ListByPlace(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return toStockViews(rows), nil
}

func (s *placeService) StockOfItem(ctx context.Context, itemID string) ([]PlaceStockView, error) {
	iid, err := parseUUID(itemID, "item id")
	if err != nil {
		return nil, err
	}
	rows, err := s.piqRepo.ListByItem(ctx, iid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return toStockViews(rows), nil
}

func (s *placeService) StockAll(ctx context.Context) ([]PlaceStockView, error) {
	rows, err := s.piqRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return toStockViews(rows), nil
}
