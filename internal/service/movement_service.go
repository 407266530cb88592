package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Ashutoshverma77/store-app-be/internal/apperr"
	"github.com/Ashutoshverma77/store-app-be/internal/model"
	"github.com/Ashutoshverma77/store-app-be/internal/repository"
)

// MovementView is one audit row with resolved names for listings.
type MovementView struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"item_id"`
	ItemName     string    `json:"item_name"`
	PlaceID      string    `json:"place_id,omitempty"`
	PlaceName    string    `json:"place_name,omitempty"`
	Type         string    `json:"type"`
	Qty          int       `json:"qty"`
	RefNo        string    `json:"ref_no"`
	OperatorName string    `json:"operator_name"`
	Note         string    `json:"note"`
	CreatedAt    time.Time `json:"created_at"`
}

// MovementQuery mirrors the listing filters exposed over HTTP.
type MovementQuery struct {
	ItemID   string
	PlaceID  string
	Type     string
	DateFrom string // YYYY-MM-DD
	DateTo   string
	Search   string
	Page     int
	Limit    int
}

type MovementService interface {
	HistoryByItem(ctx context.Context, itemID string, limit int) ([]MovementView, error)
	List(ctx context.Context, q MovementQuery) ([]MovementView, int64, error)
	ListScrap(ctx context.Context, q MovementQuery) ([]MovementView, int64, error)
	Recent(ctx context.Context, limit int) ([]MovementView, error)
}

type movementService struct {
	movRepo repository.MovementRepository
}

func NewMovementService(movRepo repository.MovementRepository) MovementService {
	return &movementService{movRepo: movRepo}
}

func toMovementViews(rows []model.StockMovement) []MovementView {
	views := make([]MovementView, 0, len(rows))
	for _, m := range rows {
		v := MovementView{
			ID:           m.ID.String(),
			ItemID:       m.ItemID.String(),
			ItemName:     m.Item.Name,
			Type:         m.Type,
			Qty:          m.Qty,
			RefNo:        m.RefNo,
			OperatorName: m.Operator.Username,
			Note:         m.Note,
			CreatedAt:    m.CreatedAt,
		}
		if m.PlaceID != nil {
			v.PlaceID = m.PlaceID.String()
			if m.Place != nil {
				v.PlaceName = m.Place.Name
			}
		}
		views = append(views, v)
	}
	return views
}

func (s *movementService) buildFilter(q MovementQuery) (repository.MovementFilter, error) {
	filter := repository.MovementFilter{
		Type:   q.Type,
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	if q.ItemID != "" {
		id, err := parseUUID(q.ItemID, "item id")
		if err != nil {
			return filter, err
		}
		filter.ItemID = &id
	}
	if q.PlaceID != "" {
		id, err := parseUUID(q.PlaceID, "place id")
		if err != nil {
			return filter, err
		}
		filter.PlaceID = &id
	}
	if q.DateFrom != "" {
		t, err := time.Parse("2006-01-02", q.DateFrom)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid date_from", apperr.ErrValidation)
		}
		filter.DateFrom = &t
	}
	if q.DateTo != "" {
		t, err := time.Parse("2006-01-02", q.DateTo)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid date_to", apperr.ErrValidation)
		}
		// Inclusive upper bound: cover the whole day.
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &end
	}
	return filter, nil
}

func (s *movementService) HistoryByItem(ctx context.Context, itemID string, limit int) ([]MovementView, error) {
	id, err := parseUUID(itemID, "item id")
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.movRepo.ListByItem(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return toMovementViews(rows), nil
}

func (s *movementService) List(ctx context.Context, q MovementQuery) ([]MovementView, int64, error) {
	filter, err := s.buildFilter(q)
	if err != nil {
		return nil, 0, err
	}
	rows, total, err := s.movRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return toMovementViews(rows), total, nil
}

// ListScrap is the write-off report: SCRAP movements only.
func (s *movementService) ListScrap(ctx context.Context, q MovementQuery) ([]MovementView, int64, error) {
	q.Type = model.MovementScrap
	return s.List(ctx, q)
}

func (s *movementService) Recent(ctx context.Context, limit int) ([]MovementView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.movRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return toMovementViews(rows), nil
}
