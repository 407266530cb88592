package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ashutoshverma77/store-app-be/internal/apperr"
	"github.com/Ashutoshverma77/store-app-be/internal/model"
	"github.com/Ashutoshverma77/store-app-be/internal/repository"
	ws "github.com/Ashutoshverma77/store-app-be/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type CreateReceivingRequest struct {
	Source string        `json:"source"`
	Remark string        `json:"remark"`
	Lines  []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

type UpdateReceivingRequest struct {
	Source string        `json:"source"`
	Remark string        `json:"remark"`
	Lines  []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

type ApproveReceivingRequest struct {
	Lines []ApproveLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// DeliverRequest records one delivery of an approved line into a place.
// ReceiveQty goes into stock at the place; ScrapQty is written off in the same
// step and never reaches the place.
type DeliverRequest struct {
	ItemID     string `json:"item_id" binding:"required"`
	PlaceID    string `json:"place_id" binding:"required"`
	ReceiveQty int    `json:"receive_qty" binding:"min=0"`
	ScrapQty   int    `json:"scrap_qty" binding:"min=0"`
}

type ReceivingListFilter struct {
	Page     int
	Limit    int
	Search   string
	Statuses []model.DocStatus
}

type ReceivingService interface {
	Create(ctx context.Context, userID string, req CreateReceivingRequest) (*model.Receiving, error)
	UpdateDraft(ctx context.Context, userID string, id string, req UpdateReceivingRequest) error
	Approve(ctx context.Context, userID string, id string, req ApproveReceivingRequest) error
	DeliverToPlace(ctx context.Context, userID string, id string, req DeliverRequest) error
	Close(ctx context.Context, userID string, id string) error
	Reject(ctx context.Context, userID string, id string) error
	Get(ctx context.Context, id string) (*model.Receiving, error)
	List(ctx context.Context, filter ReceivingListFilter) ([]model.Receiving, int64, error)
}

type receivingService struct {
	recRepo   repository.ReceivingRepository
	itemRepo  repository.ItemRepository
	placeRepo repository.PlaceRepository
	piqRepo   repository.PlaceQuantityRepository
	movRepo   repository.MovementRepository
	userRepo  repository.UserRepository
	txManager repository.TransactionManager
	hub       *ws.Hub
}

func NewReceivingService(
	recRepo repository.ReceivingRepository,
	itemRepo repository.ItemRepository,
	placeRepo repository.PlaceRepository,
	piqRepo repository.PlaceQuantityRepository,
	movRepo repository.MovementRepository,
	userRepo repository.UserRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) ReceivingService {
	return &receivingService{
		recRepo:   recRepo,
		itemRepo:  itemRepo,
		placeRepo: placeRepo,
		piqRepo:   piqRepo,
		movRepo:   movRepo,
		userRepo:  userRepo,
		txManager: txManager,
		hub:       hub,
	}
}

func (s *receivingService) resolveOperator(ctx context.Context, userID string) (uuid.UUID, error) {
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

func (s *receivingService) nextRecNo(ctx context.Context) (string, error) {
	count, err := s.recRepo.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return fmt.Sprintf("RCV-%d-%05d", time.Now().Year(), count+1), nil
}

func (s *receivingService) Create(ctx context.Context, userID string, req CreateReceivingRequest) (*model.Receiving, error) {
	uid, err := s.resolveOperator(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged, err := mergeLineRequests(req.Lines)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(merged))
	for _, m := range merged {
		ids = append(ids, m.ItemID)
	}

	var rec *model.Receiving
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		items, err := s.itemRepo.FindByIDs(txCtx, ids)
		if err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
		}
		byID, err := itemNamesByID(items, merged)
		if err != nil {
			return err
		}

		recNo, err := s.nextRecNo(txCtx)
		if err != nil {
			return err
		}

		doc := model.Receiving{
			RecNo:     recNo,
			Source:    req.Source,
			Remark:    req.Remark,
			Status:    model.StatusDraft,
			CreatedBy: uid,
		}
		for _, m := range merged {
			it := byID[m.ItemID]
			doc.Lines = append(doc.Lines, model.ReceivingLine{
				ItemID:       m.ItemID,
				ItemName:     it.Name,
				Unit:         it.Unit,
				RequestedQty: m.Qty,
			})
		}
		if err := s.recRepo.Create(txCtx, &doc); err != nil {
			return fmt.Errorf("%w: failed to create receiving: %v", apperr.ErrPersistence, err)
		}

		movements := make([]model.StockMovement, 0, len(doc.Lines))
		for _, l := range doc.Lines {
			movements = append(movements, model.StockMovement{
				ItemID:      l.ItemID,
				ReceivingID: &doc.ID,
				Type:        model.MovementCreate,
				Qty:         l.RequestedQty,
				RefNo:       doc.RecNo,
				OperatedBy:  uid,
				Note:        "receiving draft created",
			})
		}
		if err := s.movRepo.AppendMany(txCtx, movements); err != nil {
			return fmt.Errorf("%w: failed to record movements: %v", apperr.ErrPersistence, err)
		}

		rec = &doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent("store:receivingChanged", map[string]interface{}{
		"id": rec.ID.String(), "rec_no": rec.RecNo, "status": rec.Status,
	})
	return rec, nil
}

func (s *receivingService) UpdateDraft(ctx context.Context, userID string, id string, req UpdateReceivingRequest) error {
	uid, err := s.resolveOperator(ctx, userID)
	if err != nil {
		return err
	}
	recID, err := parseUUID(id, "receiving id")
	if err != nil {
		return err
	}
	merged, err := mergeLineRequests(req.Lines)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := s.recRepo.FindByIDForUpdate(txCtx, recID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: receiving %s", apperr.ErrNotFound, id)
			}
			return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
		}
		if rec.Status != model.StatusDraft {
			return fmt.Errorf("%w: receiving %s is %s, only DRAFT can be edited", apperr.ErrInvalidState, rec.RecNo, rec.Status)
		}

		ids := make([]uuid.UUID, 0, len(merged))
		for _, m := range merged {
			ids = append(ids, m.ItemID)
		}
		items, err := s.itemRepo.FindByIDs(txCtx, ids)
		if err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
		}
		byID, err := itemNamesByID(items, merged)
		if err != nil {
			return err
		}

		lines := make([]model.ReceivingLine, 0, len(merged))
		for _, m := range merged {
			it := byID[m.ItemID]
			lines = append(lines, model.ReceivingLine{
				ReceivingID:  rec.ID,
				ItemID:       m.ItemID,
				ItemName:     it.Name,
				Unit:         it.Unit,
				RequestedQty: m.Qty,
			})
		}
		if err := s.recRepo.ReplaceLines(txCtx, rec.ID, lines); err != nil {
			return fmt.Errorf("%w: failed to replace lines: %v", apperr.ErrPersistence, err)
		}

		rec.Source = req.Source
		rec.Remark = req.Remark
		if err := s.recRepo.Save(txCtx, rec); err != nil {
			return fmt.Errorf("%w: failed to update receiving: %v", apperr.ErrPersistence, err)
		}

		movements := make([]model.StockMovement, 0, len(lines))
		for _, l := range lines {
			movements = append(movements, model.StockMovement{
				ItemID:      l.ItemID,
				ReceivingID: &rec.ID,
				Type:        model.MovementEdit,
				Qty:         l.RequestedQty,
				RefNo:       rec.RecNo,
				OperatedBy:  uid,
				Note:        "receiving draft edited",
			})
		}
		return s.movRepo.AppendMany(txCtx, movements)
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastEvent("store:receivingChanged", map[string]interface{}{"id": id})
	return nil
}

func (s *receivingService) Approve(ctx context.Context, userID string, id string, req ApproveReceivingRequest) error {
	uid, err := s.resolveOperator(ctx, userID)
	if err != nil {
		return err
	}
	recID, err := parseUUID(id, "receiving id")
	if err != nil {
		return err
	}
	approved, err := mergeApproveLines(req.Lines)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := s.recRepo.FindByIDForUpdate(txCtx, recID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: receiving %s", apperr.ErrNotFound, id)
			}
			return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
		}
		if rec.Status != model.StatusDraft {
			return fmt.Errorf("%w: receiving %s is %s, only DRAFT can be approved", apperr.ErrInvalidState, rec.RecNo, rec.Status)
		}

		lineByItem := make(map[uuid.UUID]*model.ReceivingLine, len(rec.Lines))
		for i := range rec.Lines {
			lineByItem[rec.Lines[i].ItemID] = &rec.Lines[i]
		}

		totalApproved := 0
		movements := make([]model.StockMovement, 0, len(approved))
		for itemID, qty := range approved {
			line, ok := lineByItem[itemID]
			if !ok {
				return fmt.Errorf("%w: item %s is not on receiving %s", apperr.ErrNotFound, itemID, rec.RecNo)
			}
			if qty > line.RequestedQty {
				return fmt.Errorf("%w: approved qty %d exceeds requested %d for %s", apperr.ErrValidation, qty, line.RequestedQty, line.ItemName)
			}
			line.ApprovedQty = qty
			totalApproved += qty
			if err := s.recRepo.UpdateLine(txCtx, line); err != nil {
				return fmt.Errorf("%w: failed to update line: %v", apperr.ErrPersistence, err)
			}
			movements = append(movements, model.StockMovement{
				ItemID:      itemID,
				ReceivingID: &rec.ID,
				Type:        model.MovementApproved,
				Qty:         qty,
				RefNo:       rec.RecNo,
				OperatedBy:  uid,
				Note:        "receiving line approved",
			})
		}
		if totalApproved == 0 {
			return fmt.Errorf("%w: nothing approved, use reject to cancel the document", apperr.ErrValidation)
		}

		now := time.Now()
		if err := s.recRepo.TransitionStatus(txCtx, rec.ID, model.StatusDraft, model.StatusApproved, map[string]interface{}{
			"approved_by": uid,
			"approved_at": now,
		}); err != nil {
			return err
		}
		return s.movRepo.AppendMany(txCtx, movements)
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastEvent("store:receivingChanged", map[string]interface{}{"id": id, "status": model.StatusApproved})
	return nil
}

func (s *receivingService) DeliverToPlace(ctx context.Context, userID string, id string, req DeliverRequest) error {
	uid, err := s.resolveOperator(ctx, userID)
	if err != nil {
		return err
	}
	recID, err := parseUUID(id, "receiving id")
	if err != nil {
		return err
	}
	itemID, err := parseUUID(req.ItemID, "item id")
	if err != nil {
		return err
	}
	placeID, err := parseUUID(req.PlaceID, "place id")
	if err != nil {
		return err
	}
	if req.ReceiveQty < 0 || req.ScrapQty < 0 || req.ReceiveQty+req.ScrapQty == 0 {
		return fmt.Errorf("%w: delivery needs a positive receive or scrap quantity", apperr.ErrValidation)
	}

	var closed bool
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := s.recRepo.FindByIDForUpdate(txCtx, recID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: receiving %s", apperr.ErrNotFound, id)
			}
			return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
		}
		if rec.Status != model.StatusApproved {
			return fmt.Errorf("%w: receiving %s is %s, only APPROVED accepts deliveries", apperr.ErrInvalidState, rec.RecNo, rec.Status)
		}

		if _, err := s.placeRepo.FindByID(txCtx, placeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: place %s", apperr.ErrNotFound, req.PlaceID)
			}
			return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
		}

		var line *model.ReceivingLine
		for i := range rec.Lines {
			if rec.Lines[i].ItemID == itemID {
				line = &rec.Lines[i]
				break
			}
		}
		if line == nil {
			return fmt.Errorf("%w: item %s is not on receiving %s", apperr.ErrNotFound, req.ItemID, rec.RecNo)
		}

		if req.ReceiveQty+req.ScrapQty > line.Remaining() {
			return fmt.Errorf("%w: %d requested, only %d of %s remains", apperr.ErrOverDelivery, req.ReceiveQty+req.ScrapQty, line.Remaining(), line.ItemName)
		}

		line.ReceivedQty += req.ReceiveQty
		line.ScrapQty += req.ScrapQty
		if err := s.recRepo.UpdateLine(txCtx, line); err != nil {
			return fmt.Errorf("%w: failed to update line: %v", apperr.ErrPersistence, err)
		}

		if req.ReceiveQty > 0 {
			if err := s.itemRepo.Receive(txCtx, itemID, req.ReceiveQty); err != nil {
				return err
			}
			if err := s.piqRepo.UpsertOnReceive(txCtx, itemID, placeID, req.ReceiveQty, &uid); err != nil {
				return err
			}
			if err := s.movRepo.Append(txCtx, &model.StockMovement{
				ItemID:      itemID,
				PlaceID:     &placeID,
				ReceivingID: &rec.ID,
				Type:        model.MovementReceive,
				Qty:         req.ReceiveQty,
				RefNo:       rec.RecNo,
				OperatedBy:  uid,
				Note:        "received into place",
			}); err != nil {
				return fmt.Errorf("%w: failed to record movement: %v", apperr.ErrPersistence, err)
			}
		}

		if req.ScrapQty > 0 {
			if err := s.itemRepo.Scrap(txCtx, itemID, req.ScrapQty); err != nil {
				return err
			}
			if err := s.movRepo.Append(txCtx, &model.StockMovement{
				ItemID:      itemID,
				ReceivingID: &rec.ID,
				Type:        model.MovementScrap,
				Qty:         req.ScrapQty,
				RefNo:       rec.RecNo,
				OperatedBy:  uid,
				Note:        "scrapped on receipt",
			}); err != nil {
				return fmt.Errorf("%w: failed to record movement: %v", apperr.ErrPersistence, err)
			}
		}

		allHandled := true
		for i := range rec.Lines {
			if !rec.Lines[i].FullyHandled() {
				allHandled = false
				break
			}
		}
		if allHandled {
			now := time.Now()
			if err := s.recRepo.TransitionStatus(txCtx, rec.ID, model.StatusApproved, model.StatusClosed, map[string]interface{}{
				"closed_by": uid,
				"closed_at": now,
			}); err != nil {
				return err
			}
			if err := s.movRepo.Append(txCtx, &model.StockMovement{
				ItemID:      itemID,
				ReceivingID: &rec.ID,
				Type:        model.MovementClosed,
				Qty:         0,
				RefNo:       rec.RecNo,
				OperatedBy:  uid,
				Note:        "receiving fully delivered",
			}); err != nil {
				return fmt.Errorf("%w: failed to record movement: %v", apperr.ErrPersistence, err)
			}
			closed = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	payload := map[string]interface{}{"id": id}
	if closed {
		payload["status"] = model.StatusClosed
	}
	s.hub.BroadcastEvent("store:stockChanged", payload)
	return nil
}

func (s *receivingService) Close(ctx context.Context, userID string, id string) error {
	uid, err := s.resolveOperator(ctx, userID)
	if err != nil {
		return err
	}
	recID, err := parseUUID(id, "receiving id")
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := s.recRepo.FindByIDForUpdate(txCtx, recID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: receiving %s", apperr.ErrNotFound, id)
			}
			return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
		}
		if rec.Status != model.StatusApproved {
			return fmt.Errorf("%w: receiving %s is %s, only APPROVED can be closed", apperr.ErrInvalidState, rec.RecNo, rec.Status)
		}

		now := time.Now()
		if err := s.recRepo.TransitionStatus(txCtx, rec.ID, model.StatusApproved, model.StatusClosed, map[string]interface{}{
			"closed_by": uid,
			"closed_at": now,
		}); err != nil {
			return err
		}

		// Undelivered remainders are simply abandoned: no stock moved for
		// them, so there is nothing to unwind. CLOSED movements carry qty 0
		// like the auto-close path; the abandoned count goes in the note.
		movements := make([]model.StockMovement, 0, len(rec.Lines))
		for _, l := range rec.Lines {
			movements = append(movements, model.StockMovement{
				ItemID:      l.ItemID,
				ReceivingID: &rec.ID,
				Type:        model.MovementClosed,
				Qty:         0,
				RefNo:       rec.RecNo,
				OperatedBy:  uid,
				Note:        fmt.Sprintf("receiving closed manually, %d undelivered", l.Remaining()),
			})
		}
		return s.movRepo.AppendMany(txCtx, movements)
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastEvent("store:receivingChanged", map[string]interface{}{"id": id, "status": model.StatusClosed})
	return nil
}

func (s *receivingService) Reject(ctx context.Context, userID string, id string) error {
	uid, err := s.resolveOperator(ctx, userID)
	if err != nil {
		return err
	}
	recID, err := parseUUID(id, "receiving id")
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := s.recRepo.FindByIDForUpdate(txCtx, recID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: receiving %s", apperr.ErrNotFound, id)
			}
			return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
		}
		if rec.Status != model.StatusDraft && rec.Status != model.StatusApproved {
			return fmt.Errorf("%w: receiving %s is %s and cannot be rejected", apperr.ErrInvalidState, rec.RecNo, rec.Status)
		}
		for _, l := range rec.Lines {
			if l.ReceivedQty > 0 || l.ScrapQty > 0 {
				return fmt.Errorf("%w: receiving %s already moved stock for %s, close it instead", apperr.ErrInvalidState, rec.RecNo, l.ItemName)
			}
		}

		movements := make([]model.StockMovement, 0, len(rec.Lines))
		for i := range rec.Lines {
			rec.Lines[i].ApprovedQty = 0
			if err := s.recRepo.UpdateLine(txCtx, &rec.Lines[i]); err != nil {
				return fmt.Errorf("%w: failed to update line: %v", apperr.ErrPersistence, err)
			}
			movements = append(movements, model.StockMovement{
				ItemID:      rec.Lines[i].ItemID,
				ReceivingID: &rec.ID,
				Type:        model.MovementCancelled,
				Qty:         rec.Lines[i].RequestedQty,
				RefNo:       rec.RecNo,
				OperatedBy:  uid,
				Note:        "receiving rejected",
			})
		}

		now := time.Now()
		if err := s.recRepo.TransitionStatus(txCtx, rec.ID, rec.Status, model.StatusCancelled, map[string]interface{}{
			"cancelled_by": uid,
			"cancelled_at": now,
		}); err != nil {
			return err
		}
		return s.movRepo.AppendMany(txCtx, movements)
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastEvent("store:receivingChanged", map[string]interface{}{"id": id, "status": model.StatusCancelled})
	return nil
}

func (s *receivingService) Get(ctx context.Context, id string) (*model.Receiving, error) {
	recID, err := parseUUID(id, "receiving id")
	if err != nil {
		return nil, err
	}
	rec, err := s.recRepo.FindByID(ctx, recID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: receiving %s", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return rec, nil
}

func (s *receivingService) List(ctx context.Context, filter ReceivingListFilter) ([]model.Receiving, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.recRepo.List(ctx, filter.Page, filter.Limit, filter.Search, filter.Statuses)
}
