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
type CreateIssueRequest struct {
	Reason string        `json:"reason"`
	Remark string        `json:"remark"`
	Lines  []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

type UpdateIssueRequest struct {
	Reason string        `json:"reason"`
	Remark string        `json:"remark"`
	Lines  []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

type ApproveIssueRequest struct {
	Lines []ApproveLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// IssueFromPlaceRequest distributes part of an approved line out of a place.
type IssueFromPlaceRequest struct {
	ItemID  string `json:"item_id" binding:"required"`
	PlaceID string `json:"place_id" binding:"required"`
	Qty     int    `json:"qty" binding:"required,gt=0"`
}

// ReturnRequest puts previously distributed stock back into a place.
type ReturnRequest struct {
	ItemID  string `json:"item_id" binding:"required"`
	PlaceID string `json:"place_id" binding:"required"`
	Qty     int    `json:"qty" binding:"required,gt=0"`
}

type IssueListFilter struct {
	Page     int
	Limit    int
	Search   string
	Statuses []model.DocStatus
}

// IssueService drives the outbound workflow. The reservation made at create is
// the only hold on item stock: approve and distribute consume it, and
// close/reject release whatever is left of it.
type IssueService interface {
	Create(ctx context.Context, userID string, req CreateIssueRequest) (*model.Issue, error)
	UpdateDraft(ctx context.Context, userID string, id string, req UpdateIssueRequest) error
	Approve(ctx context.Context, userID string, id string, req ApproveIssueRequest) error
	IssueFromPlace(ctx context.Context, userID string, id string, req IssueFromPlaceRequest) error
	Return(ctx context.Context, userID string, id string, req ReturnRequest) error
	Close(ctx context.Context, userID string, id string) error
	Reject(ctx context.Context, userID string, id string) error
	Get(ctx context.Context, id string) (*model.Issue, error)
	List(ctx context.Context, filter IssueListFilter) ([]model.Issue, int64, error)
	ListApprovedByItem(ctx context.Context, itemID string) ([]model.Issue, error)
}

type issueService struct {
	issRepo   repository.IssueRepository
	itemRepo  repository.ItemRepository
	placeRepo repository.PlaceRepository
	piqRepo   repository.PlaceQuantityRepository
	movRepo   repository.MovementRepository
	userRepo  repository.UserRepository
	txManager repository.TransactionManager
	hub       *ws.Hub
}

func NewIssueService(
	issRepo repository.IssueRepository,
	itemRepo repository.ItemRepository,
	placeRepo repository.PlaceRepository,
	piqRepo repository.PlaceQuantityRepository,
	movRepo repository.MovementRepository,
	userRepo repository.UserRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) IssueService {
	return &issueService{
		issRepo:   issRepo,
		itemRepo:  itemRepo,
		placeRepo: placeRepo,
		piqRepo:   piqRepo,
		movRepo:   movRepo,
		userRepo:  userRepo,
		txManager: txManager,
		hub:       hub,
	}
}

func (s *issueService) resolveOperator(ctx context.Context, userID string) (uuid.UUID, error) {
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

func (s *issueService) nextIssNo(ctx context.Context) (string, error) {
	count, err := s.issRepo.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return fmt.Sprintf("ISS-%d-%05d", time.Now().Year(), count+1), nil
}

func (s *issueService) lockIssue(ctx context.Context, id uuid.UUID) (*model.Issue, error) {
	iss, err := s.issRepo.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: issue %s", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return iss, nil
}

func (s *issueService) Create(ctx context.Context, userID string, req CreateIssueRequest) (*model.Issue, error) {
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

	var iss *model.Issue
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		items, err := s.itemRepo.FindByIDs(txCtx, ids)
		if err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
		}
		byID, err := itemNamesByID(items, merged)
		if err != nil {
			return err
		}

		issNo, err := s.nextIssNo(txCtx)
		if err != nil {
			return err
		}

		doc := model.Issue{
			IssNo:     issNo,
			Reason:    req.Reason,
			Remark:    req.Remark,
			Status:    model.StatusDraft,
			CreatedBy: uid,
		}
		for _, m := range merged {
			it := byID[m.ItemID]
			doc.Lines = append(doc.Lines, model.IssueLine{
				ItemID:       m.ItemID,
				ItemName:     it.Name,
				Unit:         it.Unit,
				RequestedQty: m.Qty,
			})
		}
		if err := s.issRepo.Create(txCtx, &doc); err != nil {
			return fmt.Errorf("%w: failed to create issue: %v", apperr.ErrPersistence, err)
		}

		// Reserve the full requested quantity up front. A failed guard rolls
		// back the document with it, so no partially reserved issue survives.
		movements := make([]model.StockMovement, 0, len(doc.Lines))
		for _, l := range doc.Lines {
			if err := s.itemRepo.ReserveForIssue(txCtx, l.ItemID, l.RequestedQty); err != nil {
				if errors.Is(err, apperr.ErrInsufficientStock) {
					return fmt.Errorf("%w: not enough available stock of %s", apperr.ErrInsufficientStock, l.ItemName)
				}
				return err
			}
			movements = append(movements, model.StockMovement{
				ItemID:     l.ItemID,
				IssueID:    &doc.ID,
				Type:       model.MovementCreate,
				Qty:        l.RequestedQty,
				RefNo:      doc.IssNo,
				OperatedBy: uid,
				Note:       "issue draft created, stock reserved",
			})
		}
		if err := s.movRepo.AppendMany(txCtx, movements); err != nil {
			return fmt.Errorf("%w: failed to record movements: %v", apperr.ErrPersistence, err)
		}

		iss = &doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent("store:issueChanged", map[string]interface{}{
		"id": iss.ID.String(), "iss_no": iss.IssNo, "status": iss.Status,
	})
	return iss, nil
}

func (s *issueService) UpdateDraft(ctx context.Context, userID string, id string, req UpdateIssueRequest) error {
	uid, err := s.resolveOperator(ctx, userID)
	if err != nil {
		return err
	}
	issID, err := parseUUID(id, "issue id")
	if err != nil {
		return err
	}
	merged, err := mergeLineRequests(req.Lines)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		iss, err := s.lockIssue(txCtx, issID)
		if err != nil {
			return err
		}
		if iss.Status != model.StatusDraft {
			return fmt.Errorf("%w: issue %s is %s, only DRAFT can be edited", apperr.ErrInvalidState, iss.IssNo, iss.Status)
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

		// Release the old reservations before taking the new ones. In DRAFT
		// nothing has been distributed, so the old hold is exactly
		// RequestedQty per line.
		for _, l := range iss.Lines {
			if err := s.itemRepo.ReleaseReservation(txCtx, l.ItemID, l.RequestedQty); err != nil {
				return err
			}
		}

		lines := make([]model.IssueLine, 0, len(merged))
		movements := make([]model.StockMovement, 0, len(merged))
		for _, m := range merged {
			it := byID[m.ItemID]
			if err := s.itemRepo.ReserveForIssue(txCtx, m.ItemID, m.Qty); err != nil {
				if errors.Is(err, apperr.ErrInsufficientStock) {
					return fmt.Errorf("%w: not enough available stock of %s", apperr.ErrInsufficientStock, it.Name)
				}
				return err
			}
			lines = append(lines, model.IssueLine{
				IssueID:      iss.ID,
				ItemID:       m.ItemID,
				ItemName:     it.Name,
				Unit:         it.Unit,
				RequestedQty: m.Qty,
			})
			movements = append(movements, model.StockMovement{
				ItemID:     m.ItemID,
				IssueID:    &iss.ID,
				Type:       model.MovementEdit,
				Qty:        m.Qty,
				RefNo:      iss.IssNo,
				OperatedBy: uid,
				Note:       "issue draft edited, reservation re-sized",
			})
		}

		if err := s.issRepo.ReplaceLines(txCtx, iss.ID, lines); err != nil {
			return fmt.Errorf("%w: failed to replace lines: %v", apperr.ErrPersistence, err)
		}

		iss.Reason = req.Reason
		iss.Remark = req.Remark
		if err := s.issRepo.Save(txCtx, iss); err != nil {
			return fmt.Errorf("%w: failed to update issue: %v", apperr.ErrPersistence, err)
		}
		return s.movRepo.AppendMany(txCtx, movements)
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastEvent("store:issueChanged", map[string]interface{}{"id": id})
	return nil
}

func (s *issueService) Approve(ctx context.Context, userID string, id string, req ApproveIssueRequest) error {
	uid, err := s.resolveOperator(ctx, userID)
	if err != nil {
		return err
	}
	issID, err := parseUUID(id, "issue id")
	if err != nil {
		return err
	}
	approved, err := mergeApproveLines(req.Lines)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		iss, err := s.lockIssue(txCtx, issID)
		if err != nil {
			return err
		}
		if iss.Status != model.StatusDraft {
			return fmt.Errorf("%w: issue %s is %s, only DRAFT can be approved", apperr.ErrInvalidState, iss.IssNo, iss.Status)
		}

		lineByItem := make(map[uuid.UUID]*model.IssueLine, len(iss.Lines))
		for i := range iss.Lines {
			lineByItem[iss.Lines[i].ItemID] = &iss.Lines[i]
		}

		// Approval caps what may be distributed; the reservation taken at
		// create is untouched here, so available stock does not move.
		totalApproved := 0
		movements := make([]model.StockMovement, 0, len(approved))
		for itemID, qty := range approved {
			line, ok := lineByItem[itemID]
			if !ok {
				return fmt.Errorf("%w: item %s is not on issue %s", apperr.ErrNotFound, itemID, iss.IssNo)
			}
			if qty > line.RequestedQty {
				return fmt.Errorf("%w: approved qty %d exceeds requested %d for %s", apperr.ErrValidation, qty, line.RequestedQty, line.ItemName)
			}
			line.ApprovedQty = qty
			totalApproved += qty
			if err := s.issRepo.UpdateLine(txCtx, line); err != nil {
				return fmt.Errorf("%w: failed to update line: %v", apperr.ErrPersistence, err)
			}
			movements = append(movements, model.StockMovement{
				ItemID:     itemID,
				IssueID:    &iss.ID,
				Type:       model.MovementIssue,
				Qty:        qty,
				RefNo:      iss.IssNo,
				OperatedBy: uid,
				Note:       "issue line approved",
			})
		}
		if totalApproved == 0 {
			return fmt.Errorf("%w: nothing approved, use reject to cancel the document", apperr.ErrValidation)
		}

		now := time.Now()
		if err := s.issRepo.TransitionStatus(txCtx, iss.ID, model.StatusDraft, model.StatusApproved, map[string]interface{}{
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

	s.hub.BroadcastEvent("store:issueChanged", map[string]interface{}{"id": id, "status": model.StatusApproved})
	return nil
}

func (s *issueService) IssueFromPlace(ctx context.Context, userID string, id string, req IssueFromPlaceRequest) error {
	uid, err := s.resolveOperator(ctx, userID)
	if err != nil {
		return err
	}
	issID, err := parseUUID(id, "issue id")
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
	if req.Qty <= 0 {
		return fmt.Errorf("%w: qty must be positive", apperr.ErrValidation)
	}

	var closed bool
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		iss, err := s.lockIssue(txCtx, issID)
		if err != nil {
			return err
		}
		if iss.Status != model.StatusApproved {
			return fmt.Errorf("%w: issue %s is %s, only APPROVED can distribute", apperr.ErrInvalidState, iss.IssNo, iss.Status)
		}

		if _, err := s.placeRepo.FindByID(txCtx, placeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: place %s", apperr.ErrNotFound, req.PlaceID)
			}
			return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
		}

		var line *model.IssueLine
		for i := range iss.Lines {
			if iss.Lines[i].ItemID == itemID {
				line = &iss.Lines[i]
				break
			}
		}
		if line == nil {
			return fmt.Errorf("%w: item %s is not on issue %s", apperr.ErrNotFound, req.ItemID, iss.IssNo)
		}
		if req.Qty > line.ApprovedQty {
			return fmt.Errorf("%w: %d requested, only %d of %s still approved", apperr.ErrOverIssue, req.Qty, line.ApprovedQty, line.ItemName)
		}

		if err := s.piqRepo.MarkIssued(txCtx, itemID, placeID, req.Qty); err != nil {
			if errors.Is(err, apperr.ErrInsufficientStock) {
				return fmt.Errorf("%w: place does not hold %d of %s", apperr.ErrInsufficientStock, req.Qty, line.ItemName)
			}
			return err
		}
		if err := s.itemRepo.ConfirmCompleted(txCtx, itemID, req.Qty); err != nil {
			return err
		}

		line.IssuedQty += req.Qty
		line.ApprovedQty -= req.Qty
		if err := s.issRepo.UpdateLine(txCtx, line); err != nil {
			return fmt.Errorf("%w: failed to update line: %v", apperr.ErrPersistence, err)
		}

		if err := s.movRepo.Append(txCtx, &model.StockMovement{
			ItemID:     itemID,
			PlaceID:    &placeID,
			IssueID:    &iss.ID,
			Type:       model.MovementIssue,
			Qty:        req.Qty,
			RefNo:      iss.IssNo,
			OperatedBy: uid,
			Note:       "issued from place",
		}); err != nil {
			return fmt.Errorf("%w: failed to record movement: %v", apperr.ErrPersistence, err)
		}

		allDone := true
		for i := range iss.Lines {
			if iss.Lines[i].ApprovedQty > 0 {
				allDone = false
				break
			}
		}
		if allDone {
			if err := s.finalizeClose(txCtx, iss, uid, "issue fully distributed"); err != nil {
				return err
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

// finalizeClose releases the unconsumed remainder of every line's reservation
// and flips the document to CLOSED. Caller holds the row lock.
func (s *issueService) finalizeClose(ctx context.Context, iss *model.Issue, uid uuid.UUID, note string) error {
	movements := make([]model.StockMovement, 0, len(iss.Lines))
	for i := range iss.Lines {
		l := &iss.Lines[i]
		if remaining := l.ReservedRemaining(); remaining > 0 {
			if err := s.itemRepo.ReleaseReservation(ctx, l.ItemID, remaining); err != nil {
				return err
			}
			movements = append(movements, model.StockMovement{
				ItemID:     l.ItemID,
				IssueID:    &iss.ID,
				Type:       model.MovementAdjust,
				Qty:        remaining,
				RefNo:      iss.IssNo,
				OperatedBy: uid,
				Note:       "reservation released on close",
			})
		}
		if l.ApprovedQty != 0 {
			l.ApprovedQty = 0
			if err := s.issRepo.UpdateLine(ctx, l); err != nil {
				return fmt.Errorf("%w: failed to update line: %v", apperr.ErrPersistence, err)
			}
		}
	}

	now := time.Now()
	if err := s.issRepo.TransitionStatus(ctx, iss.ID, model.StatusApproved, model.StatusClosed, map[string]interface{}{
		"closed_by": uid,
		"closed_at": now,
	}); err != nil {
		return err
	}

	if len(iss.Lines) > 0 {
		movements = append(movements, model.StockMovement{
			ItemID:     iss.Lines[0].ItemID,
			IssueID:    &iss.ID,
			Type:       model.MovementClosed,
			Qty:        0,
			RefNo:      iss.IssNo,
			OperatedBy: uid,
			Note:       note,
		})
	}
	return s.movRepo.AppendMany(ctx, movements)
}

func (s *issueService) Return(ctx context.Context, userID string, id string, req ReturnRequest) error {
	uid, err := s.resolveOperator(ctx, userID)
	if err != nil {
		return err
	}
	issID, err := parseUUID(id, "issue id")
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
	if req.Qty <= 0 {
		return fmt.Errorf("%w: qty must be positive", apperr.ErrValidation)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		iss, err := s.lockIssue(txCtx, issID)
		if err != nil {
			return err
		}
		// Returns are legal after distribution, including on a closed issue.
		if iss.Status != model.StatusApproved && iss.Status != model.StatusClosed {
			return fmt.Errorf("%w: issue %s is %s, nothing has been distributed", apperr.ErrInvalidState, iss.IssNo, iss.Status)
		}

		var line *model.IssueLine
		for i := range iss.Lines {
			if iss.Lines[i].ItemID == itemID {
				line = &iss.Lines[i]
				break
			}
		}
		if line == nil {
			return fmt.Errorf("%w: item %s is not on issue %s", apperr.ErrNotFound, req.ItemID, iss.IssNo)
		}
		if req.Qty > line.IssuedQty {
			return fmt.Errorf("%w: cannot return %d, only %d of %s was issued", apperr.ErrValidation, req.Qty, line.IssuedQty, line.ItemName)
		}

		if err := s.piqRepo.ReverseIssued(txCtx, itemID, placeID, req.Qty); err != nil {
			if errors.Is(err, apperr.ErrInsufficientStock) {
				return fmt.Errorf("%w: place has no matching issued quantity of %s", apperr.ErrInsufficientStock, line.ItemName)
			}
			return err
		}
		if err := s.itemRepo.ReverseCompleted(txCtx, itemID, req.Qty); err != nil {
			return err
		}

		line.IssuedQty -= req.Qty
		line.ReturnQty += req.Qty
		if err := s.issRepo.UpdateLine(txCtx, line); err != nil {
			return fmt.Errorf("%w: failed to update line: %v", apperr.ErrPersistence, err)
		}

		return s.movRepo.Append(txCtx, &model.StockMovement{
			ItemID:     itemID,
			PlaceID:    &placeID,
			IssueID:    &iss.ID,
			Type:       model.MovementReturn,
			Qty:        req.Qty,
			RefNo:      iss.IssNo,
			OperatedBy: uid,
			Note:       "returned to place",
		})
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastEvent("store:stockChanged", map[string]interface{}{"id": id})
	return nil
}

func (s *issueService) Close(ctx context.Context, userID string, id string) error {
	uid, err := s.resolveOperator(ctx, userID)
	if err != nil {
		return err
	}
	issID, err := parseUUID(id, "issue id")
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		iss, err := s.lockIssue(txCtx, issID)
		if err != nil {
			return err
		}
		if iss.Status != model.StatusApproved {
			return fmt.Errorf("%w: issue %s is %s, only APPROVED can be closed", apperr.ErrInvalidState, iss.IssNo, iss.Status)
		}
		return s.finalizeClose(txCtx, iss, uid, "issue closed manually")
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastEvent("store:issueChanged", map[string]interface{}{"id": id, "status": model.StatusClosed})
	return nil
}

func (s *issueService) Reject(ctx context.Context, userID string, id string) error {
	uid, err := s.resolveOperator(ctx, userID)
	if err != nil {
		return err
	}
	issID, err := parseUUID(id, "issue id")
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		iss, err := s.lockIssue(txCtx, issID)
		if err != nil {
			return err
		}
		if iss.Status != model.StatusDraft && iss.Status != model.StatusApproved {
			return fmt.Errorf("%w: issue %s is %s and cannot be rejected", apperr.ErrInvalidState, iss.IssNo, iss.Status)
		}
		for _, l := range iss.Lines {
			if l.IssuedQty > 0 || l.ReturnQty > 0 {
				return fmt.Errorf("%w: issue %s already moved stock for %s, close it instead", apperr.ErrInvalidState, iss.IssNo, l.ItemName)
			}
		}

		// Nothing distributed, so each line's reservation is still its full
		// requested quantity.
		movements := make([]model.StockMovement, 0, len(iss.Lines))
		for i := range iss.Lines {
			l := &iss.Lines[i]
			if err := s.itemRepo.ReleaseReservation(txCtx, l.ItemID, l.RequestedQty); err != nil {
				return err
			}
			l.ApprovedQty = 0
			if err := s.issRepo.UpdateLine(txCtx, l); err != nil {
				return fmt.Errorf("%w: failed to update line: %v", apperr.ErrPersistence, err)
			}
			movements = append(movements, model.StockMovement{
				ItemID:     l.ItemID,
				IssueID:    &iss.ID,
				Type:       model.MovementCancelled,
				Qty:        l.RequestedQty,
				RefNo:      iss.IssNo,
				OperatedBy: uid,
				Note:       "issue rejected, reservation released",
			})
		}

		now := time.Now()
		if err := s.issRepo.TransitionStatus(txCtx, iss.ID, iss.Status, model.StatusCancelled, map[string]interface{}{
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

	s.hub.BroadcastEvent("store:issueChanged", map[string]interface{}{"id": id, "status": model.StatusCancelled})
	return nil
}

func (s *issueService) Get(ctx context.Context, id string) (*model.Issue, error) {
	issID, err := parseUUID(id, "issue id")
	if err != nil {
		return nil, err
	}
	iss, err := s.issRepo.FindByID(ctx, issID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: issue %s", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
	}
	return iss, nil
}

func (s *issueService) List(ctx context.Context, filter IssueListFilter) ([]model.Issue, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.issRepo.List(ctx, filter.Page, filter.Limit, filter.Search, filter.Statuses)
}

func (s *issueService) ListApprovedByItem(ctx context.Context, itemID string) ([]model.Issue, error) {
	id, err := parseUUID(itemID, "item id")
	if err != nil {
		return nil, err
	}
	return s.issRepo.ListApprovedByItem(ctx, id)
}
