package service

import (
	"fmt"

	"github.com/Ashutoshverma77/store-app-be/internal/apperr"
	"github.com/Ashutoshverma77/store-app-be/internal/model"

	"github.com/google/uuid"
)

// LineRequest is one submitted item-row for a Receiving or Issue draft.
type LineRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	ItemName string `json:"item_name"`
	Qty      int    `json:"qty" binding:"required,gt=0"`
	Unit     string `json:"unit"`
}

// ApproveLineRequest carries the per-line approved quantity for a workflow
// approval. Zero is allowed: an approver may strike a line.
type ApproveLineRequest struct {
	ItemID      string `json:"item_id" binding:"required"`
	ApprovedQty int    `json:"approved_qty" binding:"min=0"`
}

type mergedLine struct {
	ItemID   uuid.UUID
	ItemName string
	Unit     string
	Qty      int
}

// mergeLineRequests validates and normalizes submitted lines: ids must parse,
// quantities must be positive integers, and duplicate item rows are merged by
// summing. Order of first appearance is preserved.
func mergeLineRequests(lines []LineRequest) ([]mergedLine, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no lines submitted", apperr.ErrValidation)
	}

	var order []uuid.UUID
	byID := make(map[uuid.UUID]*mergedLine, len(lines))

	for i, l := range lines {
		id, err := uuid.Parse(l.ItemID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid item_id at line %d", apperr.ErrValidation, i)
		}
		if l.Qty <= 0 {
			return nil, fmt.Errorf("%w: non-positive qty at line %d", apperr.ErrValidation, i)
		}

		if prev, ok := byID[id]; ok {
			prev.Qty += l.Qty
			if prev.ItemName == "" {
				prev.ItemName = l.ItemName
			}
			if prev.Unit == "" {
				prev.Unit = l.Unit
			}
			continue
		}
		byID[id] = &mergedLine{ItemID: id, ItemName: l.ItemName, Unit: l.Unit, Qty: l.Qty}
		order = append(order, id)
	}

	merged := make([]mergedLine, 0, len(order))
	for _, id := range order {
		merged = append(merged, *byID[id])
	}
	return merged, nil
}

// mergeApproveLines validates approval rows and merges duplicates by summing.
func mergeApproveLines(lines []ApproveLineRequest) (map[uuid.UUID]int, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no lines submitted", apperr.ErrValidation)
	}
	merged := make(map[uuid.UUID]int, len(lines))
	for i, l := range lines {
		id, err := uuid.Parse(l.ItemID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid item_id at line %d", apperr.ErrValidation, i)
		}
		if l.ApprovedQty < 0 {
			return nil, fmt.Errorf("%w: negative approved_qty at line %d", apperr.ErrValidation, i)
		}
		merged[id] += l.ApprovedQty
	}
	return merged, nil
}

// itemNamesByID resolves every referenced item or fails with ErrNotFound
// listing the first missing id.
func itemNamesByID(items []model.StoreItem, want []mergedLine) (map[uuid.UUID]model.StoreItem, error) {
	byID := make(map[uuid.UUID]model.StoreItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	for _, m := range want {
		if _, ok := byID[m.ItemID]; !ok {
			return nil, fmt.Errorf("%w: item %s", apperr.ErrNotFound, m.ItemID)
		}
	}
	return byID, nil
}

func parseUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", apperr.ErrValidation, field)
	}
	return id, nil
}
