package service

import (
	"errors"
	"testing"

	"github.com/Ashutoshverma77/store-app-be/internal/apperr"

	"github.com/google/uuid"
)

func TestMergeLineRequests_MergesDuplicatesPreservingOrder(t *testing.T) {
	a := uuid.NewString()
	b := uuid.NewString()

	merged, err := mergeLineRequests([]LineRequest{
		{ItemID: a, ItemName: "Bolt M8", Qty: 3, Unit: "pcs"},
		{ItemID: b, ItemName: "Washer", Qty: 10, Unit: "pcs"},
		{ItemID: a, Qty: 2},
	})
	if err != nil {
		t.Fatalf("mergeLineRequests: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged lines, got %d", len(merged))
	}
	if merged[0].ItemID.String() != a || merged[0].Qty != 5 {
		t.Errorf("first line = %s qty %d, want %s qty 5", merged[0].ItemID, merged[0].Qty, a)
	}
	if merged[0].ItemName != "Bolt M8" || merged[0].Unit != "pcs" {
		t.Errorf("duplicate must keep the first non-empty name/unit, got %q/%q", merged[0].ItemName, merged[0].Unit)
	}
	if merged[1].ItemID.String() != b || merged[1].Qty != 10 {
		t.Errorf("second line = %s qty %d, want %s qty 10", merged[1].ItemID, merged[1].Qty, b)
	}
}

func TestMergeLineRequests_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		lines []LineRequest
	}{
		{"empty", nil},
		{"bad uuid", []LineRequest{{ItemID: "not-a-uuid", Qty: 1}}},
		{"zero qty", []LineRequest{{ItemID: uuid.NewString(), Qty: 0}}},
		{"negative qty", []LineRequest{{ItemID: uuid.NewString(), Qty: -4}}},
	}
	for _, c := range cases {
		if _, err := mergeLineRequests(c.lines); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", c.name, err)
		}
	}
}

func TestMergeApproveLines(t *testing.T) {
	a := uuid.New()
	got, err := mergeApproveLines([]ApproveLineRequest{
		{ItemID: a.String(), ApprovedQty: 3},
		{ItemID: a.String(), ApprovedQty: 2},
	})
	if err != nil {
		t.Fatalf("mergeApproveLines: %v", err)
	}
	if got[a] != 5 {
		t.Errorf("merged approved qty = %d, want 5", got[a])
	}

	if _, err := mergeApproveLines(nil); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("empty input: expected ErrValidation, got %v", err)
	}
	if _, err := mergeApproveLines([]ApproveLineRequest{{ItemID: a.String(), ApprovedQty: -1}}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("negative qty: expected ErrValidation, got %v", err)
	}
	// Zero means the approver struck the line, it is not an error.
	if _, err := mergeApproveLines([]ApproveLineRequest{{ItemID: a.String(), ApprovedQty: 0}}); err != nil {
		t.Errorf("zero qty should be accepted, got %v", err)
	}
}

func TestParseUUID(t *testing.T) {
	id := uuid.New()
	got, err := parseUUID(id.String(), "item id")
	if err != nil || got != id {
		t.Fatalf("parseUUID round trip failed: %v", err)
	}
	if _, err := parseUUID("nope", "item id"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
