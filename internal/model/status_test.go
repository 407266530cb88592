package model

import "testing"

func TestDocStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to DocStatus
		ok       bool
	}{
		{StatusDraft, StatusApproved, true},
		{StatusDraft, StatusCancelled, true},
		{StatusDraft, StatusClosed, false},
		{StatusApproved, StatusClosed, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusDraft, false},
		{StatusClosed, StatusApproved, false},
		{StatusClosed, StatusCancelled, false},
		{StatusCancelled, StatusDraft, false},
		{StatusCancelled, StatusClosed, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.ok {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestDocStatusTerminal(t *testing.T) {
	if StatusDraft.Terminal() || StatusApproved.Terminal() {
		t.Error("DRAFT and APPROVED must not be terminal")
	}
	if !StatusClosed.Terminal() || !StatusCancelled.Terminal() {
		t.Error("CLOSED and CANCELLED must be terminal")
	}
}

func TestDocStatusValid(t *testing.T) {
	for _, s := range []DocStatus{StatusDraft, StatusApproved, StatusClosed, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []DocStatus{"", "draft", "DONE"} {
		if s.Valid() {
			t.Errorf("%q should not be valid", s)
		}
	}
}

func TestReceivingLineRemaining(t *testing.T) {
	l := ReceivingLine{RequestedQty: 10, ApprovedQty: 8, ReceivedQty: 3, ScrapQty: 2}
	if got := l.Remaining(); got != 3 {
		t.Errorf("Remaining() = %d, want 3", got)
	}
	if l.FullyHandled() {
		t.Error("line with remainder must not be fully handled")
	}
	l.ReceivedQty = 6
	if !l.FullyHandled() {
		t.Error("line with received+scrap == approved must be fully handled")
	}
}

func TestIssueLineReservedRemaining(t *testing.T) {
	l := IssueLine{RequestedQty: 10, IssuedQty: 4, ReturnQty: 0}
	if got := l.ReservedRemaining(); got != 6 {
		t.Errorf("ReservedRemaining() = %d, want 6", got)
	}
	// A return does not put stock back into the reservation.
	l.IssuedQty = 3
	l.ReturnQty = 1
	if got := l.ReservedRemaining(); got != 6 {
		t.Errorf("ReservedRemaining() after return = %d, want 6", got)
	}
	l = IssueLine{RequestedQty: 5, IssuedQty: 5, ReturnQty: 2}
	if got := l.ReservedRemaining(); got != 0 {
		t.Errorf("ReservedRemaining() must clamp at 0, got %d", got)
	}
}

func TestPlaceItemQuantityAvailableAtPlace(t *testing.T) {
	q := PlaceItemQuantity{Total: 20, Issued: 5, Completed: 8}
	if got := q.AvailableAtPlace(); got != 7 {
		t.Errorf("AvailableAtPlace() = %d, want 7", got)
	}
}
