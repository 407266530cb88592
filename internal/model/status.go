package model

// DocStatus is the lifecycle state shared by Receiving and Issue documents.
type DocStatus string

const (
	StatusDraft     DocStatus = "DRAFT"
	StatusApproved  DocStatus = "APPROVED"
	StatusClosed    DocStatus = "CLOSED"
	StatusCancelled DocStatus = "CANCELLED"
)

// transitions is the full set of legal status moves. Anything absent here is
// rejected, so CLOSED and CANCELLED are terminal.
var transitions = map[DocStatus][]DocStatus{
	StatusDraft:    {StatusApproved, StatusCancelled},
	StatusApproved: {StatusClosed, StatusCancelled},
}

// Valid reports whether s is one of the known statuses.
func (s DocStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s DocStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether moving from s to next is legal.
func (s DocStatus) CanTransition(next DocStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}
