package model

import (
	"time"

	"github.com/google/uuid"
)

// Issue is an outbound goods document. Creating it reserves stock
// (available -> reserved_for_issue); distributing from a place consumes the
// reservation into completed; reject/close release whatever is still reserved.
type Issue struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	IssNo  string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"iss_no"` // e.g. ISS-2025-00001
	Reason string    `gorm:"type:varchar(255)" json:"reason"`
	Remark string    `gorm:"type:text" json:"remark"`

	Status DocStatus   `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	Lines  []IssueLine `gorm:"foreignKey:IssueID;constraint:OnDelete:CASCADE" json:"lines"`

	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by"`
	ApprovedBy  *uuid.UUID `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt  *time.Time `json:"approved_at"`
	ClosedBy    *uuid.UUID `gorm:"type:uuid" json:"closed_by"`
	ClosedAt    *time.Time `json:"closed_at"`
	CancelledBy *uuid.UUID `gorm:"type:uuid" json:"cancelled_by"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IssueLine is one item-row of an Issue. ApprovedQty holds the quantity that
// remains to distribute: Approve sets it, each distribution decrements it, and
// returns do not restore it.
type IssueLine struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	IssueID  uuid.UUID `gorm:"type:uuid;not null;index" json:"issue_id"`
	ItemID   uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Item     StoreItem `gorm:"foreignKey:ItemID" json:"-"`
	ItemName string    `gorm:"type:varchar(255)" json:"item_name"`
	Unit     string    `gorm:"type:varchar(50)" json:"unit"`

	RequestedQty int `gorm:"type:int;not null" json:"requested_qty"`
	ApprovedQty  int `gorm:"type:int;not null;default:0" json:"approved_qty"`
	IssuedQty    int `gorm:"type:int;not null;default:0" json:"issued_qty"`
	ReturnQty    int `gorm:"type:int;not null;default:0" json:"return_qty"`
}

// ReservedRemaining is the quantity still held in reserved_for_issue on behalf
// of this line: the reservation made at create minus everything distributed so
// far (a return moves stock completed -> available, not back into the
// reservation, so returned quantity still counts as consumed here).
func (l IssueLine) ReservedRemaining() int {
	r := l.RequestedQty - l.IssuedQty - l.ReturnQty
	if r < 0 {
		return 0
	}
	return r
}
