package model

import (
	"time"

	"github.com/google/uuid"
)

// Receiving is an inbound goods document: requested lines move to APPROVED once
// quantities are confirmed, then stock is delivered to places line by line until
// the document auto-closes.
type Receiving struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecNo  string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"rec_no"` // e.g. RCV-2025-00023
	Source string    `gorm:"type:varchar(255)" json:"source"`                     // supplier or plant name
	Remark string    `gorm:"type:text" json:"remark"`

	Status DocStatus       `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	Lines  []ReceivingLine `gorm:"foreignKey:ReceivingID;constraint:OnDelete:CASCADE" json:"lines"`

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

// ReceivingLine is one item-row of a Receiving.
// ReceivedQty + ScrapQty never exceeds ApprovedQty, and ApprovedQty never
// exceeds RequestedQty.
type ReceivingLine struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReceivingID uuid.UUID `gorm:"type:uuid;not null;index" json:"receiving_id"`
	ItemID      uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Item        StoreItem `gorm:"foreignKey:ItemID" json:"-"`
	ItemName    string    `gorm:"type:varchar(255)" json:"item_name"`
	Unit        string    `gorm:"type:varchar(50)" json:"unit"`

	RequestedQty int `gorm:"type:int;not null" json:"requested_qty"`
	ApprovedQty  int `gorm:"type:int;not null;default:0" json:"approved_qty"`
	ReceivedQty  int `gorm:"type:int;not null;default:0" json:"received_qty"`
	ScrapQty     int `gorm:"type:int;not null;default:0" json:"scrap_qty"`
}

// Remaining is the approved quantity not yet delivered or scrapped.
func (l ReceivingLine) Remaining() int {
	return l.ApprovedQty - (l.ReceivedQty + l.ScrapQty)
}

// FullyHandled reports whether the line needs no further deliveries.
func (l ReceivingLine) FullyHandled() bool {
	return l.ReceivedQty+l.ScrapQty >= l.ApprovedQty
}
