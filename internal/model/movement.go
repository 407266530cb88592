package model

import (
	"time"

	"github.com/google/uuid"
)

// MovementType constants
const (
	MovementCreate    = "CREATE"
	MovementEdit      = "EDIT"
	MovementApproved  = "APPROVED"
	MovementCancelled = "CANCELLED"
	MovementReceive   = "RECEIVE"
	MovementIssue     = "ISSUE"
	MovementScrap     = "SCRAP"
	MovementAdjust    = "ADJUST"
	MovementReturn    = "RETURN"
	MovementClosed    = "CLOSED"
)

// StockMovement is the append-only audit trail of every stock-affecting action.
// Rows are never updated or deleted, and the workflows never read them to make
// decisions: the counters on StoreItem/PlaceItemQuantity stay authoritative.
type StockMovement struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"item_id"`
	Item        StoreItem   `gorm:"foreignKey:ItemID" json:"-"`
	PlaceID     *uuid.UUID  `gorm:"type:uuid;index" json:"place_id"`
	Place       *StorePlace `gorm:"foreignKey:PlaceID" json:"-"`
	ReceivingID *uuid.UUID  `gorm:"type:uuid;index" json:"receiving_id"`
	IssueID     *uuid.UUID  `gorm:"type:uuid;index" json:"issue_id"`

	Type       string    `gorm:"type:varchar(20);not null;index" json:"type"`
	Qty        int       `gorm:"type:int;not null" json:"qty"`
	RefNo      string    `gorm:"type:varchar(50);index" json:"ref_no"`
	OperatedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"operated_by"`
	Operator   User      `gorm:"foreignKey:OperatedBy" json:"-"`
	Note       string    `gorm:"type:text" json:"note"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
