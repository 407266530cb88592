package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StoreItem is a stock-keeping item with its conserved counters.
// Invariant maintained by the repositories:
//
//	Total == Available + ReservedForIssue + Completed + Scrapped
//
// and no counter is ever negative.
type StoreItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"type:varchar(100);index" json:"category"`
	Unit        string    `gorm:"type:varchar(50);not null" json:"unit"` // pcs / kg / box
	ImageURL    string    `gorm:"type:text" json:"image_url"`

	// Unit price, used for stock valuation only.
	Price decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"price"`

	Total            int `gorm:"type:int;not null;default:0" json:"total"`
	Available        int `gorm:"type:int;not null;default:0" json:"available"`
	ReservedForIssue int `gorm:"type:int;not null;default:0" json:"reserved_for_issue"`
	Completed        int `gorm:"type:int;not null;default:0" json:"completed"`
	Scrapped         int `gorm:"type:int;not null;default:0" json:"scrapped"`

	CreatedBy *uuid.UUID     `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
