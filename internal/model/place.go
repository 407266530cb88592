package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StorePlace is a physical storage location goods are delivered to and issued from.
type StorePlace struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Code      string         `gorm:"type:varchar(100);index" json:"code"`
	Type      string         `gorm:"type:varchar(100)" json:"type"`
	Remark    string         `gorm:"type:text" json:"remark"`
	CreatedBy *uuid.UUID     `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PlaceItemQuantity tracks per-(item,place) stock. Created lazily on the first
// delivery to a place and never deleted. Invariant: Issued + Completed <= Total,
// all counters >= 0; place-available = Total - Issued - Completed.
type PlaceItemQuantity struct {
	ID      uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_piq_item_place" json:"item_id"`
	Item    StoreItem  `gorm:"foreignKey:ItemID" json:"-"`
	PlaceID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_piq_item_place" json:"place_id"`
	Place   StorePlace `gorm:"foreignKey:PlaceID" json:"-"`

	Total     int `gorm:"type:int;not null;default:0" json:"total"`
	Issued    int `gorm:"type:int;not null;default:0" json:"issued"`
	Completed int `gorm:"type:int;not null;default:0" json:"completed"`

	Remark    string     `gorm:"type:text" json:"remark"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AvailableAtPlace is the quantity still issuable from this place.
func (q PlaceItemQuantity) AvailableAtPlace() int {
	return q.Total - q.Issued - q.Completed
}
