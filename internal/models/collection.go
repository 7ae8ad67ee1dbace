package models

import (
	"time"
)

// Collection is a named, owner-scoped grouping of items. Name uniqueness
// is enforced per owner, case-insensitively, at the service layer.
type Collection struct {
	CollectionID   string    `gorm:"type:char(36);primaryKey" json:"collection_id"`
	UserID         string    `gorm:"type:char(36);not null;index:idx_collection_owner" json:"user_id"`
	CollectionName string    `gorm:"size:255;not null" json:"collection_name"`
	Description    string    `gorm:"size:1024" json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName overrides the table name for Collection
func (Collection) TableName() string {
	return "collections"
}

// Item is a collectible belonging to exactly one owner. CollectionID and
// CollectionName are a denormalized pair kept in sync by the services;
// both blank means the item is unassigned.
type Item struct {
	ItemID         string    `gorm:"type:char(36);primaryKey" json:"item_id"`
	UserID         string    `gorm:"type:char(36);not null;index:idx_item_owner" json:"user_id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Description    string    `gorm:"size:2048" json:"description"`
	ImageURL       string    `gorm:"size:1024" json:"image_url"`
	Condition      string    `gorm:"size:255" json:"condition"`
	CollectionID   string    `gorm:"type:char(36);index" json:"collection_id"`
	CollectionName string    `gorm:"size:255;index" json:"collection_name"`
	Tags           TagList   `gorm:"type:json" json:"tags"`
	Value          float64   `json:"value"`
	Year           int       `json:"year"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName overrides the table name for Item
func (Item) TableName() string {
	return "items"
}
