package models

import "time"

// ProductStatus is the lifecycle state of a catalog record.
type ProductStatus string

const (
	StatusDraft    ProductStatus = "DRAFT"
	StatusActive   ProductStatus = "ACTIVE"
	StatusArchived ProductStatus = "ARCHIVED"
)

// Product represents a catalog record.
// Deletion is permanent, so gorm.Model (and its DeletedAt soft-delete
// column) is intentionally not embedded.
type Product struct {
	ID          string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string        `json:"name" gorm:"type:varchar(120);not null"`
	Description string        `json:"description" gorm:"type:varchar(500)"`
	Price       float64       `json:"price" gorm:"not null"`
	Stock       int           `json:"stock" gorm:"not null"`
	Category    string        `json:"category" gorm:"type:varchar(100);index"`
	SKU         string        `json:"sku" gorm:"column:sku;uniqueIndex;type:varchar(64)"`
	Status      ProductStatus `json:"status" gorm:"type:varchar(16);default:DRAFT"`
	ImageURL    string        `json:"image_url" gorm:"type:varchar(2048)"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
