package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog listing. Prices are stored in integer cents; the
// catalog service converts to decimal amounts at the domain boundary.
type Product struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Description  string    `gorm:"column:description;not null;default:''"`
	PriceCents   int       `gorm:"column:price_cents;not null"`
	AvailableQty int       `gorm:"column:available_qty;not null;default:0"`
	CategoryName string    `gorm:"column:category_name;not null;default:''"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
