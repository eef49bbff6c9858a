package models

import "time"

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

type Product struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Name          string        `gorm:"size:100;not null" json:"name"`
	SKU           string        `gorm:"size:50;uniqueIndex;not null" json:"sku"`
	Category      string        `gorm:"size:50;index" json:"category"`
	Unit          string        `gorm:"size:20;not null" json:"unit"` // pcs, kg, box
	PurchasePrice float64       `gorm:"not null;default:0" json:"purchase_price"`
	SellingPrice  float64       `gorm:"not null;default:0" json:"selling_price"`
	Stock         float64       `gorm:"not null;default:0" json:"stock"`
	LowStockAt    float64       `gorm:"not null;default:0" json:"low_stock_at"` // alert threshold
	Status        ProductStatus `gorm:"size:20;not null;default:active" json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
