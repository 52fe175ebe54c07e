package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Category    string          `json:"category" gorm:"size:50;not null"`
	SerialCode  string          `json:"serial_code" gorm:"size:20;uniqueIndex"`
	Name        string          `json:"name" gorm:"size:100;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	IsAvailable bool            `json:"is_available" gorm:"not null"`
	ImageURL    string          `json:"image_url" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`

	// Declared for the foreign key only: a referenced product cannot be hard-deleted.
	OrderItems []OrderItem `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// SetStock keeps IsAvailable in step with the stock count.
func (p *Product) SetStock(stock int) {
	p.Stock = stock
	p.IsAvailable = stock > 0
}
