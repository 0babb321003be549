package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Item struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID uuid.UUID       `gorm:"index;not null" json:"receipt_id"`
	Name      string          `gorm:"index;not null" json:"name"`
	Brand     string          `gorm:"index" json:"brand,omitempty"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Quantity  decimal.Decimal `gorm:"type:numeric(10,3);not null;default:1" json:"quantity"`
	Unit      string          `json:"unit,omitempty"`

	Receipt *Receipt `gorm:"foreignKey:ReceiptID" json:"-"`
	Timestamp
}

// Contribution is the share of this item in the owning receipt's total.
func (i *Item) Contribution() decimal.Decimal {
	return i.Price.Mul(i.Quantity)
}

// UnitPrice is derived, never stored: price/quantity when quantity > 0.
func (i *Item) UnitPrice() decimal.Decimal {
	if i.Quantity.IsPositive() {
		return i.Price.DivRound(i.Quantity, 4)
	}
	return i.Price
}
