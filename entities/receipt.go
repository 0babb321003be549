package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Receipt struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID       `gorm:"index;not null" json:"user_id"`
	SupermarketName string          `gorm:"index;not null" json:"supermarket_name"`
	PurchaseDate    time.Time       `gorm:"type:date;index;not null" json:"purchase_date"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Currency        string          `gorm:"not null" json:"currency"`
	ImageURL        string          `json:"image_url,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`

	User  *User   `gorm:"foreignKey:UserID" json:"-"`
	Items []*Item `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE" json:"items"`
	Timestamp
}
