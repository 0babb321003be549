package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessAddItem    = "item added successfully"
	MessageSuccessUpdateItem = "item updated successfully"
	MessageSuccessDeleteItem = "item deleted successfully"

	MessageFailedAddItem    = "failed to add item"
	MessageFailedUpdateItem = "failed to update item"
	MessageFailedDeleteItem = "failed to delete item"

	ErrItemNotFound    = errors.New("item not found")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidQuantity = errors.New("quantity must not be negative")
)

type (
	// CreateItemRequest is used for manual item entry and inside receipt
	// creation. Quantity defaults to 1 when omitted.
	CreateItemRequest struct {
		Name     string           `json:"name" validate:"required"`
		Brand    string           `json:"brand"`
		Price    decimal.Decimal  `json:"price"`
		Quantity *decimal.Decimal `json:"quantity"`
		Unit     string           `json:"unit"`
	}

	// UpdateItemRequest carries only the fields the caller wants changed.
	UpdateItemRequest struct {
		Name     *string          `json:"name"`
		Brand    *string          `json:"brand"`
		Price    *decimal.Decimal `json:"price"`
		Quantity *decimal.Decimal `json:"quantity"`
		Unit     *string          `json:"unit"`
	}

	ItemResponse struct {
		ID        string          `json:"id"`
		ReceiptID string          `json:"receipt_id"`
		Name      string          `json:"name"`
		Brand     string          `json:"brand,omitempty"`
		Price     decimal.Decimal `json:"price"`
		Quantity  decimal.Decimal `json:"quantity"`
		Unit      string          `json:"unit,omitempty"`
		UnitPrice decimal.Decimal `json:"unit_price"`
		CreatedAt time.Time       `json:"created_at"`
	}
)
