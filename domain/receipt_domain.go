package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessCreateReceipt = "receipt created successfully"
	MessageSuccessGetReceipts   = "receipts retrieved successfully"
	MessageSuccessGetReceipt    = "receipt retrieved successfully"
	MessageSuccessUpdateReceipt = "receipt updated successfully"
	MessageSuccessDeleteReceipt = "receipt deleted successfully"
	MessageSuccessScanReceipt   = "receipt scanned successfully"

	MessageFailedCreateReceipt = "failed to create receipt"
	MessageFailedGetReceipts   = "failed to retrieve receipts"
	MessageFailedGetReceipt    = "failed to retrieve receipt"
	MessageFailedUpdateReceipt = "failed to update receipt"
	MessageFailedDeleteReceipt = "failed to delete receipt"
	MessageFailedScanReceipt   = "failed to scan receipt"

	ErrReceiptNotFound       = errors.New("receipt not found")
	ErrEmptyItemList         = errors.New("receipt requires at least one item")
	ErrInvalidPurchaseDate   = errors.New("invalid purchase date, expected YYYY-MM-DD")
	ErrInvalidImageFormat    = errors.New("invalid image format")
	ErrFileTooLarge          = errors.New("uploaded file is too large")
	ErrExtractorNotConfigured = errors.New("receipt extraction is not configured")
	ErrExtractorFailed        = errors.New("receipt extraction failed")
)

type (
	CreateReceiptRequest struct {
		SupermarketName string              `json:"supermarket_name" validate:"required"`
		PurchaseDate    string              `json:"purchase_date" validate:"required"`
		Currency        string              `json:"currency" validate:"required"`
		Notes           string              `json:"notes"`
		ImageURL        string              `json:"image_url"`
		Items           []CreateItemRequest `json:"items" validate:"required,min=1,dive"`
	}

	UpdateReceiptRequest struct {
		SupermarketName *string `json:"supermarket_name"`
		PurchaseDate    *string `json:"purchase_date"`
		Currency        *string `json:"currency"`
		Notes           *string `json:"notes"`
	}

	ReceiptResponse struct {
		ID              string          `json:"id"`
		SupermarketName string          `json:"supermarket_name"`
		PurchaseDate    string          `json:"purchase_date"`
		TotalAmount     decimal.Decimal `json:"total_amount"`
		Currency        string          `json:"currency"`
		ImageURL        string          `json:"image_url,omitempty"`
		Notes           string          `json:"notes,omitempty"`
		Items           []ItemResponse  `json:"items"`
		CreatedAt       time.Time       `json:"created_at"`
	}

	ReceiptListResponse struct {
		Receipts   []ReceiptResponse `json:"receipts"`
		Total      int64             `json:"total"`
		Page       int               `json:"page"`
		PageSize   int               `json:"page_size"`
		TotalPages int64             `json:"total_pages"`
	}

	// ScannedItem is the best-effort extraction of one receipt line.
	ScannedItem struct {
		Name     string          `json:"name"`
		Brand    string          `json:"brand,omitempty"`
		Price    decimal.Decimal `json:"price"`
		Quantity decimal.Decimal `json:"quantity"`
		Unit     string          `json:"unit,omitempty"`
	}

	// ScanReceiptResponse mirrors CreateReceiptRequest so the client can
	// review the extraction and submit it through the normal create path.
	ScanReceiptResponse struct {
		SupermarketName string          `json:"supermarket_name"`
		PurchaseDate    string          `json:"purchase_date"`
		Currency        string          `json:"currency"`
		Items           []ScannedItem   `json:"items"`
		TotalAmount     decimal.Decimal `json:"total_amount"`
		RawText         string          `json:"raw_text"`
		ImageURL        string          `json:"image_url,omitempty"`
	}
)
