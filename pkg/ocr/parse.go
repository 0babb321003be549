package ocr

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"grocery-price-tracker/domain"
)

var jsonPattern = regexp.MustCompile(`(?s)\{.*\}`)

type (
	extractedItem struct {
		Name     string           `json:"name"`
		Brand    *string          `json:"brand"`
		Price    *decimal.Decimal `json:"price"`
		Quantity *decimal.Decimal `json:"quantity"`
		Unit     *string          `json:"unit"`
	}

	extractedReceipt struct {
		SupermarketName *string          `json:"supermarket_name"`
		PurchaseDate    *string          `json:"purchase_date"`
		Currency        *string          `json:"currency"`
		Items           []extractedItem  `json:"items"`
		TotalAmount     *decimal.Decimal `json:"total_amount"`
		RawText         *string          `json:"raw_text"`
	}
)

// parseReceiptText turns model output into a structured receipt. Model text
// is untrusted: it may wrap the JSON in markdown fences or prose, and any
// field may be missing or null. Unparseable output degrades to an empty
// result that still carries the raw text, it never fails the request.
func parseReceiptText(text string) domain.ScanReceiptResponse {
	cleaned := stripFences(text)

	var extracted extractedReceipt
	if err := json.Unmarshal([]byte(cleaned), &extracted); err != nil {
		return domain.ScanReceiptResponse{
			Items:   []domain.ScannedItem{},
			RawText: strings.TrimSpace(text),
		}
	}

	result := domain.ScanReceiptResponse{
		SupermarketName: stringOr(extracted.SupermarketName, ""),
		Currency:        stringOr(extracted.Currency, ""),
		RawText:         stringOr(extracted.RawText, strings.TrimSpace(text)),
		Items:           make([]domain.ScannedItem, 0, len(extracted.Items)),
	}

	if extracted.PurchaseDate != nil {
		if _, err := time.Parse("2006-01-02", *extracted.PurchaseDate); err == nil {
			result.PurchaseDate = *extracted.PurchaseDate
		}
	}
	if extracted.TotalAmount != nil {
		result.TotalAmount = *extracted.TotalAmount
	}

	for _, item := range extracted.Items {
		if item.Name == "" {
			continue
		}
		scanned := domain.ScannedItem{
			Name:     item.Name,
			Brand:    stringOr(item.Brand, ""),
			Quantity: decimal.NewFromInt(1),
			Unit:     stringOr(item.Unit, ""),
		}
		if item.Price != nil && !item.Price.IsNegative() {
			scanned.Price = *item.Price
		}
		if item.Quantity != nil && item.Quantity.IsPositive() {
			scanned.Quantity = *item.Quantity
		}
		result.Items = append(result.Items, scanned)
	}

	return result
}

func stripFences(text string) string {
	cleaned := strings.TrimSpace(text)

	if match := jsonPattern.FindString(cleaned); match != "" {
		cleaned = match
	}

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}

	return strings.TrimSpace(cleaned)
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
