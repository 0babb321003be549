package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessSearch          = "search completed successfully"
	MessageSuccessPriceHistory    = "price history retrieved successfully"
	MessageSuccessGetSupermarkets = "supermarket suggestions retrieved successfully"

	MessageFailedSearch          = "failed to search items"
	MessageFailedPriceHistory    = "failed to retrieve price history"
	MessageFailedGetSupermarkets = "failed to retrieve supermarket suggestions"

	ErrKeywordRequired  = errors.New("search keyword is required")
	ErrInvalidSortField = errors.New("sort field must be date or price")
	ErrInvalidSortOrder = errors.New("sort order must be asc or desc")
	ErrInvalidPage      = errors.New("page must be at least 1")
	ErrInvalidPageSize  = errors.New("page size must be between 1 and 100")
	ErrInvalidDateRange = errors.New("invalid date filter, expected YYYY-MM-DD")
	ErrInvalidRegex     = errors.New("invalid regex pattern")
)

type (
	SearchRequest struct {
		Keyword     string `query:"keyword"`
		Supermarket string `query:"supermarket"`
		DateFrom    string `query:"date_from"`
		DateTo      string `query:"date_to"`
		SortBy      string `query:"sort_by"`
		SortOrder   string `query:"sort_order"`
		Page        int    `query:"page"`
		PageSize    int    `query:"page_size"`
		UseRegex    bool   `query:"use_regex"`
	}

	// ItemSearchResult denormalizes the item with its owning receipt. It is
	// a read-only projection, never persisted.
	ItemSearchResult struct {
		ID              string          `json:"id"`
		Name            string          `json:"name"`
		Brand           string          `json:"brand,omitempty"`
		Price           decimal.Decimal `json:"price"`
		Quantity        decimal.Decimal `json:"quantity"`
		Unit            string          `json:"unit,omitempty"`
		SupermarketName string          `json:"supermarket_name"`
		PurchaseDate    string          `json:"purchase_date"`
		Currency        string          `json:"currency"`
	}

	SearchResponse struct {
		Results    []ItemSearchResult `json:"results"`
		Total      int64              `json:"total"`
		Page       int                `json:"page"`
		PageSize   int                `json:"page_size"`
		TotalPages int64              `json:"total_pages"`
	}

	PriceHistoryPoint struct {
		Date            string          `json:"date"`
		Price           decimal.Decimal `json:"price"`
		SupermarketName string          `json:"supermarket_name"`
		Currency        string          `json:"currency"`
	}

	PriceHistoryResponse struct {
		ItemName     string              `json:"item_name"`
		History      []PriceHistoryPoint `json:"history"`
		LowestPrice  *PriceHistoryPoint  `json:"lowest_price,omitempty"`
		HighestPrice *PriceHistoryPoint  `json:"highest_price,omitempty"`
		AveragePrice *decimal.Decimal    `json:"average_price,omitempty"`
	}
)
