package search

import (
	"context"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"grocery-price-tracker/domain"
)

const suggestionLimit = 10

type (
	SearchService interface {
		SearchItems(ctx context.Context, userID string, req domain.SearchRequest) (domain.SearchResponse, error)
		GetPriceHistory(ctx context.Context, userID, itemName, supermarket string) (domain.PriceHistoryResponse, error)
		GetSupermarketSuggestions(ctx context.Context, userID, query string) ([]string, error)
	}

	searchService struct {
		searchRepository SearchRepository
	}
)

func NewSearchService(searchRepository SearchRepository) SearchService {
	return &searchService{searchRepository: searchRepository}
}

func (s *searchService) SearchItems(ctx context.Context, userID string, req domain.SearchRequest) (domain.SearchResponse, error) {
	if req.Keyword == "" {
		return domain.SearchResponse{}, domain.ErrKeywordRequired
	}
	if req.Page < 1 {
		return domain.SearchResponse{}, domain.ErrInvalidPage
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		return domain.SearchResponse{}, domain.ErrInvalidPageSize
	}

	orderExpr, err := orderExpression(req.SortBy, req.SortOrder)
	if err != nil {
		return domain.SearchResponse{}, err
	}

	filter := Filter{Supermarket: req.Supermarket}
	if req.DateFrom != "" {
		from, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			return domain.SearchResponse{}, domain.ErrInvalidDateRange
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			return domain.SearchResponse{}, domain.ErrInvalidDateRange
		}
		filter.DateTo = &to
	}

	if req.UseRegex {
		return s.searchRegex(ctx, userID, req, filter, orderExpr)
	}

	filter.Keyword = req.Keyword

	total, err := s.searchRepository.CountRows(ctx, userID, filter)
	if err != nil {
		return domain.SearchResponse{}, err
	}

	offset := (req.Page - 1) * req.PageSize
	rows, err := s.searchRepository.FindRows(ctx, userID, filter, orderExpr, offset, req.PageSize)
	if err != nil {
		return domain.SearchResponse{}, err
	}

	return domain.SearchResponse{
		Results:    toSearchResults(rows),
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages(total, req.PageSize),
	}, nil
}

// searchRegex reinterprets the keyword as a case-insensitive pattern matched
// against item name or brand. The match runs over the ownership-scoped rows
// in memory, then pagination is applied to the filtered set.
func (s *searchService) searchRegex(ctx context.Context, userID string, req domain.SearchRequest, filter Filter, orderExpr string) (domain.SearchResponse, error) {
	pattern, err := regexp.Compile("(?i)" + req.Keyword)
	if err != nil {
		return domain.SearchResponse{}, domain.ErrInvalidRegex
	}

	rows, err := s.searchRepository.FindAllRows(ctx, userID, filter, orderExpr)
	if err != nil {
		return domain.SearchResponse{}, err
	}

	matched := make([]Row, 0, len(rows))
	for _, row := range rows {
		if pattern.MatchString(row.Name) || pattern.MatchString(row.Brand) {
			matched = append(matched, row)
		}
	}

	total := int64(len(matched))
	start := (req.Page - 1) * req.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + req.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return domain.SearchResponse{
		Results:    toSearchResults(matched[start:end]),
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages(total, req.PageSize),
	}, nil
}

func (s *searchService) GetPriceHistory(ctx context.Context, userID, itemName, supermarket string) (domain.PriceHistoryResponse, error) {
	rows, err := s.searchRepository.FindHistoryRows(ctx, userID, itemName, supermarket)
	if err != nil {
		return domain.PriceHistoryResponse{}, err
	}

	history := make([]domain.PriceHistoryPoint, 0, len(rows))
	var lowest, highest *domain.PriceHistoryPoint
	totalPrice := decimal.Zero

	for _, row := range rows {
		point := domain.PriceHistoryPoint{
			Date:            row.PurchaseDate.Format("2006-01-02"),
			Price:           row.Price,
			SupermarketName: row.SupermarketName,
			Currency:        row.Currency,
		}
		history = append(history, point)
		totalPrice = totalPrice.Add(row.Price)

		// Strict comparisons keep the earliest point on equal prices.
		p := point
		if lowest == nil || p.Price.LessThan(lowest.Price) {
			lowest = &p
		}
		if highest == nil || p.Price.GreaterThan(highest.Price) {
			highest = &p
		}
	}

	var average *decimal.Decimal
	if len(history) > 0 {
		avg := totalPrice.DivRound(decimal.NewFromInt(int64(len(history))), 4)
		average = &avg
	}

	return domain.PriceHistoryResponse{
		ItemName:     itemName,
		History:      history,
		LowestPrice:  lowest,
		HighestPrice: highest,
		AveragePrice: average,
	}, nil
}

func (s *searchService) GetSupermarketSuggestions(ctx context.Context, userID, query string) ([]string, error) {
	return s.searchRepository.SupermarketNames(ctx, userID, query, suggestionLimit)
}

func orderExpression(sortBy, sortOrder string) (string, error) {
	var column string
	switch sortBy {
	case "", "date":
		column = "receipts.purchase_date"
	case "price":
		column = "items.price"
	default:
		return "", domain.ErrInvalidSortField
	}

	switch sortOrder {
	case "", "desc":
		return column + " desc", nil
	case "asc":
		return column + " asc", nil
	default:
		return "", domain.ErrInvalidSortOrder
	}
}

func toSearchResults(rows []Row) []domain.ItemSearchResult {
	results := make([]domain.ItemSearchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, domain.ItemSearchResult{
			ID:              row.ID.String(),
			Name:            row.Name,
			Brand:           row.Brand,
			Price:           row.Price,
			Quantity:        row.Quantity,
			Unit:            row.Unit,
			SupermarketName: row.SupermarketName,
			PurchaseDate:    row.PurchaseDate.Format("2006-01-02"),
			Currency:        row.Currency,
		})
	}
	return results
}

func totalPages(total int64, pageSize int) int64 {
	if total == 0 {
		return 0
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}
