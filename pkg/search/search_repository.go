package search

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"grocery-price-tracker/entities"
)

type (
	// Row is one item joined to its owning receipt, the denormalized
	// projection the search and price-history queries work on.
	Row struct {
		ID              uuid.UUID
		Name            string
		Brand           string
		Price           decimal.Decimal
		Quantity        decimal.Decimal
		Unit            string
		SupermarketName string
		PurchaseDate    time.Time
		Currency        string
	}

	// Filter narrows the joined rows. Keyword empty means no keyword
	// predicate (regex mode filters in the service instead).
	Filter struct {
		Keyword     string
		Supermarket string
		DateFrom    *time.Time
		DateTo      *time.Time
	}

	SearchRepository interface {
		CountRows(ctx context.Context, userID string, filter Filter) (int64, error)
		FindRows(ctx context.Context, userID string, filter Filter, orderExpr string, offset, limit int) ([]Row, error)
		FindAllRows(ctx context.Context, userID string, filter Filter, orderExpr string) ([]Row, error)
		FindHistoryRows(ctx context.Context, userID, itemName, supermarket string) ([]Row, error)
		SupermarketNames(ctx context.Context, userID, query string, limit int) ([]string, error)
	}

	searchRepository struct {
		db *gorm.DB
	}
)

func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepository{db: db}
}

const rowColumns = "items.id, items.name, items.brand, items.price, items.quantity, items.unit, " +
	"receipts.supermarket_name, receipts.purchase_date, receipts.currency"

// joined builds the ownership-scoped items-receipts join every search query
// starts from. The user predicate is the only authorization boundary.
func (r *searchRepository) joined(ctx context.Context, userID string, filter Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("items").
		Joins("JOIN receipts ON receipts.id = items.receipt_id").
		Where("receipts.user_id = ?", userID)

	if filter.Keyword != "" {
		pattern := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where("LOWER(items.name) LIKE ? OR LOWER(items.brand) LIKE ?", pattern, pattern)
	}
	if filter.Supermarket != "" {
		query = query.Where("LOWER(receipts.supermarket_name) LIKE ?", "%"+strings.ToLower(filter.Supermarket)+"%")
	}
	if filter.DateFrom != nil {
		query = query.Where("receipts.purchase_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("receipts.purchase_date <= ?", *filter.DateTo)
	}

	return query
}

func (r *searchRepository) CountRows(ctx context.Context, userID string, filter Filter) (int64, error) {
	var count int64
	if err := r.joined(ctx, userID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *searchRepository) FindRows(ctx context.Context, userID string, filter Filter, orderExpr string, offset, limit int) ([]Row, error) {
	var rows []Row
	if err := r.joined(ctx, userID, filter).
		Select(rowColumns).
		Order(orderExpr).
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *searchRepository) FindAllRows(ctx context.Context, userID string, filter Filter, orderExpr string) ([]Row, error) {
	var rows []Row
	if err := r.joined(ctx, userID, filter).
		Select(rowColumns).
		Order(orderExpr).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *searchRepository) FindHistoryRows(ctx context.Context, userID, itemName, supermarket string) ([]Row, error) {
	query := r.db.WithContext(ctx).
		Table("items").
		Joins("JOIN receipts ON receipts.id = items.receipt_id").
		Where("receipts.user_id = ?", userID).
		Where("LOWER(items.name) LIKE ?", "%"+strings.ToLower(itemName)+"%")

	if supermarket != "" {
		query = query.Where("LOWER(receipts.supermarket_name) LIKE ?", "%"+strings.ToLower(supermarket)+"%")
	}

	var rows []Row
	if err := query.
		Select(rowColumns).
		Order("receipts.purchase_date asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *searchRepository) SupermarketNames(ctx context.Context, userID, query string, limit int) ([]string, error) {
	stmt := r.db.WithContext(ctx).
		Model(&entities.Receipt{}).
		Where("user_id = ?", userID)

	if query != "" {
		stmt = stmt.Where("LOWER(supermarket_name) LIKE ?", "%"+strings.ToLower(query)+"%")
	}

	var names []string
	if err := stmt.
		Distinct("supermarket_name").
		Limit(limit).
		Pluck("supermarket_name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}
