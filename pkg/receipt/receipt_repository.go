package receipt

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"grocery-price-tracker/entities"
)

type (
	// ListFilter narrows the receipt listing. Zero values mean "no filter".
	ListFilter struct {
		Supermarket string
		DateFrom    *time.Time
		DateTo      *time.Time
	}

	ReceiptRepository interface {
		CreateWithItems(ctx context.Context, receipt *entities.Receipt, items []*entities.Item) error
		GetByIDForUser(ctx context.Context, receiptID, userID string) (*entities.Receipt, error)
		List(ctx context.Context, userID string, filter ListFilter, page, pageSize int) ([]*entities.Receipt, int64, error)
		Update(ctx context.Context, receipt *entities.Receipt) error
		DeleteWithItems(ctx context.Context, receiptID string) error
	}

	receiptRepository struct {
		db *gorm.DB
	}
)

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

// CreateWithItems persists the receipt and all its items as one unit so a
// partial failure never leaves a receipt whose total disagrees with its lines.
func (r *receiptRepository) CreateWithItems(ctx context.Context, receipt *entities.Receipt, items []*entities.Item) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(receipt).Error; err != nil {
			return err
		}
		for _, item := range items {
			item.ReceiptID = receipt.ID
			if err := tx.Create(item).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *receiptRepository) GetByIDForUser(ctx context.Context, receiptID, userID string) (*entities.Receipt, error) {
	var receipt entities.Receipt
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", receiptID, userID).
		First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) List(ctx context.Context, userID string, filter ListFilter, page, pageSize int) ([]*entities.Receipt, int64, error) {
	var receipts []*entities.Receipt
	var count int64

	query := r.db.WithContext(ctx).Model(&entities.Receipt{}).Where("user_id = ?", userID)

	if filter.Supermarket != "" {
		query = query.Where("LOWER(supermarket_name) LIKE ?", "%"+strings.ToLower(filter.Supermarket)+"%")
	}
	if filter.DateFrom != nil {
		query = query.Where("purchase_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("purchase_date <= ?", *filter.DateTo)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.
		Preload("Items").
		Order("purchase_date desc").
		Offset(offset).
		Limit(pageSize).
		Find(&receipts).Error; err != nil {
		return nil, 0, err
	}

	return receipts, count, nil
}

func (r *receiptRepository) Update(ctx context.Context, receipt *entities.Receipt) error {
	return r.db.WithContext(ctx).Save(receipt).Error
}

// DeleteWithItems removes the receipt and its items explicitly in one
// transaction instead of leaning on database-level cascade behaviour.
func (r *receiptRepository) DeleteWithItems(ctx context.Context, receiptID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("receipt_id = ?", receiptID).Delete(&entities.Item{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", receiptID).Delete(&entities.Receipt{}).Error
	})
}
