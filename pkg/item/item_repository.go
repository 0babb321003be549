package item

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"grocery-price-tracker/entities"
)

type (
	// ItemRepository pairs every item write with the owning receipt's
	// total_amount write inside one transaction, so the invariant
	// total_amount == Σ price*quantity cannot be observed broken.
	ItemRepository interface {
		GetItemForUser(ctx context.Context, itemID, userID string) (*entities.Item, error)
		GetReceiptForUser(ctx context.Context, receiptID, userID string) (*entities.Receipt, error)
		CreateWithTotal(ctx context.Context, item *entities.Item, newTotal decimal.Decimal) error
		UpdateWithTotal(ctx context.Context, item *entities.Item, newTotal decimal.Decimal) error
		DeleteWithTotal(ctx context.Context, item *entities.Item, newTotal decimal.Decimal) error
	}

	itemRepository struct {
		db *gorm.DB
	}
)

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

// GetItemForUser resolves an item through a join on its receipt's owner, so
// an item belonging to another user is indistinguishable from a missing one.
func (r *itemRepository) GetItemForUser(ctx context.Context, itemID, userID string) (*entities.Item, error) {
	var item entities.Item
	if err := r.db.WithContext(ctx).
		Select("items.*").
		Joins("JOIN receipts ON receipts.id = items.receipt_id").
		Where("items.id = ? AND receipts.user_id = ?", itemID, userID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetReceiptForUser(ctx context.Context, receiptID, userID string) (*entities.Receipt, error) {
	var receipt entities.Receipt
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", receiptID, userID).
		First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *itemRepository) CreateWithTotal(ctx context.Context, item *entities.Item, newTotal decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return r.writeTotal(tx, item.ReceiptID.String(), newTotal)
	})
}

func (r *itemRepository) UpdateWithTotal(ctx context.Context, item *entities.Item, newTotal decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return r.writeTotal(tx, item.ReceiptID.String(), newTotal)
	})
}

func (r *itemRepository) DeleteWithTotal(ctx context.Context, item *entities.Item, newTotal decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", item.ID).Delete(&entities.Item{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return r.writeTotal(tx, item.ReceiptID.String(), newTotal)
	})
}

func (r *itemRepository) writeTotal(tx *gorm.DB, receiptID string, newTotal decimal.Decimal) error {
	return tx.Model(&entities.Receipt{}).
		Where("id = ?", receiptID).
		Update("total_amount", newTotal).Error
}
