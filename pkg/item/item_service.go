package item

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"grocery-price-tracker/domain"
	"grocery-price-tracker/entities"
)

type (
	ItemService interface {
		AddItem(ctx context.Context, receiptID string, req domain.CreateItemRequest, userID string) (domain.ItemResponse, error)
		UpdateItem(ctx context.Context, itemID string, req domain.UpdateItemRequest, userID string) (domain.ItemResponse, error)
		DeleteItem(ctx context.Context, itemID string, userID string) error
	}

	itemService struct {
		itemRepository ItemRepository
	}
)

func NewItemService(itemRepository ItemRepository) ItemService {
	return &itemService{itemRepository: itemRepository}
}

func (s *itemService) AddItem(ctx context.Context, receiptID string, req domain.CreateItemRequest, userID string) (domain.ItemResponse, error) {
	receipt, err := s.itemRepository.GetReceiptForUser(ctx, receiptID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ItemResponse{}, domain.ErrReceiptNotFound
		}
		return domain.ItemResponse{}, err
	}

	if req.Price.IsNegative() {
		return domain.ItemResponse{}, domain.ErrInvalidPrice
	}
	quantity := decimal.NewFromInt(1)
	if req.Quantity != nil {
		if req.Quantity.IsNegative() {
			return domain.ItemResponse{}, domain.ErrInvalidQuantity
		}
		quantity = *req.Quantity
	}

	item := &entities.Item{
		ID:        uuid.New(),
		ReceiptID: receipt.ID,
		Name:      req.Name,
		Brand:     req.Brand,
		Price:     req.Price,
		Quantity:  quantity,
		Unit:      req.Unit,
	}

	newTotal := receipt.TotalAmount.Add(item.Contribution())
	if err := s.itemRepository.CreateWithTotal(ctx, item, newTotal); err != nil {
		return domain.ItemResponse{}, err
	}

	return toItemResponse(item), nil
}

func (s *itemService) UpdateItem(ctx context.Context, itemID string, req domain.UpdateItemRequest, userID string) (domain.ItemResponse, error) {
	item, err := s.itemRepository.GetItemForUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ItemResponse{}, domain.ErrItemNotFound
		}
		return domain.ItemResponse{}, err
	}

	receipt, err := s.itemRepository.GetReceiptForUser(ctx, item.ReceiptID.String(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ItemResponse{}, domain.ErrItemNotFound
		}
		return domain.ItemResponse{}, err
	}

	// The old contribution has to be captured before any field changes.
	oldContribution := item.Contribution()

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Brand != nil {
		item.Brand = *req.Brand
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return domain.ItemResponse{}, domain.ErrInvalidPrice
		}
		item.Price = *req.Price
	}
	if req.Quantity != nil {
		if req.Quantity.IsNegative() {
			return domain.ItemResponse{}, domain.ErrInvalidQuantity
		}
		item.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}

	newTotal := receipt.TotalAmount.Sub(oldContribution).Add(item.Contribution())
	if err := s.itemRepository.UpdateWithTotal(ctx, item, newTotal); err != nil {
		return domain.ItemResponse{}, err
	}

	return toItemResponse(item), nil
}

func (s *itemService) DeleteItem(ctx context.Context, itemID string, userID string) error {
	item, err := s.itemRepository.GetItemForUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		return err
	}

	receipt, err := s.itemRepository.GetReceiptForUser(ctx, item.ReceiptID.String(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		return err
	}

	newTotal := receipt.TotalAmount.Sub(item.Contribution())
	if err := s.itemRepository.DeleteWithTotal(ctx, item, newTotal); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		return err
	}

	return nil
}

func toItemResponse(item *entities.Item) domain.ItemResponse {
	return domain.ItemResponse{
		ID:        item.ID.String(),
		ReceiptID: item.ReceiptID.String(),
		Name:      item.Name,
		Brand:     item.Brand,
		Price:     item.Price,
		Quantity:  item.Quantity,
		Unit:      item.Unit,
		UnitPrice: item.UnitPrice(),
		CreatedAt: item.CreatedAt,
	}
}
