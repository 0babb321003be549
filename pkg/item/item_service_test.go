package item

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"grocery-price-tracker/domain"
	"grocery-price-tracker/entities"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}, &entities.Receipt{}, &entities.Item{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *entities.User {
	t.Helper()
	user := &entities.User{
		ID:       uuid.New(),
		Email:    email,
		Name:     "Test User",
		Currency: "USD",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedReceipt creates a receipt whose total already agrees with its items.
func seedReceipt(t *testing.T, db *gorm.DB, userID uuid.UUID, items ...*entities.Item) *entities.Receipt {
	t.Helper()
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Contribution())
	}
	receipt := &entities.Receipt{
		ID:              uuid.New(),
		UserID:          userID,
		SupermarketName: "Corner Market",
		PurchaseDate:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount:     total,
		Currency:        "USD",
	}
	require.NoError(t, db.Create(receipt).Error)
	for _, item := range items {
		item.ReceiptID = receipt.ID
		require.NoError(t, db.Create(item).Error)
	}
	return receipt
}

func newSeedItem(name string, price, quantity string) *entities.Item {
	return &entities.Item{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: decimal.RequireFromString(quantity),
	}
}

func reloadTotal(t *testing.T, db *gorm.DB, receiptID uuid.UUID) decimal.Decimal {
	t.Helper()
	var receipt entities.Receipt
	require.NoError(t, db.First(&receipt, "id = ?", receiptID).Error)
	return receipt.TotalAmount
}

// requireConsistent asserts total_amount == Σ price*quantity over the stored rows.
func requireConsistent(t *testing.T, db *gorm.DB, receiptID uuid.UUID) {
	t.Helper()
	var items []*entities.Item
	require.NoError(t, db.Find(&items, "receipt_id = ?", receiptID).Error)
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Contribution())
	}
	total := reloadTotal(t, db, receiptID)
	assert.Truef(t, total.Equal(sum), "total %s != item sum %s", total, sum)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func TestAddItemUpdatesReceiptTotal(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "add@example.com")
	receipt := seedReceipt(t, db, user.ID,
		newSeedItem("Milk", "2.50", "1"),
		newSeedItem("Bread", "1.20", "2"),
	)
	service := NewItemService(NewItemRepository(db))

	resp, err := service.AddItem(context.Background(), receipt.ID.String(), domain.CreateItemRequest{
		Name:     "Eggs",
		Price:    decimal.RequireFromString("3.10"),
		Quantity: decPtr("1"),
	}, user.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Eggs", resp.Name)
	assert.True(t, resp.UnitPrice.Equal(decimal.RequireFromString("3.10")))
	assert.True(t, reloadTotal(t, db, receipt.ID).Equal(decimal.RequireFromString("8.00")))
	requireConsistent(t, db, receipt.ID)
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "qty@example.com")
	receipt := seedReceipt(t, db, user.ID, newSeedItem("Milk", "2.50", "1"))
	service := NewItemService(NewItemRepository(db))

	resp, err := service.AddItem(context.Background(), receipt.ID.String(), domain.CreateItemRequest{
		Name:  "Butter",
		Price: decimal.RequireFromString("4.25"),
	}, user.ID.String())
	require.NoError(t, err)

	assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, reloadTotal(t, db, receipt.ID).Equal(decimal.RequireFromString("6.75")))
}

func TestUpdateItemPriceRecomputesTotal(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "update@example.com")
	milk := newSeedItem("Milk", "2.50", "1")
	receipt := seedReceipt(t, db, user.ID, milk, newSeedItem("Bread", "1.20", "2"))
	require.True(t, reloadTotal(t, db, receipt.ID).Equal(decimal.RequireFromString("4.90")))

	service := NewItemService(NewItemRepository(db))
	resp, err := service.UpdateItem(context.Background(), milk.ID.String(), domain.UpdateItemRequest{
		Price: decPtr("3.00"),
	}, user.ID.String())
	require.NoError(t, err)

	assert.True(t, resp.Price.Equal(decimal.RequireFromString("3.00")))
	assert.True(t, reloadTotal(t, db, receipt.ID).Equal(decimal.RequireFromString("5.40")))
	requireConsistent(t, db, receipt.ID)
}

func TestDeleteItemRecomputesTotal(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "delete@example.com")
	milk := newSeedItem("Milk", "3.00", "1")
	bread := newSeedItem("Bread", "1.20", "2")
	receipt := seedReceipt(t, db, user.ID, milk, bread)

	service := NewItemService(NewItemRepository(db))
	require.NoError(t, service.DeleteItem(context.Background(), bread.ID.String(), user.ID.String()))

	assert.True(t, reloadTotal(t, db, receipt.ID).Equal(decimal.RequireFromString("3.00")))
	requireConsistent(t, db, receipt.ID)
}

func TestItemMutationSequenceKeepsTotalConsistent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "sequence@example.com")
	milk := newSeedItem("Milk", "2.50", "1")
	bread := newSeedItem("Bread", "1.20", "2")
	receipt := seedReceipt(t, db, user.ID, milk, bread)
	service := NewItemService(NewItemRepository(db))
	ctx := context.Background()

	_, err := service.UpdateItem(ctx, milk.ID.String(), domain.UpdateItemRequest{Price: decPtr("3.00")}, user.ID.String())
	require.NoError(t, err)
	requireConsistent(t, db, receipt.ID)

	added, err := service.AddItem(ctx, receipt.ID.String(), domain.CreateItemRequest{
		Name:     "Yogurt",
		Price:    decimal.RequireFromString("0.99"),
		Quantity: decPtr("4"),
	}, user.ID.String())
	require.NoError(t, err)
	requireConsistent(t, db, receipt.ID)

	require.NoError(t, service.DeleteItem(ctx, bread.ID.String(), user.ID.String()))
	requireConsistent(t, db, receipt.ID)

	_, err = service.UpdateItem(ctx, added.ID, domain.UpdateItemRequest{Quantity: decPtr("2")}, user.ID.String())
	require.NoError(t, err)
	requireConsistent(t, db, receipt.ID)
	assert.True(t, reloadTotal(t, db, receipt.ID).Equal(decimal.RequireFromString("4.98")))
}

func TestUpdateItemPartialLeavesOtherFields(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "partial@example.com")
	milk := newSeedItem("Milk", "2.50", "2")
	receipt := seedReceipt(t, db, user.ID, milk)
	service := NewItemService(NewItemRepository(db))

	resp, err := service.UpdateItem(context.Background(), milk.ID.String(), domain.UpdateItemRequest{
		Name: strPtr("Whole Milk"),
	}, user.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Whole Milk", resp.Name)
	assert.True(t, resp.Price.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, resp.Quantity.Equal(decimal.RequireFromString("2")))
	assert.True(t, reloadTotal(t, db, receipt.ID).Equal(decimal.RequireFromString("5.00")))
}

func TestDeleteItemTwiceReturnsNotFound(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "twice@example.com")
	milk := newSeedItem("Milk", "2.50", "1")
	seedReceipt(t, db, user.ID, milk)
	service := NewItemService(NewItemRepository(db))
	ctx := context.Background()

	require.NoError(t, service.DeleteItem(ctx, milk.ID.String(), user.ID.String()))
	assert.ErrorIs(t, service.DeleteItem(ctx, milk.ID.String(), user.ID.String()), domain.ErrItemNotFound)
}

func TestItemOwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	intruder := seedUser(t, db, "intruder@example.com")
	milk := newSeedItem("Milk", "2.50", "1")
	receipt := seedReceipt(t, db, owner.ID, milk)
	service := NewItemService(NewItemRepository(db))
	ctx := context.Background()

	_, err := service.AddItem(ctx, receipt.ID.String(), domain.CreateItemRequest{
		Name:  "Sneaky",
		Price: decimal.RequireFromString("1.00"),
	}, intruder.ID.String())
	assert.ErrorIs(t, err, domain.ErrReceiptNotFound)

	_, err = service.UpdateItem(ctx, milk.ID.String(), domain.UpdateItemRequest{Price: decPtr("0.01")}, intruder.ID.String())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	assert.ErrorIs(t, service.DeleteItem(ctx, milk.ID.String(), intruder.ID.String()), domain.ErrItemNotFound)

	// The owner's data is untouched by the failed attempts.
	assert.True(t, reloadTotal(t, db, receipt.ID).Equal(decimal.RequireFromString("2.50")))
	requireConsistent(t, db, receipt.ID)
}

func TestItemRejectsNegativeValues(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "negative@example.com")
	milk := newSeedItem("Milk", "2.50", "1")
	receipt := seedReceipt(t, db, user.ID, milk)
	service := NewItemService(NewItemRepository(db))
	ctx := context.Background()

	_, err := service.AddItem(ctx, receipt.ID.String(), domain.CreateItemRequest{
		Name:  "Refund",
		Price: decimal.RequireFromString("-1.00"),
	}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = service.AddItem(ctx, receipt.ID.String(), domain.CreateItemRequest{
		Name:     "Ghost",
		Price:    decimal.RequireFromString("1.00"),
		Quantity: decPtr("-2"),
	}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = service.UpdateItem(ctx, milk.ID.String(), domain.UpdateItemRequest{Price: decPtr("-0.50")}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	assert.True(t, reloadTotal(t, db, receipt.ID).Equal(decimal.RequireFromString("2.50")))
}

func TestAddItemZeroPriceAllowed(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "freebie@example.com")
	receipt := seedReceipt(t, db, user.ID, newSeedItem("Milk", "2.50", "1"))
	service := NewItemService(NewItemRepository(db))

	resp, err := service.AddItem(context.Background(), receipt.ID.String(), domain.CreateItemRequest{
		Name:  "Free Sample",
		Price: decimal.Zero,
	}, user.ID.String())
	require.NoError(t, err)

	assert.True(t, resp.Price.IsZero())
	assert.True(t, reloadTotal(t, db, receipt.ID).Equal(decimal.RequireFromString("2.50")))
}
