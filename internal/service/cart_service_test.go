package service

import (
	"context"
	"testing"
	"time"

	"glowmart/internal/domain"
	"glowmart/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func seedProduct(products *mockProductRepository, price string, stock int) *domain.Product {
	product := &domain.Product{
		ID:             uuid.New(),
		Name:           "Steel Kettle",
		BrandID:        uuid.New(),
		CategoryID:     uuid.New(),
		Price:          decimal.RequireFromString(price),
		AvailableStock: stock,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	products.products[product.ID] = product
	return product
}

func newCartFixture() (CartService, *mockOrderRepository, *mockProductRepository) {
	products := newMockProductRepository()
	orders := newMockOrderRepository(products)
	return NewCartService(orders, products), orders, products
}

func TestGetCartCreatesEmptyCart(t *testing.T) {
	service, _, _ := newCartFixture()
	ctx := context.Background()
	userID := uuid.New()

	cart, err := service.GetCart(ctx, userID)
	if err != nil {
		t.Fatalf("GetCart failed: %v", err)
	}
	if !cart.IsOpen() {
		t.Error("new cart should be open")
	}
	if cart.TotalItems() != 0 {
		t.Errorf("new cart has %d items, want 0", cart.TotalItems())
	}

	again, err := service.GetCart(ctx, userID)
	if err != nil {
		t.Fatalf("second GetCart failed: %v", err)
	}
	if again.ID != cart.ID {
		t.Error("GetCart should return the same open cart on repeat calls")
	}
}

func TestAddItemSnapshotsPrice(t *testing.T) {
	service, _, products := newCartFixture()
	ctx := context.Background()
	userID := uuid.New()

	product := seedProduct(products, "500.00", 50)

	cart, err := service.AddItem(ctx, userID, product.ID, 5)
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	// A later price change must not affect the line item.
	product.Price = decimal.RequireFromString("999.00")

	cart, err = service.GetCart(ctx, userID)
	if err != nil {
		t.Fatalf("GetCart failed: %v", err)
	}

	want := decimal.RequireFromString("2500.00")
	if got := cart.TotalPrice(); !got.Equal(want) {
		t.Errorf("TotalPrice() = %s, want %s (snapshotted at add time)", got, want)
	}
}

func TestAddItemMergesQuantities(t *testing.T) {
	service, _, products := newCartFixture()
	ctx := context.Background()
	userID := uuid.New()

	product := seedProduct(products, "19.99", 20)

	if _, err := service.AddItem(ctx, userID, product.ID, 3); err != nil {
		t.Fatalf("first AddItem failed: %v", err)
	}
	cart, err := service.AddItem(ctx, userID, product.ID, 4)
	if err != nil {
		t.Fatalf("second AddItem failed: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("cart has %d line items, want 1", len(cart.Items))
	}
	if cart.Items[0].Quantity != 7 {
		t.Errorf("merged quantity = %d, want 7", cart.Items[0].Quantity)
	}
}

func TestAddItemClampsQuantityBelowOne(t *testing.T) {
	service, _, products := newCartFixture()
	ctx := context.Background()
	userID := uuid.New()

	product := seedProduct(products, "10.00", 10)

	cart, err := service.AddItem(ctx, userID, product.ID, -3)
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if cart.TotalItems() != 1 {
		t.Errorf("TotalItems() = %d, want 1 after clamping", cart.TotalItems())
	}
}

func TestAddItemRejectsInsufficientStock(t *testing.T) {
	service, _, products := newCartFixture()
	ctx := context.Background()
	userID := uuid.New()

	product := seedProduct(products, "500.00", 50)

	if _, err := service.AddItem(ctx, userID, product.ID, 100); err != repository.ErrInsufficientStock {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}

	// Merged quantities past stock are rejected too.
	if _, err := service.AddItem(ctx, userID, product.ID, 30); err != nil {
		t.Fatalf("AddItem within stock failed: %v", err)
	}
	if _, err := service.AddItem(ctx, userID, product.ID, 30); err != repository.ErrInsufficientStock {
		t.Errorf("expected ErrInsufficientStock on merge past stock, got %v", err)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	service, _, _ := newCartFixture()
	ctx := context.Background()

	if _, err := service.AddItem(ctx, uuid.New(), uuid.New(), 1); err != repository.ErrProductNotFound {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestUpdateItemQuantityToZeroRemovesItem(t *testing.T) {
	service, _, products := newCartFixture()
	ctx := context.Background()
	userID := uuid.New()

	product := seedProduct(products, "25.00", 10)

	cart, err := service.AddItem(ctx, userID, product.ID, 2)
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	itemID := cart.Items[0].ID

	cart, err = service.UpdateItemQuantity(ctx, userID, itemID, 0)
	if err != nil {
		t.Fatalf("UpdateItemQuantity failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("cart has %d items after update to zero, want 0", len(cart.Items))
	}
}

func TestUpdateItemQuantityRespectsStock(t *testing.T) {
	service, _, products := newCartFixture()
	ctx := context.Background()
	userID := uuid.New()

	product := seedProduct(products, "25.00", 10)

	cart, err := service.AddItem(ctx, userID, product.ID, 2)
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	itemID := cart.Items[0].ID

	if _, err := service.UpdateItemQuantity(ctx, userID, itemID, 11); err != repository.ErrInsufficientStock {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}

	cart, err = service.UpdateItemQuantity(ctx, userID, itemID, 10)
	if err != nil {
		t.Fatalf("update to full stock failed: %v", err)
	}
	if cart.Items[0].Quantity != 10 {
		t.Errorf("quantity = %d, want 10", cart.Items[0].Quantity)
	}
}

func TestCartItemsAreScopedToOwner(t *testing.T) {
	service, _, products := newCartFixture()
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	product := seedProduct(products, "25.00", 10)

	cart, err := service.AddItem(ctx, owner, product.ID, 2)
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	itemID := cart.Items[0].ID

	if _, err := service.RemoveItem(ctx, other, itemID); err != repository.ErrOrderItemNotFound {
		t.Errorf("expected ErrOrderItemNotFound for foreign item, got %v", err)
	}
	if _, err := service.UpdateItemQuantity(ctx, other, itemID, 5); err != repository.ErrOrderItemNotFound {
		t.Errorf("expected ErrOrderItemNotFound for foreign item, got %v", err)
	}
}

func TestProperty_CartTotalMatchesSnapshots(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("cart total is the sum of quantity times price at add time", prop.ForAll(
		func(priceCents []int, quantities []int) bool {
			n := len(priceCents)
			if len(quantities) < n {
				n = len(quantities)
			}

			service, _, products := newCartFixture()
			ctx := context.Background()
			userID := uuid.New()

			expected := decimal.Zero
			for i := 0; i < n; i++ {
				price := decimal.New(int64(priceCents[i]), -2)
				product := seedProduct(products, price.StringFixed(2), quantities[i])

				if _, err := service.AddItem(ctx, userID, product.ID, quantities[i]); err != nil {
					return false
				}
				expected = expected.Add(price.Mul(decimal.NewFromInt(int64(quantities[i]))))
			}

			cart, err := service.GetCart(ctx, userID)
			if err != nil {
				return false
			}
			return cart.TotalPrice().Equal(expected)
		},
		gen.SliceOf(gen.IntRange(1, 100000)),
		gen.SliceOf(gen.IntRange(1, 20)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
