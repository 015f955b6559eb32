package service

import (
	"context"
	"fmt"
	"time"

	"glowmart/internal/domain"
	"glowmart/internal/repository"

	"github.com/google/uuid"
)

// CartService defines the interface for shopping cart business logic.
// Every operation takes the acting user's ID explicitly; items belonging to
// another user's cart are reported as not found.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*domain.Order, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.Order, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*domain.Order, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.Order, error)
}

type cartService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's open cart, creating an empty one if absent
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	cart, err := s.orderRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// AddItem puts quantity units of a product into the user's cart. If the
// product already has a line item the quantities are merged. The product's
// current price is snapshotted onto a new line item and never updated
// afterwards. Requested quantities beyond available stock fail with
// repository.ErrInsufficientStock.
func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.Order, error) {
	// Malformed quantities fall back to a single unit.
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.orderRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	var existing *domain.OrderItem
	for _, item := range cart.Items {
		if item.ProductID == productID {
			existing = item
			break
		}
	}

	if existing != nil {
		newQuantity := existing.Quantity + quantity
		if newQuantity > product.AvailableStock {
			return nil, repository.ErrInsufficientStock
		}
		if err := s.orderRepo.UpdateItemQuantity(ctx, existing.ID, newQuantity); err != nil {
			return nil, fmt.Errorf("failed to update item quantity: %w", err)
		}
	} else {
		if quantity > product.AvailableStock {
			return nil, repository.ErrInsufficientStock
		}
		item := &domain.OrderItem{
			ID:              uuid.New(),
			OrderID:         cart.ID,
			ProductID:       productID,
			Quantity:        quantity,
			PriceAtPurchase: product.Price,
			CreatedAt:       time.Now(),
		}
		if err := s.orderRepo.CreateItem(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to add item: %w", err)
		}
	}

	return s.orderRepo.FindOpenCart(ctx, userID)
}

// UpdateItemQuantity sets a line item's quantity. A quantity below one
// removes the item entirely.
func (s *cartService) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*domain.Order, error) {
	if quantity < 1 {
		return s.RemoveItem(ctx, userID, itemID)
	}

	item, err := s.findCartItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}

	if quantity > product.AvailableStock {
		return nil, repository.ErrInsufficientStock
	}

	if err := s.orderRepo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, fmt.Errorf("failed to update item quantity: %w", err)
	}

	return s.orderRepo.FindOpenCart(ctx, userID)
}

// RemoveItem deletes a line item from the user's cart unconditionally
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.Order, error) {
	item, err := s.findCartItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.DeleteItem(ctx, item.ID); err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}

	return s.orderRepo.FindOpenCart(ctx, userID)
}

// findCartItem resolves an item ID inside the caller's open cart. Items in
// other users' carts or completed orders come back as not found.
func (s *cartService) findCartItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.OrderItem, error) {
	cart, err := s.orderRepo.FindOpenCart(ctx, userID)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return nil, repository.ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	for _, item := range cart.Items {
		if item.ID == itemID {
			return item, nil
		}
	}

	return nil, repository.ErrOrderItemNotFound
}
