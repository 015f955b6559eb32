package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"glowmart/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
	ErrOrderNotOpen      = errors.New("order is not an open cart")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// OrderRepository defines the interface for order and line item data access
type OrderRepository interface {
	// GetOrCreateCart returns the user's single open cart, creating it if
	// absent. Safe under concurrent calls for the same user.
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*domain.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindOpenCart(ctx context.Context, userID uuid.UUID) (*domain.Order, error)

	CreateItem(ctx context.Context, item *domain.OrderItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	FindItem(ctx context.Context, itemID uuid.UUID) (*domain.OrderItem, error)

	// Complete atomically transitions an open cart to completed,
	// re-checking and decrementing stock for every line item. On any
	// shortage nothing is changed and ErrInsufficientStock is returned.
	Complete(ctx context.Context, orderID uuid.UUID, completedAt time.Time) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, user_id, in_cart, completed_at, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	order := &domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.InCart,
		&order.CompletedAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrCreateCart performs an atomic find-or-insert against the partial
// unique index on (user_id) WHERE in_cart, so concurrent calls cannot
// create duplicate open carts.
func (r *orderRepository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	now := time.Now()
	insertQuery := `
		INSERT INTO orders (id, user_id, in_cart, completed_at, created_at, updated_at)
		VALUES ($1, $2, TRUE, NULL, $3, $3)
		ON CONFLICT (user_id) WHERE in_cart DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, insertQuery, uuid.New(), userID, now); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	cart, err := r.FindOpenCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart after create: %w", err)
	}

	return cart, nil
}

// FindByID retrieves an order with its line items
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// FindOpenCart retrieves the user's open cart with its line items
func (r *orderRepository) FindOpenCart(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE user_id = $1 AND in_cart = TRUE`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find open cart: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	query := `
		SELECT id, order_id, product_id, quantity, price_at_purchase, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	order.Items = []*domain.OrderItem{}
	for rows.Next() {
		item := &domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.PriceAtPurchase,
			&item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating order items: %w", err)
	}

	return nil
}

// CreateItem inserts a new line item with its snapshotted price
func (r *orderRepository) CreateItem(ctx context.Context, item *domain.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price_at_purchase, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.OrderID,
		item.ProductID,
		item.Quantity,
		item.PriceAtPurchase,
		item.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}

	return nil
}

// UpdateItemQuantity changes a line item's quantity. The snapshotted price
// is deliberately left untouched.
func (r *orderRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	query := `
		UPDATE order_items
		SET quantity = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update order item quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderItemNotFound
	}

	return nil
}

// DeleteItem removes a line item unconditionally
func (r *orderRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	query := `DELETE FROM order_items WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete order item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderItemNotFound
	}

	return nil
}

// FindItem retrieves a line item by ID
func (r *orderRepository) FindItem(ctx context.Context, itemID uuid.UUID) (*domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, price_at_purchase, created_at
		FROM order_items
		WHERE id = $1
	`

	item := &domain.OrderItem{}
	err := r.db.QueryRowContext(ctx, query, itemID).Scan(
		&item.ID,
		&item.OrderID,
		&item.ProductID,
		&item.Quantity,
		&item.PriceAtPurchase,
		&item.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("failed to find order item: %w", err)
	}

	return item, nil
}

// Complete runs the all-or-nothing checkout transaction. The order row is
// locked first, then every product is decremented with a conditional update
// that fails when stock has dropped below the requested quantity since
// add-to-cart time. Any failure rolls back the whole transaction.
func (r *orderRepository) Complete(ctx context.Context, orderID uuid.UUID, completedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin checkout transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var inCart bool
	err = tx.QueryRowContext(ctx, `SELECT in_cart FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&inCart)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to lock order: %w", err)
	}
	if !inCart {
		return ErrOrderNotOpen
	}

	// Products are decremented in a stable order so two completions that
	// share products cannot deadlock.
	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_id ASC
	`, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}

	type lineItem struct {
		productID uuid.UUID
		quantity  int
	}
	items := []lineItem{}
	for rows.Next() {
		var item lineItem
		if err := rows.Scan(&item.productID, &item.quantity); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating order items: %w", err)
	}
	rows.Close()

	for _, item := range items {
		result, err := tx.ExecContext(ctx, `
			UPDATE products
			SET available_stock = available_stock - $2
			WHERE id = $1 AND available_stock >= $2
		`, item.productID, item.quantity)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrInsufficientStock
		}
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET in_cart = FALSE, completed_at = $2
		WHERE id = $1 AND in_cart = TRUE
	`, orderID, completedAt)
	if err != nil {
		return fmt.Errorf("failed to complete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrOrderNotOpen
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checkout transaction: %w", err)
	}

	return nil
}
