package transport

import (
	"context"
	"time"

	"glowmart/internal/domain"
	"glowmart/internal/repository"

	"github.com/google/uuid"
)

// In-memory repositories backing the handler tests.

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	for email, existing := range m.users {
		if existing.ID == user.ID {
			m.users[email] = user
			return nil
		}
	}
	return repository.ErrUserNotFound
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func (m *mockRefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	var deleted int64
	for key, token := range m.tokens {
		if token.ExpiresAt.Before(before) {
			delete(m.tokens, key)
			deleted++
		}
	}
	return deleted, nil
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := m.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	var products []*domain.Product
	for _, product := range m.products {
		if filter.BrandID != nil && product.BrandID != *filter.BrandID {
			continue
		}
		if filter.CategoryID != nil && product.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.InStock && !product.InStock() {
			continue
		}
		if filter.Featured && !product.Featured {
			continue
		}
		products = append(products, product)
		if filter.Limit > 0 && len(products) == filter.Limit {
			break
		}
	}
	return products, nil
}

func (m *mockProductRepository) FindRelated(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]*domain.Product, error) {
	var related []*domain.Product
	for _, product := range m.products {
		if product.CategoryID != categoryID || product.ID == excludeID || !product.InStock() {
			continue
		}
		related = append(related, product)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

type mockOrderRepository struct {
	orders   map[uuid.UUID]*domain.Order
	products *mockProductRepository
}

func newMockOrderRepository(products *mockProductRepository) *mockOrderRepository {
	return &mockOrderRepository{
		orders:   make(map[uuid.UUID]*domain.Order),
		products: products,
	}
}

func (m *mockOrderRepository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	if cart, err := m.FindOpenCart(ctx, userID); err == nil {
		return cart, nil
	}
	now := time.Now()
	cart := &domain.Order{
		ID:        uuid.New(),
		UserID:    userID,
		InCart:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.orders[cart.ID] = cart
	return cart, nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) FindOpenCart(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	for _, order := range m.orders {
		if order.UserID == userID && order.InCart {
			return order, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepository) CreateItem(ctx context.Context, item *domain.OrderItem) error {
	order, exists := m.orders[item.OrderID]
	if !exists {
		return repository.ErrOrderNotFound
	}
	order.Items = append(order.Items, item)
	return nil
}

func (m *mockOrderRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	for _, order := range m.orders {
		for _, item := range order.Items {
			if item.ID == itemID {
				item.Quantity = quantity
				return nil
			}
		}
	}
	return repository.ErrOrderItemNotFound
}

func (m *mockOrderRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	for _, order := range m.orders {
		for i, item := range order.Items {
			if item.ID == itemID {
				order.Items = append(order.Items[:i], order.Items[i+1:]...)
				return nil
			}
		}
	}
	return repository.ErrOrderItemNotFound
}

func (m *mockOrderRepository) FindItem(ctx context.Context, itemID uuid.UUID) (*domain.OrderItem, error) {
	for _, order := range m.orders {
		for _, item := range order.Items {
			if item.ID == itemID {
				return item, nil
			}
		}
	}
	return nil, repository.ErrOrderItemNotFound
}

func (m *mockOrderRepository) Complete(ctx context.Context, orderID uuid.UUID, completedAt time.Time) error {
	order, exists := m.orders[orderID]
	if !exists {
		return repository.ErrOrderNotFound
	}
	if !order.InCart {
		return repository.ErrOrderNotOpen
	}

	for _, item := range order.Items {
		product, exists := m.products.products[item.ProductID]
		if !exists || product.AvailableStock < item.Quantity {
			return repository.ErrInsufficientStock
		}
	}

	for _, item := range order.Items {
		m.products.products[item.ProductID].AvailableStock -= item.Quantity
	}

	order.InCart = false
	order.CompletedAt = &completedAt
	order.UpdatedAt = completedAt
	return nil
}

type mockBrandRepository struct {
	brands map[uuid.UUID]*domain.Brand
}

func newMockBrandRepository() *mockBrandRepository {
	return &mockBrandRepository{brands: make(map[uuid.UUID]*domain.Brand)}
}

func (m *mockBrandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	for _, existing := range m.brands {
		if existing.Name == brand.Name {
			return repository.ErrBrandAlreadyExists
		}
	}
	m.brands[brand.ID] = brand
	return nil
}

func (m *mockBrandRepository) List(ctx context.Context) ([]*domain.Brand, error) {
	brands := make([]*domain.Brand, 0, len(m.brands))
	for _, brand := range m.brands {
		brands = append(brands, brand)
	}
	return brands, nil
}

func (m *mockBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	brand, exists := m.brands[id]
	if !exists {
		return nil, repository.ErrBrandNotFound
	}
	return brand, nil
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, existing := range m.categories {
		if existing.Name == category.Name {
			return repository.ErrCategoryAlreadyExists
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	categories := make([]*domain.Category, 0, len(m.categories))
	for _, category := range m.categories {
		categories = append(categories, category)
	}
	return categories, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, exists := m.categories[id]
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}
