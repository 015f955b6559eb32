package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glowmart/internal/domain"
	"glowmart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// featuredLimit caps how many featured products the home page shows.
	featuredLimit = 6
	// relatedLimit caps how many related products a detail page shows.
	relatedLimit = 4
)

var (
	ErrNegativePrice = errors.New("price must not be negative")
	ErrNegativeStock = errors.New("available stock must not be negative")
	ErrEmptyName     = errors.New("name must not be empty")
)

// HomePage holds everything the storefront home view renders.
type HomePage struct {
	Products         []*domain.Product  `json:"products"`
	FeaturedProducts []*domain.Product  `json:"featured_products"`
	Brands           []*domain.Brand    `json:"brands"`
	Categories       []*domain.Category `json:"categories"`
}

// ProductPage holds a product and its related products.
type ProductPage struct {
	Product     *domain.Product   `json:"product"`
	StockStatus string            `json:"stock_status"`
	Related     []*domain.Product `json:"related_products"`
}

// NewProductInput carries the fields needed to create a product.
type NewProductInput struct {
	Name           string
	BrandID        uuid.UUID
	CategoryID     uuid.UUID
	Details        string
	Price          decimal.Decimal
	AvailableStock int
	Featured       bool
}

// CatalogService defines the interface for catalog business logic
type CatalogService interface {
	Home(ctx context.Context, brandID, categoryID *uuid.UUID) (*HomePage, error)
	ProductDetail(ctx context.Context, productID uuid.UUID) (*ProductPage, error)
	ListBrands(ctx context.Context) ([]*domain.Brand, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateBrand(ctx context.Context, name string) (*domain.Brand, error)
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	CreateProduct(ctx context.Context, input NewProductInput) (*domain.Product, error)
}

type catalogService struct {
	brandRepo    repository.BrandRepository
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	brandRepo repository.BrandRepository,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
) CatalogService {
	return &catalogService{
		brandRepo:    brandRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// Home returns in-stock products narrowed by the optional brand/category
// filters, the featured selection, and the brand/category lists for the
// filter dropdowns.
func (s *catalogService) Home(ctx context.Context, brandID, categoryID *uuid.UUID) (*HomePage, error) {
	products, err := s.productRepo.List(ctx, repository.ProductFilter{
		BrandID:    brandID,
		CategoryID: categoryID,
		InStock:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	featured, err := s.productRepo.List(ctx, repository.ProductFilter{
		InStock:  true,
		Featured: true,
		Limit:    featuredLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load featured products: %w", err)
	}

	brands, err := s.brandRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load brands: %w", err)
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	return &HomePage{
		Products:         products,
		FeaturedProducts: featured,
		Brands:           brands,
		Categories:       categories,
	}, nil
}

// ProductDetail returns a product with up to four in-stock products from
// the same category.
func (s *catalogService) ProductDetail(ctx context.Context, productID uuid.UUID) (*ProductPage, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	related, err := s.productRepo.FindRelated(ctx, product.CategoryID, product.ID, relatedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load related products: %w", err)
	}

	return &ProductPage{
		Product:     product,
		StockStatus: product.StockStatus(),
		Related:     related,
	}, nil
}

// ListBrands returns all brands
func (s *catalogService) ListBrands(ctx context.Context) ([]*domain.Brand, error) {
	return s.brandRepo.List(ctx)
}

// ListCategories returns all categories
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// CreateBrand creates a new brand
func (s *catalogService) CreateBrand(ctx context.Context, name string) (*domain.Brand, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	brand := &domain.Brand{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, err
	}

	return brand, nil
}

// CreateCategory creates a new category
func (s *catalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	category := &domain.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// CreateProduct creates a new product after checking price/stock bounds and
// that the referenced brand and category exist
func (s *catalogService) CreateProduct(ctx context.Context, input NewProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, ErrEmptyName
	}
	if input.Price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if input.AvailableStock < 0 {
		return nil, ErrNegativeStock
	}

	if _, err := s.brandRepo.FindByID(ctx, input.BrandID); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		ID:             uuid.New(),
		Name:           input.Name,
		BrandID:        input.BrandID,
		CategoryID:     input.CategoryID,
		Details:        input.Details,
		Price:          input.Price,
		AvailableStock: input.AvailableStock,
		Featured:       input.Featured,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}
