package transport

import (
	"errors"
	"net/http"

	"glowmart/internal/middleware"
	"glowmart/internal/repository"
	"glowmart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateBrandRequest represents the brand creation payload
type CreateBrandRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateProductRequest represents the product creation payload. Price is a
// decimal string so no precision is lost in transit.
type CreateProductRequest struct {
	Name           string `json:"name" validate:"required"`
	BrandID        string `json:"brand_id" validate:"required,uuid"`
	CategoryID     string `json:"category_id" validate:"required,uuid"`
	Details        string `json:"details"`
	Price          string `json:"price" validate:"required"`
	AvailableStock int    `json:"available_stock" validate:"gte=0"`
	Featured       bool   `json:"featured"`
}

// CatalogHandler handles HTTP requests for storefront browsing and
// catalog administration
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers browsing routes publicly and creation routes
// behind auth plus the admin role
func (h *CatalogHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/catalog", func(r chi.Router) {
		// Public storefront routes
		r.Get("/home", h.Home)
		r.Get("/products/{productID}", h.ProductDetail)
		r.Get("/brands", h.ListBrands)
		r.Get("/categories", h.ListCategories)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireAdmin(h.logger))
			r.Post("/brands", h.CreateBrand)
			r.Post("/categories", h.CreateCategory)
			r.Post("/products", h.CreateProduct)
		})
	})
}

// Home renders the storefront home data. Optional brand/category query
// parameters narrow the product list.
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	var brandID, categoryID *uuid.UUID

	if raw := r.URL.Query().Get("brand"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid brand filter")
			return
		}
		brandID = &id
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category filter")
			return
		}
		categoryID = &id
	}

	page, err := h.catalogService.Home(r.Context(), brandID, categoryID)
	if err != nil {
		h.logger.Error("Failed to load home page data", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, page)
}

// ProductDetail renders a single product with related products
func (h *CatalogHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	page, err := h.catalogService.ProductDetail(r.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to load product detail", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, page)
}

// ListBrands returns all brands
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalogService.ListBrands(r.Context())
	if err != nil {
		h.logger.Error("Failed to list brands", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list brands")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, brands)
}

// ListCategories returns all categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// CreateBrand handles brand creation
func (h *CatalogHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req CreateBrandRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	brand, err := h.catalogService.CreateBrand(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrBrandAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "brand with this name already exists")
			return
		}
		h.logger.Error("Failed to create brand", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create brand")
		return
	}

	h.logger.Info("Brand created", zap.String("brand_id", brand.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, brand)
}

// CreateCategory handles category creation
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalogService.CreateCategory(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "category with this name already exists")
			return
		}
		h.logger.Error("Failed to create category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// CreateProduct handles product creation
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid price")
		return
	}

	brandID, err := uuid.Parse(req.BrandID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid brand ID")
		return
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), service.NewProductInput{
		Name:           req.Name,
		BrandID:        brandID,
		CategoryID:     categoryID,
		Details:        req.Details,
		Price:          price,
		AvailableStock: req.AvailableStock,
		Featured:       req.Featured,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNegativePrice), errors.Is(err, service.ErrNegativeStock), errors.Is(err, service.ErrEmptyName):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrBrandNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "brand not found")
		case errors.Is(err, repository.ErrCategoryNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		default:
			h.logger.Error("Failed to create product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		}
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}
