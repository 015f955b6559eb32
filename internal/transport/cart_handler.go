package transport

import (
	"errors"
	"net/http"

	"glowmart/internal/domain"
	"glowmart/internal/middleware"
	"glowmart/internal/repository"
	"glowmart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddItemRequest represents the add-to-cart request payload. Quantity is
// optional; anything below one falls back to a single unit.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest represents the quantity update payload. Zero removes
// the item.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartItemView represents a line item as rendered to the client
type CartItemView struct {
	ID              string `json:"id"`
	ProductID       string `json:"product_id"`
	Quantity        int    `json:"quantity"`
	PriceAtPurchase string `json:"price_at_purchase"`
	Subtotal        string `json:"subtotal"`
}

// CartResponse represents the cart with its totals
type CartResponse struct {
	ID         string         `json:"id"`
	Items      []CartItemView `json:"items"`
	TotalItems int            `json:"total_items"`
	TotalPrice string         `json:"total_price"`
}

func newCartResponse(order *domain.Order) CartResponse {
	items := make([]CartItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, CartItemView{
			ID:              item.ID.String(),
			ProductID:       item.ProductID.String(),
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase.StringFixed(2),
			Subtotal:        item.Subtotal().StringFixed(2),
		})
	}
	return CartResponse{
		ID:         order.ID.String(),
		Items:      items,
		TotalItems: order.TotalItems(),
		TotalPrice: order.TotalPrice().StringFixed(2),
	}
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes; every route requires auth
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetCart)
		r.Post("/items", h.AddItem)
		r.Put("/items/{itemID}", h.UpdateItem)
		r.Delete("/items/{itemID}", h.RemoveItem)
	})
}

// GetCart returns the caller's open cart, creating it on first access
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cart))
}

// AddItem adds a product to the caller's cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add item validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	cart, err := h.cartService.AddItem(r.Context(), userID, productID, req.Quantity)
	if err != nil {
		h.respondCartError(w, err, "failed to add item to cart")
		return
	}

	h.logger.Info("Item added to cart",
		zap.String("user_id", userID.String()),
		zap.String("product_id", productID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cart))
}

// UpdateItem sets a line item's quantity; zero or less removes it
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	var req UpdateItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Update item validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.cartService.UpdateItemQuantity(r.Context(), userID, itemID, req.Quantity)
	if err != nil {
		h.respondCartError(w, err, "failed to update cart item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cart))
}

// RemoveItem deletes a line item from the caller's cart
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	cart, err := h.cartService.RemoveItem(r.Context(), userID, itemID)
	if err != nil {
		h.respondCartError(w, err, "failed to remove cart item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(cart))
}

func (h *CartHandler) respondCartError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrInsufficientStock):
		middleware.RespondWithError(w, http.StatusConflict, "insufficient stock")
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrOrderItemNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "cart item not found")
	default:
		h.logger.Error("Cart operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
