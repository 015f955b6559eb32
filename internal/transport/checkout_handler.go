package transport

import (
	"errors"
	"net/http"
	"time"

	"glowmart/internal/middleware"
	"glowmart/internal/repository"
	"glowmart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutRequest represents the shipping/contact form submitted at checkout
type CheckoutRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	HouseNumber string `json:"house_number" validate:"required"`
	RoadNumber  string `json:"road_number" validate:"required"`
	PostalCode  string `json:"postal_code" validate:"required"`
	District    string `json:"district" validate:"required"`
	Country     string `json:"country"`
}

// CheckoutResponse represents the outcome of a successful checkout
type CheckoutResponse struct {
	OrderID     string `json:"order_id"`
	CompletedAt string `json:"completed_at"`
	TotalItems  int    `json:"total_items"`
	TotalPrice  string `json:"total_price"`
}

// CheckoutHandler handles the checkout endpoint
type CheckoutHandler struct {
	checkoutService service.CheckoutService
	logger          *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// RegisterRoutes registers the checkout route; it requires auth
func (h *CheckoutHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/api/checkout", h.Checkout)
	})
}

// Checkout persists the shipping form and completes the caller's cart
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Checkout validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.checkoutService.Checkout(r.Context(), userID, service.CheckoutForm{
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		HouseNumber: req.HouseNumber,
		RoadNumber:  req.RoadNumber,
		PostalCode:  req.PostalCode,
		District:    req.District,
		Country:     req.Country,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			middleware.RespondWithError(w, http.StatusBadRequest, "cart is empty")
		case errors.Is(err, service.ErrInvalidPhoneNumber), errors.Is(err, service.ErrMissingField):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrInsufficientStock):
			middleware.RespondWithError(w, http.StatusConflict, "insufficient stock")
		case errors.Is(err, repository.ErrUserNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
		default:
			h.logger.Error("Checkout failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to complete checkout")
		}
		return
	}

	h.logger.Info("Order completed",
		zap.String("user_id", userID.String()),
		zap.String("order_id", order.ID.String()),
	)

	response := CheckoutResponse{
		OrderID:    order.ID.String(),
		TotalItems: order.TotalItems(),
		TotalPrice: order.TotalPrice().StringFixed(2),
	}
	if order.CompletedAt != nil {
		response.CompletedAt = order.CompletedAt.UTC().Format(time.RFC3339)
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}
