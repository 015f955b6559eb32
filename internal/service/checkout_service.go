package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glowmart/internal/domain"
	"glowmart/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidPhoneNumber = errors.New("phone number must be 11 digits starting with 01")
	ErrMissingField       = errors.New("required field is missing")
)

// CheckoutForm carries the shipping and contact details submitted at
// checkout. Its fields overwrite the user's profile before completion.
type CheckoutForm struct {
	FirstName   string
	MiddleName  string
	LastName    string
	PhoneNumber string
	HouseNumber string
	RoadNumber  string
	PostalCode  string
	District    string
	Country     string
}

// Validate checks the form's required fields and phone format.
func (f *CheckoutForm) Validate() error {
	required := map[string]string{
		"first_name":   f.FirstName,
		"last_name":    f.LastName,
		"phone_number": f.PhoneNumber,
		"house_number": f.HouseNumber,
		"road_number":  f.RoadNumber,
		"postal_code":  f.PostalCode,
		"district":     f.District,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}

	if !domain.ValidPhoneNumber(f.PhoneNumber) {
		return ErrInvalidPhoneNumber
	}

	return nil
}

// CheckoutService orchestrates the one user-facing checkout action:
// persist the shipping form onto the profile, then complete the open cart.
type CheckoutService interface {
	Checkout(ctx context.Context, userID uuid.UUID, form CheckoutForm) (*domain.Order, error)
}

type checkoutService struct {
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(userRepo repository.UserRepository, orderRepo repository.OrderRepository) CheckoutService {
	return &checkoutService{
		userRepo:  userRepo,
		orderRepo: orderRepo,
	}
}

// Checkout validates the form, overwrites the user's profile, refuses an
// empty cart, and completes the order. Outcomes surface as ErrEmptyCart,
// ErrInvalidPhoneNumber/ErrMissingField, repository.ErrInsufficientStock,
// or the completed order.
func (s *checkoutService) Checkout(ctx context.Context, userID uuid.UUID, form CheckoutForm) (*domain.Order, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = form.FirstName
	user.MiddleName = form.MiddleName
	user.LastName = form.LastName
	user.PhoneNumber = form.PhoneNumber
	user.HouseNumber = form.HouseNumber
	user.RoadNumber = form.RoadNumber
	user.PostalCode = form.PostalCode
	user.District = form.District
	if form.Country != "" {
		user.Country = form.Country
	} else if user.Country == "" {
		user.Country = domain.DefaultCountry
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save shipping details: %w", err)
	}

	cart, err := s.orderRepo.FindOpenCart(ctx, userID)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return nil, ErrEmptyCart
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if cart.TotalItems() == 0 {
		return nil, ErrEmptyCart
	}

	if err := s.orderRepo.Complete(ctx, cart.ID, time.Now()); err != nil {
		return nil, err
	}

	completed, err := s.orderRepo.FindByID(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed order: %w", err)
	}

	return completed, nil
}
