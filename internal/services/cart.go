package services

import (
	"fmt"
	"time"

	"gulf-float-booking/internal/models"
	"gulf-float-booking/internal/store"
)

// AddItemRequest carries the caller-supplied fields for a new line item.
type AddItemRequest struct {
	ServiceID       string `json:"service_id" validate:"required"`
	Quantity        int    `json:"quantity" validate:"required,min=1"`
	BookingDate     string `json:"booking_date" validate:"required"`
	BookingTime     string `json:"booking_time" validate:"required"`
	SpecialRequests string `json:"special_requests"`
}

// CartService validates cart mutations against the catalog before handing
// them to the store. The unit price is captured from the catalog at add
// time, so later price changes never touch existing carts.
type CartService struct {
	store   *store.CartStore
	catalog *CatalogService
	now     func() time.Time
}

// NewCartService creates a cart service.
func NewCartService(store *store.CartStore, catalog *CatalogService) *CartService {
	return &CartService{
		store:   store,
		catalog: catalog,
		now:     time.Now,
	}
}

// Create allocates a fresh empty cart.
func (s *CartService) Create() *models.Cart {
	return s.store.Create()
}

// Get returns the cart, distinguishing expired from not-found.
func (s *CartService) Get(cartID string) (*models.Cart, error) {
	return s.store.Get(cartID)
}

// AddItem validates and appends a line item.
func (s *CartService) AddItem(cartID string, req AddItemRequest) (*models.Cart, error) {
	service, err := s.catalog.Lookup(req.ServiceID)
	if err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, models.ErrInvalidQuantity
	}

	if _, err := time.Parse("2006-01-02", req.BookingDate); err != nil {
		return nil, fmt.Errorf("invalid booking date %q: %w", req.BookingDate, err)
	}
	// ISO dates compare correctly as strings
	if req.BookingDate < s.now().Format("2006-01-02") {
		return nil, models.ErrInvalidDate
	}
	if _, err := time.Parse("15:04", req.BookingTime); err != nil {
		return nil, fmt.Errorf("invalid booking time %q: %w", req.BookingTime, err)
	}

	item := models.CartItem{
		ServiceID:       service.ID,
		ServiceName:     service.Name,
		UnitPrice:       service.Price,
		Quantity:        req.Quantity,
		BookingDate:     req.BookingDate,
		BookingTime:     req.BookingTime,
		SpecialRequests: req.SpecialRequests,
	}
	return s.store.AddItem(cartID, item)
}

// UpdateQuantity changes an item's quantity; zero or less removes the item.
func (s *CartService) UpdateQuantity(cartID string, index, quantity int) (*models.Cart, error) {
	return s.store.UpdateQuantity(cartID, index, quantity)
}

// RemoveItem deletes the item at index.
func (s *CartService) RemoveItem(cartID string, index int) (*models.Cart, error) {
	return s.store.RemoveItem(cartID, index)
}

// SetCustomerInfo merges partial customer info into the cart.
func (s *CartService) SetCustomerInfo(cartID string, info models.CustomerInfo) (*models.Cart, error) {
	return s.store.SetCustomerInfo(cartID, info)
}

// Consume atomically marks the cart checked out and returns its final
// snapshot. Only the checkout orchestrator calls this.
func (s *CartService) Consume(cartID string) (*models.Cart, error) {
	return s.store.Consume(cartID)
}
