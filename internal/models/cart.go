package models

import "time"

// Cart represents a server-held shopping cart. The ID is an opaque bearer
// token: anyone holding it can read and mutate the cart.
type Cart struct {
	ID           string       `json:"id"`
	Items        []CartItem   `json:"items"`
	CustomerInfo CustomerInfo `json:"customer_info"`
	Subtotal     int          `json:"subtotal"` // Cached sum of item subtotals, in cents
	CreatedAt    time.Time    `json:"created_at"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// CartItem represents one reservation line in a cart. UnitPrice is captured
// at add time so later catalog changes do not affect existing carts.
type CartItem struct {
	ServiceID       string `json:"service_id"`
	ServiceName     string `json:"service_name"`
	UnitPrice       int    `json:"unit_price"` // in cents
	Quantity        int    `json:"quantity"`
	BookingDate     string `json:"booking_date"` // YYYY-MM-DD
	BookingTime     string `json:"booking_time"` // HH:MM
	SpecialRequests string `json:"special_requests,omitempty"`
	Subtotal        int    `json:"subtotal"` // unit_price * quantity, in cents
}

// CustomerInfo holds the contact details collected before checkout.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Merge applies a partial update: empty fields in the incoming info leave
// the existing values untouched.
func (c *CustomerInfo) Merge(in CustomerInfo) {
	if in.Name != "" {
		c.Name = in.Name
	}
	if in.Email != "" {
		c.Email = in.Email
	}
	if in.Phone != "" {
		c.Phone = in.Phone
	}
}

// GuestCount returns the summed quantity across all items. The waiver gate
// compares this against the signed guest list.
func (c *Cart) GuestCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// RecomputeSubtotal refreshes each item subtotal and the cached cart
// subtotal. Every cart mutation must call this before returning.
func (c *Cart) RecomputeSubtotal() {
	total := 0
	for i := range c.Items {
		c.Items[i].Subtotal = c.Items[i].UnitPrice * c.Items[i].Quantity
		total += c.Items[i].Subtotal
	}
	c.Subtotal = total
}

// Clone returns a deep copy so callers can hand carts out without exposing
// the store's live item slice.
func (c *Cart) Clone() *Cart {
	out := *c
	out.Items = make([]CartItem, len(c.Items))
	copy(out.Items, c.Items)
	return &out
}
