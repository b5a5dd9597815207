package models

// PaymentMethod identifies how the customer settles a booking.
type PaymentMethod string

const (
	PaymentStripe  PaymentMethod = "stripe"
	PaymentPayPal  PaymentMethod = "paypal"
	PaymentVenmo   PaymentMethod = "venmo"
	PaymentCashApp PaymentMethod = "cashapp"
	PaymentZelle   PaymentMethod = "zelle"
)

// ValidPaymentMethod reports whether m is one of the supported methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentStripe, PaymentPayPal, PaymentVenmo, PaymentCashApp, PaymentZelle:
		return true
	}
	return false
}

// IsHosted reports whether the method redirects to an external processor
// page. Peer-payment methods are settled manually out of band.
func (m PaymentMethod) IsHosted() bool {
	return m == PaymentStripe || m == PaymentPayPal
}

// Totals is the single canonical breakdown of a checkout amount. All values
// are in cents; each derived fee is rounded to the cent before summing so
// displayed line items always add up to the displayed total.
type Totals struct {
	ItemsSubtotal   int `json:"items_subtotal"`
	ProtectionFee   int `json:"protection_fee"`
	Tax             int `json:"tax"`
	SubtotalWithTax int `json:"subtotal_with_tax"`
	Surcharge       int `json:"surcharge"`
	FinalTotal      int `json:"final_total"`
}
