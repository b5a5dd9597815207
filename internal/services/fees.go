package services

import "gulf-float-booking/internal/models"

// Fee constants. Rates are expressed in basis points so all math stays in
// integers; each derived fee is rounded to the nearest cent independently.
const (
	TripProtectionFeeCents = 599 // flat trip-protection add-on
	TaxRateBps             = 700 // 7% Bay County, FL sales tax
	CardFeeRateBps         = 300 // 3% processor surcharge on card/PayPal
)

// CalculateTotals computes the canonical totals breakdown for a checkout.
// It is a pure function: same inputs always yield the same Totals, and
// FinalTotal always equals the sum of the displayed components.
func CalculateTotals(itemsSubtotal int, tripProtection bool, method models.PaymentMethod) models.Totals {
	protectionFee := 0
	if tripProtection {
		protectionFee = TripProtectionFeeCents
	}

	taxable := itemsSubtotal + protectionFee
	tax := roundBps(taxable, TaxRateBps)
	subtotalWithTax := taxable + tax

	surcharge := 0
	if method.IsHosted() {
		surcharge = roundBps(subtotalWithTax, CardFeeRateBps)
	}

	return models.Totals{
		ItemsSubtotal:   itemsSubtotal,
		ProtectionFee:   protectionFee,
		Tax:             tax,
		SubtotalWithTax: subtotalWithTax,
		Surcharge:       surcharge,
		FinalTotal:      subtotalWithTax + surcharge,
	}
}

// roundBps applies a basis-point rate to a cent amount, rounding to the
// nearest cent.
func roundBps(amount, bps int) int {
	return (amount*bps + 5000) / 10000
}
