package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"gulf-float-booking/internal/handlers"
	"gulf-float-booking/internal/middleware"
)

// Handlers bundles the HTTP handlers wired into the router.
type Handlers struct {
	Catalog *handlers.CatalogHandler
	Cart    *handlers.CartHandler
	Waiver  *handlers.WaiverHandler
	Booking *handlers.BookingHandler
	Payment *handlers.PaymentHandler
	Contact *handlers.ContactHandler
}

// NewRouter assembles the API router with the standard middleware stack.
func NewRouter(h Handlers, logger *zap.Logger, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(allowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/services", h.Catalog.List)
		r.Get("/services/{serviceID}", h.Catalog.Get)

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", h.Cart.Create)
			r.Route("/{cartID}", func(r chi.Router) {
				r.Get("/", h.Cart.Get)
				r.Post("/items", h.Cart.AddItem)
				r.Put("/items/{index}", h.Cart.UpdateItem)
				r.Delete("/items/{index}", h.Cart.RemoveItem)
				r.Put("/customer", h.Cart.SetCustomer)
				r.Post("/checkout", h.Cart.Checkout)
			})
		})

		r.Route("/waivers", func(r chi.Router) {
			r.Post("/", h.Waiver.Submit)
			r.Get("/", h.Waiver.List)
			r.Get("/status/{cartID}", h.Waiver.Status)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", h.Booking.List)
			r.Get("/{bookingID}", h.Booking.Get)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/checkout/status/{sessionID}", h.Payment.SessionStatus)
			r.Get("/checkout/confirm/{sessionID}", h.Payment.ConfirmSession)
		})

		r.Post("/webhook/stripe", h.Payment.StripeWebhook)
		r.Post("/contact", h.Contact.Submit)
	})

	return r
}
