package router

import (
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/port/http/handler"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/port/http/middleware"
	"github.com/go-chi/chi/v5"
)

// New builds the service router. Read endpoints are public; everything that
// moves funds or acts on behalf of a caller requires a valid JWT.
func New(h *handler.RentalHandler, jwtSecret string, log logger.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestLogger(log))

	mux.Get("/api/listings", h.HandleListListings)
	mux.Get("/api/listings/count", h.HandleGetCount)
	mux.Get("/api/listings/{id}", h.HandleGetListing)
	mux.Get("/api/listings/{id}/rental", h.HandleGetRental)
	mux.Get("/api/events", h.HandleListEvents)
	mux.Get("/api/escrow/balance", h.HandleEscrowBalance)

	mux.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret, log))

		r.Post("/api/listings", h.HandleCreateListing)
		r.Post("/api/listings/{id}/rent", h.HandleRent)
		r.Post("/api/listings/{id}/return", h.HandleReturn)
		r.Get("/api/listings/{id}/receipt", h.HandleReceipt)
		r.Get("/api/rentals/mine", h.HandleMyRentals)
		r.Get("/api/accounts/{id}", h.HandleGetAccount)
	})

	return mux
}
