package handlers

import (
	"net/http"

	"tenders/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterDeps - всё, что нужно маршрутизатору помимо хендлеров.
type RouterDeps struct {
	Tokens  TokenParser
	Limiter *IPRateLimiter
	Metrics http.Handler
}

// NewRouter собирает маршруты API.
func NewRouter(h *Handler, deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Instrument)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)
		r.Get("/tenders", h.GetTendersHandler)

		// учётные данные
		r.Group(func(r chi.Router) {
			if deps.Limiter != nil {
				r.Use(deps.Limiter.Middleware)
			}
			r.Post("/register_user", h.RegisterUserHandler)
			r.Post("/token", h.TokenHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(deps.Tokens))

			// организации
			r.Post("/organizations/new", h.CreateOrganizationHandler)
			r.Get("/organizations/{organizationId}", h.GetOrganizationHandler)
			r.Post("/organizations/{organizationId}/responsibles", h.AssignResponsibleHandler)

			// тендеры
			r.Post("/tenders/new", h.CreateTenderHandler)
			r.Get("/tenders/my", h.GetUserTendersHandler)
			r.Patch("/tenders/{tenderId}/publish", h.PublishTenderHandler)
			r.Post("/tenders/{tenderId}/close", h.CloseTenderHandler)
			r.Patch("/tenders/{tenderId}/edit", h.EditTenderHandler)
			r.Put("/tenders/{tenderId}/rollback/{version}", h.RollbackTenderHandler)
			r.Get("/tenders/{tenderId}/bids", h.GetBidsForTenderHandler)
			r.Get("/tenders/{tenderId}/reviews", h.GetTenderReviewsHandler)

			// предложения (bids)
			r.Post("/bids/new", h.CreateBidHandler)
			r.Get("/bids/my", h.GetUserBidsHandler)
			r.Post("/bids/{bidId}/publish", h.PublishBidHandler)
			r.Post("/bids/{bidId}/cancel", h.CancelBidHandler)
			r.Patch("/bids/{bidId}/edit", h.EditBidHandler)
			r.Put("/bids/{bidId}/rollback/{version}", h.RollbackBidHandler)
			r.Post("/bids/{bidId}/approve", h.ApproveBidHandler)
			r.Post("/bids/{bidId}/review", h.SubmitReviewHandler)
			r.Get("/bids/{bidId}/reviews", h.GetBidReviewsHandler)
		})
	})
	return r
}
