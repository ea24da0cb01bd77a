package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"badgehub/internal/platform/middleware"
)

// NewRouter wires the public badge endpoints, the administrative surface,
// and operational routes. The transport stays thin: handlers delegate to
// domain services and translate coded errors to status codes.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	// Public JSON documents consumed by badge validators.
	r.Get("/organization/", h.handleIssuer)
	r.Get("/revoked/", h.handleRevocationList)
	r.Get("/badge/{slug}/", h.handleBadge)
	r.Get("/assertion/{uuid}/", h.handleAssertion)

	// Media and per-recipient image endpoints.
	r.Get("/media/*", h.handleMedia)
	r.Get("/badge_image/{slug}/{user}/image", h.badgeImage(modeID))
	r.Get("/badge_image_email/{slug}/{user}/image", h.badgeImage(modeEmail))

	// HTML pages.
	r.Get("/criterion/{slug}/", h.handleCriterion)
	r.Get("/user_badges/{user}/", h.userBadges(modeID))
	r.Get("/user_badges_email/{user}/", h.userBadges(modeEmail))
	r.Get("/user_badge/{slug}/{user}/", h.userBadge(modeID))
	r.Get("/user_badge_email/{slug}/{user}/", h.userBadge(modeEmail))

	// Administrative writes.
	r.Route("/admin", func(r chi.Router) {
		r.Post("/users", h.handleCreateUser)
		r.Put("/users/{id}/email", h.handleChangeEmail)
		r.Post("/badges", h.handleCreateBadge)
		r.Post("/criteria", h.handleCreateCriterion)
		r.Put("/issuer", h.handleSaveIssuer)
		r.Post("/awards", h.handleCreateAward)
		r.Post("/revocations", h.handleCreateRevocation)
	})

	// Operational routes.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
