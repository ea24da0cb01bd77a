package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"badgehub/internal/assertion"
	"badgehub/internal/award"
	"badgehub/internal/catalog"
	"badgehub/internal/issuer"
	"badgehub/internal/revocation"
	"badgehub/internal/storage"
	"badgehub/internal/users"
)

const (
	modeID    = assertion.ModeID
	modeEmail = assertion.ModeEmail
)

// Handler is the thin HTTP layer over the badge services.
type Handler struct {
	logger      *slog.Logger
	users       *users.Service
	catalog     *catalog.Service
	issuers     *issuer.Service
	awards      *award.Service
	revocations *revocation.Service
	assertions  *assertion.Service
	media       storage.MediaStore
}

func NewHandler(
	logger *slog.Logger,
	userSvc *users.Service,
	catalogSvc *catalog.Service,
	issuerSvc *issuer.Service,
	awardSvc *award.Service,
	revocationSvc *revocation.Service,
	assertionSvc *assertion.Service,
	media storage.MediaStore,
) *Handler {
	return &Handler{
		logger:      logger,
		users:       userSvc,
		catalog:     catalogSvc,
		issuers:     issuerSvc,
		awards:      awardSvc,
		revocations: revocationSvc,
		assertions:  assertionSvc,
		media:       media,
	}
}

func (h *Handler) handleIssuer(w http.ResponseWriter, r *http.Request) {
	record, err := h.issuers.Get(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "issuer lookup failed", "error", err.Error())
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.issuers.Document(record))
}

func (h *Handler) handleRevocationList(w http.ResponseWriter, r *http.Request) {
	revocations, err := h.revocations.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "revocation list failed", "error", err.Error())
		writeError(w, err)
		return
	}
	// Wire format fixed by the revocation feed: one single-entry object
	// per revoked award.
	list := make([]map[string]string, 0, len(revocations))
	for _, rev := range revocations {
		list = append(list, map[string]string{rev.AwardUID: rev.Reason})
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleBadge(w http.ResponseWriter, r *http.Request) {
	badge, err := h.catalog.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.catalog.Document(badge))
}

func (h *Handler) handleAssertion(w http.ResponseWriter, r *http.Request) {
	result, err := h.assertions.LookupByUID(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "assertion lookup failed", "error", err.Error())
		writeError(w, err)
		return
	}
	switch result.Outcome {
	case assertion.OutcomeNotFound:
		w.WriteHeader(http.StatusNotFound)
	case assertion.OutcomeRevoked:
		writeJSON(w, http.StatusGone, map[string]bool{"revoked": true})
	default:
		writeJSON(w, http.StatusOK, result.Document)
	}
}

func (h *Handler) handleMedia(w http.ResponseWriter, r *http.Request) {
	data, err := h.media.Get(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}

func (h *Handler) badgeImage(mode assertion.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := h.assertions.BadgeImage(r.Context(),
			chi.URLParam(r, "slug"), chi.URLParam(r, "user"), mode)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}
}

func (h *Handler) handleCriterion(w http.ResponseWriter, r *http.Request) {
	criterion, err := h.catalog.CriterionBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.renderHTML(w, r, "criterion.html", criterionPage{Criterion: criterion})
}

func (h *Handler) userBadges(mode assertion.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, awards, err := h.assertions.AwardsForUser(r.Context(), chi.URLParam(r, "user"), mode)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		h.renderHTML(w, r, "user_badges.html", userBadgesPage{User: user, Awards: awards})
	}
}

func (h *Handler) userBadge(mode assertion.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, badge, err := h.assertions.AwardForUserAndBadge(r.Context(),
			chi.URLParam(r, "slug"), chi.URLParam(r, "user"), mode)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		h.renderHTML(w, r, "user_badge.html", userBadgePage{Award: found, Badge: badge})
	}
}
