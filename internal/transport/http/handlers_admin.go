package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"badgehub/internal/award"
	"badgehub/internal/catalog"
	"badgehub/internal/domain"
	"badgehub/internal/issuer"
	dErrors "badgehub/pkg/domain-errors"
)

// Administrative surface. These endpoints back the operator tooling that
// the Django admin used to provide; they reuse the same services and error
// codes as the public routes.

type createUserRequest struct {
	Email string `json:"email"`
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	user, err := h.users.Register(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": user.ID, "email": user.Email})
}

func (h *Handler) handleChangeEmail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user id"))
		return
	}
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	user, err := h.users.ChangeEmail(r.Context(), id, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": user.ID, "email": user.Email})
}

type alignmentRequest struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type createBadgeRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Slug        string             `json:"slug"`
	Criteria    string             `json:"criteria"`
	Image       []byte             `json:"image"`
	Alignments  []alignmentRequest `json:"alignments"`
	Tags        []string           `json:"tags"`
}

func (h *Handler) handleCreateBadge(w http.ResponseWriter, r *http.Request) {
	var req createBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	alignments := make([]domain.Alignment, 0, len(req.Alignments))
	for _, a := range req.Alignments {
		alignments = append(alignments, domain.Alignment{Name: a.Name, URL: a.URL, Description: a.Description})
	}
	badge, err := h.catalog.CreateBadge(r.Context(), catalog.CreateBadgeInput{
		Title:       req.Title,
		Description: req.Description,
		Slug:        req.Slug,
		Criteria:    req.Criteria,
		Image:       req.Image,
		Alignments:  alignments,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.catalog.Document(badge))
}

type createCriterionRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (h *Handler) handleCreateCriterion(w http.ResponseWriter, r *http.Request) {
	var req createCriterionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	err := h.catalog.CreateCriterion(r.Context(), domain.Criterion{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

type saveIssuerRequest struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Image       []byte `json:"image"`
}

func (h *Handler) handleSaveIssuer(w http.ResponseWriter, r *http.Request) {
	var req saveIssuerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	record, err := h.issuers.Save(r.Context(), issuer.SaveInput{
		Name:        req.Name,
		URL:         req.URL,
		Description: req.Description,
		Email:       req.Email,
		Image:       req.Image,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.issuers.Document(record))
}

type createAwardRequest struct {
	UserID    int64  `json:"user_id"`
	BadgeSlug string `json:"badge_slug"`
	Evidence  string `json:"evidence"`
	Expires   string `json:"expires"`
}

func (h *Handler) handleCreateAward(w http.ResponseWriter, r *http.Request) {
	var req createAwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	var expires time.Time
	if req.Expires != "" {
		parsed, err := time.Parse(domain.DateOnly, req.Expires)
		if err != nil {
			writeError(w, dErrors.New(dErrors.CodeBadRequest, "expires must be YYYY-MM-DD"))
			return
		}
		expires = parsed
	}
	created, err := h.awards.Create(r.Context(), award.CreateInput{
		UserID:    req.UserID,
		BadgeSlug: req.BadgeSlug,
		Evidence:  req.Evidence,
		Expires:   expires,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.awards.Document(created))
}

type createRevocationRequest struct {
	UID    string `json:"uid"`
	Reason string `json:"reason"`
}

func (h *Handler) handleCreateRevocation(w http.ResponseWriter, r *http.Request) {
	var req createRevocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.revocations.Revoke(r.Context(), req.UID, req.Reason); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}
