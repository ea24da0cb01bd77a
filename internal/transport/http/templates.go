package httptransport

import (
	"embed"
	"html/template"
	"net/http"

	"badgehub/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type criterionPage struct {
	Criterion domain.Criterion
}

type userBadgesPage struct {
	User   domain.User
	Awards []domain.Award
}

type userBadgePage struct {
	Award domain.Award
	Badge domain.Badge
}

func (h *Handler) renderHTML(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "render template",
			"template", name,
			"error", err.Error(),
		)
	}
}
