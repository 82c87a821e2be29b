package httpapi

import (
	"net/http"

	"github.com/propdesk/prop-grading/internal/domain/formula"
)

func (h *Handler) ListFormulas(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFormulas")
	defer span.End()

	kinds := formula.Kinds()
	items := make([]formulaDTO, 0, len(kinds))
	for _, kind := range kinds {
		items = append(items, formulaDTO{
			Kind:           string(kind),
			RequiredFields: formula.RequiredFields(kind),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type formulaDTO struct {
	Kind           string   `json:"kind"`
	RequiredFields []string `json:"requiredFields"`
}
