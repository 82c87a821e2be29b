package httpapi

import (
	"context"
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/propdesk/prop-grading/internal/usecase"
)

func (h *Handler) SelectEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectEvent")
	defer span.End()

	var req selectEventRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.selection.Select(req.Source, req.GameID, req.TeamCodes)
	h.logger.InfoContext(ctx, "event selected", "source", req.Source, "game_id", req.GameID)

	writeSuccess(ctx, w, http.StatusAccepted, selectionToDTO(ctx, h.selection.Snapshot()))
}

func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSelection")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, selectionToDTO(ctx, h.selection.Snapshot()))
}

func (h *Handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearSelection")
	defer span.End()

	h.selection.Clear()
	writeSuccess(ctx, w, http.StatusOK, selectionToDTO(ctx, h.selection.Snapshot()))
}

type selectEventRequest struct {
	Source    string   `json:"source" validate:"required"`
	GameID    string   `json:"gameId" validate:"required"`
	TeamCodes []string `json:"teamCodes" validate:"max=2,dive,required"`
}

type selectionDTO struct {
	State    string       `json:"state"`
	Source   string       `json:"source,omitempty"`
	GameID   string       `json:"gameId,omitempty"`
	Message  string       `json:"message,omitempty"`
	BoxScore *boxScoreDTO `json:"boxScore,omitempty"`
}

func selectionToDTO(ctx context.Context, snap usecase.SelectionSnapshot) selectionDTO {
	ctx, span := startSpan(ctx, "httpapi.selectionToDTO")
	defer span.End()

	dto := selectionDTO{
		State:   string(snap.State),
		Source:  snap.Source,
		GameID:  snap.GameID,
		Message: snap.Message,
	}
	if snap.State == usecase.SelectionReady {
		view := boxScoreToDTO(ctx, snap.View)
		dto.BoxScore = &view
	}
	return dto
}
