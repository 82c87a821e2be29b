package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/propdesk/prop-grading/internal/usecase"
)

func (h *Handler) PreflightProp(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreflightProp")
	defer span.End()

	propID := strings.TrimSpace(r.PathValue("propID"))
	readiness, err := h.preflightService.Preflight(ctx, propID)
	if err != nil {
		h.logger.WarnContext(ctx, "preflight failed", "prop_id", propID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, readinessToDTO(ctx, propID, readiness))
}

func (h *Handler) GradeProp(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GradeProp")
	defer span.End()

	var req gradePropRequest
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

	operator := "unknown"
	if principal, ok := principalFromContext(ctx); ok {
		operator = principal.Subject
	}

	view, err := h.gradingService.GradeProp(ctx, req.PropID, req.DryRun)
	if err != nil {
		h.logger.WarnContext(ctx, "grade prop failed", "prop_id", req.PropID, "dry_run", req.DryRun, "operator", operator, "error", err)
		writeGradeError(ctx, w, view, err)
		return
	}

	h.logger.InfoContext(ctx, "grade prop requested", "prop_id", req.PropID, "dry_run", req.DryRun, "operator", operator)
	writeSuccess(ctx, w, http.StatusOK, gradeViewToDTO(ctx, view))
}

func (h *Handler) GradePack(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GradePack")
	defer span.End()

	packID := strings.TrimSpace(r.PathValue("packID"))

	var req gradePackRequest
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

	result, err := h.packGradingService.GradePack(ctx, usecase.PackGradeInput{
		PackID:     packID,
		DryRun:     req.DryRun,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "grade pack failed", "pack_id", packID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// writeGradeError keeps the readiness detail visible when preflight blocked
// the invocation; other failures fall through to the plain error envelope.
func writeGradeError(ctx context.Context, w http.ResponseWriter, view usecase.GradeView, err error) {
	if len(view.Readiness.Missing) == 0 {
		writeError(ctx, w, err)
		return
	}

	mapped := mapError(ctx, err)
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       gradeViewToDTO(ctx, view),
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: err.Error(),
				},
			},
		},
	})
}

type gradePropRequest struct {
	PropID string `json:"propId" validate:"required"`
	DryRun bool   `json:"dryRun"`
}

type gradePackRequest struct {
	DryRun     bool `json:"dryRun"`
	MaxWorkers int  `json:"maxWorkers" validate:"omitempty,min=1,max=16"`
}

type readinessDTO struct {
	PropID         string         `json:"propId"`
	Ready          bool           `json:"ready"`
	Missing        []string       `json:"missing"`
	ResolvedParams map[string]any `json:"resolvedParams"`
}

type gradeViewDTO struct {
	PropID    string         `json:"propId"`
	DryRun    bool           `json:"dryRun"`
	Status    string         `json:"propStatus,omitempty"`
	Result    string         `json:"propResult,omitempty"`
	Preview   map[string]any `json:"preview,omitempty"`
	Readiness readinessDTO   `json:"readiness"`
}

func readinessToDTO(ctx context.Context, propID string, readiness usecase.ReadinessResult) readinessDTO {
	_, span := startSpan(ctx, "httpapi.readinessToDTO")
	defer span.End()

	missing := readiness.Missing
	if missing == nil {
		missing = []string{}
	}
	return readinessDTO{
		PropID:         propID,
		Ready:          readiness.Ready,
		Missing:        missing,
		ResolvedParams: readiness.ResolvedParams,
	}
}

func gradeViewToDTO(ctx context.Context, view usecase.GradeView) gradeViewDTO {
	ctx, span := startSpan(ctx, "httpapi.gradeViewToDTO")
	defer span.End()

	return gradeViewDTO{
		PropID:    view.PropID,
		DryRun:    view.DryRun,
		Status:    view.Status,
		Result:    view.Result,
		Preview:   view.Preview,
		Readiness: readinessToDTO(ctx, view.PropID, view.Readiness),
	}
}
