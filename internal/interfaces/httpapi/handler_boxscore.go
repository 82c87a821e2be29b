package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/propdesk/prop-grading/internal/domain/statrecord"
	"github.com/propdesk/prop-grading/internal/usecase"
)

func (h *Handler) GetBoxScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBoxScore")
	defer span.End()

	query := r.URL.Query()
	req := boxScoreRequest{
		Source:    strings.TrimSpace(query.Get("source")),
		GameID:    strings.TrimSpace(query.Get("gameID")),
		TeamCodes: splitCSV(query.Get("teamCodes")),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.boxScoreService.GetBoxScore(ctx, req.Source, req.GameID, req.TeamCodes)
	if err != nil {
		h.logger.WarnContext(ctx, "get box score failed", "source", req.Source, "game_id", req.GameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, boxScoreToDTO(ctx, view))
}

func (h *Handler) GetReadout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetReadout")
	defer span.End()

	query := r.URL.Query()
	req := readoutRequest{
		Source:   strings.TrimSpace(query.Get("source")),
		GameID:   strings.TrimSpace(query.Get("gameID")),
		Metric:   strings.TrimSpace(query.Get("metric")),
		Scope:    strings.TrimSpace(query.Get("scope")),
		EntityID: strings.TrimSpace(query.Get("entityId")),
		TeamAbv:  strings.TrimSpace(query.Get("teamAbv")),
		AllStats: query.Get("allStats") == "true",
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scope, err := parseScope(req.Scope, req.EntityID, req.TeamAbv)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.boxScoreService.EvaluateStat(ctx, usecase.ReadoutInput{
		Source:   req.Source,
		GameID:   req.GameID,
		Metric:   req.Metric,
		Scope:    scope,
		AllStats: req.AllStats,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "readout failed", "source", req.Source, "game_id", req.GameID, "metric", req.Metric, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, readoutDTO{
		Metric:      req.Metric,
		ResolvedKey: view.ResolvedKey,
		Value:       view.Value,
		MenuKeys:    view.MenuKeys,
	})
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	query := r.URL.Query()
	req := listPlayersRequest{
		Source:    strings.TrimSpace(query.Get("source")),
		TeamCodes: splitCSV(query.Get("teamAbv")),
		Season:    strings.TrimSpace(query.Get("season")),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	roster, err := h.boxScoreService.ListPlayers(ctx, req.Source, req.TeamCodes, req.Season)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "source", req.Source, "teams", strings.Join(req.TeamCodes, ","), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, listPlayersDTO{
		Source:      req.Source,
		PlayersByID: recordsToDTO(ctx, roster),
	})
}

type boxScoreRequest struct {
	Source    string   `validate:"required"`
	GameID    string   `validate:"required"`
	TeamCodes []string `validate:"max=2,dive,required"`
}

type readoutRequest struct {
	Source   string `validate:"required"`
	GameID   string `validate:"required"`
	Metric   string `validate:"required"`
	Scope    string `validate:"omitempty,oneof=all entity team"`
	EntityID string
	TeamAbv  string
	AllStats bool
}

type listPlayersRequest struct {
	Source    string   `validate:"required"`
	TeamCodes []string `validate:"required,min=1,dive,required"`
	Season    string
}

type boxScoreDTO struct {
	Source      string               `json:"source"`
	GameID      string               `json:"gameId"`
	Raw         map[string]any       `json:"raw,omitempty"`
	PlayersByID map[string]recordDTO `json:"playersById"`
	StatKeys    []string             `json:"statKeys"`
	TeamCodes   []string             `json:"teamCodes"`
}

type readoutDTO struct {
	Metric      string   `json:"metric"`
	ResolvedKey string   `json:"resolvedKey"`
	Value       float64  `json:"value"`
	MenuKeys    []string `json:"menuKeys"`
}

type listPlayersDTO struct {
	Source      string               `json:"source"`
	PlayersByID map[string]recordDTO `json:"playersById"`
}

type recordDTO struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"displayName"`
	TeamCode    string         `json:"teamCode"`
	Position    string         `json:"position"`
	Stats       map[string]any `json:"stats"`
}

func boxScoreToDTO(ctx context.Context, view usecase.BoxScoreView) boxScoreDTO {
	ctx, span := startSpan(ctx, "httpapi.boxScoreToDTO")
	defer span.End()

	return boxScoreDTO{
		Source:      view.Source,
		GameID:      view.GameID,
		Raw:         view.Raw,
		PlayersByID: recordsToDTO(ctx, view.PlayersByID),
		StatKeys:    view.StatKeys,
		TeamCodes:   view.TeamCodes,
	}
}

func recordsToDTO(ctx context.Context, records map[string]statrecord.Record) map[string]recordDTO {
	_, span := startSpan(ctx, "httpapi.recordsToDTO")
	defer span.End()

	out := make(map[string]recordDTO, len(records))
	for id, rec := range records {
		out[id] = recordDTO{
			ID:          rec.ID,
			DisplayName: rec.DisplayName,
			TeamCode:    rec.TeamCode,
			Position:    rec.Position,
			Stats:       rec.Stats,
		}
	}
	return out
}

func parseScope(scope, entityID, teamAbv string) (statrecord.Scope, error) {
	switch scope {
	case "", "all":
		return statrecord.AllScope(), nil
	case "entity":
		if entityID == "" {
			return statrecord.Scope{}, fmt.Errorf("%w: entityId is required for entity scope", usecase.ErrInvalidInput)
		}
		return statrecord.EntityScope(entityID), nil
	case "team":
		if teamAbv == "" {
			return statrecord.Scope{}, fmt.Errorf("%w: teamAbv is required for team scope", usecase.ErrInvalidInput)
		}
		return statrecord.TeamScope(teamAbv), nil
	default:
		return statrecord.Scope{}, fmt.Errorf("%w: unknown scope %q", usecase.ErrInvalidInput, scope)
	}
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
