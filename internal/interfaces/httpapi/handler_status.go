package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/propdesk/prop-grading/internal/domain/readout"
	"github.com/propdesk/prop-grading/internal/usecase"
)

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStatus")
	defer span.End()

	query := r.URL.Query()
	req := statusRequest{
		Source:    strings.TrimSpace(query.Get("source")),
		GameDate:  strings.TrimSpace(query.Get("gameDate")),
		GameDates: splitCSV(query.Get("gameDates")),
		Year:      strings.TrimSpace(query.Get("year")),
		Week:      strings.TrimSpace(query.Get("week")),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if len(req.GameDates) > 0 {
		games, err := h.readoutService.FetchStatusDates(ctx, req.Source, req.GameDates)
		if err != nil {
			h.logger.WarnContext(ctx, "multi-date status fetch failed", "source", req.Source, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, statusDTO{Source: req.Source, Games: gamesToDTO(ctx, games)})
		return
	}

	if req.GameDate == "" && (req.Year == "" || req.Week == "") {
		writeError(ctx, w, fmt.Errorf("%w: gameDate, gameDates, or year+week is required", usecase.ErrInvalidInput))
		return
	}

	snapshot, err := h.readoutService.FetchStatus(ctx, req.Source, usecase.ScoreboardQuery{
		GameDate: req.GameDate,
		Year:     req.Year,
		Week:     req.Week,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "status fetch failed", "source", req.Source, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statusDTO{
		Source: req.Source,
		Scope:  snapshot.Scope,
		Games:  gamesToDTO(ctx, snapshot.Games),
	})
}

type statusRequest struct {
	Source    string `validate:"required"`
	GameDate  string `validate:"omitempty,len=8,numeric"`
	GameDates []string
	Year      string `validate:"omitempty,len=4,numeric"`
	Week      string `validate:"omitempty,numeric"`
}

type statusDTO struct {
	Source string    `json:"source"`
	Scope  string    `json:"scope,omitempty"`
	Games  []gameDTO `json:"games"`
}

type gameDTO struct {
	GameID     string         `json:"gameId"`
	Away       string         `json:"away"`
	Home       string         `json:"home"`
	GameStatus string         `json:"gameStatus"`
	GameTime   string         `json:"gameTime,omitempty"`
	LineScore  map[string]any `json:"lineScore,omitempty"`
}

func gamesToDTO(ctx context.Context, games []readout.Game) []gameDTO {
	_, span := startSpan(ctx, "httpapi.gamesToDTO")
	defer span.End()

	out := make([]gameDTO, 0, len(games))
	for _, game := range games {
		out = append(out, gameDTO{
			GameID:     game.ID,
			Away:       game.Away,
			Home:       game.Home,
			GameStatus: game.GameStatus,
			GameTime:   game.GameTime,
			LineScore:  game.LineScore,
		})
	}
	return out
}
