package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/propdesk/prop-grading/internal/domain/formula"
	"github.com/propdesk/prop-grading/internal/domain/prop"
	"github.com/propdesk/prop-grading/internal/domain/readout"
	propmock "github.com/propdesk/prop-grading/internal/mocks/domain/prop"
	readoutmock "github.com/propdesk/prop-grading/internal/mocks/domain/readout"
)

func TestPreflightService_Preflight_SnapshotBackfillUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	propRepo := propmock.NewRepository(t)
	readoutRepo := readoutmock.NewRepository(t)

	service := NewPreflightService(propRepo, readoutRepo)
	eventTime := time.Date(2024, 4, 4, 23, 10, 0, 0, time.UTC)
	stored := prop.Prop{
		ID:         "prop-sox-win",
		AirtableID: "recSoxWin",
		PackID:     "pack-opening-day",
		FormulaKey: "who_wins",
		FormulaParams: formula.Bag{
			"whoWins": map[string]any{
				"sideAMap": map[string]any{"BOS": "A"},
				"sideBMap": map[string]any{"NYY": "B"},
			},
		},
		Event: prop.EventLink{
			League:       "mlb",
			EventTime:    eventTime,
			HomeTeamCode: "NYY",
			AwayTeamCode: "BOS",
		},
	}

	propRepo.
		On("GetByID", mock.Anything, "prop-sox-win").
		Return(stored, true, nil).
		Once()
	readoutRepo.
		On("LatestByScope", mock.Anything, "major-mlb", "20240404").
		Return(readout.Snapshot{
			ID:     "snap-1",
			League: "major-mlb",
			Scope:  "20240404",
			Games: []readout.Game{
				{ID: "20240404_ARI@LAD", Away: "ARI", Home: "LAD"},
				{ID: "20240404_BOS@NYY", Away: "BOS", Home: "NYY"},
			},
		}, true, nil).
		Once()

	got, err := service.Preflight(ctx, "prop-sox-win")
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	if !got.Ready {
		t.Fatalf("expected prop ready, missing=%v", got.Missing)
	}
	if gameID := got.ResolvedParams.GetString("espnGameID"); gameID != "20240404_BOS@NYY" {
		t.Fatalf("unexpected inferred espnGameID: %q", gameID)
	}
	if gameDate := got.ResolvedParams.GetString("gameDate"); gameDate != "20240404" {
		t.Fatalf("unexpected inferred gameDate: %q", gameDate)
	}
}

func TestPreflightService_Preflight_PropNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	propRepo := propmock.NewRepository(t)
	readoutRepo := readoutmock.NewRepository(t)

	service := NewPreflightService(propRepo, readoutRepo)

	propRepo.
		On("GetByID", mock.Anything, "missing-prop").
		Return(prop.Prop{}, false, nil).
		Once()

	_, err := service.Preflight(ctx, "missing-prop")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
