package usecase

import (
	"testing"
	"time"

	"github.com/propdesk/prop-grading/internal/domain/statrecord"
)

func waitForSelectionState(t *testing.T, c *SelectionController, want SelectionState) SelectionSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snapshot := c.Snapshot()
		if snapshot.State == want {
			return snapshot
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("selection never reached state %q, last=%+v", want, c.Snapshot())
	return SelectionSnapshot{}
}

func TestSelection_LoadsSelectedEvent(t *testing.T) {
	feed := &stubStatsFeed{
		boxScore: ExternalBoxScore{
			PlayersByID: map[string]statrecord.Record{
				"p1": {ID: "p1", TeamCode: "BUF", Position: "QB", Stats: map[string]any{"Passing.passYds": "312"}},
			},
		},
	}
	controller := NewSelectionController(NewBoxScoreService(feed, nil, testLogger(), "2024"), testLogger())
	defer controller.Close()

	if snapshot := controller.Snapshot(); snapshot.State != SelectionIdle {
		t.Fatalf("expected idle start, got=%+v", snapshot)
	}

	controller.Select("nfl", "20240905_NE@BUF", nil)
	snapshot := waitForSelectionState(t, controller, SelectionReady)
	if snapshot.GameID != "20240905_NE@BUF" {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
	if len(snapshot.View.PlayersByID) != 1 {
		t.Fatalf("expected loaded view, got=%+v", snapshot.View)
	}
}

func TestSelection_StaleFetchCannotOverwriteNewerSelection(t *testing.T) {
	slowGate := make(chan struct{})
	feed := &stubStatsFeed{
		boxScoreGates: map[string]chan struct{}{
			"game-slow": slowGate,
		},
		boxScoreByGame: map[string]ExternalBoxScore{
			"game-slow": {
				PlayersByID: map[string]statrecord.Record{
					"stale": {ID: "stale", TeamCode: "NE", Position: "QB", Stats: map[string]any{}},
				},
			},
			"game-fast": {
				PlayersByID: map[string]statrecord.Record{
					"fresh": {ID: "fresh", TeamCode: "BUF", Position: "QB", Stats: map[string]any{}},
				},
			},
		},
	}
	controller := NewSelectionController(NewBoxScoreService(feed, nil, testLogger(), "2024"), testLogger())
	defer controller.Close()

	controller.Select("nfl", "game-slow", nil)
	controller.Select("nfl", "game-fast", nil)

	snapshot := waitForSelectionState(t, controller, SelectionReady)
	close(slowGate)
	time.Sleep(20 * time.Millisecond)

	snapshot = controller.Snapshot()
	if snapshot.GameID != "game-fast" {
		t.Fatalf("stale selection leaked through: %+v", snapshot)
	}
	if _, ok := snapshot.View.PlayersByID["stale"]; ok {
		t.Fatalf("stale payload overwrote the newer selection: %+v", snapshot.View)
	}
}

func TestSelection_ClearReturnsToIdle(t *testing.T) {
	feed := &stubStatsFeed{boxScore: ExternalBoxScore{}}
	controller := NewSelectionController(NewBoxScoreService(feed, nil, testLogger(), "2024"), testLogger())
	defer controller.Close()

	controller.Select("major-mlb", "g1", nil)
	waitForSelectionState(t, controller, SelectionReady)

	controller.Clear()
	snapshot := waitForSelectionState(t, controller, SelectionIdle)
	if snapshot.GameID != "" {
		t.Fatalf("expected cleared snapshot, got=%+v", snapshot)
	}
}

func TestSelection_ErrorState(t *testing.T) {
	feed := &stubStatsFeed{boxScoreErr: ErrDependencyUnavailable}
	controller := NewSelectionController(NewBoxScoreService(feed, nil, testLogger(), "2024"), testLogger())
	defer controller.Close()

	controller.Select("major-mlb", "g1", nil)
	snapshot := waitForSelectionState(t, controller, SelectionError)
	if snapshot.Message == "" {
		t.Fatalf("expected error message, got=%+v", snapshot)
	}
}
