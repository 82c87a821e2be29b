package formula

import (
	"reflect"
	"testing"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, kind := range Kinds() {
		got, err := ParseKind(string(kind))
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", kind, err)
		}
		if got != kind {
			t.Fatalf("ParseKind(%q) = %q", kind, got)
		}
	}
	if _, err := ParseKind("coin_flip"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestRequiredFieldsCoverEveryKind(t *testing.T) {
	t.Parallel()

	for _, kind := range Kinds() {
		if len(RequiredFields(kind)) == 0 {
			t.Fatalf("kind %q has no required fields", kind)
		}
	}
}

func TestMissingWhoWinsSideMap(t *testing.T) {
	t.Parallel()

	bag := Bag{
		"espnGameID": "401547001",
		"gameDate":   "20240905",
		"whoWins": map[string]any{
			"sideBMap": map[string]any{"BUF": "B"},
		},
	}
	missing, err := Missing(KindWhoWins, bag)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	want := []string{"whoWins.sideAMap"}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
}

func TestMissingTeamStatH2HOrder(t *testing.T) {
	t.Parallel()

	bag := Bag{"metric": "yards", "teamAbvA": "NE"}
	missing, err := Missing(KindTeamStatH2H, bag)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	want := []string{"espnGameID", "gameDate", "teamAbvB", "winnerRule"}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
}

func TestMissingStatOverUnderSides(t *testing.T) {
	t.Parallel()

	bag := Bag{
		"espnGameID": "401547001",
		"gameDate":   "20240905",
		"metric":     "Batting.H",
		"entity":     "player",
		"playerId":   "663728",
		"sides": map[string]any{
			"A": map[string]any{"comparator": "over", "threshold": 1.5},
		},
	}
	missing, err := Missing(KindStatOverUnder, bag)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	want := []string{"sides.B.comparator", "sides.B.threshold"}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
}

func TestMissingMultiStatNeedsTwoMetrics(t *testing.T) {
	t.Parallel()

	bag := Bag{
		"espnGameID": "401547001",
		"gameDate":   "20240905",
		"metrics":    []any{"Passing.yds"},
		"playerAId":  "1",
		"playerBId":  "2",
	}
	missing, err := Missing(KindPlayerMultiH2H, bag)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	want := []string{"metrics"}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
}

func TestMissingEmptyWhenComplete(t *testing.T) {
	t.Parallel()

	bag := Bag{
		"espnGameID": "401547001",
		"gameDate":   "20240905",
		"metric":     "yards",
		"teamAbvA":   "NE",
		"teamAbvB":   "BUF",
		"winnerRule": "higher",
	}
	missing, err := Missing(KindTeamStatH2H, bag)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("missing = %v, want none", missing)
	}
}
