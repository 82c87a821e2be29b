package synonym

import (
	"reflect"
	"testing"

	"github.com/propdesk/prop-grading/internal/domain/statrecord"
)

func TestResolveExactKeyReturnsUnchanged(t *testing.T) {
	t.Parallel()

	pool := []statrecord.Record{
		{ID: "p1", Stats: map[string]any{"Batting.SO": "1"}},
	}
	if got := Resolve("Batting.SO", pool); got != "Batting.SO" {
		t.Fatalf("got %q, want key returned unchanged", got)
	}
}

func TestResolveCategoryMetricSuffix(t *testing.T) {
	t.Parallel()

	pool := []statrecord.Record{
		{ID: "p1", Stats: map[string]any{"Batting.SO": "1", "Pitching.SO": "4"}},
	}
	if got := Resolve("batting:so", pool); got != "Batting.SO" {
		t.Fatalf("got %q, want %q", got, "Batting.SO")
	}
	if got := Resolve("pitching:so", pool); got != "Pitching.SO" {
		t.Fatalf("got %q, want %q", got, "Pitching.SO")
	}
}

func TestResolveVariantSpellings(t *testing.T) {
	t.Parallel()

	pool := []statrecord.Record{
		{ID: "p1", Stats: map[string]any{"Batting.StrikeOuts": "2", "Batting.HomeRuns": "1"}},
	}
	if got := Resolve("batting:so", pool); got != "Batting.StrikeOuts" {
		t.Fatalf("got %q, want variant spelling matched", got)
	}
	if got := Resolve("hr", pool); got != "Batting.HomeRuns" {
		t.Fatalf("got %q, want bare canonical widened", got)
	}
}

func TestResolveCategoryDoesNotExcludeOtherPrefixes(t *testing.T) {
	t.Parallel()

	// Providers nest the same metric under different category names; the
	// requested category must still land on the key that is actually there.
	pool := []statrecord.Record{
		{ID: "p1", Stats: map[string]any{"Hitting.H": float64(2), "Hitting.AB": float64(4)}},
	}
	if got := Resolve("batting:h", pool); got != "Hitting.H" {
		t.Fatalf("got %q, want %q", got, "Hitting.H")
	}
}

func TestResolveCategoryPreferenceBeatsVotes(t *testing.T) {
	t.Parallel()

	pool := []statrecord.Record{
		{ID: "p1", Stats: map[string]any{"Batting.SO": "1", "Pitching.SO": "4"}},
		{ID: "p2", Stats: map[string]any{"Batting.SO": "0"}},
	}
	if got := Resolve("pitching:so", pool); got != "Pitching.SO" {
		t.Fatalf("got %q, want the requested category ranked above raw votes", got)
	}
}

func TestResolveFrequencyVoting(t *testing.T) {
	t.Parallel()

	pool := []statrecord.Record{
		{ID: "p1", Stats: map[string]any{"Batting.SO": "1"}},
		{ID: "p2", Stats: map[string]any{"Batting.SO": "0"}},
		{ID: "p3", Stats: map[string]any{"Batting.StrikeOuts": "2"}},
	}
	if got := Resolve("batting:so", pool); got != "Batting.SO" {
		t.Fatalf("got %q, want the key carried by most records", got)
	}
}

func TestResolveTieGoesToFirstSeen(t *testing.T) {
	t.Parallel()

	pool := []statrecord.Record{
		{ID: "p1", Stats: map[string]any{"Batting.SO": "1"}},
		{ID: "p2", Stats: map[string]any{"Batting.StrikeOuts": "2"}},
	}
	if got := Resolve("batting:so", pool); got != "Batting.SO" {
		t.Fatalf("got %q, want first-seen key on a tie", got)
	}
}

func TestResolveUnknownReturnsEmpty(t *testing.T) {
	t.Parallel()

	pool := []statrecord.Record{
		{ID: "p1", Stats: map[string]any{"Batting.H": "1"}},
	}
	if got := Resolve("fielding:errors", pool); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
	if got := Resolve("", pool); got != "" {
		t.Fatalf("got %q, want empty for blank request", got)
	}
}

func TestMenuKeysBattingLineOrder(t *testing.T) {
	t.Parallel()

	pool := []statrecord.Record{
		{ID: "p1", Stats: map[string]any{"Batting.H": "1", "Batting.R": "0", "Batting.AB": "4"}},
	}
	want := []string{"Batting.AB", "Batting.R", "Batting.H"}
	if got := MenuKeys(pool, false); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want catalog display order %v", got, want)
	}

	all := MenuKeys(pool, true)
	wantAll := []string{"Batting.AB", "Batting.H", "Batting.R"}
	if !reflect.DeepEqual(all, wantAll) {
		t.Fatalf("got %v, want lexical order %v", all, wantAll)
	}
}
