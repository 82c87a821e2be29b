package synonym

import (
	"sort"
	"strings"

	"github.com/propdesk/prop-grading/internal/domain/statrecord"
)

// Group maps one canonical batting-line metric to its accepted textual
// variants, in match-priority order.
type Group struct {
	Canonical string
	Label     string
	Variants  []string
}

// battingLine is the fixed catalog of MLB batting-line metrics shown to
// operators, in display order. Any raw stat key outside the catalog is still
// resolvable ("all stats" mode); the catalog only drives the curated menu.
var battingLine = []Group{
	{Canonical: "ab", Label: "At Bats", Variants: []string{"ab", "atbats", "at bats", "at_bats"}},
	{Canonical: "r", Label: "Runs", Variants: []string{"r", "runs"}},
	{Canonical: "h", Label: "Hits", Variants: []string{"h", "hits"}},
	{Canonical: "rbi", Label: "RBI", Variants: []string{"rbi", "rbis", "runs batted in", "runs_batted_in"}},
	{Canonical: "hr", Label: "Home Runs", Variants: []string{"hr", "homeruns", "home runs", "home_runs"}},
	{Canonical: "bb", Label: "Walks", Variants: []string{"bb", "walks", "base on balls", "base_on_balls"}},
	{Canonical: "so", Label: "Strikeouts", Variants: []string{"so", "k", "strikeouts", "strike outs", "strike_outs"}},
	{Canonical: "pitches", Label: "Pitches", Variants: []string{"pitches", "numpitches", "num pitches", "num_pitches"}},
	{Canonical: "avg", Label: "AVG", Variants: []string{"avg", "average", "batting average", "batting_average"}},
	{Canonical: "obp", Label: "OBP", Variants: []string{"obp", "on base percentage", "on_base_percentage"}},
	{Canonical: "slg", Label: "SLG", Variants: []string{"slg", "slugging", "slugging percentage", "slugging_percentage"}},
}

var canonicalByVariant = func() map[string]string {
	out := make(map[string]string, len(battingLine)*4)
	for _, group := range battingLine {
		for _, variant := range group.Variants {
			out[strings.ToLower(variant)] = group.Canonical
		}
	}
	return out
}()

// BattingLine returns the catalog in display order.
func BattingLine() []Group {
	out := make([]Group, len(battingLine))
	copy(out, battingLine)
	return out
}

// Canonical maps a variant spelling to its canonical batting-line metric,
// or "" when the name belongs to no group.
func Canonical(name string) string {
	return canonicalByVariant[strings.ToLower(strings.TrimSpace(name))]
}

// MenuKeys picks from the observed stat keys the ones selectable in the
// operator menu. Batting-line mode restricts to the eleven canonical metrics
// in catalog display order; all-stats mode returns everything sorted lexically.
func MenuKeys(pool []statrecord.Record, allStats bool) []string {
	if allStats {
		keys := make(map[string]struct{}, 32)
		for _, rec := range pool {
			for key := range rec.Stats {
				keys[key] = struct{}{}
			}
		}
		out := make([]string, 0, len(keys))
		for key := range keys {
			out = append(out, key)
		}
		sort.Strings(out)
		return out
	}

	out := make([]string, 0, len(battingLine))
	for _, group := range battingLine {
		if key := Resolve(group.Canonical, pool); key != "" {
			out = append(out, key)
		}
	}
	return out
}
