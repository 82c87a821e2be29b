package formula

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// Bag is the loosely shaped parameter blob stored on a prop. Typed param
// records are decoded out of it per kind; the bag itself survives round trips
// so fields outside the kind's schema are preserved.
type Bag map[string]any

// Clone copies the bag one level deep. Nested values are shared; callers
// treat them as read-only.
func (b Bag) Clone() Bag {
	out := make(Bag, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// GetString reads a top-level string field, tolerating numeric values.
func (b Bag) GetString(key string) string {
	switch v := b[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	default:
		return ""
	}
}

type overUnderSide struct {
	Comparator string `json:"comparator"`
	Threshold  any    `json:"threshold"`
}

type overUnderSides struct {
	A overUnderSide `json:"A"`
	B overUnderSide `json:"B"`
}

func (s overUnderSides) missing() []string {
	var out []string
	if strings.TrimSpace(s.A.Comparator) == "" {
		out = append(out, "sides.A.comparator")
	}
	if s.A.Threshold == nil {
		out = append(out, "sides.A.threshold")
	}
	if strings.TrimSpace(s.B.Comparator) == "" {
		out = append(out, "sides.B.comparator")
	}
	if s.B.Threshold == nil {
		out = append(out, "sides.B.threshold")
	}
	return out
}

type commonParams struct {
	ESPNGameID string `json:"espnGameID"`
	GameDate   string `json:"gameDate"`
}

func (c commonParams) missing() []string {
	var out []string
	if strings.TrimSpace(c.ESPNGameID) == "" {
		out = append(out, "espnGameID")
	}
	if strings.TrimSpace(c.GameDate) == "" {
		out = append(out, "gameDate")
	}
	return out
}

// WhoWinsParams grades a prop on the game winner. The side maps translate the
// winning team into a prop side.
type WhoWinsParams struct {
	commonParams
	WhoWins struct {
		SideAMap any `json:"sideAMap"`
		SideBMap any `json:"sideBMap"`
	} `json:"whoWins"`
}

func (p WhoWinsParams) missing() []string {
	out := p.commonParams.missing()
	if !present(p.WhoWins.SideAMap) {
		out = append(out, "whoWins.sideAMap")
	}
	if !present(p.WhoWins.SideBMap) {
		out = append(out, "whoWins.sideBMap")
	}
	return out
}

// StatOverUnderParams grades a single player stat against per-side thresholds.
type StatOverUnderParams struct {
	commonParams
	Metric   string         `json:"metric"`
	Entity   string         `json:"entity"`
	PlayerID string         `json:"playerId"`
	Sides    overUnderSides `json:"sides"`
}

func (p StatOverUnderParams) missing() []string {
	out := p.commonParams.missing()
	if strings.TrimSpace(p.Metric) == "" {
		out = append(out, "metric")
	}
	if p.Entity != "player" {
		out = append(out, "entity")
	}
	if strings.TrimSpace(p.PlayerID) == "" {
		out = append(out, "playerId")
	}
	return append(out, p.Sides.missing()...)
}

// PlayerH2HParams grades one stat head to head between two players.
type PlayerH2HParams struct {
	commonParams
	Metric     string `json:"metric"`
	PlayerAID  string `json:"playerAId"`
	PlayerBID  string `json:"playerBId"`
	WinnerRule string `json:"winnerRule"`
}

func (p PlayerH2HParams) missing() []string {
	out := p.commonParams.missing()
	if strings.TrimSpace(p.Metric) == "" {
		out = append(out, "metric")
	}
	if strings.TrimSpace(p.PlayerAID) == "" {
		out = append(out, "playerAId")
	}
	if strings.TrimSpace(p.PlayerBID) == "" {
		out = append(out, "playerBId")
	}
	if strings.TrimSpace(p.WinnerRule) == "" {
		out = append(out, "winnerRule")
	}
	return out
}

// PlayerMultiStatOUParams grades the sum of at least two player stats against
// per-side thresholds.
type PlayerMultiStatOUParams struct {
	commonParams
	Metrics  []string       `json:"metrics"`
	Entity   string         `json:"entity"`
	PlayerID string         `json:"playerId"`
	Sides    overUnderSides `json:"sides"`
}

func (p PlayerMultiStatOUParams) missing() []string {
	out := p.commonParams.missing()
	if len(nonBlank(p.Metrics)) < 2 {
		out = append(out, "metrics")
	}
	if p.Entity != "player" {
		out = append(out, "entity")
	}
	if strings.TrimSpace(p.PlayerID) == "" {
		out = append(out, "playerId")
	}
	return append(out, p.Sides.missing()...)
}

// PlayerMultiStatH2HParams grades the sum of at least two stats head to head
// between two players.
type PlayerMultiStatH2HParams struct {
	commonParams
	Metrics   []string `json:"metrics"`
	PlayerAID string   `json:"playerAId"`
	PlayerBID string   `json:"playerBId"`
}

func (p PlayerMultiStatH2HParams) missing() []string {
	out := p.commonParams.missing()
	if len(nonBlank(p.Metrics)) < 2 {
		out = append(out, "metrics")
	}
	if strings.TrimSpace(p.PlayerAID) == "" {
		out = append(out, "playerAId")
	}
	if strings.TrimSpace(p.PlayerBID) == "" {
		out = append(out, "playerBId")
	}
	return out
}

// TeamStatOverUnderParams grades a team-scope stat against per-side thresholds.
type TeamStatOverUnderParams struct {
	commonParams
	Metric  string         `json:"metric"`
	TeamAbv string         `json:"teamAbv"`
	Sides   overUnderSides `json:"sides"`
}

func (p TeamStatOverUnderParams) missing() []string {
	out := p.commonParams.missing()
	if strings.TrimSpace(p.Metric) == "" {
		out = append(out, "metric")
	}
	if strings.TrimSpace(p.TeamAbv) == "" {
		out = append(out, "teamAbv")
	}
	return append(out, p.Sides.missing()...)
}

// TeamStatH2HParams grades one stat head to head between two teams.
type TeamStatH2HParams struct {
	commonParams
	Metric     string `json:"metric"`
	TeamAbvA   string `json:"teamAbvA"`
	TeamAbvB   string `json:"teamAbvB"`
	WinnerRule string `json:"winnerRule"`
}

func (p TeamStatH2HParams) missing() []string {
	out := p.commonParams.missing()
	if strings.TrimSpace(p.Metric) == "" {
		out = append(out, "metric")
	}
	if strings.TrimSpace(p.TeamAbvA) == "" {
		out = append(out, "teamAbvA")
	}
	if strings.TrimSpace(p.TeamAbvB) == "" {
		out = append(out, "teamAbvB")
	}
	if strings.TrimSpace(p.WinnerRule) == "" {
		out = append(out, "winnerRule")
	}
	return out
}

// Missing decodes the bag into the kind's typed param record and returns the
// still-unsatisfied required fields as dotted paths, in catalog order. An
// empty slice means the prop is ready to grade.
func Missing(kind Kind, bag Bag) ([]string, error) {
	switch kind {
	case KindWhoWins:
		return decodeMissing[WhoWinsParams](bag)
	case KindStatOverUnder:
		return decodeMissing[StatOverUnderParams](bag)
	case KindPlayerH2H:
		return decodeMissing[PlayerH2HParams](bag)
	case KindPlayerMultiStatOU:
		return decodeMissing[PlayerMultiStatOUParams](bag)
	case KindPlayerMultiH2H:
		return decodeMissing[PlayerMultiStatH2HParams](bag)
	case KindTeamStatOverUnder:
		return decodeMissing[TeamStatOverUnderParams](bag)
	case KindTeamStatH2H:
		return decodeMissing[TeamStatH2HParams](bag)
	}
	return nil, fmt.Errorf("unknown formula kind %q", kind)
}

type paramRecord interface {
	missing() []string
}

func decodeMissing[P paramRecord](bag Bag) ([]string, error) {
	var params P
	raw, err := sonic.Marshal(bag)
	if err != nil {
		return nil, fmt.Errorf("encode formula params: %w", err)
	}
	if err := sonic.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("decode formula params: %w", err)
	}
	out := params.missing()
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func present(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case map[string]any:
		return len(val) > 0
	case []any:
		return len(val) > 0
	default:
		return true
	}
}

func nonBlank(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
