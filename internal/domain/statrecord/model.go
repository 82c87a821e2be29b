package statrecord

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Record is the uniform per-entity statistics representation every provider
// payload is normalized into. One record per player or team per event. Stat
// values are kept as the provider emitted them (float64 or string); numeric
// coercion happens at aggregation time.
type Record struct {
	ID          string
	DisplayName string
	TeamCode    string
	Position    string
	Stats       map[string]any
}

// Clone returns a deep copy. Records are treated as immutable once built;
// merge operations produce new records instead of mutating in place.
func (r Record) Clone() Record {
	out := r
	out.Stats = make(map[string]any, len(r.Stats))
	for key, value := range r.Stats {
		out.Stats[key] = value
	}
	return out
}

// Merge combines a box-score record with roster data for the same entity.
// Roster fields only backfill blanks; box-score stat values win on conflict.
func Merge(box, roster Record) Record {
	out := box.Clone()
	if strings.TrimSpace(out.DisplayName) == "" {
		out.DisplayName = roster.DisplayName
	}
	if strings.TrimSpace(out.TeamCode) == "" {
		out.TeamCode = roster.TeamCode
	}
	if strings.TrimSpace(out.Position) == "" {
		out.Position = roster.Position
	}
	for key, value := range roster.Stats {
		if _, exists := out.Stats[key]; exists {
			continue
		}
		out.Stats[key] = value
	}
	return out
}

// EnrichFromRoster merges roster records into entities already present in the
// pool. Roster-only entities are dropped: the roster enriches identity fields,
// it must never add players who did not participate in the game.
func EnrichFromRoster(players map[string]Record, roster map[string]Record) map[string]Record {
	out := make(map[string]Record, len(players))
	for id, rec := range players {
		if rosterRec, ok := roster[id]; ok {
			out[id] = Merge(rec, rosterRec)
			continue
		}
		out[id] = rec
	}
	return out
}

// HasPitcher reports whether any record's position marks it as a pitcher.
// MLB box scores abbreviate pitcher positions with a P (P, SP, RP, CP).
func HasPitcher(players map[string]Record) bool {
	for _, rec := range players {
		if strings.Contains(strings.ToUpper(rec.Position), "P") {
			return true
		}
	}
	return false
}

// TeamCodes returns the distinct non-empty team codes in the pool, sorted.
func TeamCodes(players map[string]Record) []string {
	seen := make(map[string]struct{}, 2)
	for _, rec := range players {
		code := strings.TrimSpace(rec.TeamCode)
		if code == "" {
			continue
		}
		seen[code] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// BackfillTeamCodes fills blank team codes. When exactly one distinct code is
// observed in the pool it is used; otherwise the selected event's two codes
// are the fallback only when they collapse to a single candidate.
func BackfillTeamCodes(players map[string]Record, eventCodes []string) map[string]Record {
	candidates := TeamCodes(players)
	if len(candidates) == 0 {
		for _, code := range eventCodes {
			code = strings.TrimSpace(code)
			if code == "" {
				continue
			}
			candidates = append(candidates, code)
		}
	}
	if len(candidates) != 1 {
		return players
	}

	out := make(map[string]Record, len(players))
	for id, rec := range players {
		if strings.TrimSpace(rec.TeamCode) == "" {
			rec = rec.Clone()
			rec.TeamCode = candidates[0]
		}
		out[id] = rec
	}
	return out
}

// StatKeys returns the distinct stat keys observed across the pool, sorted
// lexically. Used to populate pickable-metric menus.
func StatKeys(players map[string]Record) []string {
	seen := make(map[string]struct{}, 32)
	for _, rec := range players {
		for key := range rec.Stats {
			seen[key] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for key := range seen {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// ScopeKind selects how many records an aggregation spans.
type ScopeKind string

const (
	ScopeEntity ScopeKind = "entity"
	ScopeTeam   ScopeKind = "team"
	ScopeAll    ScopeKind = "all"
)

// Scope identifies the selection an aggregation runs over: one entity id,
// one team code, or every record.
type Scope struct {
	Kind ScopeKind
	ID   string
}

func EntityScope(id string) Scope { return Scope{Kind: ScopeEntity, ID: id} }

func TeamScope(code string) Scope { return Scope{Kind: ScopeTeam, ID: code} }

func AllScope() Scope { return Scope{Kind: ScopeAll} }

func (s Scope) matches(rec Record) bool {
	switch s.Kind {
	case ScopeEntity:
		return rec.ID == s.ID
	case ScopeTeam:
		return strings.EqualFold(strings.TrimSpace(rec.TeamCode), strings.TrimSpace(s.ID))
	case ScopeAll:
		return true
	default:
		return false
	}
}

// Aggregate sums the numeric-coerced value of key across every record in
// scope. Absent or non-numeric values are skipped, not treated as zero and
// not treated as failure: a pinch-hitter missing one stat must not abort
// evaluation of the rest of the lineup. Returns 0 when nothing matches.
func Aggregate(key string, pool []Record, scope Scope) float64 {
	var total float64
	for _, rec := range pool {
		if !scope.matches(rec) {
			continue
		}
		raw, ok := rec.Stats[key]
		if !ok {
			continue
		}
		value, ok := coerceNumber(raw)
		if !ok {
			continue
		}
		total += value
	}
	return total
}

func coerceNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		parsed, err := v.Float64()
		return parsed, err == nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}
