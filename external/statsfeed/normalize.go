package statsfeed

import (
	"fmt"
	"sort"
	"strings"

	"github.com/propdesk/prop-grading/internal/domain/readout"
	"github.com/propdesk/prop-grading/internal/domain/statrecord"
)

// NormalizeBoxScore flattens a provider box-score payload into the uniform
// per-entity stat map. Extraction is source-specific but the output shape is
// not. Absent or malformed data yields an empty map, never an error.
func NormalizeBoxScore(source string, payload map[string]any) map[string]statrecord.Record {
	body := bodyMap(payload)
	if body == nil {
		return map[string]statrecord.Record{}
	}
	switch source {
	case SourceMLB:
		return normalizePlayerStats(body, mlbIdentityFields)
	case SourceNFL:
		return normalizePlayerStats(body, nflIdentityFields)
	}
	return map[string]statrecord.Record{}
}

// NormalizeRoster maps a roster payload into enrichment records. Roster rows
// carry identity only; their stat maps stay empty.
func NormalizeRoster(source string, payload map[string]any) map[string]statrecord.Record {
	body := bodyMap(payload)
	if body == nil {
		return map[string]statrecord.Record{}
	}

	rows, _ := body["roster"].([]any)
	out := make(map[string]statrecord.Record, len(rows))
	for _, raw := range rows {
		row, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		id := getString(row, "playerID")
		if id == "" {
			continue
		}
		out[id] = statrecord.Record{
			ID:          id,
			DisplayName: getString(row, "longName"),
			TeamCode:    firstNonEmpty(getString(row, "teamAbv"), getString(row, "team")),
			Position:    getString(row, "pos"),
			Stats:       map[string]any{},
		}
	}
	return out
}

// NormalizeScoreboard maps a status payload into scoreboard rows sorted by
// game id. The provider keys games by id; rows without an id are dropped.
func NormalizeScoreboard(payload map[string]any) []readout.Game {
	body := bodyMap(payload)
	if body == nil {
		return nil
	}

	out := make([]readout.Game, 0, len(body))
	for key, raw := range body {
		row, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		game := readout.Game{
			ID:         firstNonEmpty(getString(row, "gameID"), key),
			Away:       getString(row, "away"),
			Home:       getString(row, "home"),
			GameStatus: getString(row, "gameStatus"),
			GameTime:   getString(row, "gameTime"),
		}
		if lineScore, ok := row["lineScore"].(map[string]any); ok {
			game.LineScore = lineScore
		}
		if game.ID == "" {
			continue
		}
		out = append(out, game)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var mlbIdentityFields = identityFields{
	id:       []string{"playerID"},
	name:     []string{"longName"},
	team:     []string{"teamAbv", "team"},
	position: []string{"pos", "allPositionsPlayed"},
}

var nflIdentityFields = identityFields{
	id:       []string{"playerID"},
	name:     []string{"longName"},
	team:     []string{"teamAbv", "team"},
	position: []string{"pos"},
}

type identityFields struct {
	id       []string
	name     []string
	team     []string
	position []string
}

func (f identityFields) contains(key string) bool {
	for _, group := range [][]string{f.id, f.name, f.team, f.position} {
		for _, field := range group {
			if strings.EqualFold(field, key) {
				return true
			}
		}
	}
	return false
}

// normalizePlayerStats walks the body's playerStats map and flattens each
// player's nested category objects into "Category.metric" stat keys. Scalar
// fields that are not identity fields are kept under their bare key.
func normalizePlayerStats(body map[string]any, identity identityFields) map[string]statrecord.Record {
	players, _ := body["playerStats"].(map[string]any)
	out := make(map[string]statrecord.Record, len(players))
	for fallbackID, raw := range players {
		row, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		id := firstNonEmpty(getStringAny(row, identity.id...), fallbackID)
		if id == "" {
			continue
		}

		rec := statrecord.Record{
			ID:          id,
			DisplayName: getStringAny(row, identity.name...),
			TeamCode:    getStringAny(row, identity.team...),
			Position:    getStringAny(row, identity.position...),
			Stats:       make(map[string]any, 16),
		}
		for key, value := range row {
			if identity.contains(key) {
				continue
			}
			switch typed := value.(type) {
			case map[string]any:
				for metric, metricValue := range typed {
					if _, nested := metricValue.(map[string]any); nested {
						continue
					}
					rec.Stats[key+"."+metric] = metricValue
				}
			case string, float64, bool:
				rec.Stats[key] = typed
			}
		}
		out[id] = rec
	}
	return out
}

func bodyMap(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	if body, ok := payload["body"].(map[string]any); ok {
		return body
	}
	return payload
}

func getString(item map[string]any, key string) string {
	switch v := item[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	default:
		return ""
	}
}

func getStringAny(item map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := getString(item, key); v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}
