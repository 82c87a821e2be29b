package statsfeed

import "testing"

func TestNormalizeBoxScore_FlattensMLBCategories(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"statusCode": float64(200),
		"body": map[string]any{
			"playerStats": map[string]any{
				"663728": map[string]any{
					"playerID": "663728",
					"longName": "Triston Casas",
					"teamAbv":  "BOS",
					"pos":      "1B",
					"Hitting": map[string]any{
						"AB": "4",
						"H":  "2",
						"SO": "1",
					},
					"started": "True",
				},
			},
		},
	}

	players := NormalizeBoxScore(SourceMLB, payload)
	if len(players) != 1 {
		t.Fatalf("expected one record, got=%d", len(players))
	}
	rec := players["663728"]
	if rec.DisplayName != "Triston Casas" {
		t.Fatalf("expected display name mapped, got=%q", rec.DisplayName)
	}
	if rec.TeamCode != "BOS" || rec.Position != "1B" {
		t.Fatalf("expected identity mapped, got team=%q pos=%q", rec.TeamCode, rec.Position)
	}
	if rec.Stats["Hitting.AB"] != "4" || rec.Stats["Hitting.SO"] != "1" {
		t.Fatalf("expected categories flattened, got=%v", rec.Stats)
	}
	if rec.Stats["started"] != "True" {
		t.Fatalf("expected scalar stat kept, got=%v", rec.Stats)
	}
	if _, ok := rec.Stats["longName"]; ok {
		t.Fatalf("identity field leaked into stats: %v", rec.Stats)
	}
}

func TestNormalizeBoxScore_UsesMapKeyWhenIDFieldAbsent(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"body": map[string]any{
			"playerStats": map[string]any{
				"4046": map[string]any{
					"longName": "Josh Allen",
					"teamAbv":  "BUF",
					"Passing": map[string]any{
						"passYds": "312",
					},
				},
			},
		},
	}

	players := NormalizeBoxScore(SourceNFL, payload)
	rec, ok := players["4046"]
	if !ok {
		t.Fatalf("expected map key used as id, got=%v", players)
	}
	if rec.Stats["Passing.passYds"] != "312" {
		t.Fatalf("expected passing stats flattened, got=%v", rec.Stats)
	}
}

func TestNormalizeBoxScore_EmptyOnMalformedPayload(t *testing.T) {
	t.Parallel()

	if got := NormalizeBoxScore(SourceMLB, nil); len(got) != 0 {
		t.Fatalf("expected empty map for nil payload, got=%v", got)
	}
	payload := map[string]any{"body": map[string]any{"playerStats": "oops"}}
	if got := NormalizeBoxScore(SourceMLB, payload); len(got) != 0 {
		t.Fatalf("expected empty map for malformed body, got=%v", got)
	}
	if got := NormalizeBoxScore("cricket", map[string]any{}); len(got) != 0 {
		t.Fatalf("expected empty map for unknown source, got=%v", got)
	}
}

func TestNormalizeRoster_IdentityOnly(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"body": map[string]any{
			"roster": []any{
				map[string]any{
					"playerID": "663728",
					"longName": "Triston Casas",
					"teamAbv":  "BOS",
					"pos":      "1B",
				},
				map[string]any{"longName": "No ID"},
			},
		},
	}

	roster := NormalizeRoster(SourceMLB, payload)
	if len(roster) != 1 {
		t.Fatalf("expected rows without an id dropped, got=%d", len(roster))
	}
	rec := roster["663728"]
	if rec.Position != "1B" || len(rec.Stats) != 0 {
		t.Fatalf("expected identity-only record, got=%+v", rec)
	}
}

func TestNormalizeScoreboard_SortedByGameID(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"body": map[string]any{
			"20240905_NE@BUF": map[string]any{
				"gameID":     "20240905_NE@BUF",
				"away":       "NE",
				"home":       "BUF",
				"gameStatus": "Final",
				"gameTime":   "8:20p",
				"lineScore":  map[string]any{"NE": "10", "BUF": "24"},
			},
			"20240905_ARI@LAR": map[string]any{
				"gameID": "20240905_ARI@LAR",
				"away":   "ARI",
				"home":   "LAR",
			},
		},
	}

	games := NormalizeScoreboard(payload)
	if len(games) != 2 {
		t.Fatalf("expected two games, got=%d", len(games))
	}
	if games[0].ID != "20240905_ARI@LAR" || games[1].ID != "20240905_NE@BUF" {
		t.Fatalf("expected rows sorted by id, got=%v", games)
	}
	if games[1].LineScore["BUF"] != "24" {
		t.Fatalf("expected line score kept, got=%v", games[1].LineScore)
	}
}
