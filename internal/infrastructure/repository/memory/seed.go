package memory

import (
	"time"

	"github.com/propdesk/prop-grading/internal/domain/formula"
	"github.com/propdesk/prop-grading/internal/domain/prop"
)

const (
	PackIDOpeningDay = "pack-mlb-opening-day"
	PackIDWeekOne    = "pack-nfl-week-1"

	PropIDCasasHits  = "prop-casas-hits"
	PropIDSoxWin     = "prop-sox-win"
	PropIDAllenYards = "prop-allen-yards"
)

func SeedProps() []prop.Prop {
	mlbStart := time.Date(2024, time.April, 4, 18, 10, 0, 0, time.UTC)
	nflStart := time.Date(2024, time.September, 5, 0, 20, 0, 0, time.UTC)

	return []prop.Prop{
		{
			ID:         PropIDCasasHits,
			AirtableID: "recCasasHits01",
			PackID:     PackIDOpeningDay,
			FormulaKey: string(formula.KindStatOverUnder),
			FormulaParams: formula.Bag{
				"metric":   "Hitting.H",
				"entity":   "player",
				"playerId": "663728",
				"sides": map[string]any{
					"A": map[string]any{"comparator": "over", "threshold": 1.5},
					"B": map[string]any{"comparator": "under", "threshold": 1.5},
				},
			},
			Event: prop.EventLink{
				ESPNGameID:   "20240404_BOS@NYY",
				League:       "mlb",
				EventTime:    mlbStart,
				HomeTeamCode: "NYY",
				AwayTeamCode: "BOS",
			},
		},
		{
			ID:         PropIDSoxWin,
			AirtableID: "recSoxWin01",
			PackID:     PackIDOpeningDay,
			FormulaKey: string(formula.KindWhoWins),
			FormulaParams: formula.Bag{
				"whoWins": map[string]any{
					"sideAMap": map[string]any{"BOS": "A"},
				},
			},
			Event: prop.EventLink{
				ESPNGameID:   "20240404_BOS@NYY",
				League:       "mlb",
				EventTime:    mlbStart,
				HomeTeamCode: "NYY",
				AwayTeamCode: "BOS",
			},
		},
		{
			ID:         PropIDAllenYards,
			AirtableID: "recAllenYards01",
			PackID:     PackIDWeekOne,
			FormulaKey: string(formula.KindPlayerH2H),
			FormulaParams: formula.Bag{
				"gameId":     "20240905_NE@BUF",
				"metric":     "Passing.passYds",
				"playerAId":  "4046",
				"playerBId":  "4431452",
				"winnerRule": "higher",
			},
			Event: prop.EventLink{
				ESPNGameID:   "20240905_NE@BUF",
				League:       "nfl",
				EventTime:    nflStart,
				HomeTeamCode: "BUF",
				AwayTeamCode: "NE",
			},
		},
	}
}
