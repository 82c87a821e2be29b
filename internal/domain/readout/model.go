package readout

import (
	"fmt"
	"strings"
	"time"
)

// Game is one scoreboard row from a live status fetch.
type Game struct {
	ID         string
	Away       string
	Home       string
	GameStatus string
	GameTime   string
	LineScore  map[string]any
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	return nil
}

// Snapshot records one status fetch for an event, keyed by scope so prior
// readouts can back-fill a missing espnGameID during preflight.
type Snapshot struct {
	ID        string
	League    string
	Scope     string
	Games     []Game
	FetchedAt time.Time
}

// GameIDForMatchup returns the id of the snapshot game pairing the two team
// codes, "" when no game matches. A blank code acts as a wildcard, but at
// least one code must be given; the slate for a date carries every game, so
// picking one without a matchup to anchor on would be a guess.
func (s Snapshot) GameIDForMatchup(home, away string) string {
	home = strings.ToUpper(strings.TrimSpace(home))
	away = strings.ToUpper(strings.TrimSpace(away))
	if home == "" && away == "" {
		return ""
	}
	for _, g := range s.Games {
		gameHome := strings.ToUpper(strings.TrimSpace(g.Home))
		gameAway := strings.ToUpper(strings.TrimSpace(g.Away))
		if home != "" && gameHome != home && gameAway != home {
			continue
		}
		if away != "" && gameAway != away && gameHome != away {
			continue
		}
		return g.ID
	}
	return ""
}
