package formula

import "fmt"

// Kind names one auto-grading strategy. The set is fixed at compile time;
// adding a kind means adding a param record and a branch in Missing.
type Kind string

const (
	KindWhoWins           Kind = "who_wins"
	KindStatOverUnder     Kind = "stat_over_under"
	KindPlayerH2H         Kind = "player_h2h"
	KindPlayerMultiStatOU Kind = "player_multi_stat_ou"
	KindPlayerMultiH2H    Kind = "player_multi_stat_h2h"
	KindTeamStatOverUnder Kind = "team_stat_over_under"
	KindTeamStatH2H       Kind = "team_stat_h2h"
)

var kinds = []Kind{
	KindWhoWins,
	KindStatOverUnder,
	KindPlayerH2H,
	KindPlayerMultiStatOU,
	KindPlayerMultiH2H,
	KindTeamStatOverUnder,
	KindTeamStatH2H,
}

// Kinds returns every supported formula kind in catalog order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind validates a stored formula key against the catalog.
func ParseKind(raw string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown formula kind %q", raw)
}

// RequiredFields lists the dotted parameter paths a kind needs before grading,
// in the order preflight reports them.
func RequiredFields(kind Kind) []string {
	switch kind {
	case KindWhoWins:
		return []string{"espnGameID", "gameDate", "whoWins.sideAMap", "whoWins.sideBMap"}
	case KindStatOverUnder:
		return []string{
			"espnGameID", "gameDate", "metric", "entity", "playerId",
			"sides.A.comparator", "sides.A.threshold",
			"sides.B.comparator", "sides.B.threshold",
		}
	case KindPlayerH2H:
		return []string{"espnGameID", "gameDate", "metric", "playerAId", "playerBId", "winnerRule"}
	case KindPlayerMultiStatOU:
		return []string{
			"espnGameID", "gameDate", "metrics", "entity", "playerId",
			"sides.A.comparator", "sides.A.threshold",
			"sides.B.comparator", "sides.B.threshold",
		}
	case KindPlayerMultiH2H:
		return []string{"espnGameID", "gameDate", "metrics", "playerAId", "playerBId"}
	case KindTeamStatOverUnder:
		return []string{
			"espnGameID", "gameDate", "metric", "teamAbv",
			"sides.A.comparator", "sides.A.threshold",
			"sides.B.comparator", "sides.B.threshold",
		}
	case KindTeamStatH2H:
		return []string{"espnGameID", "gameDate", "metric", "teamAbvA", "teamAbvB", "winnerRule"}
	}
	return nil
}
