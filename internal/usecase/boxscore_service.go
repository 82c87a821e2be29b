package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/propdesk/prop-grading/internal/domain/statrecord"
	"github.com/propdesk/prop-grading/internal/domain/synonym"
	"github.com/propdesk/prop-grading/internal/platform/cache"
	"github.com/propdesk/prop-grading/internal/platform/logging"
)

// BoxScoreView is one normalized box score ready for the operator UI: the
// enriched entity map plus the menus derived from it.
type BoxScoreView struct {
	Source      string
	GameID      string
	PlayersByID map[string]statrecord.Record
	StatKeys    []string
	TeamCodes   []string
	Raw         map[string]any
}

type BoxScoreService struct {
	feed   StatsFeed
	cache  *cache.Store
	logger *logging.Logger
	season string
}

func NewBoxScoreService(feed StatsFeed, store *cache.Store, logger *logging.Logger, season string) *BoxScoreService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BoxScoreService{
		feed:   feed,
		cache:  store,
		logger: logger,
		season: strings.TrimSpace(season),
	}
}

// GetBoxScore fetches and normalizes one game's box score. When the
// normalized map is empty, or an MLB payload carries no pitcher, a roster
// fetch enriches the records already present; roster-only entities never
// join the pool. Event team codes back-fill records the provider left blank.
func (s *BoxScoreService) GetBoxScore(ctx context.Context, source, gameID string, eventTeamCodes []string) (BoxScoreView, error) {
	ctx, span := startUsecaseSpan(ctx, "BoxScoreService.GetBoxScore")
	defer span.End()

	source = strings.TrimSpace(source)
	gameID = strings.TrimSpace(gameID)
	if source == "" || gameID == "" {
		return BoxScoreView{}, fmt.Errorf("%w: source and game id are required", ErrInvalidInput)
	}

	cacheKey := "boxscore:" + source + ":" + gameID
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			if view, ok := cached.(BoxScoreView); ok {
				return view, nil
			}
		}
	}

	box, err := s.feed.FetchBoxScore(ctx, source, gameID)
	if err != nil {
		return BoxScoreView{}, fmt.Errorf("get box score: %w", err)
	}

	players := box.PlayersByID
	if players == nil {
		players = map[string]statrecord.Record{}
	}

	if s.needsRosterEnrichment(source, players) {
		players = s.enrich(ctx, source, players, eventTeamCodes)
	}
	players = statrecord.BackfillTeamCodes(players, eventTeamCodes)

	view := BoxScoreView{
		Source:      source,
		GameID:      gameID,
		PlayersByID: players,
		StatKeys:    statrecord.StatKeys(players),
		TeamCodes:   statrecord.TeamCodes(players),
		Raw:         box.Raw,
	}
	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, view)
	}
	return view, nil
}

// ReadoutInput is one live read-out request against an already-selected game.
type ReadoutInput struct {
	Source    string
	GameID    string
	Metric    string
	Scope     statrecord.Scope
	EventTeam []string
	AllStats  bool
}

// ReadoutView is the aggregated answer. An unresolved metric degrades to a
// zero value with an empty resolved key rather than failing the read-out.
type ReadoutView struct {
	ResolvedKey string
	Value       float64
	MenuKeys    []string
}

// EvaluateStat resolves the requested metric against the game's entity pool
// and sums it over the requested scope.
func (s *BoxScoreService) EvaluateStat(ctx context.Context, input ReadoutInput) (ReadoutView, error) {
	ctx, span := startUsecaseSpan(ctx, "BoxScoreService.EvaluateStat")
	defer span.End()

	view, err := s.GetBoxScore(ctx, input.Source, input.GameID, input.EventTeam)
	if err != nil {
		return ReadoutView{}, err
	}

	pool := make([]statrecord.Record, 0, len(view.PlayersByID))
	for _, id := range sortedRecordIDs(view.PlayersByID) {
		pool = append(pool, view.PlayersByID[id])
	}

	resolved := synonym.Resolve(input.Metric, pool)
	out := ReadoutView{
		ResolvedKey: resolved,
		MenuKeys:    synonym.MenuKeys(pool, input.AllStats || input.Source != "major-mlb"),
	}
	if resolved == "" {
		return out, nil
	}
	out.Value = statrecord.Aggregate(resolved, pool, input.Scope)
	return out, nil
}

// ListPlayers fetches the roster for one or more teams. Records carry
// identity fields only; stat maps stay empty until a box score provides them.
func (s *BoxScoreService) ListPlayers(ctx context.Context, source string, teamCodes []string, season string) (map[string]statrecord.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "BoxScoreService.ListPlayers")
	defer span.End()

	source = strings.TrimSpace(source)
	codes := make([]string, 0, len(teamCodes))
	for _, code := range teamCodes {
		if strings.TrimSpace(code) != "" {
			codes = append(codes, strings.TrimSpace(code))
		}
	}
	if source == "" || len(codes) == 0 {
		return nil, fmt.Errorf("%w: source and at least one team code are required", ErrInvalidInput)
	}

	if strings.TrimSpace(season) == "" {
		season = s.season
	}
	roster, err := s.feed.FetchRoster(ctx, source, codes, season)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return roster, nil
}

func (s *BoxScoreService) needsRosterEnrichment(source string, players map[string]statrecord.Record) bool {
	if len(players) == 0 {
		return true
	}
	if source == "major-mlb" {
		return !statrecord.HasPitcher(players)
	}
	return false
}

func (s *BoxScoreService) enrich(ctx context.Context, source string, players map[string]statrecord.Record, eventTeamCodes []string) map[string]statrecord.Record {
	teamCodes := statrecord.TeamCodes(players)
	if len(teamCodes) == 0 {
		teamCodes = eventTeamCodes
	}
	if len(teamCodes) == 0 {
		return players
	}

	roster, err := s.feed.FetchRoster(ctx, source, teamCodes, s.season)
	if err != nil {
		s.logger.WarnContext(ctx, "roster enrichment skipped", "source", source, "error", err)
		return players
	}
	return statrecord.EnrichFromRoster(players, roster)
}

func sortedRecordIDs(players map[string]statrecord.Record) []string {
	ids := make([]string, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
