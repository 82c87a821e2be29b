package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/propdesk/prop-grading/internal/domain/readout"
	"github.com/propdesk/prop-grading/internal/platform/id"
	"github.com/propdesk/prop-grading/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

type ReadoutService struct {
	feed        StatsFeed
	readoutRepo readout.Repository
	idGenerator id.Generator
	logger      *logging.Logger
}

func NewReadoutService(feed StatsFeed, readoutRepo readout.Repository, idGenerator id.Generator, logger *logging.Logger) *ReadoutService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReadoutService{
		feed:        feed,
		readoutRepo: readoutRepo,
		idGenerator: idGenerator,
		logger:      logger,
	}
}

// FetchStatus pulls the live scoreboard for one slate and records the
// snapshot so preflight can fall back to it later.
func (s *ReadoutService) FetchStatus(ctx context.Context, source string, query ScoreboardQuery) (readout.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "ReadoutService.FetchStatus")
	defer span.End()

	source = strings.TrimSpace(source)
	if source == "" {
		return readout.Snapshot{}, fmt.Errorf("%w: source is required", ErrInvalidInput)
	}

	snapshot, err := s.feed.FetchScoreboard(ctx, source, query)
	if err != nil {
		return readout.Snapshot{}, fmt.Errorf("fetch status: %w", err)
	}

	if s.idGenerator != nil {
		if snapshotID, idErr := s.idGenerator.NewID(); idErr == nil {
			snapshot.ID = snapshotID
		}
	}
	if s.readoutRepo != nil {
		if err := s.readoutRepo.Save(ctx, snapshot); err != nil {
			s.logger.WarnContext(ctx, "persist readout snapshot failed", "scope", snapshot.Scope, "error", err)
		}
	}
	return snapshot, nil
}

// FetchStatusDates resolves several dates' slates concurrently and merges
// whatever succeeded. One date failing does not abort the others; the merge
// is sorted by game id and deduplicated.
func (s *ReadoutService) FetchStatusDates(ctx context.Context, source string, gameDates []string) ([]readout.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "ReadoutService.FetchStatusDates")
	defer span.End()

	dates := make([]string, 0, len(gameDates))
	for _, date := range gameDates {
		if strings.TrimSpace(date) != "" {
			dates = append(dates, strings.TrimSpace(date))
		}
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: at least one game date is required", ErrInvalidInput)
	}

	var (
		mu       sync.Mutex
		merged   = make(map[string]readout.Game, 16)
		failures int
	)

	var wg conc.WaitGroup
	for _, date := range dates {
		date := date
		wg.Go(func() {
			snapshot, err := s.FetchStatus(ctx, source, ScoreboardQuery{GameDate: date})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				s.logger.WarnContext(ctx, "status fetch failed for date, merging partial results", "game_date", date, "error", err)
				return
			}
			for _, game := range snapshot.Games {
				merged[game.ID] = game
			}
		})
	}
	wg.Wait()

	if failures == len(dates) {
		return nil, fmt.Errorf("%w: every status fetch failed", ErrDependencyUnavailable)
	}

	out := make([]readout.Game, 0, len(merged))
	for _, game := range merged {
		out = append(out, game)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
