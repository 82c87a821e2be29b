package usecase

import (
	"context"
	"sync/atomic"

	"github.com/propdesk/prop-grading/internal/domain/formula"
	"github.com/propdesk/prop-grading/internal/domain/readout"
	"github.com/propdesk/prop-grading/internal/domain/statrecord"
	"github.com/propdesk/prop-grading/internal/platform/logging"
)

type stubStatsFeed struct {
	boxScore       ExternalBoxScore
	boxScoreByGame map[string]ExternalBoxScore
	boxScoreGates  map[string]chan struct{}
	boxScoreErr    error
	roster         map[string]statrecord.Record
	rosterErr      error
	rosterCalls    atomic.Int32
	scoreboards    map[string]readout.Snapshot
	scoreboardErrs map[string]error
}

var _ StatsFeed = (*stubStatsFeed)(nil)

func (f *stubStatsFeed) FetchBoxScore(ctx context.Context, source, gameID string) (ExternalBoxScore, error) {
	if gate := f.boxScoreGates[gameID]; gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ExternalBoxScore{}, ctx.Err()
		}
	}
	if box, ok := f.boxScoreByGame[gameID]; ok {
		return box, f.boxScoreErr
	}
	return f.boxScore, f.boxScoreErr
}

func (f *stubStatsFeed) FetchRoster(_ context.Context, _ string, _ []string, _ string) (map[string]statrecord.Record, error) {
	f.rosterCalls.Add(1)
	return f.roster, f.rosterErr
}

func (f *stubStatsFeed) FetchScoreboard(_ context.Context, _ string, query ScoreboardQuery) (readout.Snapshot, error) {
	if err := f.scoreboardErrs[query.GameDate]; err != nil {
		return readout.Snapshot{}, err
	}
	return f.scoreboards[query.GameDate], nil
}

type stubGradeInvoker struct {
	outcome    GradeOutcome
	err        error
	calls      atomic.Int32
	lastID     string
	lastDryRun bool
	lastParams formula.Bag
}

var _ GradeInvoker = (*stubGradeInvoker)(nil)

func (g *stubGradeInvoker) GradeProp(_ context.Context, airtableID string, dryRun bool, overrideFormulaParams formula.Bag) (GradeOutcome, error) {
	g.calls.Add(1)
	g.lastID = airtableID
	g.lastDryRun = dryRun
	g.lastParams = overrideFormulaParams
	return g.outcome, g.err
}

func testLogger() *logging.Logger {
	return logging.NewNop()
}
