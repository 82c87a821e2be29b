package usecase

import (
	"context"

	"github.com/propdesk/prop-grading/internal/domain/formula"
	"github.com/propdesk/prop-grading/internal/domain/readout"
	"github.com/propdesk/prop-grading/internal/domain/statrecord"
)

// ExternalBoxScore is one box-score fetch from the stats provider: the raw
// payload plus the uniform per-entity stat map derived from it.
type ExternalBoxScore struct {
	Raw         map[string]any
	PlayersByID map[string]statrecord.Record
	StatKeys    []string
}

// ScoreboardQuery selects which slate of games a status fetch covers. MLB
// slates key on a compact date; NFL slates key on season year plus week.
type ScoreboardQuery struct {
	GameDate string
	Year     string
	Week     string
}

// StatsFeed is the stats provider surface use cases depend on.
type StatsFeed interface {
	FetchBoxScore(ctx context.Context, source, gameID string) (ExternalBoxScore, error)
	FetchRoster(ctx context.Context, source string, teamCodes []string, season string) (map[string]statrecord.Record, error)
	FetchScoreboard(ctx context.Context, source string, query ScoreboardQuery) (readout.Snapshot, error)
}

// GradeOutcome is the grading service's answer to one invocation. Preview
// carries the dry-run echo; Status and Result carry the real-run outcome.
type GradeOutcome struct {
	Status  string
	Result  string
	Preview map[string]any
}

// GradeInvoker is the external grading service surface.
type GradeInvoker interface {
	GradeProp(ctx context.Context, airtableID string, dryRun bool, overrideFormulaParams formula.Bag) (GradeOutcome, error)
}
