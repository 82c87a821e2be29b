package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/propdesk/prop-grading/internal/domain/formula"
	"github.com/propdesk/prop-grading/internal/domain/prop"
	"github.com/propdesk/prop-grading/internal/platform/logging"
)

// GradeView is the answer to one grading invocation. Readiness always
// reflects the preflight run that gated the call.
type GradeView struct {
	PropID    string
	DryRun    bool
	Status    string
	Result    string
	Preview   map[string]any
	Readiness ReadinessResult
}

type GradingService struct {
	propRepo  prop.Repository
	invoker   GradeInvoker
	preflight *PreflightService
	logger    *logging.Logger
}

func NewGradingService(propRepo prop.Repository, invoker GradeInvoker, preflight *PreflightService, logger *logging.Logger) *GradingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GradingService{
		propRepo:  propRepo,
		invoker:   invoker,
		preflight: preflight,
		logger:    logger,
	}
}

// BuildRequest merges the stored parameter bag with every value preflight
// inferred. Stored values always win over inferred ones.
func (s *GradingService) BuildRequest(stored prop.Prop, readiness ReadinessResult) formula.Bag {
	if readiness.ResolvedParams != nil {
		return readiness.ResolvedParams.Clone()
	}
	return stored.Params().Clone()
}

// GradeProp runs preflight and, when ready, invokes the grading service. A
// real run reflects the returned status and result into the prop without
// re-deriving them; a dry run changes nothing anywhere. Invocation never
// retries: grading is an explicit operator action.
func (s *GradingService) GradeProp(ctx context.Context, propID string, dryRun bool) (GradeView, error) {
	ctx, span := startUsecaseSpan(ctx, "GradingService.GradeProp")
	defer span.End()

	propID = strings.TrimSpace(propID)
	if propID == "" {
		return GradeView{}, fmt.Errorf("%w: prop id is required", ErrInvalidInput)
	}

	stored, exists, err := s.propRepo.GetByID(ctx, propID)
	if err != nil {
		return GradeView{}, fmt.Errorf("get prop: %w", err)
	}
	if !exists {
		return GradeView{}, fmt.Errorf("%w: prop=%s", ErrNotFound, propID)
	}

	readiness, err := s.preflight.PreflightProp(ctx, stored)
	if err != nil {
		return GradeView{}, err
	}
	view := GradeView{PropID: stored.ID, DryRun: dryRun, Readiness: readiness}
	if !readiness.Ready {
		return view, fmt.Errorf("%w: missing required fields: %s", ErrInvalidInput, strings.Join(readiness.Missing, ", "))
	}

	outcome, err := s.invoker.GradeProp(ctx, stored.AirtableID, dryRun, s.BuildRequest(stored, readiness))
	if err != nil {
		return view, fmt.Errorf("grade prop %s: %w", stored.ID, err)
	}

	if dryRun {
		view.Preview = outcome.Preview
		return view, nil
	}

	view.Status = outcome.Status
	view.Result = outcome.Result
	if err := s.propRepo.UpdateOutcome(ctx, stored.ID, outcome.Status, outcome.Result); err != nil {
		return view, fmt.Errorf("reflect grade outcome: %w", err)
	}
	s.logger.InfoContext(ctx, "prop graded", "prop_id", stored.ID, "status", outcome.Status, "result", outcome.Result)
	return view, nil
}
