package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/propdesk/prop-grading/internal/domain/prop"
	"github.com/propdesk/prop-grading/internal/platform/id"
	"github.com/propdesk/prop-grading/internal/platform/logging"
)

const (
	packGradeStatusSuccess = "success"
	packGradeStatusFailed  = "failed"
	packGradeStatusSkipped = "skipped"

	defaultPackWorkers = 4
	maxPackWorkers     = 16
)

type PackGradeInput struct {
	PackID     string
	DryRun     bool
	MaxWorkers int
}

type PackGradeResult struct {
	RunID        string               `json:"run_id"`
	PackID       string               `json:"pack_id"`
	PropCount    int                  `json:"prop_count"`
	SuccessCount int                  `json:"success_count"`
	FailedCount  int                  `json:"failed_count"`
	SkippedCount int                  `json:"skipped_count"`
	WorkerCount  int                  `json:"worker_count"`
	DryRun       bool                 `json:"dry_run"`
	Props        []PackGradePropEntry `json:"props"`
}

type PackGradePropEntry struct {
	PropID     string   `json:"prop_id"`
	Status     string   `json:"status"`
	PropStatus string   `json:"prop_status,omitempty"`
	PropResult string   `json:"prop_result,omitempty"`
	Missing    []string `json:"missing,omitempty"`
	DurationMs int64    `json:"duration_ms"`
	Message    string   `json:"message,omitempty"`
}

type PackGradingService struct {
	propRepo       prop.Repository
	grading        *GradingService
	idGenerator    id.Generator
	defaultWorkers int
	logger         *logging.Logger
}

// NewPackGradingService builds the service. defaultWorkers sizes the pool for
// requests that do not ask for a count themselves; out-of-range values fall
// back to the package defaults.
func NewPackGradingService(propRepo prop.Repository, grading *GradingService, idGenerator id.Generator, defaultWorkers int, logger *logging.Logger) *PackGradingService {
	if logger == nil {
		logger = logging.Default()
	}
	if defaultWorkers <= 0 {
		defaultWorkers = defaultPackWorkers
	}
	if defaultWorkers > maxPackWorkers {
		defaultWorkers = maxPackWorkers
	}
	return &PackGradingService{
		propRepo:       propRepo,
		grading:        grading,
		idGenerator:    idGenerator,
		defaultWorkers: defaultWorkers,
		logger:         logger,
	}
}

// GradePack runs grading over every prop in a pack on a bounded worker pool.
// Props that fail preflight are reported as skipped with their missing
// fields; one prop failing never aborts the rest.
func (s *PackGradingService) GradePack(ctx context.Context, input PackGradeInput) (PackGradeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "PackGradingService.GradePack")
	defer span.End()

	packID := strings.TrimSpace(input.PackID)
	if packID == "" {
		return PackGradeResult{}, fmt.Errorf("%w: pack id is required", ErrInvalidInput)
	}

	props, err := s.propRepo.ListByPack(ctx, packID)
	if err != nil {
		return PackGradeResult{}, fmt.Errorf("list props by pack: %w", err)
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = s.defaultWorkers
	}
	if workerCount > maxPackWorkers {
		workerCount = maxPackWorkers
	}
	if len(props) > 0 && workerCount > len(props) {
		workerCount = len(props)
	}

	result := PackGradeResult{
		PackID:      packID,
		PropCount:   len(props),
		WorkerCount: workerCount,
		DryRun:      input.DryRun,
	}
	if s.idGenerator != nil {
		if runID, idErr := s.idGenerator.NewID(); idErr == nil {
			result.RunID = runID
		}
	}
	if len(props) == 0 {
		return result, nil
	}

	rows := make(chan PackGradePropEntry, len(props))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return PackGradeResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, item := range props {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := PackGradePropEntry{PropID: item.ID}

			view, gradeErr := s.grading.GradeProp(ctx, item.ID, input.DryRun)
			row.DurationMs = time.Since(start).Milliseconds()
			switch {
			case gradeErr == nil:
				row.Status = packGradeStatusSuccess
				row.PropStatus = view.Status
				row.PropResult = view.Result
				successCount.Add(1)
			case len(view.Readiness.Missing) > 0:
				row.Status = packGradeStatusSkipped
				row.Missing = view.Readiness.Missing
				row.Message = gradeErr.Error()
				skippedCount.Add(1)
			default:
				row.Status = packGradeStatusFailed
				row.Message = gradeErr.Error()
				failedCount.Add(1)
			}

			rows <- row
		}); err != nil {
			workers.Done()
			return PackGradeResult{}, fmt.Errorf("submit prop to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Props = append(result.Props, row)
	}
	sort.SliceStable(result.Props, func(i, j int) bool {
		return result.Props[i].PropID < result.Props[j].PropID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())

	s.logger.InfoContext(ctx, "pack grading finished",
		"run_id", result.RunID,
		"pack_id", packID,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)
	return result, nil
}
