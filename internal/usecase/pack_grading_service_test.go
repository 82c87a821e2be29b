package usecase

import (
	"errors"
	"testing"

	"github.com/propdesk/prop-grading/internal/infrastructure/repository/memory"
	"github.com/propdesk/prop-grading/internal/platform/id"
)

func newPackFixture(invoker *stubGradeInvoker) (*PackGradingService, *memory.PropRepository) {
	return newPackFixtureWorkers(invoker, 0)
}

func newPackFixtureWorkers(invoker *stubGradeInvoker, defaultWorkers int) (*PackGradingService, *memory.PropRepository) {
	propRepo := memory.NewPropRepository(memory.SeedProps())
	preflight := NewPreflightService(propRepo, memory.NewReadoutRepository())
	grading := NewGradingService(propRepo, invoker, preflight, testLogger())
	return NewPackGradingService(propRepo, grading, id.NewRandomGenerator(), defaultWorkers, testLogger()), propRepo
}

func TestGradePack_MixedOutcomes(t *testing.T) {
	invoker := &stubGradeInvoker{outcome: GradeOutcome{Status: "graded", Result: "A"}}
	svc, _ := newPackFixture(invoker)

	result, err := svc.GradePack(t.Context(), PackGradeInput{PackID: memory.PackIDOpeningDay})
	if err != nil {
		t.Fatalf("grade pack failed: %v", err)
	}
	if result.RunID == "" {
		t.Fatalf("expected run id assigned")
	}
	if result.PropCount != 2 {
		t.Fatalf("expected two props in pack, got=%d", result.PropCount)
	}
	if result.SuccessCount != 1 || result.SkippedCount != 1 || result.FailedCount != 0 {
		t.Fatalf("unexpected counts %+v", result)
	}

	if len(result.Props) != 2 {
		t.Fatalf("expected one row per prop, got=%d", len(result.Props))
	}
	if result.Props[0].PropID > result.Props[1].PropID {
		t.Fatalf("expected rows sorted by prop id, got=%v", result.Props)
	}
	for _, row := range result.Props {
		if row.PropID == memory.PropIDSoxWin {
			if row.Status != packGradeStatusSkipped || len(row.Missing) == 0 {
				t.Fatalf("expected unready prop skipped with missing fields, got=%+v", row)
			}
		}
		if row.PropID == memory.PropIDCasasHits && row.Status != packGradeStatusSuccess {
			t.Fatalf("expected ready prop graded, got=%+v", row)
		}
	}
}

func TestGradePack_ConfiguredDefaultWorkers(t *testing.T) {
	invoker := &stubGradeInvoker{outcome: GradeOutcome{Status: "graded", Result: "A"}}
	svc, _ := newPackFixtureWorkers(invoker, 1)

	result, err := svc.GradePack(t.Context(), PackGradeInput{PackID: memory.PackIDOpeningDay})
	if err != nil {
		t.Fatalf("grade pack failed: %v", err)
	}
	if result.WorkerCount != 1 {
		t.Fatalf("expected configured default worker count 1, got=%d", result.WorkerCount)
	}

	// An explicit request still overrides the configured default.
	result, err = svc.GradePack(t.Context(), PackGradeInput{PackID: memory.PackIDOpeningDay, MaxWorkers: 2})
	if err != nil {
		t.Fatalf("grade pack failed: %v", err)
	}
	if result.WorkerCount != 2 {
		t.Fatalf("expected requested worker count 2, got=%d", result.WorkerCount)
	}
}

func TestGradePack_InvokerFailuresCounted(t *testing.T) {
	invoker := &stubGradeInvoker{err: errors.New("grading service down")}
	svc, _ := newPackFixture(invoker)

	result, err := svc.GradePack(t.Context(), PackGradeInput{PackID: memory.PackIDWeekOne})
	if err != nil {
		t.Fatalf("grade pack failed: %v", err)
	}
	if result.FailedCount != 1 || result.SuccessCount != 0 {
		t.Fatalf("unexpected counts %+v", result)
	}
	if result.Props[0].Message == "" {
		t.Fatalf("expected failure message kept, got=%+v", result.Props[0])
	}
}

func TestGradePack_EmptyPack(t *testing.T) {
	invoker := &stubGradeInvoker{}
	svc, _ := newPackFixture(invoker)

	result, err := svc.GradePack(t.Context(), PackGradeInput{PackID: "pack-unknown"})
	if err != nil {
		t.Fatalf("grade pack failed: %v", err)
	}
	if result.PropCount != 0 || len(result.Props) != 0 {
		t.Fatalf("expected empty result, got=%+v", result)
	}
	if invoker.calls.Load() != 0 {
		t.Fatalf("invoker must not run for empty pack")
	}
}

func TestGradePack_RequiresPackID(t *testing.T) {
	invoker := &stubGradeInvoker{}
	svc, _ := newPackFixture(invoker)

	if _, err := svc.GradePack(t.Context(), PackGradeInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
