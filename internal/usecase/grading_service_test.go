package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/propdesk/prop-grading/internal/infrastructure/repository/memory"
)

func newGradingFixture(invoker *stubGradeInvoker) (*GradingService, *memory.PropRepository) {
	propRepo := memory.NewPropRepository(memory.SeedProps())
	preflight := NewPreflightService(propRepo, memory.NewReadoutRepository())
	return NewGradingService(propRepo, invoker, preflight, testLogger()), propRepo
}

func TestGradeProp_RealRunReflectsOutcome(t *testing.T) {
	invoker := &stubGradeInvoker{outcome: GradeOutcome{Status: "graded", Result: "A"}}
	svc, propRepo := newGradingFixture(invoker)

	view, err := svc.GradeProp(t.Context(), memory.PropIDCasasHits, false)
	if err != nil {
		t.Fatalf("grade failed: %v", err)
	}
	if view.Status != "graded" || view.Result != "A" {
		t.Fatalf("unexpected view %+v", view)
	}
	if invoker.lastID != "recCasasHits01" || invoker.lastDryRun {
		t.Fatalf("unexpected invocation id=%q dryRun=%v", invoker.lastID, invoker.lastDryRun)
	}
	if invoker.lastParams.GetString("espnGameID") != "20240404_BOS@NYY" {
		t.Fatalf("expected inferred params in request, got=%v", invoker.lastParams)
	}

	stored, _, err := propRepo.GetByID(t.Context(), memory.PropIDCasasHits)
	if err != nil {
		t.Fatalf("get prop: %v", err)
	}
	if stored.Status != "graded" || stored.Result != "A" {
		t.Fatalf("outcome not reflected: %+v", stored)
	}
}

func TestGradeProp_DryRunChangesNothing(t *testing.T) {
	invoker := &stubGradeInvoker{outcome: GradeOutcome{Preview: map[string]any{"request": "echo"}}}
	svc, propRepo := newGradingFixture(invoker)

	view, err := svc.GradeProp(t.Context(), memory.PropIDCasasHits, true)
	if err != nil {
		t.Fatalf("grade failed: %v", err)
	}
	if view.Preview == nil {
		t.Fatalf("expected preview on dry run")
	}
	if !invoker.lastDryRun {
		t.Fatalf("expected dryRun flag forwarded")
	}

	stored, _, _ := propRepo.GetByID(t.Context(), memory.PropIDCasasHits)
	if stored.Status != "" || stored.Result != "" {
		t.Fatalf("dry run mutated prop state: %+v", stored)
	}
}

func TestGradeProp_BlockedWhenNotReady(t *testing.T) {
	invoker := &stubGradeInvoker{}
	svc, _ := newGradingFixture(invoker)

	view, err := svc.GradeProp(t.Context(), memory.PropIDSoxWin, false)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if invoker.calls.Load() != 0 {
		t.Fatalf("invoker must not run when preflight blocks")
	}
	if len(view.Readiness.Missing) == 0 {
		t.Fatalf("expected missing fields on blocked grade")
	}
}

func TestGradeProp_ServiceFailureSurfacedWithoutRetry(t *testing.T) {
	invoker := &stubGradeInvoker{err: errors.New("grade rejected: prop has no event linked")}
	svc, propRepo := newGradingFixture(invoker)

	_, err := svc.GradeProp(t.Context(), memory.PropIDCasasHits, false)
	if err == nil || !strings.Contains(err.Error(), "prop has no event linked") {
		t.Fatalf("expected service message kept, got %v", err)
	}
	if invoker.calls.Load() != 1 {
		t.Fatalf("expected exactly one invocation, got=%d", invoker.calls.Load())
	}

	stored, _, _ := propRepo.GetByID(t.Context(), memory.PropIDCasasHits)
	if stored.Status != "" {
		t.Fatalf("failure must not change prop state: %+v", stored)
	}
}
