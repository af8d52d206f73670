package reviewloop

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Denner-Esteves/painel-approve/internal/domain/enums"
	"github.com/Denner-Esteves/painel-approve/internal/domain/model"
)

type sinkCall struct {
	itemID   int64
	taskID   int64
	linkOnly bool
	decision enums.Decision
	feedback string
}

type fakeSink struct {
	mu    sync.Mutex
	calls []sinkCall
	err   error
}

func (f *fakeSink) RecordDecision(_ context.Context, itemID int64, decision enums.Decision, feedback, _ string) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sinkCall{itemID: itemID, decision: decision, feedback: feedback})
	return model.Task{}, f.err
}

func (f *fakeSink) DecideLinkOnly(_ context.Context, taskID int64, decision enums.Decision, feedback, _ string) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sinkCall{taskID: taskID, linkOnly: true, decision: decision, feedback: feedback})
	return model.Task{}, f.err
}

func (f *fakeSink) recorded() []sinkCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sinkCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func testItems() []model.MediaItem {
	return []model.MediaItem{
		{ID: 1, TaskID: 10, SourceURL: "a", Decision: enums.DecisionPending},
		{ID: 2, TaskID: 10, SourceURL: "b", Decision: enums.DecisionPending},
		{ID: 3, TaskID: 10, SourceURL: "c", Decision: enums.DecisionPending},
	}
}

func TestLoopOrdersPendingFirst(t *testing.T) {
	items := []model.MediaItem{
		{ID: 1, Decision: enums.DecisionApproved},
		{ID: 2, Decision: enums.DecisionPending},
		{ID: 3, Decision: enums.DecisionPending},
	}
	loop := NewLoop(model.Task{ID: 10}, items, &fakeSink{}, Config{}, nil)

	unit, ok := loop.Current()
	if !ok {
		t.Fatalf("expected a pending unit")
	}
	if unit.ItemID != 2 {
		t.Fatalf("first pending unit should be the lowest pending id, got %d", unit.ItemID)
	}
}

func TestLoopDecideAdvancesAndSubmits(t *testing.T) {
	sink := &fakeSink{}
	loop := NewLoop(model.Task{ID: 10}, testItems(), sink, Config{ReviewerName: "Ana"}, nil)

	if err := loop.Decide(context.Background(), enums.DecisionApproved, ""); err != nil {
		t.Fatalf("decide: %v", err)
	}

	unit, ok := loop.Current()
	if !ok || unit.ItemID != 2 {
		t.Fatalf("loop should advance immediately, current = %+v ok = %v", unit, ok)
	}

	if err := loop.Decide(context.Background(), enums.DecisionRejected, "fix logo"); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if err := loop.Decide(context.Background(), enums.DecisionApproved, ""); err != nil {
		t.Fatalf("decide: %v", err)
	}

	if !loop.Done() {
		t.Fatalf("all units decided, loop should be done")
	}
	if err := loop.Decide(context.Background(), enums.DecisionApproved, ""); !errors.Is(err, ErrNoPendingUnit) {
		t.Fatalf("decide past the end: got %v", err)
	}

	loop.Wait()
	calls := sink.recorded()
	if len(calls) != 3 {
		t.Fatalf("expected 3 submissions, got %d", len(calls))
	}

	summary := loop.Summary()
	if summary.Approved != 2 || summary.NotApproved != 1 || summary.Total != 3 {
		t.Fatalf("summary: %+v", summary)
	}
}

func TestLoopAdvancesPastSubmitFailure(t *testing.T) {
	sink := &fakeSink{err: errors.New("store unreachable")}
	loop := NewLoop(model.Task{ID: 10}, testItems(), sink, Config{}, nil)

	if err := loop.Decide(context.Background(), enums.DecisionApproved, ""); err != nil {
		t.Fatalf("decide must not surface sink errors: %v", err)
	}
	loop.Wait()

	unit, ok := loop.Current()
	if !ok || unit.ItemID != 2 {
		t.Fatalf("loop must advance past a failed submit, current = %+v", unit)
	}
}

func TestLoopRejectsInvalidVerdict(t *testing.T) {
	loop := NewLoop(model.Task{ID: 10}, testItems(), &fakeSink{}, Config{}, nil)

	if err := loop.Decide(context.Background(), enums.DecisionPending, ""); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("pending verdict: got %v", err)
	}
}

func TestLoopSyntheticLinkUnit(t *testing.T) {
	sink := &fakeSink{}
	task := model.Task{ID: 10, ExternalURL: "https://docs.example/brief", Status: enums.TaskStatusAwaitingApproval}
	loop := NewLoop(task, nil, sink, Config{ReviewerName: "Ana"}, nil)

	unit, ok := loop.Current()
	if !ok || !unit.LinkOnly || unit.SourceURL != task.ExternalURL {
		t.Fatalf("expected a synthetic link unit, got %+v ok = %v", unit, ok)
	}

	if err := loop.Decide(context.Background(), enums.DecisionApproved, ""); err != nil {
		t.Fatalf("decide: %v", err)
	}
	loop.Wait()

	calls := sink.recorded()
	if len(calls) != 1 || !calls[0].linkOnly || calls[0].taskID != 10 {
		t.Fatalf("expected one link-only submission, got %+v", calls)
	}
	if !loop.Done() {
		t.Fatalf("single unit decided, loop should be done")
	}
}

func TestLoopDecidedLinkTaskHasNoPendingUnit(t *testing.T) {
	task := model.Task{ID: 10, ExternalURL: "https://docs.example/brief", Status: enums.TaskStatusApproved}
	loop := NewLoop(task, nil, &fakeSink{}, Config{}, nil)

	if !loop.Done() {
		t.Fatalf("approved link task should have nothing left to review")
	}
	summary := loop.Summary()
	if summary.Approved != 1 || summary.Total != 1 {
		t.Fatalf("summary: %+v", summary)
	}
}
