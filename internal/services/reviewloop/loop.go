package reviewloop

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Denner-Esteves/painel-approve/internal/domain/enums"
	"github.com/Denner-Esteves/painel-approve/internal/domain/model"
)

var (
	ErrNoPendingUnit   = errors.New("no pending unit left")
	ErrInvalidDecision = errors.New("decision must be approved or rejected")
)

// Unit is one reviewable step of the loop. For a link-only task there is a
// single synthetic unit with no item id behind it.
type Unit struct {
	ItemID    int64
	SourceURL string
	Decision  enums.Decision
	Feedback  string
	LinkOnly  bool
}

// DecisionSink receives the authoritative writes behind the loop's
// optimistic local state.
type DecisionSink interface {
	RecordDecision(ctx context.Context, itemID int64, decision enums.Decision, feedback, approver string) (model.Task, error)
	DecideLinkOnly(ctx context.Context, taskID int64, decision enums.Decision, feedback, approver string) (model.Task, error)
}

type Config struct {
	// AdvanceDelay separates the optimistic state flip from advancing to the
	// next unit, matching the swipe animation. Zero is fine headless.
	AdvanceDelay time.Duration
	ReviewerName string
}

type Summary struct {
	Approved    int
	NotApproved int
	Total       int
}

// Loop drives a single reviewer through a task's units in a fixed order:
// pending units first, then by id ascending. Decide flips local state
// immediately, submits to the sink in the background and always advances,
// whatever the server said.
type Loop struct {
	taskID int64
	sink   DecisionSink
	cfg    Config
	logger *zap.Logger

	mu    sync.Mutex
	units []Unit

	wg sync.WaitGroup
}

func NewLoop(task model.Task, items []model.MediaItem, sink DecisionSink, cfg Config, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}

	units := make([]Unit, 0, len(items))
	for _, item := range items {
		units = append(units, Unit{
			ItemID:    item.ID,
			SourceURL: item.SourceURL,
			Decision:  item.Decision,
			Feedback:  item.Feedback,
		})
	}

	if len(units) == 0 && task.LinkOnly() {
		units = append(units, Unit{
			SourceURL: task.ExternalURL,
			Decision:  syntheticDecision(task.Status),
			LinkOnly:  true,
		})
	}

	sort.SliceStable(units, func(i, j int) bool {
		iPending := units[i].Decision == enums.DecisionPending
		jPending := units[j].Decision == enums.DecisionPending
		if iPending != jPending {
			return iPending
		}
		return units[i].ItemID < units[j].ItemID
	})

	return &Loop{
		taskID: task.ID,
		sink:   sink,
		cfg:    cfg,
		logger: logger,
		units:  units,
	}
}

// Current returns the first unit still pending; when every unit is decided
// the second result is false.
func (l *Loop) Current() (Unit, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, unit := range l.units {
		if unit.Decision == enums.DecisionPending {
			return unit, true
		}
	}
	return Unit{}, false
}

// Decide applies the verdict to the current unit. The local state is updated
// before the server write is even attempted, and the loop advances whether
// or not that write succeeds. Submission failures are logged, not retried.
func (l *Loop) Decide(ctx context.Context, decision enums.Decision, feedback string) error {
	if decision != enums.DecisionApproved && decision != enums.DecisionRejected {
		return ErrInvalidDecision
	}

	l.mu.Lock()
	idx := -1
	for i := range l.units {
		if l.units[i].Decision == enums.DecisionPending {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return ErrNoPendingUnit
	}

	l.units[idx].Decision = decision
	l.units[idx].Feedback = feedback
	unit := l.units[idx]
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		var err error
		if unit.LinkOnly {
			_, err = l.sink.DecideLinkOnly(ctx, l.taskID, decision, feedback, l.cfg.ReviewerName)
		} else {
			_, err = l.sink.RecordDecision(ctx, unit.ItemID, decision, feedback, l.cfg.ReviewerName)
		}
		if err != nil {
			l.logger.Warn("decision submit failed",
				zap.Int64("task_id", l.taskID),
				zap.Int64("item_id", unit.ItemID),
				zap.String("decision", string(decision)),
				zap.Error(err))
		}
	}()

	if l.cfg.AdvanceDelay > 0 {
		time.Sleep(l.cfg.AdvanceDelay)
	}

	return nil
}

func (l *Loop) Done() bool {
	_, ok := l.Current()
	return !ok
}

func (l *Loop) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	summary := Summary{Total: len(l.units)}
	for _, unit := range l.units {
		if unit.Decision == enums.DecisionApproved {
			summary.Approved++
		} else {
			summary.NotApproved++
		}
	}
	return summary
}

// Wait blocks until every background submission has finished.
func (l *Loop) Wait() {
	l.wg.Wait()
}

func syntheticDecision(status enums.TaskStatus) enums.Decision {
	switch status {
	case enums.TaskStatusApproved:
		return enums.DecisionApproved
	case enums.TaskStatusRejected:
		return enums.DecisionRejected
	default:
		return enums.DecisionPending
	}
}
