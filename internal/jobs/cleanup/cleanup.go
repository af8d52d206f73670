package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Denner-Esteves/painel-approve/internal/domain/enums"
)

// Job sweeps tasks that ended up with no reviewable content (no media items
// and no external link) but a status other than IN_PRODUCTION. Such rows can
// only come from a failed secondary write; the sweep parks them back in
// production so they stop showing up in review lists.
type Job struct {
	tasks  taskSweeper
	logger *zap.Logger
}

type taskSweeper interface {
	ListInvariantViolations(ctx context.Context) ([]int64, error)
	SetStatus(ctx context.Context, taskID int64, status enums.TaskStatus) error
}

func New(tasks taskSweeper, logger *zap.Logger) *Job {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		tasks:  tasks,
		logger: logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.tasks == nil {
		return nil
	}

	taskIDs, err := j.tasks.ListInvariantViolations(ctx)
	if err != nil {
		return fmt.Errorf("list content-less tasks: %w", err)
	}
	if len(taskIDs) == 0 {
		return nil
	}

	var fixed int
	for _, taskID := range taskIDs {
		if err := j.tasks.SetStatus(ctx, taskID, enums.TaskStatusInProduction); err != nil {
			j.logger.Warn("failed to park content-less task",
				zap.Int64("task_id", taskID),
				zap.Error(err))
			continue
		}
		fixed++
	}

	j.logger.Info("content-less task sweep completed",
		zap.Int("found", len(taskIDs)),
		zap.Int("parked", fixed))

	return nil
}

// Start runs the sweep on a fixed interval until the context is cancelled.
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("cleanup run failed", zap.Error(err))
			}
		}
	}
}
