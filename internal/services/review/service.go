package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Denner-Esteves/painel-approve/internal/domain/enums"
	"github.com/Denner-Esteves/painel-approve/internal/domain/model"
	"github.com/Denner-Esteves/painel-approve/internal/pkg/validate"
	pgrepo "github.com/Denner-Esteves/painel-approve/internal/repo/postgres"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrItemNotFound     = errors.New("media item not found")
	ErrEmptyInput       = errors.New("no media urls provided")
	ErrInvalidDecision  = errors.New("decision must be approved or rejected")
	ErrInvalidStatus    = errors.New("unknown task status")
	ErrFeedbackRequired = errors.New("rejection requires feedback")
	ErrMissingField     = errors.New("required field is empty")
	ErrNotLinkOnly      = errors.New("task is reviewed item by item")
)

type TaskStore interface {
	InsertTx(ctx context.Context, tx pgx.Tx, fields pgrepo.TaskFields) (model.Task, error)
	GetByID(ctx context.Context, taskID int64) (model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	LockTx(ctx context.Context, tx pgx.Tx, taskID int64) error
	SetStatusTx(ctx context.Context, tx pgx.Tx, taskID int64, status enums.TaskStatus) error
	SetStatusStampApproverTx(ctx context.Context, tx pgx.Tx, taskID int64, status enums.TaskStatus, approver string) error
	SetStatusClearApproverTx(ctx context.Context, tx pgx.Tx, taskID int64, status enums.TaskStatus) error
	FinalizeTx(ctx context.Context, tx pgx.Tx, taskID int64, status enums.TaskStatus, approver, feedback string) error
	Delete(ctx context.Context, taskID int64) (int64, error)
}

type ItemStore interface {
	InsertManyTx(ctx context.Context, tx pgx.Tx, taskID int64, urls []string) ([]model.MediaItem, error)
	GetByID(ctx context.Context, itemID int64) (model.MediaItem, error)
	ListByTask(ctx context.Context, taskID int64) ([]model.MediaItem, error)
	ListByTaskTx(ctx context.Context, tx pgx.Tx, taskID int64) ([]model.MediaItem, error)
	UpdateDecisionTx(ctx context.Context, tx pgx.Tx, itemID int64, decision enums.Decision, feedback string) (int64, error)
}

type TxRunner interface {
	InTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

// Service owns the task state machine: creation, decision recording with
// status recomputation, version resubmission and manual overrides. Every
// mutation that touches a task's status runs inside one transaction holding
// the task row lock, so concurrent decisions on the same task serialize.
type Service struct {
	tasks  TaskStore
	items  ItemStore
	runner TxRunner
	logger *zap.Logger
}

func NewService(tasks TaskStore, items ItemStore, runner TxRunner, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		tasks:  tasks,
		items:  items,
		runner: runner,
		logger: logger,
	}
}

type CreateTaskInput struct {
	ClientID       *int64
	ClientName     string
	Title          string
	Description    string
	Kind           enums.MediaKind
	Platform       string
	AccessPassword string
	ExternalURL    string
	ScheduledDate  *time.Time
	MediaURLs      []string
}

// Create inserts the task and its initial media items in one transaction, so
// a failed item insert never leaves a content-less task behind. The initial
// status is derived: a task with neither media nor an external link starts
// IN_PRODUCTION, everything else starts AWAITING_APPROVAL.
func (s *Service) Create(ctx context.Context, in CreateTaskInput) (model.Task, []model.MediaItem, error) {
	if !validate.Required(in.Title) || !validate.Required(in.AccessPassword) {
		return model.Task{}, nil, ErrMissingField
	}
	if in.ClientID == nil && !validate.Required(in.ClientName) {
		return model.Task{}, nil, ErrMissingField
	}

	urls := cleanURLs(in.MediaURLs)
	status := enums.TaskStatusAwaitingApproval
	if len(urls) == 0 && strings.TrimSpace(in.ExternalURL) == "" {
		status = enums.TaskStatusInProduction
	}

	var (
		task  model.Task
		items []model.MediaItem
	)

	err := s.runner.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		task, err = s.tasks.InsertTx(ctx, tx, pgrepo.TaskFields{
			ClientID:       in.ClientID,
			ClientName:     strings.TrimSpace(in.ClientName),
			Title:          strings.TrimSpace(in.Title),
			Description:    in.Description,
			Kind:           in.Kind,
			Platform:       in.Platform,
			AccessPassword: in.AccessPassword,
			ExternalURL:    strings.TrimSpace(in.ExternalURL),
			Status:         status,
			ScheduledDate:  in.ScheduledDate,
		})
		if err != nil {
			return err
		}

		if len(urls) > 0 {
			items, err = s.items.InsertManyTx(ctx, tx, task.ID, urls)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return model.Task{}, nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info("task created",
		zap.Int64("task_id", task.ID),
		zap.String("status", string(task.Status)),
		zap.Int("media_items", len(items)))

	return task, items, nil
}

// RecordDecision applies a reviewer's verdict to one media item and
// recomputes the owning task's status from the full, current item set. The
// task row is locked before the item is updated, so two decisions on items
// of the same task never interleave their read-recompute-write cycles.
// Rejections must carry feedback; feedback on approvals is dropped. When the
// recomputed status is terminal the approver identity is stamped; a
// non-terminal result leaves the approver field alone.
func (s *Service) RecordDecision(ctx context.Context, itemID int64, decision enums.Decision, feedback, approver string) (model.Task, error) {
	if decision != enums.DecisionApproved && decision != enums.DecisionRejected {
		return model.Task{}, ErrInvalidDecision
	}
	if decision == enums.DecisionRejected && !validate.Required(feedback) {
		return model.Task{}, ErrFeedbackRequired
	}
	if decision == enums.DecisionApproved {
		feedback = ""
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMediaItemNotFound) {
			return model.Task{}, ErrItemNotFound
		}
		return model.Task{}, fmt.Errorf("load media item: %w", err)
	}

	var status enums.TaskStatus

	err = s.runner.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.tasks.LockTx(ctx, tx, item.TaskID); err != nil {
			return err
		}

		if _, err := s.items.UpdateDecisionTx(ctx, tx, itemID, decision, strings.TrimSpace(feedback)); err != nil {
			return err
		}

		current, err := s.items.ListByTaskTx(ctx, tx, item.TaskID)
		if err != nil {
			return err
		}

		status = AggregateStatus(decisionsOf(current))
		if status.IsTerminal() {
			return s.tasks.SetStatusStampApproverTx(ctx, tx, item.TaskID, status, approver)
		}
		return s.tasks.SetStatusTx(ctx, tx, item.TaskID, status)
	})
	if err != nil {
		if errors.Is(err, pgrepo.ErrTaskNotFound) {
			return model.Task{}, ErrTaskNotFound
		}
		if errors.Is(err, pgrepo.ErrMediaItemNotFound) {
			return model.Task{}, ErrItemNotFound
		}
		return model.Task{}, fmt.Errorf("record decision: %w", err)
	}

	s.logger.Info("decision recorded",
		zap.Int64("task_id", item.TaskID),
		zap.Int64("item_id", itemID),
		zap.String("decision", string(decision)),
		zap.String("task_status", string(status)))

	return s.Get(ctx, item.TaskID)
}

// DecideLinkOnly resolves a task that is reviewed as a single external link.
// There are no item decisions to aggregate: the reviewer's verdict becomes
// the task status directly.
func (s *Service) DecideLinkOnly(ctx context.Context, taskID int64, decision enums.Decision, feedback, approver string) (model.Task, error) {
	if decision != enums.DecisionApproved && decision != enums.DecisionRejected {
		return model.Task{}, ErrInvalidDecision
	}
	if decision == enums.DecisionRejected && !validate.Required(feedback) {
		return model.Task{}, ErrFeedbackRequired
	}
	if decision == enums.DecisionApproved {
		feedback = ""
	}

	task, err := s.Get(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}
	if !task.LinkOnly() {
		return model.Task{}, ErrNotLinkOnly
	}

	status := enums.TaskStatusApproved
	if decision == enums.DecisionRejected {
		status = enums.TaskStatusRejected
	}

	err = s.runner.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.tasks.LockTx(ctx, tx, taskID); err != nil {
			return err
		}
		return s.tasks.FinalizeTx(ctx, tx, taskID, status, approver, strings.TrimSpace(feedback))
	})
	if err != nil {
		if errors.Is(err, pgrepo.ErrTaskNotFound) {
			return model.Task{}, ErrTaskNotFound
		}
		return model.Task{}, fmt.Errorf("decide link-only task: %w", err)
	}

	s.logger.Info("link-only task decided",
		zap.Int64("task_id", taskID),
		zap.String("task_status", string(status)))

	return s.Get(ctx, taskID)
}

// AddVersion appends a fresh batch of pending items and unconditionally
// moves the task back to AWAITING_APPROVAL. Prior items keep their decisions
// as review history.
func (s *Service) AddVersion(ctx context.Context, taskID int64, urls []string) ([]model.MediaItem, error) {
	urls = cleanURLs(urls)
	if len(urls) == 0 {
		return nil, ErrEmptyInput
	}

	var items []model.MediaItem

	err := s.runner.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.tasks.LockTx(ctx, tx, taskID); err != nil {
			return err
		}

		var err error
		items, err = s.items.InsertManyTx(ctx, tx, taskID, urls)
		if err != nil {
			return err
		}

		return s.tasks.SetStatusClearApproverTx(ctx, tx, taskID, enums.TaskStatusAwaitingApproval)
	})
	if err != nil {
		if errors.Is(err, pgrepo.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("add version: %w", err)
	}

	s.logger.Info("version added",
		zap.Int64("task_id", taskID),
		zap.Int("media_items", len(items)))

	return items, nil
}

// SetStatusManually is the operator escape hatch. It bypasses aggregation
// entirely: a terminal status stamps the operator as approver, a non-terminal
// one clears the approver field.
func (s *Service) SetStatusManually(ctx context.Context, taskID int64, status enums.TaskStatus, operatorIdentity string) (model.Task, error) {
	if !status.Valid() {
		return model.Task{}, ErrInvalidStatus
	}

	err := s.runner.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.tasks.LockTx(ctx, tx, taskID); err != nil {
			return err
		}
		if status.IsTerminal() {
			return s.tasks.SetStatusStampApproverTx(ctx, tx, taskID, status, operatorIdentity)
		}
		return s.tasks.SetStatusClearApproverTx(ctx, tx, taskID, status)
	})
	if err != nil {
		if errors.Is(err, pgrepo.ErrTaskNotFound) {
			return model.Task{}, ErrTaskNotFound
		}
		return model.Task{}, fmt.Errorf("set task status: %w", err)
	}

	s.logger.Info("task status overridden",
		zap.Int64("task_id", taskID),
		zap.String("task_status", string(status)))

	return s.Get(ctx, taskID)
}

func (s *Service) Delete(ctx context.Context, taskID int64) error {
	affected, err := s.tasks.Delete(ctx, taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}

	s.logger.Info("task deleted", zap.Int64("task_id", taskID))

	return nil
}

func (s *Service) Item(ctx context.Context, itemID int64) (model.MediaItem, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMediaItemNotFound) {
			return model.MediaItem{}, ErrItemNotFound
		}
		return model.MediaItem{}, fmt.Errorf("load media item: %w", err)
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, taskID int64) (model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrTaskNotFound) {
			return model.Task{}, ErrTaskNotFound
		}
		return model.Task{}, fmt.Errorf("load task: %w", err)
	}
	return task, nil
}

func (s *Service) GetWithItems(ctx context.Context, taskID int64) (model.Task, []model.MediaItem, error) {
	task, err := s.Get(ctx, taskID)
	if err != nil {
		return model.Task{}, nil, err
	}

	items, err := s.items.ListByTask(ctx, taskID)
	if err != nil {
		return model.Task{}, nil, fmt.Errorf("list media items: %w", err)
	}

	return task, items, nil
}

func (s *Service) List(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func cleanURLs(urls []string) []string {
	cleaned := make([]string, 0, len(urls))
	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url != "" {
			cleaned = append(cleaned, url)
		}
	}
	return cleaned
}
