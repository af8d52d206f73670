package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Denner-Esteves/painel-approve/internal/domain/enums"
	"github.com/Denner-Esteves/painel-approve/internal/domain/model"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

type TaskFields struct {
	ClientID       *int64
	ClientName     string
	Title          string
	Description    string
	Kind           enums.MediaKind
	Platform       string
	AccessPassword string
	ExternalURL    string
	Status         enums.TaskStatus
	ScheduledDate  *time.Time
}

const taskColumns = `
id, client_id, client_name, title, description, kind, platform,
access_password, external_url, status, approver_name, feedback,
scheduled_date, created_at
`

func (r *TaskRepo) InsertTx(ctx context.Context, tx pgx.Tx, fields TaskFields) (model.Task, error) {
	if tx == nil {
		return model.Task{}, fmt.Errorf("transaction is nil")
	}

	row := tx.QueryRow(ctx, `
INSERT INTO tasks (
	client_id, client_name, title, description, kind, platform,
	access_password, external_url, status, scheduled_date, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
RETURNING `+taskColumns, fields.ClientID, fields.ClientName, fields.Title,
		fields.Description, string(fields.Kind), fields.Platform,
		fields.AccessPassword, nullIfEmpty(fields.ExternalURL),
		string(fields.Status), fields.ScheduledDate)

	task, err := scanTask(row)
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}

	return task, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, taskID int64) (model.Task, error) {
	if r.pool == nil {
		return model.Task{}, fmt.Errorf("postgres pool is nil")
	}
	if taskID <= 0 {
		return model.Task{}, ErrTaskNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+taskColumns+`
FROM tasks
WHERE id = $1
LIMIT 1
`, taskID)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, ErrTaskNotFound
		}
		return model.Task{}, fmt.Errorf("get task: %w", err)
	}

	return task, nil
}

func (r *TaskRepo) List(ctx context.Context) ([]model.Task, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+taskColumns+`
FROM tasks
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

func (r *TaskRepo) ListByClientCreatedBetween(ctx context.Context, clientID int64, from, to time.Time) ([]model.Task, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+taskColumns+`
FROM tasks
WHERE client_id = $1 AND created_at >= $2 AND created_at < $3
ORDER BY created_at DESC, id DESC
`, clientID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("list client tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

func (r *TaskRepo) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+taskColumns+`
FROM tasks
WHERE scheduled_date IS NOT NULL AND scheduled_date >= $1 AND scheduled_date < $2
ORDER BY scheduled_date ASC, id ASC
`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("list scheduled tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

func (r *TaskRepo) ListCreationDates(ctx context.Context, clientID int64) ([]time.Time, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT created_at
FROM tasks
WHERE client_id = $1
`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list task creation dates: %w", err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var created time.Time
		if err := rows.Scan(&created); err != nil {
			return nil, fmt.Errorf("scan creation date: %w", err)
		}
		dates = append(dates, created)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate creation dates: %w", rows.Err())
	}

	return dates, nil
}

// LockTx takes a row lock on the task so that decision recompute reads a
// current item set instead of a stale snapshot.
func (r *TaskRepo) LockTx(ctx context.Context, tx pgx.Tx, taskID int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is nil")
	}

	var id int64
	err := tx.QueryRow(ctx, `
SELECT id
FROM tasks
WHERE id = $1
FOR UPDATE
`, taskID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("lock task row: %w", err)
	}

	return nil
}

func (r *TaskRepo) SetStatusTx(ctx context.Context, tx pgx.Tx, taskID int64, status enums.TaskStatus) error {
	if tx == nil {
		return fmt.Errorf("transaction is nil")
	}

	tag, err := tx.Exec(ctx, `
UPDATE tasks
SET status = $2
WHERE id = $1
`, taskID, string(status))
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepo) SetStatusStampApproverTx(ctx context.Context, tx pgx.Tx, taskID int64, status enums.TaskStatus, approver string) error {
	if tx == nil {
		return fmt.Errorf("transaction is nil")
	}

	tag, err := tx.Exec(ctx, `
UPDATE tasks
SET status = $2, approver_name = $3
WHERE id = $1
`, taskID, string(status), approver)
	if err != nil {
		return fmt.Errorf("update task status with approver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepo) SetStatusClearApproverTx(ctx context.Context, tx pgx.Tx, taskID int64, status enums.TaskStatus) error {
	if tx == nil {
		return fmt.Errorf("transaction is nil")
	}

	tag, err := tx.Exec(ctx, `
UPDATE tasks
SET status = $2, approver_name = NULL
WHERE id = $1
`, taskID, string(status))
	if err != nil {
		return fmt.Errorf("update task status clearing approver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// FinalizeTx is the link-only decision write: status, approver and, on
// rejection, the task-level feedback land in one statement.
func (r *TaskRepo) FinalizeTx(ctx context.Context, tx pgx.Tx, taskID int64, status enums.TaskStatus, approver, feedback string) error {
	if tx == nil {
		return fmt.Errorf("transaction is nil")
	}

	tag, err := tx.Exec(ctx, `
UPDATE tasks
SET status = $2, approver_name = $3, feedback = NULLIF($4, '')
WHERE id = $1
`, taskID, string(status), approver, feedback)
	if err != nil {
		return fmt.Errorf("finalize task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepo) SetStatus(ctx context.Context, taskID int64, status enums.TaskStatus) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE tasks
SET status = $2
WHERE id = $1
`, taskID, string(status))
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// Delete removes the task and its media items; items go first because the
// cascade is explicit rather than schema-level.
func (r *TaskRepo) Delete(ctx context.Context, taskID int64) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var affected int64
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
DELETE FROM media_items
WHERE task_id = $1
`, taskID); err != nil {
			return fmt.Errorf("delete task media items: %w", err)
		}

		tag, err := tx.Exec(ctx, `
DELETE FROM tasks
WHERE id = $1
`, taskID)
		if err != nil {
			return fmt.Errorf("delete task: %w", err)
		}

		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}

// ListInvariantViolations returns tasks with neither media items nor an
// external URL that are still presented for review. These only appear after
// a partial create failure.
func (r *TaskRepo) ListInvariantViolations(ctx context.Context) ([]int64, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT t.id
FROM tasks t
LEFT JOIN media_items mi ON mi.task_id = t.id
WHERE mi.id IS NULL
  AND COALESCE(t.external_url, '') = ''
  AND t.status <> 'IN_PRODUCTION'
ORDER BY t.id ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list invariant violations: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan violating task id: %w", err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate invariant violations: %w", rows.Err())
	}

	return ids, nil
}

func (r *TaskRepo) Pool() *pgxpool.Pool {
	return r.pool
}

func collectTasks(rows pgx.Rows) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate tasks: %w", rows.Err())
	}

	return tasks, nil
}

func scanTask(row pgx.Row) (model.Task, error) {
	var (
		task          model.Task
		clientID      *int64
		rawKind       string
		rawStatus     string
		externalURL   *string
		approverName  *string
		feedback      *string
		scheduledDate *time.Time
	)

	err := row.Scan(
		&task.ID,
		&clientID,
		&task.Owner.Name,
		&task.Title,
		&task.Description,
		&rawKind,
		&task.Platform,
		&task.AccessPassword,
		&externalURL,
		&rawStatus,
		&approverName,
		&feedback,
		&scheduledDate,
		&task.CreatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}

	task.Owner.ClientID = clientID
	if kind, ok := enums.ParseMediaKind(rawKind); ok {
		task.Kind = kind
	} else {
		task.Kind = enums.MediaKindOther
	}
	task.Status = enums.ParseTaskStatus(rawStatus)
	if externalURL != nil {
		task.ExternalURL = *externalURL
	}
	if approverName != nil {
		task.ApproverName = *approverName
	}
	if feedback != nil {
		task.Feedback = *feedback
	}
	task.ScheduledDate = scheduledDate

	return task, nil
}

func nullIfEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
