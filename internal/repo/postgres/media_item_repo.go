package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Denner-Esteves/painel-approve/internal/domain/enums"
	"github.com/Denner-Esteves/painel-approve/internal/domain/model"
)

var ErrMediaItemNotFound = errors.New("media item not found")

type MediaItemRepo struct {
	pool *pgxpool.Pool
}

func NewMediaItemRepo(pool *pgxpool.Pool) *MediaItemRepo {
	return &MediaItemRepo{pool: pool}
}

func (r *MediaItemRepo) InsertManyTx(ctx context.Context, tx pgx.Tx, taskID int64, urls []string) ([]model.MediaItem, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction is nil")
	}
	if taskID <= 0 || len(urls) == 0 {
		return nil, fmt.Errorf("invalid media item payload")
	}

	items := make([]model.MediaItem, 0, len(urls))
	for _, url := range urls {
		var item model.MediaItem
		var rawDecision string
		err := tx.QueryRow(ctx, `
INSERT INTO media_items (task_id, source_url, decision, created_at)
VALUES ($1, $2, 'pending', NOW())
RETURNING id, task_id, source_url, decision, created_at
`, taskID, url).Scan(&item.ID, &item.TaskID, &item.SourceURL, &rawDecision, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert media item: %w", err)
		}
		item.Decision = enums.Decision(rawDecision)
		items = append(items, item)
	}

	return items, nil
}

func (r *MediaItemRepo) GetByID(ctx context.Context, itemID int64) (model.MediaItem, error) {
	if r.pool == nil {
		return model.MediaItem{}, fmt.Errorf("postgres pool is nil")
	}
	if itemID <= 0 {
		return model.MediaItem{}, ErrMediaItemNotFound
	}

	item, err := scanMediaItem(r.pool.QueryRow(ctx, `
SELECT id, task_id, source_url, decision, feedback, created_at
FROM media_items
WHERE id = $1
LIMIT 1
`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MediaItem{}, ErrMediaItemNotFound
		}
		return model.MediaItem{}, fmt.Errorf("get media item: %w", err)
	}

	return item, nil
}

func (r *MediaItemRepo) ListByTask(ctx context.Context, taskID int64) ([]model.MediaItem, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, mediaItemsByTaskQuery, taskID)
	if err != nil {
		return nil, fmt.Errorf("list media items: %w", err)
	}
	defer rows.Close()

	return collectMediaItems(rows)
}

// ListByTaskTx reads the item set inside the caller's transaction so a status
// recompute sees every decision committed before the task row lock was taken.
func (r *MediaItemRepo) ListByTaskTx(ctx context.Context, tx pgx.Tx, taskID int64) ([]model.MediaItem, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction is nil")
	}

	rows, err := tx.Query(ctx, mediaItemsByTaskQuery, taskID)
	if err != nil {
		return nil, fmt.Errorf("list media items in tx: %w", err)
	}
	defer rows.Close()

	return collectMediaItems(rows)
}

// UpdateDecisionTx writes the reviewer's verdict and returns the owning task
// id for the follow-up status recompute.
func (r *MediaItemRepo) UpdateDecisionTx(ctx context.Context, tx pgx.Tx, itemID int64, decision enums.Decision, feedback string) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is nil")
	}
	if itemID <= 0 {
		return 0, ErrMediaItemNotFound
	}

	var taskID int64
	err := tx.QueryRow(ctx, `
UPDATE media_items
SET decision = $2, feedback = NULLIF($3, '')
WHERE id = $1
RETURNING task_id
`, itemID, string(decision), feedback).Scan(&taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrMediaItemNotFound
		}
		return 0, fmt.Errorf("update media item decision: %w", err)
	}

	return taskID, nil
}

func (r *MediaItemRepo) CountByTask(ctx context.Context, taskID int64) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	var count int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM media_items
WHERE task_id = $1
`, taskID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count media items: %w", err)
	}

	return count, nil
}

const mediaItemsByTaskQuery = `
SELECT id, task_id, source_url, decision, feedback, created_at
FROM media_items
WHERE task_id = $1
ORDER BY id ASC
`

func collectMediaItems(rows pgx.Rows) ([]model.MediaItem, error) {
	items := make([]model.MediaItem, 0)
	for rows.Next() {
		item, err := scanMediaItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media item: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate media items: %w", rows.Err())
	}

	return items, nil
}

func scanMediaItem(row pgx.Row) (model.MediaItem, error) {
	var (
		item        model.MediaItem
		rawDecision string
		feedback    *string
	)

	err := row.Scan(&item.ID, &item.TaskID, &item.SourceURL, &rawDecision, &feedback, &item.CreatedAt)
	if err != nil {
		return model.MediaItem{}, err
	}

	item.Decision = enums.Decision(rawDecision)
	if feedback != nil {
		item.Feedback = *feedback
	}

	return item, nil
}
