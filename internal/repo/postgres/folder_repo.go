package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Denner-Esteves/painel-approve/internal/domain/model"
)

var ErrFolderExists = errors.New("folder already exists")

type FolderRepo struct {
	pool *pgxpool.Pool
}

func NewFolderRepo(pool *pgxpool.Pool) *FolderRepo {
	return &FolderRepo{pool: pool}
}

// Insert creates the (client, year, month) bucket. The unique index treats a
// NULL month as its own bucket; a duplicate reports ErrFolderExists so the
// caller can decide to ignore it.
func (r *FolderRepo) Insert(ctx context.Context, clientID int64, year int, month *int) (model.Folder, error) {
	if r.pool == nil {
		return model.Folder{}, fmt.Errorf("postgres pool is nil")
	}
	if clientID <= 0 || year <= 0 {
		return model.Folder{}, fmt.Errorf("invalid folder payload")
	}

	var folder model.Folder
	err := r.pool.QueryRow(ctx, `
INSERT INTO folders (client_id, year, month, created_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT DO NOTHING
RETURNING id, client_id, year, month, created_at
`, clientID, year, month).Scan(&folder.ID, &folder.ClientID, &folder.Year, &folder.Month, &folder.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Folder{}, ErrFolderExists
		}
		return model.Folder{}, fmt.Errorf("insert folder: %w", err)
	}

	return folder, nil
}

func (r *FolderRepo) ListYears(ctx context.Context, clientID int64) ([]int, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT DISTINCT year
FROM folders
WHERE client_id = $1
ORDER BY year DESC
`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list folder years: %w", err)
	}
	defer rows.Close()

	return collectInts(rows, "folder year")
}

func (r *FolderRepo) ListMonths(ctx context.Context, clientID int64, year int) ([]int, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT DISTINCT month
FROM folders
WHERE client_id = $1 AND year = $2 AND month IS NOT NULL
ORDER BY month DESC
`, clientID, year)
	if err != nil {
		return nil, fmt.Errorf("list folder months: %w", err)
	}
	defer rows.Close()

	return collectInts(rows, "folder month")
}

func collectInts(rows pgx.Rows, label string) ([]int, error) {
	values := make([]int, 0)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", label, err)
		}
		values = append(values, v)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate %ss: %w", label, rows.Err())
	}

	return values, nil
}
