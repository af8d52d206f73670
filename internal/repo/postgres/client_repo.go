package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Denner-Esteves/painel-approve/internal/domain/model"
)

var ErrClientNotFound = errors.New("client not found")

type ClientRepo struct {
	pool *pgxpool.Pool
}

func NewClientRepo(pool *pgxpool.Pool) *ClientRepo {
	return &ClientRepo{pool: pool}
}

const clientColumns = `
id, name, logo_url, meta_page_id, meta_ig_business_id, meta_token_expiry, created_at
`

func (r *ClientRepo) Insert(ctx context.Context, name, logoURL string) (model.Client, error) {
	if r.pool == nil {
		return model.Client{}, fmt.Errorf("postgres pool is nil")
	}

	client, err := scanClient(r.pool.QueryRow(ctx, `
INSERT INTO clients (name, logo_url, created_at)
VALUES ($1, NULLIF($2, ''), NOW())
RETURNING `+clientColumns, name, logoURL))
	if err != nil {
		return model.Client{}, fmt.Errorf("insert client: %w", err)
	}

	return client, nil
}

func (r *ClientRepo) GetByID(ctx context.Context, clientID int64) (model.Client, error) {
	if r.pool == nil {
		return model.Client{}, fmt.Errorf("postgres pool is nil")
	}
	if clientID <= 0 {
		return model.Client{}, ErrClientNotFound
	}

	client, err := scanClient(r.pool.QueryRow(ctx, `
SELECT `+clientColumns+`
FROM clients
WHERE id = $1
LIMIT 1
`, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Client{}, ErrClientNotFound
		}
		return model.Client{}, fmt.Errorf("get client: %w", err)
	}

	return client, nil
}

func (r *ClientRepo) List(ctx context.Context) ([]model.Client, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+clientColumns+`
FROM clients
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]model.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate clients: %w", rows.Err())
	}

	return clients, nil
}

func (r *ClientRepo) Update(ctx context.Context, clientID int64, name, logoURL string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE clients
SET name = $2, logo_url = COALESCE(NULLIF($3, ''), logo_url)
WHERE id = $1
`, clientID, name, logoURL)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}

	return nil
}

func (r *ClientRepo) SetMetaConnection(ctx context.Context, clientID int64, pageID, igBusinessID, accessToken string, expiry time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE clients
SET meta_page_id = $2,
	meta_ig_business_id = $3,
	meta_access_token = $4,
	meta_token_expiry = $5
WHERE id = $1
`, clientID, pageID, igBusinessID, accessToken, expiry.UTC())
	if err != nil {
		return fmt.Errorf("set meta connection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}

	return nil
}

func (r *ClientRepo) ClearMetaConnection(ctx context.Context, clientID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE clients
SET meta_page_id = NULL,
	meta_ig_business_id = NULL,
	meta_access_token = NULL,
	meta_token_expiry = NULL
WHERE id = $1
`, clientID)
	if err != nil {
		return fmt.Errorf("clear meta connection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}

	return nil
}

func scanClient(row pgx.Row) (model.Client, error) {
	var (
		client       model.Client
		logoURL      *string
		pageID       *string
		igBusinessID *string
		tokenExpiry  *time.Time
	)

	err := row.Scan(&client.ID, &client.Name, &logoURL, &pageID, &igBusinessID, &tokenExpiry, &client.CreatedAt)
	if err != nil {
		return model.Client{}, err
	}

	if logoURL != nil {
		client.LogoURL = *logoURL
	}
	if pageID != nil {
		client.MetaPageID = *pageID
	}
	if igBusinessID != nil {
		client.MetaIGBusinessID = *igBusinessID
	}
	client.MetaTokenExpiry = tokenExpiry

	return client, nil
}
