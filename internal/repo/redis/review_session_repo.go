package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Session state is two independent facts per (token, task): the authenticated
// flag and the remembered approver name. Each fact lives under its own key so
// it can carry its own TTL, and the task id is part of the key so a session
// for one task never authorizes another.
const (
	reviewAuthPrefix     = "review_auth:"
	reviewApproverPrefix = "review_approver:"
)

type ReviewSessionRepo struct {
	client *goredis.Client
}

func NewReviewSessionRepo(client *goredis.Client) *ReviewSessionRepo {
	return &ReviewSessionRepo{client: client}
}

func (r *ReviewSessionRepo) Establish(ctx context.Context, token string, taskID int64, approverName string, authTTL, approverTTL time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(token) == "" || taskID <= 0 {
		return fmt.Errorf("invalid session payload")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, authKey(token, taskID), "1", authTTL)
	if strings.TrimSpace(approverName) != "" {
		pipe.Set(ctx, approverKey(token, taskID), approverName, approverTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("establish review session: %w", err)
	}

	return nil
}

func (r *ReviewSessionRepo) IsAuthenticated(ctx context.Context, token string, taskID int64) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(token) == "" || taskID <= 0 {
		return false, nil
	}

	value, err := r.client.Get(ctx, authKey(token, taskID)).Result()
	if err != nil {
		if err == goredis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("get review auth flag: %w", err)
	}

	return value == "1", nil
}

func (r *ReviewSessionRepo) ApproverName(ctx context.Context, token string, taskID int64) (string, error) {
	if r.client == nil {
		return "", fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(token) == "" || taskID <= 0 {
		return "", nil
	}

	name, err := r.client.Get(ctx, approverKey(token, taskID)).Result()
	if err != nil {
		if err == goredis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("get review approver name: %w", err)
	}

	return name, nil
}

func (r *ReviewSessionRepo) Revoke(ctx context.Context, token string, taskID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(token) == "" || taskID <= 0 {
		return nil
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, authKey(token, taskID))
	pipe.Del(ctx, approverKey(token, taskID))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("revoke review session: %w", err)
	}

	return nil
}

func authKey(token string, taskID int64) string {
	return reviewAuthPrefix + strconv.FormatInt(taskID, 10) + ":" + token
}

func approverKey(token string, taskID int64) string {
	return reviewApproverPrefix + strconv.FormatInt(taskID, 10) + ":" + token
}
