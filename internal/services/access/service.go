package access

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Denner-Esteves/painel-approve/internal/domain/model"
	"github.com/Denner-Esteves/painel-approve/internal/pkg/validate"
	pgrepo "github.com/Denner-Esteves/painel-approve/internal/repo/postgres"
)

const (
	// Fallback identities for status changes with no remembered name: one for
	// an operator acting through the dashboard, one for an anonymous reviewer.
	FallbackOperatorName = "Operator"
	FallbackReviewerName = "Unknown"

	minReviewerNameRunes = 2
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidName   = errors.New("reviewer name is too short")
	ErrWrongPassword = errors.New("wrong access password")
)

type TaskStore interface {
	GetByID(ctx context.Context, taskID int64) (model.Task, error)
}

type SessionStore interface {
	Establish(ctx context.Context, token string, taskID int64, approverName string, authTTL, approverTTL time.Duration) error
	IsAuthenticated(ctx context.Context, token string, taskID int64) (bool, error)
	ApproverName(ctx context.Context, token string, taskID int64) (string, error)
	Revoke(ctx context.Context, token string, taskID int64) error
}

type Config struct {
	AuthTTL     time.Duration
	ApproverTTL time.Duration
}

type Service struct {
	tasks    TaskStore
	sessions SessionStore
	cfg      Config
}

func NewService(tasks TaskStore, sessions SessionStore, cfg Config) *Service {
	if cfg.AuthTTL <= 0 {
		cfg.AuthTTL = 12 * time.Hour
	}
	if cfg.ApproverTTL <= 0 {
		cfg.ApproverTTL = 30 * 24 * time.Hour
	}

	return &Service{
		tasks:    tasks,
		sessions: sessions,
		cfg:      cfg,
	}
}

// VerifyAccess checks the shared task password and, on success, establishes
// the two task-scoped session facts. Re-verifying with the same password is
// not an error: it simply refreshes the session.
func (s *Service) VerifyAccess(ctx context.Context, token string, taskID int64, password, reviewerName string) error {
	if s.tasks == nil || s.sessions == nil {
		return fmt.Errorf("access service dependencies are not configured")
	}
	if !validate.MinRunes(reviewerName, minReviewerNameRunes) {
		return ErrInvalidName
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("load task for access check: %w", err)
	}

	// Exact, case-sensitive compare: this is a shared-link secret, not a
	// hashed credential.
	if task.AccessPassword != password {
		return ErrWrongPassword
	}

	if err := s.sessions.Establish(ctx, token, taskID, strings.TrimSpace(reviewerName), s.cfg.AuthTTL, s.cfg.ApproverTTL); err != nil {
		return fmt.Errorf("establish session: %w", err)
	}

	return nil
}

// IsAuthenticated is a pure lookup; a missing or expired session is false,
// never an error surfaced to the reviewer.
func (s *Service) IsAuthenticated(ctx context.Context, token string, taskID int64) bool {
	if s.sessions == nil {
		return false
	}

	ok, err := s.sessions.IsAuthenticated(ctx, token, taskID)
	if err != nil {
		return false
	}
	return ok
}

// Logout drops the task-scoped session. Revoking a session that never
// existed is not an error.
func (s *Service) Logout(ctx context.Context, token string, taskID int64) error {
	if s.sessions == nil {
		return fmt.Errorf("access service dependencies are not configured")
	}

	if err := s.sessions.Revoke(ctx, token, taskID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// ResolveApproverName returns the identity to stamp on a terminal status:
// the remembered reviewer name for this task, else the operator's display
// name, else one of the two fallbacks.
func (s *Service) ResolveApproverName(ctx context.Context, token string, taskID int64, operator *Operator) string {
	if s.sessions != nil && token != "" {
		if name, err := s.sessions.ApproverName(ctx, token, taskID); err == nil && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}

	if operator != nil {
		if strings.TrimSpace(operator.Name) != "" {
			return strings.TrimSpace(operator.Name)
		}
		return FallbackOperatorName
	}

	return FallbackReviewerName
}
