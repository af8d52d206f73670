package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Denner-Esteves/painel-approve/internal/domain/model"
	pgrepo "github.com/Denner-Esteves/painel-approve/internal/repo/postgres"
	redrepo "github.com/Denner-Esteves/painel-approve/internal/repo/redis"
)

type fakeTaskStore struct {
	tasks map[int64]model.Task
}

func (f *fakeTaskStore) GetByID(_ context.Context, taskID int64) (model.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok {
		return model.Task{}, pgrepo.ErrTaskNotFound
	}
	return task, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tasks := &fakeTaskStore{tasks: map[int64]model.Task{
		1: {ID: 1, Title: "Post carrossel", AccessPassword: "segredo"},
	}}

	return NewService(tasks, redrepo.NewReviewSessionRepo(client), Config{
		AuthTTL:     time.Hour,
		ApproverTTL: time.Hour,
	})
}

func TestVerifyAccessWrongPasswordLeavesSessionUntouched(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	err := svc.VerifyAccess(ctx, "tok", 1, "wrong", "Ana")
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if svc.IsAuthenticated(ctx, "tok", 1) {
		t.Fatalf("failed verification must not establish a session")
	}
}

func TestVerifyAccessRejectsShortName(t *testing.T) {
	svc := newTestService(t)

	for _, name := range []string{"", " ", "a", "  b  "} {
		if err := svc.VerifyAccess(context.Background(), "tok", 1, "segredo", name); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected ErrInvalidName for %q, got %v", name, err)
		}
	}
}

func TestVerifyAccessUnknownTask(t *testing.T) {
	svc := newTestService(t)

	err := svc.VerifyAccess(context.Background(), "tok", 42, "segredo", "Ana")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestVerifyAccessIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.VerifyAccess(ctx, "tok", 1, "segredo", "Ana"); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	if err := svc.VerifyAccess(ctx, "tok", 1, "segredo", "Ana"); err != nil {
		t.Fatalf("second verify should refresh, not fail: %v", err)
	}

	if !svc.IsAuthenticated(ctx, "tok", 1) {
		t.Fatalf("expected authenticated session after verify")
	}
	if svc.IsAuthenticated(ctx, "tok", 2) {
		t.Fatalf("session must not leak to another task")
	}
}

func TestResolveApproverNameFallbacks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if got := svc.ResolveApproverName(ctx, "tok", 1, nil); got != FallbackReviewerName {
		t.Fatalf("anonymous fallback: got %q want %q", got, FallbackReviewerName)
	}
	if got := svc.ResolveApproverName(ctx, "tok", 1, &Operator{ID: "op-1"}); got != FallbackOperatorName {
		t.Fatalf("operator fallback: got %q want %q", got, FallbackOperatorName)
	}
	if got := svc.ResolveApproverName(ctx, "tok", 1, &Operator{ID: "op-1", Name: "Denner"}); got != "Denner" {
		t.Fatalf("operator name: got %q", got)
	}

	if err := svc.VerifyAccess(ctx, "tok", 1, "segredo", "Ana"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got := svc.ResolveApproverName(ctx, "tok", 1, &Operator{ID: "op-1", Name: "Denner"}); got != "Ana" {
		t.Fatalf("session name must win: got %q", got)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.VerifyAccess(ctx, "tok", 1, "segredo", "Ana"); err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if !svc.IsAuthenticated(ctx, "tok", 1) {
		t.Fatalf("expected session after verification")
	}

	if err := svc.Logout(ctx, "tok", 1); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if svc.IsAuthenticated(ctx, "tok", 1) {
		t.Fatalf("session must be gone after logout")
	}
	if name := svc.ResolveApproverName(ctx, "tok", 1, nil); name != FallbackReviewerName {
		t.Fatalf("approver name must be forgotten, got %q", name)
	}

	// a second logout has nothing to revoke and still succeeds
	if err := svc.Logout(ctx, "tok", 1); err != nil {
		t.Fatalf("repeated logout: %v", err)
	}
}
