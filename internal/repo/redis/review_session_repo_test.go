package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestRepo(t *testing.T) (*miniredis.Miniredis, *ReviewSessionRepo) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewReviewSessionRepo(client)
}

func TestSessionIsScopedPerTask(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Establish(ctx, "tok-1", 10, "Ana", time.Hour, time.Hour); err != nil {
		t.Fatalf("establish session: %v", err)
	}

	ok, err := repo.IsAuthenticated(ctx, "tok-1", 10)
	if err != nil || !ok {
		t.Fatalf("expected authenticated for task 10: ok=%v err=%v", ok, err)
	}

	ok, err = repo.IsAuthenticated(ctx, "tok-1", 11)
	if err != nil {
		t.Fatalf("is authenticated task 11: %v", err)
	}
	if ok {
		t.Fatalf("session for task 10 must not authorize task 11")
	}

	name, err := repo.ApproverName(ctx, "tok-1", 10)
	if err != nil || name != "Ana" {
		t.Fatalf("unexpected approver name: %q err=%v", name, err)
	}

	name, err = repo.ApproverName(ctx, "tok-1", 11)
	if err != nil || name != "" {
		t.Fatalf("approver name must be task-scoped: %q err=%v", name, err)
	}
}

func TestAuthAndApproverHaveIndependentLifetimes(t *testing.T) {
	mr, repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Establish(ctx, "tok-2", 7, "Bruno", time.Minute, time.Hour); err != nil {
		t.Fatalf("establish session: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	ok, err := repo.IsAuthenticated(ctx, "tok-2", 7)
	if err != nil {
		t.Fatalf("is authenticated: %v", err)
	}
	if ok {
		t.Fatalf("auth flag should have expired")
	}

	name, err := repo.ApproverName(ctx, "tok-2", 7)
	if err != nil || name != "Bruno" {
		t.Fatalf("approver name should outlive auth flag: %q err=%v", name, err)
	}
}

func TestIsAuthenticatedWithoutSessionReturnsFalse(t *testing.T) {
	_, repo := newTestRepo(t)

	ok, err := repo.IsAuthenticated(context.Background(), "missing", 99)
	if err != nil {
		t.Fatalf("is authenticated: %v", err)
	}
	if ok {
		t.Fatalf("expected false for a token that never verified")
	}
}

func TestRevokeRemovesBothFacts(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Establish(ctx, "tok-3", 5, "Carla", time.Hour, time.Hour); err != nil {
		t.Fatalf("establish session: %v", err)
	}
	if err := repo.Revoke(ctx, "tok-3", 5); err != nil {
		t.Fatalf("revoke session: %v", err)
	}

	ok, _ := repo.IsAuthenticated(ctx, "tok-3", 5)
	name, _ := repo.ApproverName(ctx, "tok-3", 5)
	if ok || name != "" {
		t.Fatalf("expected revoked session: ok=%v name=%q", ok, name)
	}
}
