package repository_test

import (
    "context"
    "testing"
    "time"

    "github.com/iliyamo/event-day-signup/internal/repository"
    "github.com/iliyamo/event-day-signup/internal/testutil"
)

func TestRefreshTokenLifecycle(t *testing.T) {
    sessions := repository.NewSessionRepo(testutil.OpenDB(t))
    ctx := context.Background()

    exp := time.Now().UTC().Add(time.Hour)
    if err := sessions.StoreRefresh(ctx, "desk", "hash-1", exp); err != nil {
        t.Fatalf("store: %v", err)
    }

    subject, err := sessions.ValidateRefresh(ctx, "hash-1")
    if err != nil {
        t.Fatalf("validate: %v", err)
    }
    if subject != "desk" {
        t.Fatalf("subject = %q", subject)
    }

    if _, err := sessions.ValidateRefresh(ctx, "unknown-hash"); err == nil {
        t.Fatalf("unknown hash must not validate")
    }

    if err := sessions.RevokeByHash(ctx, "hash-1"); err != nil {
        t.Fatalf("revoke: %v", err)
    }
    if _, err := sessions.ValidateRefresh(ctx, "hash-1"); err == nil {
        t.Fatalf("revoked token must not validate")
    }
}

func TestExpiredRefreshTokenRejected(t *testing.T) {
    sessions := repository.NewSessionRepo(testutil.OpenDB(t))
    ctx := context.Background()

    exp := time.Now().UTC().Add(-time.Minute)
    if err := sessions.StoreRefresh(ctx, "desk", "hash-old", exp); err != nil {
        t.Fatalf("store: %v", err)
    }
    if _, err := sessions.ValidateRefresh(ctx, "hash-old"); err == nil {
        t.Fatalf("expired token must not validate")
    }
}
