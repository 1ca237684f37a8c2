package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/it-tms/tms-service/internal/domain"
)

func TestIdentityCache_FallsThroughWithoutRedis(t *testing.T) {
	users := newMockUserRepo()
	seeded := &domain.User{Username: "alice", Email: "alice@x.com", PasswordHash: "h", Role: domain.RoleUser}
	if err := users.Create(context.Background(), seeded); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cache := NewIdentityCache(nil, users, 60, zap.NewNop())
	user, err := cache.ResolveUser(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	if user.ID != seeded.ID || user.Username != "alice" {
		t.Fatalf("resolved wrong user: %+v", user)
	}
}

func TestIdentityCache_UnknownSubject(t *testing.T) {
	cache := NewIdentityCache(nil, newMockUserRepo(), 60, zap.NewNop())

	_, err := cache.ResolveUser(context.Background(), 404)
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("err = %v, want pgx.ErrNoRows for unknown subject", err)
	}
}
