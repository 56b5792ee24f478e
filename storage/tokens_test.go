package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Jupiter-12/kanban/internal/assertx"
)

func TestRedisTokenStore(t *testing.T) {
	mr, rc := newRedis(t)
	ctx := context.Background()
	store := NewRedisTokenStore(rc, "cli:", time.Hour)

	token, err := store.Load(ctx)
	assertx.NoError(t, err)
	assertx.Equal(t, "", token)

	assertx.NoError(t, store.Save(ctx, "tok"))
	got, err := mr.Get("cli:kanban_token")
	assertx.NoError(t, err)
	assertx.Equal(t, "tok", got)
	if ttl := mr.TTL("cli:kanban_token"); ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected TTL: %v", ttl)
	}

	token, err = store.Load(ctx)
	assertx.NoError(t, err)
	assertx.Equal(t, "tok", token)

	assertx.NoError(t, store.Clear(ctx))
	if mr.Exists("cli:kanban_token") {
		t.Fatalf("expected token removed")
	}
}

func TestRedisTokenStoreUnavailable(t *testing.T) {
	mr, rc := newRedis(t)
	mr.Close()
	if _, err := NewRedisTokenStore(rc, "", 0).Load(context.Background()); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
