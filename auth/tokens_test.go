package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Jupiter-12/kanban/internal/assertx"
)

func TestFileTokenStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	store := NewFileTokenStore(path)

	token, err := store.Load(ctx)
	assertx.NoError(t, err)
	assertx.Equal(t, "", token)

	assertx.NoError(t, store.Save(ctx, "tok"))
	token, err = NewFileTokenStore(path).Load(ctx)
	assertx.NoError(t, err)
	assertx.Equal(t, "tok", token)

	info, err := os.Stat(path)
	assertx.NoError(t, err)
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	assertx.NoError(t, store.Clear(ctx))
	token, err = store.Load(ctx)
	assertx.NoError(t, err)
	assertx.Equal(t, "", token)
}

func TestFileTokenStoreKeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte(`{"theme":"dark"}`), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	store := NewFileTokenStore(path)
	assertx.NoError(t, store.Save(ctx, "tok"))
	assertx.NoError(t, store.Clear(ctx))

	data, err := os.ReadFile(path)
	assertx.NoError(t, err)
	assertx.Equal(t, `{"theme":"dark"}`, string(data))
}

func TestFileTokenStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte(`not json`), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if _, err := NewFileTokenStore(path).Load(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	var store MemoryTokenStore
	assertx.NoError(t, store.Save(ctx, "tok"))
	token, _ := store.Load(ctx)
	assertx.Equal(t, "tok", token)
	assertx.NoError(t, store.Clear(ctx))
	token, _ = store.Load(ctx)
	assertx.Equal(t, "", token)
}
