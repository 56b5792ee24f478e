package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
)

// TokenKey is the key the access token is kept under.
const TokenKey = "kanban_token"

// TokenStore persists the access token between runs. Load returns "" when no
// token is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// MemoryTokenStore keeps the token for the life of the process.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryTokenStore) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryTokenStore) Save(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryTokenStore) Clear(ctx context.Context) error {
	return m.Save(ctx, "")
}

// FileTokenStore keeps the token in a small JSON document on disk, readable
// only by the owner.
type FileTokenStore struct {
	Path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{Path: path}
}

func (f *FileTokenStore) read() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := sonic.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode token file %s: %w", f.Path, err)
	}
	return values, nil
}

func (f *FileTokenStore) write(values map[string]string) error {
	data, err := sonic.ConfigStd.Marshal(values)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return os.Rename(tmp, f.Path)
}

func (f *FileTokenStore) Load(context.Context) (string, error) {
	values, err := f.read()
	if err != nil {
		return "", err
	}
	return values[TokenKey], nil
}

func (f *FileTokenStore) Save(_ context.Context, token string) error {
	values, err := f.read()
	if err != nil {
		values = map[string]string{}
	}
	values[TokenKey] = token
	return f.write(values)
}

func (f *FileTokenStore) Clear(context.Context) error {
	values, err := f.read()
	if err != nil {
		return os.Remove(f.Path)
	}
	if _, ok := values[TokenKey]; !ok {
		return nil
	}
	delete(values, TokenKey)
	return f.write(values)
}
