package storage

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/Jupiter-12/kanban/domain"
)

type backend interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id int64) (*domain.ProjectDetail, error)
	CreateProject(ctx context.Context, req domain.ProjectCreate) (domain.Project, error)
	UpdateProject(ctx context.Context, id int64, req domain.ProjectUpdate) (domain.Project, error)
	DeleteProject(ctx context.Context, id int64) error
	CreateColumn(ctx context.Context, projectID int64, req domain.ColumnCreate) (domain.Column, error)
	UpdateColumn(ctx context.Context, id int64, req domain.ColumnUpdate) (domain.Column, error)
	DeleteColumn(ctx context.Context, id int64) error
	ReorderColumns(ctx context.Context, req domain.ReorderColumnsRequest) ([]domain.Column, error)
	CreateTask(ctx context.Context, columnID int64, req domain.TaskCreate) (domain.Task, error)
	UpdateTask(ctx context.Context, id int64, req domain.TaskUpdate) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	MoveTask(ctx context.Context, id int64, req domain.MoveTaskRequest) (domain.Task, error)
}

// ScopeFunc names the user whose entries are read and evicted. An empty scope
// bypasses the cache.
type ScopeFunc func() string

// Cache wraps the REST client with a Redis-backed copy of the user's project
// list. Every mutation evicts it, whether or not the service accepted it.
type Cache struct {
	base  backend
	redis *redis.Client
	ttl   time.Duration
	scope ScopeFunc
}

// NewCache creates a caching wrapper using the provided Redis client and TTL.
// A zero TTL stores nothing.
func NewCache(base backend, client *redis.Client, ttl time.Duration, scope ScopeFunc) *Cache {
	if base == nil {
		panic("storage.NewCache: base is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl, scope: scope}
}

func (c *Cache) userScope() string {
	if c.redis == nil || c.scope == nil {
		return ""
	}
	return c.scope()
}

func (c *Cache) ListProjects(ctx context.Context) ([]domain.Project, error) {
	scope := c.userScope()
	if scope == "" {
		return c.base.ListProjects(ctx)
	}
	var projects []domain.Project
	if c.load(ctx, projectsCacheKey(scope), &projects) {
		return projects, nil
	}
	projects, err := c.base.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, projectsCacheKey(scope), projects)
	return projects, nil
}

// GetProject always reads the service. Boards are shared between users and
// polled for their changes, which a cached tree would hide.
func (c *Cache) GetProject(ctx context.Context, id int64) (*domain.ProjectDetail, error) {
	return c.base.GetProject(ctx, id)
}

func (c *Cache) CreateProject(ctx context.Context, req domain.ProjectCreate) (domain.Project, error) {
	defer c.evict(ctx)
	return c.base.CreateProject(ctx, req)
}

func (c *Cache) UpdateProject(ctx context.Context, id int64, req domain.ProjectUpdate) (domain.Project, error) {
	defer c.evict(ctx)
	return c.base.UpdateProject(ctx, id, req)
}

func (c *Cache) DeleteProject(ctx context.Context, id int64) error {
	defer c.evict(ctx)
	return c.base.DeleteProject(ctx, id)
}

func (c *Cache) CreateColumn(ctx context.Context, projectID int64, req domain.ColumnCreate) (domain.Column, error) {
	defer c.evict(ctx)
	return c.base.CreateColumn(ctx, projectID, req)
}

func (c *Cache) UpdateColumn(ctx context.Context, id int64, req domain.ColumnUpdate) (domain.Column, error) {
	defer c.evict(ctx)
	return c.base.UpdateColumn(ctx, id, req)
}

func (c *Cache) DeleteColumn(ctx context.Context, id int64) error {
	defer c.evict(ctx)
	return c.base.DeleteColumn(ctx, id)
}

func (c *Cache) ReorderColumns(ctx context.Context, req domain.ReorderColumnsRequest) ([]domain.Column, error) {
	defer c.evict(ctx)
	return c.base.ReorderColumns(ctx, req)
}

func (c *Cache) CreateTask(ctx context.Context, columnID int64, req domain.TaskCreate) (domain.Task, error) {
	defer c.evict(ctx)
	return c.base.CreateTask(ctx, columnID, req)
}

func (c *Cache) UpdateTask(ctx context.Context, id int64, req domain.TaskUpdate) (domain.Task, error) {
	defer c.evict(ctx)
	return c.base.UpdateTask(ctx, id, req)
}

func (c *Cache) DeleteTask(ctx context.Context, id int64) error {
	defer c.evict(ctx)
	return c.base.DeleteTask(ctx, id)
}

func (c *Cache) MoveTask(ctx context.Context, id int64, req domain.MoveTaskRequest) (domain.Task, error) {
	defer c.evict(ctx)
	return c.base.MoveTask(ctx, id, req)
}

func (c *Cache) load(ctx context.Context, key string, out any) bool {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the service without failing.
			_ = c.redis.Del(ctx, key).Err()
		}
		return false
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *Cache) store(ctx context.Context, key string, value any) {
	if c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(value)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}

// evict drops the current user's cached list.
func (c *Cache) evict(ctx context.Context) {
	scope := c.userScope()
	if scope == "" {
		return
	}
	_ = c.redis.Del(ctx, projectsCacheKey(scope)).Err()
}

func projectsCacheKey(scope string) string {
	return "kanban:projects:" + scope
}
