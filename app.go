package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Jupiter-12/kanban/auth"
	"github.com/Jupiter-12/kanban/board"
	"github.com/Jupiter-12/kanban/client"
	"github.com/Jupiter-12/kanban/config"
	"github.com/Jupiter-12/kanban/projects"
	"github.com/Jupiter-12/kanban/storage"
)

const redisKeyPrefix = "kanban:"

var errNotLoggedIn = errors.New("not logged in; run kanban login")

type backend interface {
	board.API
	projects.API
}

// app is everything a command needs, built once per invocation.
type app struct {
	cfg      config.Config
	logger   *log.Logger
	client   *client.Client
	session  *auth.Session
	backend  backend
	projects *projects.Store
	board    *board.Store

	closers []io.Closer
}

func newLogger(cfg config.Config, stderr io.Writer) (*log.Logger, io.Closer) {
	logger := log.New()
	logger.SetOutput(stderr)
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	if cfg.LogFormat == config.LogFormatJSON {
		logger.SetFormatter(&log.JSONFormatter{})
	}
	if cfg.LogFile == "" {
		return logger, nil
	}
	rotating := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	logger.SetOutput(rotating)
	return logger, rotating
}

func newApp(ctx context.Context, cfg config.Config, stderr io.Writer) (*app, error) {
	logger, logCloser := newLogger(cfg, stderr)
	a := &app{cfg: cfg, logger: logger}
	if logCloser != nil {
		a.closers = append(a.closers, logCloser)
	}

	a.client = client.New(cfg.APIBase, client.WithTimeout(cfg.APITimeout), client.WithLogger(logger))

	var rc *redis.Client
	if cfg.RedisConnectionString != "" {
		var err error
		rc, err = storage.NewRedisClient(cfg.RedisConnectionString)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.closers = append(a.closers, rc)
	}

	var tokens auth.TokenStore
	switch cfg.TokenStore {
	case config.TokenStoreRedis:
		tokens = storage.NewRedisTokenStore(rc, redisKeyPrefix, 0)
	case config.TokenStoreMemory:
		tokens = &auth.MemoryTokenStore{}
	default:
		tokens = auth.NewFileTokenStore(cfg.TokenFile)
	}
	session, err := auth.NewSession(ctx, a.client, tokens, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.session = session
	a.client.SetTokenSource(session)

	a.backend = a.client
	if rc != nil {
		a.backend = storage.NewCache(a.client, rc, cfg.CacheTTL, a.cacheScope)
	}
	a.projects = projects.NewStore(a.backend)
	a.board = board.NewStore(a.backend, logger)
	return a, nil
}

// cacheScope keys cached reads by the signed-in user.
func (a *app) cacheScope() string {
	claims, err := a.session.Claims()
	if err != nil {
		return ""
	}
	return claims.Subject
}

// requireSession restores the stored token and fails when nobody is signed
// in.
func (a *app) requireSession(ctx context.Context) error {
	if err := a.session.Init(ctx); err != nil {
		return err
	}
	if !a.session.IsAuthenticated() {
		return errNotLoggedIn
	}
	return nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}
