// Package config loads settings from defaults, an optional YAML file and the
// environment, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Jupiter-12/kanban/client"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"

	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
	TokenStoreMemory = "memory"
)

type Config struct {
	APIBase         string        `yaml:"api_base"`
	APITimeout      time.Duration `yaml:"api_timeout"`
	PollingInterval time.Duration `yaml:"polling_interval"`
	// RedisConnectionString enables the read cache and the shared token
	// store when set.
	RedisConnectionString string        `yaml:"redis_connection_string"`
	CacheTTL              time.Duration `yaml:"cache_ttl"`
	TokenStore            string        `yaml:"token_store"`
	TokenFile             string        `yaml:"token_file"`
	GatewayPort           int           `yaml:"gateway_port"`
	AllowOrigins          []string      `yaml:"allow_origins"`
	Debug                 bool          `yaml:"debug"`
	LogFormat             string        `yaml:"log_format"`
	LogFile               string        `yaml:"log_file"`
}

func Default() Config {
	return Config{
		APIBase:         client.DefaultBaseURL,
		APITimeout:      client.DefaultTimeout,
		PollingInterval: 5 * time.Second,
		CacheTTL:        30 * time.Second,
		TokenStore:      TokenStoreFile,
		TokenFile:       defaultTokenFile(),
		GatewayPort:     8080,
		AllowOrigins:    []string{"*"},
		LogFormat:       LogFormatText,
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".kanban_token.json"
	}
	return filepath.Join(dir, "kanban", "token.json")
}

// Load applies the YAML file at path (skipped when path is empty) and then the
// environment on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("KANBAN_API_BASE"); ok {
		c.APIBase = v
	}
	if v, ok := os.LookupEnv("KANBAN_API_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid KANBAN_API_TIMEOUT: %w", err)
		}
		c.APITimeout = d
	}
	if v, ok := os.LookupEnv("POLLING_INTERVAL"); ok {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid POLLING_INTERVAL: %w", err)
		}
		c.PollingInterval = time.Duration(ms) * time.Millisecond
	}
	if v, ok := os.LookupEnv("REDIS_CONNECTION_STRING"); ok {
		c.RedisConnectionString = v
	}
	if v, ok := os.LookupEnv("CACHE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL: %w", err)
		}
		c.CacheTTL = d
	}
	if v, ok := os.LookupEnv("TOKEN_STORE"); ok {
		c.TokenStore = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("TOKEN_FILE"); ok {
		c.TokenFile = v
	}
	if v, ok := os.LookupEnv("GATEWAY_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GATEWAY_PORT: %w", err)
		}
		c.GatewayPort = port
	}
	if v, ok := os.LookupEnv("ALLOW_ORIGINS"); ok {
		c.AllowOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("DEBUG"); ok {
		dbg, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEBUG: %w", err)
		}
		c.Debug = dbg
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok {
		c.LogFormat = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("LOG_FILE"); ok {
		c.LogFile = v
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) Validate() error {
	u, err := url.Parse(c.APIBase)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base %q", c.APIBase)
	}
	if c.APITimeout <= 0 {
		return errors.New("api timeout must be greater than zero")
	}
	if c.PollingInterval <= 0 {
		return errors.New("polling interval must be greater than zero")
	}
	if c.CacheTTL < 0 {
		return errors.New("cache ttl must not be negative")
	}
	if c.GatewayPort <= 0 || c.GatewayPort > 65535 {
		return fmt.Errorf("invalid gateway port %d", c.GatewayPort)
	}
	switch c.TokenStore {
	case TokenStoreFile, TokenStoreMemory:
	case TokenStoreRedis:
		if c.RedisConnectionString == "" {
			return errors.New("redis token store needs REDIS_CONNECTION_STRING")
		}
	default:
		return fmt.Errorf("invalid token store %q", c.TokenStore)
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	return nil
}

// GatewayAddr is the listen address of the gateway.
func (c Config) GatewayAddr() string {
	return ":" + strconv.Itoa(c.GatewayPort)
}
