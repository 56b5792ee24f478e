// Package storage holds the Redis-backed pieces: the read cache in front of
// the REST service and a shared token store.
package storage

import (
	"crypto/tls"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// ParseRedisOptions accepts a redis:// URL or the "host:port,password=...,ssl=true"
// form used by hosted Redis connection strings.
func ParseRedisOptions(conn string) (*redis.Options, error) {
	conn = strings.TrimSpace(conn)
	if conn == "" {
		return nil, errors.New("empty redis connection string")
	}
	if opts, err := redis.ParseURL(conn); err == nil {
		return opts, nil
	}
	parts := strings.Split(conn, ",")
	if strings.Contains(parts[0], "=") || strings.Contains(parts[0], "://") {
		return nil, errors.New("invalid redis connection string")
	}
	opts := &redis.Options{Addr: parts[0]}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(kv[0])) {
		case "password":
			opts.Password = kv[1]
		case "user", "username":
			opts.Username = kv[1]
		case "ssl":
			if strings.ToLower(kv[1]) == "true" {
				opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			}
		}
	}
	return opts, nil
}

// NewRedisClient parses conn and opens a client.
func NewRedisClient(conn string) (*redis.Client, error) {
	opts, err := ParseRedisOptions(conn)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}
