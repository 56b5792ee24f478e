package storage

import (
	"testing"

	"github.com/Jupiter-12/kanban/internal/assertx"
)

func TestParseRedisOptions(t *testing.T) {
	tests := []struct {
		name     string
		conn     string
		addr     string
		password string
		tls      bool
		wantErr  bool
	}{
		{name: "url", conn: "redis://:secret@localhost:6380/0", addr: "localhost:6380", password: "secret"},
		{name: "tlsURL", conn: "rediss://cache:6380", addr: "cache:6380", tls: true},
		{name: "azureStyle", conn: "cache.example:6380,password=secret,ssl=True,abortConnect=False", addr: "cache.example:6380", password: "secret", tls: true},
		{name: "bare", conn: "localhost:6379", addr: "localhost:6379"},
		{name: "empty", conn: " ", wantErr: true},
		{name: "garbage", conn: "password=x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseRedisOptions(tt.conn)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.conn)
				}
				return
			}
			assertx.NoError(t, err)
			assertx.Equal(t, tt.addr, opts.Addr)
			assertx.Equal(t, tt.password, opts.Password)
			assertx.Equal(t, tt.tls, opts.TLSConfig != nil)
		})
	}
}
