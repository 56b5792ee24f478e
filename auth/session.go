// Package auth holds the signed-in session: the access token, its persistence
// and the current user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Jupiter-12/kanban/client"
	"github.com/Jupiter-12/kanban/domain"
)

// ErrNotAuthenticated is returned by Login when the service accepted the
// credentials but rejected the token it issued.
var ErrNotAuthenticated = errors.New("not authenticated")

// API is the auth part of the REST service.
type API interface {
	Register(ctx context.Context, req domain.UserRegister) (domain.User, error)
	Login(ctx context.Context, req domain.UserLogin) (domain.TokenResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (domain.User, error)
}

// Session is safe for concurrent use; Token is read by the HTTP client on
// every request.
type Session struct {
	api    API
	tokens TokenStore
	logger *log.Logger
	now    func() time.Time

	mu      sync.RWMutex
	token   string
	user    *domain.User
	loading bool
}

// NewSession restores the stored token, if any.
func NewSession(ctx context.Context, api API, tokens TokenStore, logger *log.Logger) (*Session, error) {
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	token, err := tokens.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	return &Session{api: api, tokens: tokens, logger: logger, now: time.Now, token: token}, nil
}

// Token implements client.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// User returns the current user, or nil before it is fetched.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Claims decodes the current token.
func (s *Session) Claims() (Claims, error) {
	return ParseClaims(s.Token())
}

// SetToken stores token, or clears it when empty.
func (s *Session) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	if token == "" {
		return s.tokens.Clear(ctx)
	}
	return s.tokens.Save(ctx, token)
}

func (s *Session) clear(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	if err := s.SetToken(ctx, ""); err != nil {
		s.logger.WithError(err).Warn("clear stored token")
	}
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Session) Register(ctx context.Context, req domain.UserRegister) (domain.User, error) {
	s.setLoading(true)
	defer s.setLoading(false)
	return s.api.Register(ctx, req)
}

// Login stores the issued token and fetches the user. Any failure leaves the
// session signed out.
func (s *Session) Login(ctx context.Context, req domain.UserLogin) (err error) {
	s.setLoading(true)
	defer s.setLoading(false)
	defer func() {
		if err != nil {
			s.clear(ctx)
		}
	}()

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return err
	}
	if err := s.SetToken(ctx, resp.AccessToken); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if err := s.FetchCurrentUser(ctx); err != nil {
		return err
	}
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	s.logger.WithFields(log.Fields{"username": req.Username}).Info("signed in")
	return nil
}

// Logout revokes the token on the service and always signs out locally. The
// service error, if any, is returned.
func (s *Session) Logout(ctx context.Context) error {
	var err error
	if s.IsAuthenticated() {
		err = s.api.Logout(ctx)
	}
	s.clear(ctx)
	return err
}

// FetchCurrentUser loads the user behind the token. A 401 signs the session
// out and is not an error; other failures are returned.
func (s *Session) FetchCurrentUser(ctx context.Context) error {
	if !s.IsAuthenticated() {
		s.mu.Lock()
		s.user = nil
		s.mu.Unlock()
		return nil
	}
	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		if client.IsUnauthorized(err) {
			s.logger.Debug("token rejected, signing out")
			s.clear(ctx)
			return nil
		}
		return err
	}
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Init validates a restored token. An expired token is dropped without a
// request. Transient failures keep the token and are returned for the caller
// to report.
func (s *Session) Init(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		return nil
	}
	if claims, err := ParseClaims(token); err == nil && claims.Expired(s.now()) {
		s.logger.WithFields(log.Fields{"expired_at": claims.ExpiresAt}).Info("stored token expired")
		s.clear(ctx)
		return nil
	}
	if err := s.FetchCurrentUser(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	return nil
}
