package fakeapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Jupiter-12/kanban/domain"
)

const userKey = "fakeapi.user"

var (
	errMissingAuthorization = errors.New("missing authorization header")
	errBadAuthorization     = errors.New("bad auth header")
)

// AddUser creates an account and returns it.
func (s *Server) AddUser(username, password string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(username, username+"@example.com", password, nil)
}

func (s *Server) addUserLocked(username, email, password string, displayName *string) domain.User {
	now := s.tick()
	u := &userRecord{
		User: domain.User{
			ID:          s.id(),
			Username:    username,
			Email:       email,
			DisplayName: displayName,
			Role:        "user",
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		password: password,
	}
	s.users[u.ID] = u
	return u.User
}

// IssueToken signs an access token for userID valid for ttl.
func (s *Server) IssueToken(userID int64, ttl time.Duration) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"exp": time.Now().Add(ttl).Unix(),
		"jti": uuid.NewString(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		panic("fakeapi: sign token: " + err.Error())
	}
	return signed
}

func (s *Server) authenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := s.claimsFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return detailError(http.StatusUnauthorized, "Could not validate credentials")
		}
		id, err := strconv.ParseInt(claims["sub"].(string), 10, 64)
		if err != nil {
			return detailError(http.StatusUnauthorized, "Could not validate credentials")
		}
		jti, _ := claims["jti"].(string)
		s.mu.Lock()
		u, ok := s.users[id]
		revoked := s.revoked[jti]
		s.mu.Unlock()
		if !ok || revoked {
			return detailError(http.StatusUnauthorized, "Could not validate credentials")
		}
		c.Set(userKey, u.User)
		c.Set("fakeapi.jti", jti)
		return next(c)
	}
}

func (s *Server) claimsFromHeader(h string) (jwt.MapClaims, error) {
	if h == "" {
		return nil, errMissingAuthorization
	}
	raw, ok := strings.CutPrefix(strings.TrimSpace(h), "Bearer ")
	if !ok || strings.Count(raw, ".") != 2 {
		return nil, errBadAuthorization
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	if sub, ok := claims["sub"].(string); !ok || sub == "" {
		return nil, errors.New("missing sub")
	}
	return claims, nil
}

func currentUser(c echo.Context) domain.User {
	u, _ := c.Get(userKey).(domain.User)
	return u
}

func (s *Server) registerUser(c echo.Context) error {
	var req domain.UserRegister
	if err := c.Bind(&req); err != nil {
		return detailError(http.StatusUnprocessableEntity, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return validationError("username", "field required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == req.Username {
			return detailError(http.StatusBadRequest, "Username already registered")
		}
	}
	user := s.addUserLocked(req.Username, req.Email, req.Password, req.DisplayName)
	return c.JSON(http.StatusCreated, user)
}

func (s *Server) login(c echo.Context) error {
	var req domain.UserLogin
	if err := c.Bind(&req); err != nil {
		return detailError(http.StatusUnprocessableEntity, "invalid body")
	}
	s.mu.Lock()
	var found *userRecord
	for _, u := range s.users {
		if u.Username == req.Username && u.password == req.Password {
			found = u
			break
		}
	}
	s.mu.Unlock()
	if found == nil {
		return detailError(http.StatusUnauthorized, "Incorrect username or password")
	}
	return c.JSON(http.StatusOK, domain.TokenResponse{
		AccessToken: s.IssueToken(found.ID, time.Hour),
		TokenType:   "bearer",
	})
}

func (s *Server) logout(c echo.Context) error {
	jti, _ := c.Get("fakeapi.jti").(string)
	s.mu.Lock()
	if jti != "" {
		s.revoked[jti] = true
	}
	s.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

func (s *Server) me(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}

func (s *Server) listUsers(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UserListItem, 0, len(s.users))
	for id := int64(1); id <= s.nextID; id++ {
		u, ok := s.users[id]
		if !ok || !u.IsActive {
			continue
		}
		out = append(out, domain.UserListItem{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName, Role: u.Role})
	}
	return c.JSON(http.StatusOK, out)
}

func validationError(field, msg string) error {
	return echo.NewHTTPError(http.StatusUnprocessableEntity, []map[string]any{
		{"loc": []string{"body", field}, "msg": msg, "type": "value_error"},
	})
}
