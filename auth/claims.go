package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims are the parts of the access token the client reads. The signature is
// not checked: the client holds no key and the service verifies every request.
type Claims struct {
	Subject   string
	ID        string
	ExpiresAt time.Time
}

// UserID returns the subject as the numeric user id.
func (c Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Expired reports whether the token has an expiry before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims decodes token without verifying it.
func ParseClaims(token string) (Claims, error) {
	if token == "" {
		return Claims{}, errors.New("empty token")
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, err
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims")
	}
	var out Claims
	out.Subject, _ = mc["sub"].(string)
	out.ID, _ = mc["jti"].(string)
	switch exp := mc["exp"].(type) {
	case float64:
		out.ExpiresAt = time.Unix(int64(exp), 0)
	case int64:
		out.ExpiresAt = time.Unix(exp, 0)
	}
	return out, nil
}
