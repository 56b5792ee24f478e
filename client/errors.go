package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Detail     string
	Method     string
	Path       string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Detail)
}

type errorBody struct {
	Detail any `json:"detail"`
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Method: method, Path: path}
	var parsed errorBody
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		apiErr.Detail = strings.TrimSpace(string(body))
		return apiErr
	}
	apiErr.Detail = flattenDetail(parsed.Detail)
	return apiErr
}

// flattenDetail turns the service's detail field into one line. Validation
// failures arrive as a list of {loc, msg}.
func flattenDetail(detail any) string {
	switch d := detail.(type) {
	case nil:
		return ""
	case string:
		return d
	case []any:
		msgs := make([]string, 0, len(d))
		for _, item := range d {
			entry, ok := item.(map[string]any)
			if !ok {
				msgs = append(msgs, fmt.Sprint(item))
				continue
			}
			msg, _ := entry["msg"].(string)
			if loc := formatLoc(entry["loc"]); loc != "" {
				msg = loc + ": " + msg
			}
			msgs = append(msgs, msg)
		}
		return strings.Join(msgs, "; ")
	default:
		data, err := sonic.Marshal(d)
		if err != nil {
			return fmt.Sprint(d)
		}
		return string(data)
	}
}

func formatLoc(loc any) string {
	parts, ok := loc.([]any)
	if !ok {
		return ""
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := fmt.Sprint(p); s != "body" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ".")
}

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the service.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
