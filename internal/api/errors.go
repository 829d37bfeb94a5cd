package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrSessionExpired indicates the access token was rejected and could not be
// refreshed. Callers should end the session and send the user back to login.
var ErrSessionExpired = errors.New("session expired")

// Error is a non-2xx response from the collaborator, carrying the HTTP status
// and the most specific message the server provided.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// IsStatus reports whether err is a collaborator error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsForbidden reports whether the collaborator denied access, e.g. an unmet
// sequential prerequisite.
func IsForbidden(err error) bool {
	return IsStatus(err, http.StatusForbidden)
}

// decodeError extracts a user-facing message from an error payload. Servers
// disagree about the shape, so several are tried in order: a structured
// "error" field, then "detail", "message", "non_field_errors", a bare string,
// a field-error map, and finally a generic default.
func decodeError(status int, body []byte) *Error {
	message := extractMessage(body)
	if message == "" {
		message = genericMessage(status)
	}
	return &Error{Status: status, Message: message}
}

func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(body, &plain); err == nil {
		return strings.TrimSpace(plain)
	}

	var shape map[string]json.RawMessage
	if err := json.Unmarshal(body, &shape); err != nil {
		return ""
	}

	for _, key := range []string{"error", "detail", "message"} {
		if raw, ok := shape[key]; ok {
			var value string
			if err := json.Unmarshal(raw, &value); err == nil && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value)
			}
		}
	}

	if raw, ok := shape["non_field_errors"]; ok {
		var values []string
		if err := json.Unmarshal(raw, &values); err == nil && len(values) > 0 {
			return strings.Join(values, ", ")
		}
	}

	// Fall back to field errors: "field: msg1, msg2" per line.
	fields := make([]string, 0, len(shape))
	for key := range shape {
		fields = append(fields, key)
	}
	sort.Strings(fields)

	var lines []string
	for _, key := range fields {
		var values []string
		if err := json.Unmarshal(shape[key], &values); err == nil && len(values) > 0 {
			lines = append(lines, fmt.Sprintf("%s: %s", key, strings.Join(values, ", ")))
			continue
		}
		var value string
		if err := json.Unmarshal(shape[key], &value); err == nil && strings.TrimSpace(value) != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", key, value))
		}
	}

	return strings.Join(lines, "\n")
}

func genericMessage(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "authentication required"
	case status == http.StatusForbidden:
		return "access denied"
	case status == http.StatusNotFound:
		return "not found"
	case status >= 500:
		return "server error, please try again"
	default:
		return "request failed"
	}
}
