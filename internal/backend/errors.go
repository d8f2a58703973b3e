package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// StatusError is the normalized form of a backend-reported failure. Its
// message is the only error surface the orchestrators expose to the user.
type StatusError struct {
	// Status is the HTTP status code of the failed response.
	Status int

	// Message is the normalized human-readable description.
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// detailBody matches the backend's structured error payload.
type detailBody struct {
	Detail string `json:"detail"`
}

// NormalizeError produces a single human-readable message from a failed
// response: the JSON `detail` field when the body carries one, otherwise
// the raw body text, otherwise "HTTP <status> <statusText>".
func NormalizeError(status int, body []byte, statusText string) string {
	msg := strings.TrimSpace(string(body))

	var parsed detailBody

	err := json.Unmarshal([]byte(msg), &parsed)
	if err == nil && parsed.Detail != "" {
		msg = parsed.Detail
	}

	if msg == "" {
		msg = strings.TrimSpace(fmt.Sprintf("HTTP %d %s", status, statusText))
	}

	return msg
}

// IsEndpointMissing reports whether an error marks an optional backend
// endpoint as absent. Only a backend-reported 404 qualifies; transport
// failures and other statuses are genuine errors and must not be
// swallowed by the degraded cleaning path.
func IsEndpointMissing(err error) bool {
	var statusErr *StatusError

	if !errors.As(err, &statusErr) {
		return false
	}

	return statusErr.Status == http.StatusNotFound
}

// ResolveChunkChars parses a textual chunk-size bound and clamps it into
// the valid range. Non-numeric input falls back to the default.
func ResolveChunkChars(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return DefaultChunkChars
	}

	return ClampChunkChars(n)
}
