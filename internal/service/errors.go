package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrOffline is returned before any network activity when the session is in
// offline mode. Callers fall back to cached reads where available.
var ErrOffline = errors.New("offline")

// APIError is an unsuccessful result from the board server.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.Status, e.Message)
}

func newAPIError(op string, status int, body []byte) *APIError {
	// The server reports errors as {"error": "..."}; fall back to the raw
	// body for anything else that ends up in front of us.
	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &APIError{Op: op, Status: status, Message: msg}
}
