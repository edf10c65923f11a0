// Package service provides the typed request/response contracts between the
// client core and the board server. Every operation goes through the Caller
// abstraction: an operation name selecting a server-side action, a params
// object carrying entity ids and new values, and an HTTP method. Responses
// are JSON objects mirroring the entity plus the contextual fields
// (prev_card_id, cardlist_id) needed to re-insert nodes.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Operation names understood by the board server.
const (
	OpGetBoard           = "GetBoard"
	OpGetCard            = "GetCard"
	OpGetCardAttachments = "GetCardAttachments"
	OpAddNewCard         = "AddNewCard"
	OpMoveCard           = "MoveCard"
	OpDeleteCard         = "DeleteCard"
	OpUpdateCardTitle    = "UpdateCardTitle"
	OpUpdateCardContent  = "UpdateCardContent"
	OpSetCardLabel       = "SetCardLabel"
	OpClearCardLabel     = "ClearCardLabel"
	OpSetCardLocked      = "SetCardLocked"
	OpAddNewCardList     = "AddNewCardList"
	OpMoveCardList       = "MoveCardList"
	OpUpdateCardListName = "UpdateCardListName"
	OpDeleteCardList     = "DeleteCardList"
	OpCreateBoardLabel   = "CreateBoardLabel"
	OpUpdateBoardLabel   = "UpdateBoardLabel"
	OpDeleteBoardLabel   = "DeleteBoardLabel"
)

// Caller executes a named server operation and returns the raw JSON result.
// Implementations must be safe to call from command goroutines.
type Caller interface {
	Call(ctx context.Context, op, method string, params any) (json.RawMessage, error)
}

// HTTPCaller talks to the board server over HTTP. Operations are exposed
// under /api/{op}; mutating operations carry a JSON body, reads encode their
// params in the query string.
type HTTPCaller struct {
	base    string
	client  *http.Client
	offline bool
}

// NewHTTPCaller creates a caller for the server at base (e.g.
// "http://localhost:7733"). When offline is true every call fails fast with
// ErrOffline before touching the network.
func NewHTTPCaller(base string, offline bool) *HTTPCaller {
	return &HTTPCaller{
		base:    base,
		client:  &http.Client{Timeout: 30 * time.Second},
		offline: offline,
	}
}

// Online reports whether the caller will attempt network requests.
func (c *HTTPCaller) Online() bool { return !c.offline }

// SetOffline toggles offline mode for the rest of the session.
func (c *HTTPCaller) SetOffline(offline bool) { c.offline = offline }

// Call implements Caller.
func (c *HTTPCaller) Call(ctx context.Context, op, method string, params any) (json.RawMessage, error) {
	if c.offline {
		return nil, fmt.Errorf("%s: %w", op, ErrOffline)
	}

	payload, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("%s: encoding params: %w", op, err)
	}

	endpoint := c.base + "/api/" + op
	var body io.Reader
	if method == http.MethodGet {
		endpoint += "?params=" + url.QueryEscape(string(payload))
	} else {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%s: building request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(op, resp.StatusCode, raw)
	}
	return raw, nil
}

// decode unmarshals a raw operation result into out, wrapping decode
// failures with the operation name.
func decode(op string, raw json.RawMessage, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decoding result: %w", op, err)
	}
	return nil
}
