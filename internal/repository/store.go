package repository

import (
	"context"
	"errors"
	"fmt"

	"wishlist_webhook/internal/model"
	"wishlist_webhook/internal/utils"
)

// ErrStoreUnavailable marks failures to reach, read or write the selected
// backend. The wrapped cause is kept for the error response.
var ErrStoreUnavailable = errors.New("store unavailable")

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

// Store is the persistence contract both backends implement. Lookups return
// nil, nil when nothing matches.
type Store interface {
	SaveMessage(ctx context.Context, payload model.WebhookPayload) (*model.Message, error)
	ListMessages(ctx context.Context) ([]model.Message, error)
	GetMessage(ctx context.Context, id int64) (*model.Message, error)

	GetUser(ctx context.Context, phone string) (*model.User, error)
	SaveUser(ctx context.Context, in model.UserInput) (*model.User, error)
	ListUsers(ctx context.Context) (map[string]model.User, error)

	ListMenu(ctx context.Context) ([]model.MenuItem, error)

	Name() string
	Diagnostics() Diagnostics
}

// Document load outcomes recorded by the file store.
const (
	DocumentOK      = "ok"
	DocumentAbsent  = "absent"
	DocumentCorrupt = "corrupt"
)

// DocumentState describes the last load of one file-store document.
type DocumentState struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	// Skipped counts elements left out of results because they do not decode.
	Skipped int `json:"skipped,omitempty"`
}

// Diagnostics reports data the store degraded to empty instead of failing
// on. It is only exposed through the debug endpoint.
type Diagnostics struct {
	Backend        string                   `json:"backend"`
	Documents      map[string]DocumentState `json:"documents,omitempty"`
	DecodeFailures int64                    `json:"decode_failures"`
}

// messageTimestamp is the payload's own timestamp, normalized to UTC when it
// parses, or the current time.
func messageTimestamp(payload model.WebhookPayload, now utils.Clock) string {
	if ts, ok := payload.Timestamp(); ok {
		return utils.NormalizeTimestamp(ts)
	}
	return utils.Timestamp(now())
}

// stripReserved copies a payload without the fields the store owns.
func stripReserved(payload model.WebhookPayload) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == "id" || k == "timestamp" {
			continue
		}
		out[k] = v
	}
	return out
}
