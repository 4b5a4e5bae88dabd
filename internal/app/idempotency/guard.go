package idempotency

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cafeteria-backend/internal/adapter/logger"
)

// Record is one stored response: the HTTP status and body produced by the
// first successful execution under a key.
type Record struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Store is the shared TTL key-value backend. Get returns (nil, nil) when no
// record exists. PutNX must be atomic: it stores only if the key is free.
type Store interface {
	Get(ctx context.Context, key string) (*Record, error)
	PutNX(ctx context.Context, key string, rec *Record, ttl time.Duration) (bool, error)
}

// Guard deduplicates repeated mutating requests carrying the same
// client-supplied key.
type Guard struct {
	store  Store
	ttl    time.Duration
	logger logger.Logger
}

func NewGuard(store Store, ttl time.Duration, lgr logger.Logger) *Guard {
	return &Guard{store: store, ttl: ttl, logger: lgr}
}

// Execute returns the stored response for (key, customerID) if one exists;
// otherwise it runs op and, when op yields a 2xx response, stores the result
// for the TTL. The second return reports whether the response was replayed.
//
// If a concurrent first-time caller stores the record between our lookup and
// our PutNX, the PutNX fails cleanly and we fall back to the stored record.
func (g *Guard) Execute(ctx context.Context, key string, customerID int, op func() (*Record, error)) (*Record, bool, error) {
	storageKey := storageKey(key, customerID)

	existing, err := g.store.Get(ctx, storageKey)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, true, nil
	}

	rec, err := op()
	if err != nil {
		return nil, false, err
	}

	if rec.Status < 200 || rec.Status >= 300 {
		// Failures are not memoized; the client may retry.
		return rec, false, nil
	}

	stored, err := g.store.PutNX(ctx, storageKey, rec, g.ttl)
	if err != nil {
		// The operation already ran; losing the record is preferable to
		// failing the request.
		g.logger.Error("idempotency_store_failed", "Failed to store idempotency record", "", map[string]interface{}{
			"key": key,
		}, err)
		return rec, false, nil
	}
	if !stored {
		winner, err := g.store.Get(ctx, storageKey)
		if err == nil && winner != nil {
			return winner, true, nil
		}
	}

	return rec, false, nil
}

func storageKey(key string, customerID int) string {
	return fmt.Sprintf("idempotency:%d:%s", customerID, key)
}
