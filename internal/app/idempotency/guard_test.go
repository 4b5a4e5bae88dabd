package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafeteria-backend/internal/adapter/logger"
)

type nopLogger struct{}

func (nopLogger) Info(string, string, string, map[string]interface{})         {}
func (nopLogger) Warn(string, string, string, map[string]interface{})         {}
func (nopLogger) Debug(string, string, string, map[string]interface{})        {}
func (nopLogger) Error(string, string, string, map[string]interface{}, error) {}

var _ logger.Logger = nopLogger{}

type memoryStore struct {
	records map[string]*Record
	getErr  error
	putErr  error
	// denyPut simulates losing the PutNX race: the store rejects the write
	// and holds a record planted by the "winner".
	denyPut bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]*Record)}
}

func (s *memoryStore) Get(_ context.Context, key string) (*Record, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.records[key], nil
}

func (s *memoryStore) PutNX(_ context.Context, key string, rec *Record, _ time.Duration) (bool, error) {
	if s.putErr != nil {
		return false, s.putErr
	}
	if s.denyPut {
		return false, nil
	}
	if _, exists := s.records[key]; exists {
		return false, nil
	}
	s.records[key] = rec
	return true, nil
}

func newRecord(status int, body string) *Record {
	return &Record{Status: status, Body: json.RawMessage(body)}
}

func TestExecuteRunsAndStoresFirstCall(t *testing.T) {
	store := newMemoryStore()
	guard := NewGuard(store, time.Hour, nopLogger{})

	calls := 0
	rec, replayed, err := guard.Execute(context.Background(), "key-1", 7, func() (*Record, error) {
		calls++
		return newRecord(201, `{"id":1}`), nil
	})

	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 201, rec.Status)

	stored := store.records["idempotency:7:key-1"]
	require.NotNil(t, stored)
	assert.Equal(t, 201, stored.Status)
}

func TestExecuteReplaysWithoutReinvoking(t *testing.T) {
	store := newMemoryStore()
	store.records["idempotency:7:key-1"] = newRecord(201, `{"id":1}`)
	guard := NewGuard(store, time.Hour, nopLogger{})

	rec, replayed, err := guard.Execute(context.Background(), "key-1", 7, func() (*Record, error) {
		t.Fatal("operation must not run on replay")
		return nil, nil
	})

	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, 201, rec.Status)
	assert.JSONEq(t, `{"id":1}`, string(rec.Body))
}

func TestExecuteKeysAreScopedPerCustomer(t *testing.T) {
	store := newMemoryStore()
	store.records["idempotency:7:key-1"] = newRecord(201, `{"id":1}`)
	guard := NewGuard(store, time.Hour, nopLogger{})

	calls := 0
	_, replayed, err := guard.Execute(context.Background(), "key-1", 8, func() (*Record, error) {
		calls++
		return newRecord(201, `{"id":2}`), nil
	})

	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, 1, calls)
}

func TestExecuteDoesNotStoreFailures(t *testing.T) {
	store := newMemoryStore()
	guard := NewGuard(store, time.Hour, nopLogger{})

	rec, replayed, err := guard.Execute(context.Background(), "key-1", 7, func() (*Record, error) {
		return newRecord(409, `{"error":"insufficient stock"}`), nil
	})

	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, 409, rec.Status)
	assert.Empty(t, store.records, "non-2xx responses must not be memoized")
}

func TestExecutePropagatesOperationError(t *testing.T) {
	store := newMemoryStore()
	guard := NewGuard(store, time.Hour, nopLogger{})

	opErr := errors.New("db down")
	_, _, err := guard.Execute(context.Background(), "key-1", 7, func() (*Record, error) {
		return nil, opErr
	})

	assert.ErrorIs(t, err, opErr)
	assert.Empty(t, store.records)
}

func TestExecuteLostRaceReturnsWinnerRecord(t *testing.T) {
	store := newMemoryStore()
	guard := NewGuard(store, time.Hour, nopLogger{})

	// The winner's record lands after our initial lookup: Get sees nothing,
	// PutNX is refused, and the fallback lookup finds the winner.
	store.denyPut = true
	calls := 0
	rec, replayed, err := guard.Execute(context.Background(), "key-1", 7, func() (*Record, error) {
		calls++
		store.records["idempotency:7:key-1"] = newRecord(201, `{"id":99}`)
		return newRecord(201, `{"id":100}`), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, replayed)
	assert.JSONEq(t, `{"id":99}`, string(rec.Body))
}

func TestExecuteStoreFailureStillReturnsResponse(t *testing.T) {
	store := newMemoryStore()
	store.putErr = errors.New("redis down")
	guard := NewGuard(store, time.Hour, nopLogger{})

	rec, replayed, err := guard.Execute(context.Background(), "key-1", 7, func() (*Record, error) {
		return newRecord(201, `{"id":1}`), nil
	})

	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, 201, rec.Status)
}
