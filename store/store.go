// Package store implements the persistent snapshot store: a string-keyed
// slot per collection, read once at startup and rewritten after every
// mutation. The in-memory state is the source of truth; writes here are
// best-effort.
package store

import (
	"context"
	"errors"
)

// Slot keys, one per persisted collection, plus the ephemeral session.
const (
	SlotUsers         = "custodia:users"
	SlotRecords       = "custodia:records"
	SlotDetails       = "custodia:details"
	SlotRequests      = "custodia:requests"
	SlotTransfers     = "custodia:transfers"
	SlotNotifications = "custodia:notifications"
)

// ErrNotFound is returned by Get when the slot has never been written.
var ErrNotFound = errors.New("store: key not found")

// KV is a string-keyed snapshot store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
