package storage

import (
	"context"

	"github.com/mselser95/crypto-tracker/internal/alerts"
)

// Storage is the interface for recording triggered alert events.
// It is an audit trail only; alert state is never loaded back from it.
type Storage interface {
	// StoreEvent stores a triggered alert event.
	StoreEvent(ctx context.Context, event *alerts.Event) error

	// Close closes the storage connection.
	Close() error
}
