package resolutions

//go:generate mockgen -destination=mock/mock_repository.go -package=mockresolutions -source=repository.go

import (
	"context"
	"time"

	"github.com/KirkDiggler/wargame-mechanics/internal/domain/combat"
)

// Record is a stored resolution keyed by the hash of its context
type Record struct {
	ID         string             `json:"id"`
	Key        string             `json:"key"`
	Resolution *combat.Resolution `json:"resolution"`
	CreatedAt  time.Time          `json:"created_at"`
}

// Repository defines the interface for resolution storage
type Repository interface {
	// Get retrieves a record by context key
	Get(ctx context.Context, key string) (*Record, error)

	// Put stores a record, replacing any record with the same key
	Put(ctx context.Context, record *Record) error

	// Delete removes a record
	Delete(ctx context.Context, key string) error
}
