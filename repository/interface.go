package repository

import (
	"context"

	"armario-virtual/models"
)

// LocalRepositoryInterface defines the contract for local key-value persistence.
// Everything is read once at startup and written on every mutation.
type LocalRepositoryInterface interface {
	LoadItems(ctx context.Context) ([]models.ClothingItem, error)
	SaveItems(ctx context.Context, items []models.ClothingItem) error
	LoadPending(ctx context.Context) ([]models.ClothingItem, error)
	SavePending(ctx context.Context, items []models.ClothingItem) error
	LoadProfile(ctx context.Context) (models.BodyProfile, error)
	SaveProfile(ctx context.Context, profile models.BodyProfile) error
	// LoadBodyImage returns nil when no reference photo is stored
	LoadBodyImage(ctx context.Context) ([]byte, error)
	// SaveBodyImage stores the reference photo; nil removes it
	SaveBodyImage(ctx context.Context, image []byte) error
	LoadRoom(ctx context.Context) (string, error)
	// SaveRoom stores the active room; "" removes it
	SaveRoom(ctx context.Context, room string) error
}

// RemoteCollectionInterface defines the contract for the remote synchronized collection
type RemoteCollectionInterface interface {
	// Append stores a room-tagged item and returns the identifier the collection assigned
	Append(ctx context.Context, item models.ClothingItem) (string, error)
	Delete(ctx context.Context, id string) error
	// Subscribe streams full snapshots of room until ctx is cancelled, then closes the channel
	Subscribe(ctx context.Context, room string) (<-chan models.Snapshot, error)
}
