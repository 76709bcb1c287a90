package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"armario-virtual/models"
)

// Keys of the local key-value store
const (
	keyItems     = "my_wardrobe"
	keyPending   = "pending_uploads"
	keyProfile   = "my_body_stats"
	keyBodyImage = "my_body_model"
	keyRoom      = "sync_room"
)

// LocalRepository persists wardrobe state in the SQLite kv table
// Implements LocalRepositoryInterface
type LocalRepository struct {
	db *sql.DB
}

// NewLocalRepository creates a new LocalRepository
func NewLocalRepository(db *sql.DB) *LocalRepository {
	return &LocalRepository{db: db}
}

// Ensure LocalRepository implements LocalRepositoryInterface
var _ LocalRepositoryInterface = (*LocalRepository)(nil)

func (r *LocalRepository) get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: failed to read %s: %w", models.ErrLocalPersistence, key, err)
	}
	return value, true, nil
}

func (r *LocalRepository) put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", models.ErrLocalPersistence, key, err)
	}
	return nil
}

func (r *LocalRepository) delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: failed to delete %s: %w", models.ErrLocalPersistence, key, err)
	}
	return nil
}

func (r *LocalRepository) loadJSON(ctx context.Context, key string, dst any) error {
	data, ok, err := r.get(ctx, key)
	if err != nil || !ok {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: corrupted %s: %w", models.ErrLocalPersistence, key, err)
	}
	return nil
}

func (r *LocalRepository) saveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s: %w", models.ErrLocalPersistence, key, err)
	}
	return r.put(ctx, key, data)
}

// LoadItems returns the locally persisted wardrobe in insertion order
func (r *LocalRepository) LoadItems(ctx context.Context) ([]models.ClothingItem, error) {
	var items []models.ClothingItem
	if err := r.loadJSON(ctx, keyItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SaveItems overwrites the locally persisted wardrobe
func (r *LocalRepository) SaveItems(ctx context.Context, items []models.ClothingItem) error {
	if items == nil {
		items = []models.ClothingItem{}
	}
	return r.saveJSON(ctx, keyItems, items)
}

// LoadPending returns items waiting to be uploaded to the remote collection
func (r *LocalRepository) LoadPending(ctx context.Context) ([]models.ClothingItem, error) {
	var items []models.ClothingItem
	if err := r.loadJSON(ctx, keyPending, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SavePending overwrites the pending upload queue
func (r *LocalRepository) SavePending(ctx context.Context, items []models.ClothingItem) error {
	if len(items) == 0 {
		return r.delete(ctx, keyPending)
	}
	return r.saveJSON(ctx, keyPending, items)
}

// LoadProfile returns the stored body profile merged over the defaults
func (r *LocalRepository) LoadProfile(ctx context.Context) (models.BodyProfile, error) {
	profile := models.DefaultBodyProfile()
	if err := r.loadJSON(ctx, keyProfile, &profile); err != nil {
		return models.DefaultBodyProfile(), err
	}
	return profile, nil
}

// SaveProfile overwrites the stored body profile
func (r *LocalRepository) SaveProfile(ctx context.Context, profile models.BodyProfile) error {
	return r.saveJSON(ctx, keyProfile, profile)
}

// LoadBodyImage returns the stored reference photo, or nil
func (r *LocalRepository) LoadBodyImage(ctx context.Context) ([]byte, error) {
	data, _, err := r.get(ctx, keyBodyImage)
	return data, err
}

// SaveBodyImage stores the reference photo; nil removes it
func (r *LocalRepository) SaveBodyImage(ctx context.Context, image []byte) error {
	if image == nil {
		return r.delete(ctx, keyBodyImage)
	}
	return r.put(ctx, keyBodyImage, image)
}

// LoadRoom returns the persisted sync room, or ""
func (r *LocalRepository) LoadRoom(ctx context.Context) (string, error) {
	data, _, err := r.get(ctx, keyRoom)
	return string(data), err
}

// SaveRoom persists the sync room; "" removes it
func (r *LocalRepository) SaveRoom(ctx context.Context, room string) error {
	if room == "" {
		return r.delete(ctx, keyRoom)
	}
	return r.put(ctx, keyRoom, []byte(room))
}
