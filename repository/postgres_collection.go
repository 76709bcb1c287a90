package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"armario-virtual/models"
)

const defaultPollInterval = 2 * time.Second

// PostgresCollection is the remote wardrobe collection backed by Postgres.
// Subscriptions poll the room and emit a snapshot whenever its id list changes.
// Implements RemoteCollectionInterface
type PostgresCollection struct {
	db           *sql.DB
	pollInterval time.Duration
	logger       *log.Logger
}

// NewPostgresCollection creates a new PostgresCollection
func NewPostgresCollection(db *sql.DB, pollInterval time.Duration, logger *log.Logger) *PostgresCollection {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &PostgresCollection{
		db:           db,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Ensure PostgresCollection implements RemoteCollectionInterface
var _ RemoteCollectionInterface = (*PostgresCollection)(nil)

// Append inserts a room-tagged item; the id is assigned by the database
func (c *PostgresCollection) Append(ctx context.Context, item models.ClothingItem) (string, error) {
	query := `
		INSERT INTO wardrobe_items (room_id, name, category, image, source_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id string
	err := c.db.QueryRowContext(ctx, query,
		item.RoomID,
		item.Name,
		string(item.Category),
		item.Image,
		item.SourceID,
	).Scan(&id)
	if err != nil {
		c.logger.Error("❌ append failed", "room", item.RoomID, "err", err)
		return "", fmt.Errorf("%w: failed to append item: %w", models.ErrNetwork, err)
	}

	c.logger.Debug("💾 item appended", "id", id, "room", item.RoomID)
	return id, nil
}

// Delete removes an item by id
func (c *PostgresCollection) Delete(ctx context.Context, id string) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM wardrobe_items WHERE id = $1`, id)
	if err != nil {
		c.logger.Error("❌ delete failed", "id", id, "err", err)
		return fmt.Errorf("%w: failed to delete item: %w", models.ErrNetwork, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("⚠️  could not get rows affected", "err", err)
		return nil
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: item %s", models.ErrNotFound, id)
	}
	return nil
}

// Subscribe emits the current room contents, then a new snapshot each time they change.
// The first read is synchronous so an unreachable database fails the subscription itself.
func (c *PostgresCollection) Subscribe(ctx context.Context, room string) (<-chan models.Snapshot, error) {
	items, err := c.listByRoom(ctx, room)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to subscribe to room %s: %w", models.ErrNetwork, room, err)
	}

	ch := make(chan models.Snapshot, 1)
	go c.poll(ctx, room, items, ch)
	return ch, nil
}

func (c *PostgresCollection) poll(ctx context.Context, room string, first []models.ClothingItem, ch chan<- models.Snapshot) {
	defer close(ch)

	if !send(ctx, ch, models.Snapshot{Room: room, Items: first}) {
		return
	}
	last := fingerprint(first)
	failed := false

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		ids, err := c.listIDs(ctx, room)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			failed = true
			c.logger.Warn("🔄 poll failed", "room", room, "err", err)
			if !send(ctx, ch, models.Snapshot{Room: room, Err: fmt.Errorf("%w: %w", models.ErrNetwork, err)}) {
				return
			}
			continue
		}

		// a recovered subscription re-emits even when nothing changed
		if strings.Join(ids, ",") == last && !failed {
			continue
		}

		items, err := c.listByRoom(ctx, room)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			failed = true
			if !send(ctx, ch, models.Snapshot{Room: room, Err: fmt.Errorf("%w: %w", models.ErrNetwork, err)}) {
				return
			}
			continue
		}

		failed = false
		last = fingerprint(items)
		if !send(ctx, ch, models.Snapshot{Room: room, Items: items}) {
			return
		}
	}
}

func (c *PostgresCollection) listIDs(ctx context.Context, room string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id FROM wardrobe_items WHERE room_id = $1 ORDER BY created_at, id`, room)
	if err != nil {
		return nil, fmt.Errorf("failed to list item ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item ids: %w", err)
	}
	return ids, nil
}

func (c *PostgresCollection) listByRoom(ctx context.Context, room string) ([]models.ClothingItem, error) {
	query := `
		SELECT id, room_id, name, category, image, source_id, created_at
		FROM wardrobe_items
		WHERE room_id = $1
		ORDER BY created_at, id
	`

	rows, err := c.db.QueryContext(ctx, query, room)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []models.ClothingItem{}
	for rows.Next() {
		var item models.ClothingItem
		var category string
		err := rows.Scan(
			&item.ID,
			&item.RoomID,
			&item.Name,
			&category,
			&item.Image,
			&item.SourceID,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Category = models.Category(category)
		item.SyncStatus = models.SyncStatusSynced
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

func fingerprint(items []models.ClothingItem) string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return strings.Join(ids, ",")
}

// send delivers a snapshot unless ctx is cancelled first
func send(ctx context.Context, ch chan<- models.Snapshot, snap models.Snapshot) bool {
	select {
	case <-ctx.Done():
		return false
	case ch <- snap:
		return true
	}
}
