package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"armario-virtual/models"
)

// MemoryCollection is an in-process remote collection.
// It backs sync mode when no database is configured and drives sync tests.
// Each subscriber only ever holds the latest snapshot: a newer one replaces an unread older one.
// Implements RemoteCollectionInterface
type MemoryCollection struct {
	mu          sync.Mutex
	items       []models.ClothingItem
	subscribers map[string][]chan models.Snapshot
	err         error
	subErr      error
}

// NewMemoryCollection creates an empty MemoryCollection
func NewMemoryCollection() *MemoryCollection {
	return &MemoryCollection{
		subscribers: make(map[string][]chan models.Snapshot),
	}
}

// Ensure MemoryCollection implements RemoteCollectionInterface
var _ RemoteCollectionInterface = (*MemoryCollection)(nil)

// WithError makes subsequent Append and Delete calls fail with err; nil clears it
func (m *MemoryCollection) WithError(err error) *MemoryCollection {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithSubscribeError makes subsequent Subscribe calls fail with err; nil clears it
func (m *MemoryCollection) WithSubscribeError(err error) *MemoryCollection {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subErr = err
	return m
}

// Append stores item under a fresh id and notifies the item's room
func (m *MemoryCollection) Append(ctx context.Context, item models.ClothingItem) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrNetwork, m.err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	item.ID = uuid.NewString()
	item.SyncStatus = models.SyncStatusSynced
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	m.items = append(m.items, item)
	m.publishLocked(item.RoomID)
	return item.ID, nil
}

// Delete removes the item and notifies its room
func (m *MemoryCollection) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return fmt.Errorf("%w: %w", models.ErrNetwork, m.err)
	}

	for i, item := range m.items {
		if item.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			m.publishLocked(item.RoomID)
			return nil
		}
	}
	return fmt.Errorf("%w: item %s", models.ErrNotFound, id)
}

// Subscribe registers a subscriber for room and immediately delivers its current contents
func (m *MemoryCollection) Subscribe(ctx context.Context, room string) (<-chan models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subErr != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrNetwork, m.subErr)
	}

	ch := make(chan models.Snapshot, 1)
	m.subscribers[room] = append(m.subscribers[room], ch)
	deliverLatest(ch, models.Snapshot{Room: room, Items: m.roomItemsLocked(room)})

	go func() {
		<-ctx.Done()
		m.unsubscribe(room, ch)
	}()

	return ch, nil
}

// FailRoom pushes a subscription-level error to every subscriber of room
func (m *MemoryCollection) FailRoom(room string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subscribers[room] {
		deliverLatest(ch, models.Snapshot{Room: room, Err: fmt.Errorf("%w: %w", models.ErrNetwork, err)})
	}
}

// Publish re-sends the current contents of room to its subscribers
func (m *MemoryCollection) Publish(room string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishLocked(room)
}

// Items returns every stored item of room
func (m *MemoryCollection) Items(room string) []models.ClothingItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roomItemsLocked(room)
}

// Subscribers returns the number of active subscribers of room
func (m *MemoryCollection) Subscribers(room string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers[room])
}

func (m *MemoryCollection) unsubscribe(room string, ch chan models.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs := m.subscribers[room]
	for i, existing := range subs {
		if existing == ch {
			m.subscribers[room] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
	if len(m.subscribers[room]) == 0 {
		delete(m.subscribers, room)
	}
}

func (m *MemoryCollection) publishLocked(room string) {
	snap := models.Snapshot{Room: room, Items: m.roomItemsLocked(room)}
	for _, ch := range m.subscribers[room] {
		deliverLatest(ch, snap)
	}
}

func (m *MemoryCollection) roomItemsLocked(room string) []models.ClothingItem {
	out := []models.ClothingItem{}
	for _, item := range m.items {
		if item.RoomID == room {
			out = append(out, item)
		}
	}
	return out
}

// deliverLatest replaces an unread snapshot with snap; callers hold m.mu
func deliverLatest(ch chan models.Snapshot, snap models.Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
