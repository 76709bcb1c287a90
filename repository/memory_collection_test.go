package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armario-virtual/models"
)

func receive(t *testing.T, ch <-chan models.Snapshot) models.Snapshot {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return models.Snapshot{}
	}
}

func TestMemoryCollection_SubscribeDeliversCurrentState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewMemoryCollection()

	_, err := m.Append(ctx, models.ClothingItem{RoomID: "a", Name: "毛衣"})
	require.NoError(t, err)
	_, err = m.Append(ctx, models.ClothingItem{RoomID: "b", Name: "裙子"})
	require.NoError(t, err)

	ch, err := m.Subscribe(ctx, "a")
	require.NoError(t, err)

	snap := receive(t, ch)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "毛衣", snap.Items[0].Name)
	assert.Equal(t, models.SyncStatusSynced, snap.Items[0].SyncStatus)
	assert.NotEmpty(t, snap.Items[0].ID)
}

func TestMemoryCollection_KeepsOnlyLatestSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewMemoryCollection()

	ch, err := m.Subscribe(ctx, "a")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := m.Append(ctx, models.ClothingItem{RoomID: "a"})
		require.NoError(t, err)
	}

	snap := receive(t, ch)
	assert.Len(t, snap.Items, 3)
}

func TestMemoryCollection_DeleteNotifiesRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewMemoryCollection()

	id, err := m.Append(ctx, models.ClothingItem{RoomID: "a"})
	require.NoError(t, err)

	ch, err := m.Subscribe(ctx, "a")
	require.NoError(t, err)
	require.Len(t, receive(t, ch).Items, 1)

	require.NoError(t, m.Delete(ctx, id))
	assert.Empty(t, receive(t, ch).Items)

	assert.ErrorIs(t, m.Delete(ctx, id), models.ErrNotFound)
}

func TestMemoryCollection_Errors(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCollection().WithError(errors.New("offline"))

	_, err := m.Append(ctx, models.ClothingItem{RoomID: "a"})
	assert.ErrorIs(t, err, models.ErrNetwork)
	assert.ErrorIs(t, m.Delete(ctx, "x"), models.ErrNetwork)

	m.WithError(nil).WithSubscribeError(errors.New("denied"))
	_, err = m.Subscribe(ctx, "a")
	assert.ErrorIs(t, err, models.ErrNetwork)
}

func TestMemoryCollection_CancelUnsubscribes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMemoryCollection()

	ch, err := m.Subscribe(ctx, "a")
	require.NoError(t, err)
	receive(t, ch)
	assert.Equal(t, 1, m.Subscribers("a"))

	cancel()
	assert.Eventually(t, func() bool { return m.Subscribers("a") == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-ch
	assert.False(t, open)
}

func TestMemoryCollection_FailRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewMemoryCollection()

	ch, err := m.Subscribe(ctx, "a")
	require.NoError(t, err)
	receive(t, ch)

	m.FailRoom("a", errors.New("permission denied"))
	snap := receive(t, ch)
	assert.ErrorIs(t, snap.Err, models.ErrNetwork)
}
