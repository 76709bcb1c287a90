package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"armario-virtual/models"
	"armario-virtual/repository"
)

// WardrobeService owns the item list, the pending upload queue and the selection.
// Every mutation goes through mu. Remote calls are made without holding it.
// Implements WardrobeServiceInterface
type WardrobeService struct {
	local  repository.LocalRepositoryInterface
	remote repository.RemoteCollectionInterface
	codec  *ImageCodec
	logger *log.Logger
	now    func() time.Time

	// flushMu keeps one retry pass at a time so a queued item is uploaded once
	flushMu sync.Mutex

	mu         sync.Mutex
	items      []models.ClothingItem
	pending    []models.ClothingItem
	tombstones map[string]bool
	selection  *models.Selection
	advice     string
	room       string
	generation uint64
}

// NewWardrobeService creates a new WardrobeService.
// remote may be nil, in which case sync mode is unavailable.
func NewWardrobeService(local repository.LocalRepositoryInterface, remote repository.RemoteCollectionInterface, codec *ImageCodec, logger *log.Logger) *WardrobeService {
	return &WardrobeService{
		local:      local,
		remote:     remote,
		codec:      codec,
		logger:     logger,
		now:        time.Now,
		tombstones: make(map[string]bool),
		selection:  models.NewSelection(),
	}
}

// Ensure WardrobeService implements WardrobeServiceInterface
var _ WardrobeServiceInterface = (*WardrobeService)(nil)

// Load reads local items and the pending queue once at startup
func (s *WardrobeService) Load(ctx context.Context) error {
	items, err := s.local.LoadItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load wardrobe: %w", err)
	}
	pending, err := s.local.LoadPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pending uploads: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.pending = pending
	s.logger.Info("👕 wardrobe loaded", "items", len(items), "pending", len(pending))
	return nil
}

// Add validates and stores a new item.
// In local mode the item is persisted and listed at once. In sync mode it is appended
// to the remote collection and only appears with the next snapshot; a failed remote
// write queues it as pending instead.
func (s *WardrobeService) Add(ctx context.Context, draft models.ItemDraft) (models.AddItemResponse, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		return models.AddItemResponse{}, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}
	if !draft.Category.Valid() {
		return models.AddItemResponse{}, fmt.Errorf("%w: unknown category %q", models.ErrInvalidInput, draft.Category)
	}
	if len(draft.Image) == 0 {
		return models.AddItemResponse{}, fmt.Errorf("%w: image is required", models.ErrInvalidInput)
	}

	image, err := s.codec.Optimize(draft.Image, "medium")
	if err != nil {
		return models.AddItemResponse{}, err
	}

	item := models.ClothingItem{
		Image:     image,
		Category:  draft.Category,
		Name:      draft.Name,
		SourceID:  draft.SourceID,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	room := s.room
	s.mu.Unlock()

	if room == "" {
		return s.addLocal(ctx, item)
	}
	return s.addRemote(ctx, room, item)
}

func (s *WardrobeService) addLocal(ctx context.Context, item models.ClothingItem) (models.AddItemResponse, error) {
	item.ID = uuid.NewString()
	item.SyncStatus = models.SyncStatusLocal

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room != "" {
		return models.AddItemResponse{}, fmt.Errorf("%w: sync session started while adding", models.ErrInvalidInput)
	}

	next := append(slices.Clone(s.items), item)
	if err := s.local.SaveItems(ctx, next); err != nil {
		return models.AddItemResponse{}, err
	}
	s.items = next

	s.logger.Info("✅ item added", "id", item.ID, "name", item.Name, "category", item.Category)
	return models.AddItemResponse{Item: item, Listed: true}, nil
}

func (s *WardrobeService) addRemote(ctx context.Context, room string, item models.ClothingItem) (models.AddItemResponse, error) {
	item.RoomID = room

	id, err := s.remote.Append(ctx, item)
	if err == nil {
		item.ID = id
		item.SyncStatus = models.SyncStatusSynced
		s.logger.Info("☁️  item uploaded", "id", id, "room", room, "name", item.Name)
		return models.AddItemResponse{Item: item, Listed: false}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return models.AddItemResponse{}, ctxErr
	}

	s.logger.Warn("⚠️  upload failed, queueing item", "room", room, "name", item.Name, "err", err)

	item.ID = uuid.NewString()
	item.SyncStatus = models.SyncStatusPending

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(slices.Clone(s.pending), item)
	if saveErr := s.local.SavePending(ctx, next); saveErr != nil {
		// the item is now stored nowhere; the local failure is the one to report
		return models.AddItemResponse{}, fmt.Errorf("item not queued after upload failure (%v): %w", err, saveErr)
	}
	s.pending = next
	return models.AddItemResponse{Item: item, Listed: room == s.room}, nil
}

// Remove deletes an item by id.
// Pending items are dropped from the queue. Synced items are deleted remotely first and
// disappear locally once the collection confirms.
func (s *WardrobeService) Remove(ctx context.Context, id string) error {
	s.mu.Lock()

	if idx := indexOf(s.pending, id); idx >= 0 {
		defer s.mu.Unlock()
		next := slices.Delete(slices.Clone(s.pending), idx, idx+1)
		if err := s.local.SavePending(ctx, next); err != nil {
			return err
		}
		s.pending = next
		s.selection.Remove(id)
		s.logger.Info("🗑️  pending item removed", "id", id)
		return nil
	}

	idx := indexOf(s.items, id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("item %s: %w", id, models.ErrNotFound)
	}

	if s.room == "" {
		defer s.mu.Unlock()
		next := slices.Delete(slices.Clone(s.items), idx, idx+1)
		if err := s.local.SaveItems(ctx, next); err != nil {
			return err
		}
		s.items = next
		s.selection.Remove(id)
		s.logger.Info("🗑️  item removed", "id", id)
		return nil
	}

	generation := s.generation
	s.mu.Unlock()

	if err := s.remote.Delete(ctx, id); err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		return nil
	}
	if idx := indexOf(s.items, id); idx >= 0 {
		s.items = slices.Delete(slices.Clone(s.items), idx, idx+1)
	}
	s.tombstones[id] = true
	s.selection.Remove(id)
	s.logger.Info("🗑️  item removed", "id", id, "room", s.room)
	return nil
}

// List returns visible items in display order, optionally filtered by category.
// Pending uploads of the active room follow the snapshot items.
func (s *WardrobeService) List(category models.Category) []models.ClothingItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ClothingItem, 0, len(s.items)+len(s.pending))
	for _, item := range s.visibleLocked() {
		if category == "" || item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// Get returns a visible item by id
func (s *WardrobeService) Get(id string) (models.ClothingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.visibleLocked() {
		if item.ID == id {
			return item, nil
		}
	}
	return models.ClothingItem{}, fmt.Errorf("item %s: %w", id, models.ErrNotFound)
}

// HasSource reports whether a visible item was imported from sourceID
func (s *WardrobeService) HasSource(sourceID string) bool {
	if sourceID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.visibleLocked() {
		if item.SourceID == sourceID {
			return true
		}
	}
	return false
}

// Summaries returns the image-less view of every visible item
func (s *WardrobeService) Summaries() []models.ItemSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := s.visibleLocked()
	out := make([]models.ItemSummary, len(visible))
	for i, item := range visible {
		out[i] = item.Summary()
	}
	return out
}

// Toggle adds or removes a visible item from the selection
func (s *WardrobeService) Toggle(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.visibleLocked().contains(id) {
		return false, fmt.Errorf("item %s: %w", id, models.ErrNotFound)
	}
	return s.selection.Toggle(id), nil
}

// ClearSelection empties the selection and drops the recommendation advice
func (s *WardrobeService) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
	s.advice = ""
}

// ReplaceSelection selects exactly the visible items among ids, in wardrobe order
func (s *WardrobeService) ReplaceSelection(ids []string, advice string) []models.ClothingItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var chosen []models.ClothingItem
	var chosenIDs []string
	for _, item := range s.visibleLocked() {
		if wanted[item.ID] {
			chosen = append(chosen, item)
			chosenIDs = append(chosenIDs, item.ID)
		}
	}

	s.selection.Replace(chosenIDs)
	s.advice = advice
	return chosen
}

// Selection returns the selected items and the last recommendation advice
func (s *WardrobeService) Selection() models.SelectionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.SelectionResponse{Items: s.selectedLocked(), Advice: s.advice}
}

// Selected returns the selected items in selection order
func (s *WardrobeService) Selected() []models.ClothingItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLocked()
}

// PendingCount returns the number of queued uploads for the active room
func (s *WardrobeService) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pendingForLocked(s.room))
}

// Flush retries queued uploads of the active room in order and stops at the first failure.
// Returns how many were uploaded.
func (s *WardrobeService) Flush(ctx context.Context) (int, error) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	room := s.room
	queue := s.pendingForLocked(room)
	s.mu.Unlock()

	if room == "" {
		return 0, models.ErrSyncNotActive
	}

	uploaded := 0
	for _, item := range queue {
		localID := item.ID
		item.SyncStatus = models.SyncStatusSynced

		id, err := s.remote.Append(ctx, item)
		if err != nil {
			return uploaded, err
		}

		queued, err := s.dropPending(ctx, localID, id)
		if err != nil {
			// the item exists remotely now; keeping it queued would upload it twice
			s.logger.Error("❌ uploaded item could not be dequeued", "local_id", localID, "id", id, "err", err)
			return uploaded, err
		}
		if !queued {
			s.logger.Warn("⚠️  item removed while uploading, deleting remote copy", "local_id", localID, "id", id)
			if err := s.remote.Delete(ctx, id); err != nil && !errors.Is(err, models.ErrNotFound) {
				return uploaded, err
			}
			continue
		}
		uploaded++
		s.logger.Info("☁️  pending item uploaded", "local_id", localID, "id", id, "room", room)
	}
	return uploaded, nil
}

// dropPending dequeues id after its upload as remoteID.
// It reports false when id was removed meanwhile; remoteID is then tombstoned so
// snapshots never show the orphaned copy.
func (s *WardrobeService) dropPending(ctx context.Context, id, remoteID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.pending, id)
	if idx < 0 {
		s.tombstones[remoteID] = true
		s.items = slices.DeleteFunc(slices.Clone(s.items), func(item models.ClothingItem) bool { return item.ID == remoteID })
		return false, nil
	}
	next := slices.Delete(slices.Clone(s.pending), idx, idx+1)
	if err := s.local.SavePending(ctx, next); err != nil {
		s.pending = next
		return true, err
	}
	s.pending = next
	s.selection.Remove(id)
	return true, nil
}

// beginRoom switches to sync mode for room. The list stays empty until the first snapshot.
func (s *WardrobeService) beginRoom(room string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.room = room
	s.items = nil
	s.tombstones = make(map[string]bool)
	s.pruneSelectionLocked()
	return s.generation
}

// applySnapshot replaces the list with snap. Snapshots from an older room are ignored.
func (s *WardrobeService) applySnapshot(generation uint64, snap models.Snapshot) (models.SnapshotStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.room == "" {
		return models.SnapshotStats{}, false
	}

	reported := make(map[string]bool, len(snap.Items))
	next := make([]models.ClothingItem, 0, len(snap.Items))
	for _, item := range snap.Items {
		if item.RoomID != s.room {
			continue
		}
		reported[item.ID] = true
		if s.tombstones[item.ID] {
			continue
		}
		item.SyncStatus = models.SyncStatusSynced
		next = append(next, item)
	}
	for id := range s.tombstones {
		if !reported[id] {
			delete(s.tombstones, id)
		}
	}

	stats := diffItems(s.items, next)
	s.items = next
	s.pruneSelectionLocked()
	return stats, true
}

// endRoom leaves sync mode and restores the locally persisted items
func (s *WardrobeService) endRoom(ctx context.Context) error {
	items, err := s.local.LoadItems(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.room = ""
	s.items = items
	s.tombstones = make(map[string]bool)
	s.pruneSelectionLocked()
	if err != nil {
		return fmt.Errorf("failed to reload local wardrobe: %w", err)
	}
	return nil
}

func (s *WardrobeService) visibleLocked() itemList {
	if s.room == "" {
		return s.items
	}
	return append(slices.Clone(s.items), s.pendingForLocked(s.room)...)
}

func (s *WardrobeService) pendingForLocked(room string) []models.ClothingItem {
	if room == "" {
		return nil
	}
	var out []models.ClothingItem
	for _, item := range s.pending {
		if item.RoomID == room {
			out = append(out, item)
		}
	}
	return out
}

func (s *WardrobeService) selectedLocked() []models.ClothingItem {
	visible := s.visibleLocked()
	out := make([]models.ClothingItem, 0, s.selection.Len())
	for _, id := range s.selection.IDs() {
		if idx := indexOf(visible, id); idx >= 0 {
			out = append(out, visible[idx])
		}
	}
	return out
}

func (s *WardrobeService) pruneSelectionLocked() {
	visible := s.visibleLocked()
	s.selection.Retain(visible.contains)
}

type itemList []models.ClothingItem

func (l itemList) contains(id string) bool {
	return indexOf(l, id) >= 0
}

func indexOf(items []models.ClothingItem, id string) int {
	return slices.IndexFunc(items, func(item models.ClothingItem) bool { return item.ID == id })
}

func diffItems(prev, next []models.ClothingItem) models.SnapshotStats {
	before := make(map[string]bool, len(prev))
	for _, item := range prev {
		before[item.ID] = true
	}

	stats := models.SnapshotStats{Total: len(next)}
	for _, item := range next {
		if before[item.ID] {
			delete(before, item.ID)
		} else {
			stats.Added++
		}
	}
	stats.Removed = len(before)
	return stats
}
