package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"armario-virtual/models"
	"armario-virtual/repository"
)

// SyncSessionInterface defines the contract for the remote sync lifecycle
type SyncSessionInterface interface {
	Resume(ctx context.Context) error
	Join(ctx context.Context, room string) error
	Leave(ctx context.Context) error
	Flush(ctx context.Context) (int, error)
	Status() models.SyncStatusResponse
	Close()
}

// SyncSession keeps the wardrobe list mirrored to one remote room.
//
//	unconfigured -> connecting -> synced <-> error
//	any -> closed -> unconfigured (Leave)
//
// At most one subscription is live. Joining another room cancels the previous one
// before the new one starts.
// Implements SyncSessionInterface
type SyncSession struct {
	wardrobe *WardrobeService
	remote   repository.RemoteCollectionInterface
	local    repository.LocalRepositoryInterface
	logger   *log.Logger

	// lifecycle serializes Join, Leave and Close; the run loop never takes it
	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}

	mu           sync.Mutex
	state        models.SyncState
	room         string
	lastErr      error
	snapshots    int
	onTransition func(from, to models.SyncState)
}

// NewSyncSession creates a new SyncSession in the unconfigured state
func NewSyncSession(wardrobe *WardrobeService, remote repository.RemoteCollectionInterface, local repository.LocalRepositoryInterface, logger *log.Logger) *SyncSession {
	return &SyncSession{
		wardrobe: wardrobe,
		remote:   remote,
		local:    local,
		logger:   logger,
		state:    models.SyncUnconfigured,
	}
}

// Ensure SyncSession implements SyncSessionInterface
var _ SyncSessionInterface = (*SyncSession)(nil)

// OnTransition registers fn to be called on every state change
func (s *SyncSession) OnTransition(fn func(from, to models.SyncState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTransition = fn
}

// Resume rejoins the room persisted by a previous run, if any
func (s *SyncSession) Resume(ctx context.Context) error {
	room, err := s.local.LoadRoom(ctx)
	if err != nil {
		return err
	}
	if room == "" {
		return nil
	}
	s.logger.Info("🔁 resuming sync session", "room", room)
	return s.Join(ctx, room)
}

// Join starts mirroring room. The room is persisted so a restart reconnects.
// A failed subscribe leaves the session in the error state and returns the error.
func (s *SyncSession) Join(ctx context.Context, room string) error {
	room = strings.TrimSpace(room)
	if room == "" {
		return fmt.Errorf("%w: room is required", models.ErrInvalidInput)
	}
	if s.remote == nil {
		return fmt.Errorf("%w: no remote collection configured", models.ErrNetwork)
	}

	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	already := s.room == room && s.state != models.SyncError && s.cancel != nil
	s.mu.Unlock()
	if already {
		return nil
	}

	// persist first so a failed save leaves the current subscription untouched
	if err := s.local.SaveRoom(ctx, room); err != nil {
		s.logger.Error("❌ could not persist room, staying in current session", "room", room, "err", err)
		return err
	}

	s.stopLocked()

	generation := s.wardrobe.beginRoom(room)

	s.mu.Lock()
	s.room = room
	s.snapshots = 0
	s.lastErr = nil
	s.mu.Unlock()
	s.transition(models.SyncConnecting)

	subCtx, cancel := context.WithCancel(context.Background())
	ch, err := s.remote.Subscribe(subCtx, room)
	if err != nil {
		cancel()
		s.fail(err)
		return err
	}

	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(subCtx, generation, ch, s.done)

	s.logger.Info("🔗 sync session started", "room", room)
	return nil
}

// Leave stops mirroring, forgets the room and restores the local wardrobe
func (s *SyncSession) Leave(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.stopLocked()
	s.transition(models.SyncClosed)

	saveErr := s.local.SaveRoom(ctx, "")
	loadErr := s.wardrobe.endRoom(ctx)

	s.mu.Lock()
	room := s.room
	s.room = ""
	s.lastErr = nil
	s.snapshots = 0
	s.mu.Unlock()
	s.transition(models.SyncUnconfigured)

	s.logger.Info("👋 sync session ended", "room", room)
	if saveErr != nil {
		return saveErr
	}
	return loadErr
}

// Flush retries queued uploads now
func (s *SyncSession) Flush(ctx context.Context) (int, error) {
	return s.wardrobe.Flush(ctx)
}

// Close stops the subscription but keeps the persisted room for the next start
func (s *SyncSession) Close() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	s.stopLocked()
}

// Status returns the current session state
func (s *SyncSession) Status() models.SyncStatusResponse {
	pending := s.wardrobe.PendingCount()

	s.mu.Lock()
	defer s.mu.Unlock()

	status := models.SyncStatusResponse{
		Room:      s.room,
		State:     s.state,
		Pending:   pending,
		Snapshots: s.snapshots,
	}
	if s.lastErr != nil {
		status.LastError = s.lastErr.Error()
	}
	return status
}

// stopLocked cancels the live subscription and waits for its loop to exit.
// Caller holds lifecycle.
func (s *SyncSession) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

func (s *SyncSession) run(ctx context.Context, generation uint64, ch <-chan models.Snapshot, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-ch:
			if !ok {
				if ctx.Err() == nil {
					s.fail(fmt.Errorf("%w: subscription closed by remote", models.ErrNetwork))
				}
				return
			}
			s.handle(ctx, generation, snap)
		}
	}
}

func (s *SyncSession) handle(ctx context.Context, generation uint64, snap models.Snapshot) {
	if snap.Err != nil {
		s.fail(snap.Err)
		return
	}

	stats, applied := s.wardrobe.applySnapshot(generation, snap)
	if !applied {
		return
	}

	s.mu.Lock()
	s.snapshots++
	s.lastErr = nil
	s.mu.Unlock()
	s.transition(models.SyncSynced)

	s.logger.Debug("📥 snapshot applied", "added", stats.Added, "removed", stats.Removed, "total", stats.Total)

	if s.wardrobe.PendingCount() == 0 {
		return
	}
	if n, err := s.wardrobe.Flush(ctx); err != nil {
		s.logger.Warn("⚠️  pending uploads still failing", "uploaded", n, "err", err)
	}
}

func (s *SyncSession) fail(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.logger.Error("❌ sync error", "err", err)
	s.transition(models.SyncError)
}

func (s *SyncSession) transition(to models.SyncState) {
	s.mu.Lock()
	from := s.state
	s.state = to
	hook := s.onTransition
	s.mu.Unlock()

	if hook != nil && from != to {
		hook(from, to)
	}
}
