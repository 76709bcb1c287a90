package models

// SyncState is the state of the remote synchronization channel
type SyncState string

const (
	SyncUnconfigured SyncState = "unconfigured"
	SyncConnecting   SyncState = "connecting"
	SyncSynced       SyncState = "synced"
	SyncError        SyncState = "error"
	SyncClosed       SyncState = "closed"
)

// Snapshot is the full filtered state of a room delivered by the remote collection.
// Err is set instead of Items when the subscription failed.
type Snapshot struct {
	Room  string
	Items []ClothingItem
	Err   error
}

// SnapshotStats describes how a snapshot changed the visible list
type SnapshotStats struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Total   int `json:"total"`
}

// SyncStatusResponse is the sync session as returned to the UI
type SyncStatusResponse struct {
	Room      string    `json:"room"`
	State     SyncState `json:"state"`
	LastError string    `json:"lastError,omitempty"`
	Pending   int       `json:"pending"`
	Snapshots int       `json:"snapshots"`
}

// JoinRoomRequest represents the request body for starting a sync session
type JoinRoomRequest struct {
	Room string `json:"room"`
}
