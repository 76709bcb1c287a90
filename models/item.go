package models

import "time"

// SyncStatus records where an item currently lives
type SyncStatus string

const (
	// SyncStatusLocal is an item persisted only in local storage
	SyncStatusLocal SyncStatus = "local"
	// SyncStatusPending is an item whose remote write failed and is queued for retry
	SyncStatusPending SyncStatus = "pending"
	// SyncStatusSynced is an item acknowledged by the remote collection
	SyncStatusSynced SyncStatus = "synced"
)

// ClothingItem represents a garment in the wardrobe.
// Items are immutable once created; there is no edit operation.
type ClothingItem struct {
	ID         string     `json:"id"`
	Image      []byte     `json:"image"` // encoded JPEG payload
	Category   Category   `json:"category"`
	Name       string     `json:"name"`
	RoomID     string     `json:"roomId,omitempty"`
	SourceID   string     `json:"sourceId,omitempty"` // Drive file id when imported
	SyncStatus SyncStatus `json:"syncStatus"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// ItemDraft is the user-supplied part of a new ClothingItem
type ItemDraft struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Image    []byte   `json:"image"`
	SourceID string   `json:"sourceId,omitempty"`
}

// ItemSummary is the image-less view of an item sent to the recommendation model
type ItemSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// Summary returns the image-less view of the item
func (i ClothingItem) Summary() ItemSummary {
	return ItemSummary{ID: i.ID, Name: i.Name, Category: i.Category}
}

// AddItemResponse is returned after adding an item.
// Listed is false in sync mode, where the item appears with the next snapshot.
type AddItemResponse struct {
	Item   ClothingItem `json:"item"`
	Listed bool         `json:"listed"`
}

// CreateItemRequest represents the request body for adding an item.
// Image is base64 or a data URL as produced by a browser file reader.
type CreateItemRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Image    string `json:"image"`
}
