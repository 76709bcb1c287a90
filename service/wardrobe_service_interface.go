package service

import (
	"context"

	"armario-virtual/models"
)

// WardrobeServiceInterface defines the contract for wardrobe and selection operations
type WardrobeServiceInterface interface {
	Add(ctx context.Context, draft models.ItemDraft) (models.AddItemResponse, error)
	Remove(ctx context.Context, id string) error
	// List returns visible items in display order; an empty category returns everything
	List(category models.Category) []models.ClothingItem
	Get(id string) (models.ClothingItem, error)
	HasSource(sourceID string) bool
	Summaries() []models.ItemSummary

	Toggle(id string) (bool, error)
	ClearSelection()
	// ReplaceSelection keeps the ids that exist, in wardrobe order, and stores advice
	ReplaceSelection(ids []string, advice string) []models.ClothingItem
	Selection() models.SelectionResponse
	Selected() []models.ClothingItem

	Flush(ctx context.Context) (int, error)
	PendingCount() int
}
