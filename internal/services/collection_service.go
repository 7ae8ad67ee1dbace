package services

import (
	"errors"
	"sort"
	"time"

	"github.com/curiokeep/curiokeep/internal/models"
	"github.com/curiokeep/curiokeep/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollectionPatch carries optional fields for a partial collection update.
// Absent fields leave existing values untouched.
type CollectionPatch struct {
	CollectionName *string `json:"collection_name"`
	Description    *string `json:"description"`
}

// CollectionSummary is a collection row joined with item statistics
type CollectionSummary struct {
	CollectionID   string     `json:"collection_id"`
	CollectionName string     `json:"collection_name"`
	Description    string     `json:"description"`
	ItemCount      int64      `json:"item_count"`
	OldestItem     *time.Time `json:"oldest_item,omitempty"`
	NewestItem     *time.Time `json:"newest_item,omitempty"`
}

// ListCollections returns all collections for the owner ordered by name.
// When the collections table has none, falls back to deriving distinct
// names from the items table (pre-migration data path).
func ListCollections(db *gorm.DB, userID string) ([]models.Collection, error) {
	collections := make([]models.Collection, 0)
	if err := db.Where("user_id = ?", userID).
		Order("collection_name").
		Find(&collections).Error; err != nil {
		return nil, types.NewUpstreamError("Failed to fetch collections", err)
	}

	if len(collections) > 0 {
		return collections, nil
	}

	var names []string
	if err := db.Model(&models.Item{}).
		Distinct("collection_name").
		Where("user_id = ? AND collection_name IS NOT NULL AND TRIM(collection_name) <> ''", userID).
		Order("collection_name").
		Pluck("collection_name", &names).Error; err != nil {
		return nil, types.NewUpstreamError("Failed to fetch collections", err)
	}

	collections = make([]models.Collection, 0, len(names))
	for _, name := range names {
		collections = append(collections, models.Collection{UserID: userID, CollectionName: name})
	}
	return collections, nil
}

// ListCollectionSummaries returns collections with item counts and the
// oldest/newest item timestamps, busiest collections first. The per-item
// timestamps are folded in Go; MIN/MAX expression columns do not scan
// into time values on every dialect.
func ListCollectionSummaries(db *gorm.DB, userID string) ([]CollectionSummary, error) {
	var collections []models.Collection
	if err := db.Where("user_id = ?", userID).Find(&collections).Error; err != nil {
		return nil, types.NewUpstreamError("Failed to get collections list", err)
	}

	var items []models.Item
	if err := db.Select("collection_id, created_at, updated_at").
		Where("user_id = ?", userID).
		Find(&items).Error; err != nil {
		return nil, types.NewUpstreamError("Failed to get collections list", err)
	}

	type itemStats struct {
		count  int64
		oldest time.Time
		newest time.Time
	}
	stats := make(map[string]*itemStats)
	for _, item := range items {
		s, ok := stats[item.CollectionID]
		if !ok {
			s = &itemStats{oldest: item.CreatedAt, newest: item.UpdatedAt}
			stats[item.CollectionID] = s
		}
		s.count++
		if item.CreatedAt.Before(s.oldest) {
			s.oldest = item.CreatedAt
		}
		if item.UpdatedAt.After(s.newest) {
			s.newest = item.UpdatedAt
		}
	}

	summaries := make([]CollectionSummary, 0, len(collections))
	for _, c := range collections {
		summary := CollectionSummary{
			CollectionID:   c.CollectionID,
			CollectionName: c.CollectionName,
			Description:    c.Description,
		}
		if s, ok := stats[c.CollectionID]; ok {
			summary.ItemCount = s.count
			oldest, newest := s.oldest, s.newest
			summary.OldestItem = &oldest
			summary.NewestItem = &newest
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].ItemCount != summaries[j].ItemCount {
			return summaries[i].ItemCount > summaries[j].ItemCount
		}
		return summaries[i].CollectionName < summaries[j].CollectionName
	})
	return summaries, nil
}

// CreateCollection persists a new collection after a case-insensitive
// per-owner duplicate check.
func CreateCollection(db *gorm.DB, userID, name, description string) (*models.Collection, error) {
	if name == "" {
		return nil, types.NewValidationError("Collection name is required")
	}

	var count int64
	if err := db.Model(&models.Collection{}).
		Where("user_id = ? AND LOWER(collection_name) = LOWER(?)", userID, name).
		Count(&count).Error; err != nil {
		return nil, types.NewUpstreamError("Failed to create collection", err)
	}
	if count > 0 {
		return nil, types.NewConflictError("Collection already exists")
	}

	collection := models.Collection{
		CollectionID:   uuid.NewString(),
		UserID:         userID,
		CollectionName: name,
		Description:    description,
	}
	if err := db.Create(&collection).Error; err != nil {
		return nil, types.NewUpstreamError("Failed to create collection", err)
	}
	return &collection, nil
}

// EditCollection applies the set fields of the patch. A rename propagates
// the new name onto every item referencing the collection so the
// denormalized pair stays consistent.
func EditCollection(db *gorm.DB, userID, collectionID string, patch CollectionPatch) (*models.Collection, error) {
	if patch.CollectionName == nil && patch.Description == nil {
		return nil, types.NewValidationError("No fields to update")
	}
	if patch.CollectionName != nil && *patch.CollectionName == "" {
		return nil, types.NewValidationError("Collection name cannot be empty")
	}

	var collection models.Collection
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ? AND user_id = ?", collectionID, userID).
			First(&collection).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFoundError("Collection not found")
			}
			return types.NewUpstreamError("Failed to update collection", err)
		}

		updates := map[string]interface{}{}
		if patch.CollectionName != nil {
			// Renames must not collide with another collection of the owner
			var count int64
			if err := tx.Model(&models.Collection{}).
				Where("user_id = ? AND LOWER(collection_name) = LOWER(?) AND collection_id <> ?",
					userID, *patch.CollectionName, collectionID).
				Count(&count).Error; err != nil {
				return types.NewUpstreamError("Failed to update collection", err)
			}
			if count > 0 {
				return types.NewConflictError("Collection already exists")
			}
			updates["collection_name"] = *patch.CollectionName
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}

		if err := tx.Model(&collection).Updates(updates).Error; err != nil {
			return types.NewUpstreamError("Failed to update collection", err)
		}

		if patch.CollectionName != nil {
			if err := tx.Model(&models.Item{}).
				Where("user_id = ? AND collection_id = ?", userID, collectionID).
				Update("collection_name", *patch.CollectionName).Error; err != nil {
				return types.NewUpstreamError("Failed to update collection", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

// DeleteCollection removes the collection row and clears the association
// on its items (soft-orphan). Items never keep a dangling reference.
func DeleteCollection(db *gorm.DB, userID, collectionID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var collection models.Collection
		if err := tx.Where("collection_id = ? AND user_id = ?", collectionID, userID).
			First(&collection).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFoundError("Collection not found")
			}
			return types.NewUpstreamError("Failed to delete collection", err)
		}

		clear := map[string]interface{}{"collection_id": "", "collection_name": ""}

		if err := tx.Model(&models.Item{}).
			Where("user_id = ? AND collection_id = ?", userID, collectionID).
			Updates(clear).Error; err != nil {
			return types.NewUpstreamError("Failed to delete collection", err)
		}

		// Legacy items reference collections by name only
		if err := tx.Model(&models.Item{}).
			Where("user_id = ? AND (collection_id IS NULL OR collection_id = '') AND collection_name = ?",
				userID, collection.CollectionName).
			Updates(clear).Error; err != nil {
			return types.NewUpstreamError("Failed to delete collection", err)
		}

		if err := tx.Delete(&collection).Error; err != nil {
			return types.NewUpstreamError("Failed to delete collection", err)
		}
		return nil
	})
}
