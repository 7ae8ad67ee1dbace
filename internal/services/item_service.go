package services

import (
	"errors"
	"fmt"

	"github.com/curiokeep/curiokeep/internal/models"
	"github.com/curiokeep/curiokeep/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCollectionName is the bucket items land in when added without
// any collection reference.
const DefaultCollectionName = "Uncategorized"

// AddItemInput is the payload for creating an item. Value and Year accept
// JSON numbers or numeric strings; anything else fails body parsing.
type AddItemInput struct {
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	ImageURL       string                 `json:"image_url"`
	Condition      string                 `json:"condition"`
	CollectionID   string                 `json:"collection_id"`
	CollectionName string                 `json:"collection_name"`
	Tags           types.FlexList[string] `json:"tags"`
	Value          types.FlexFloat64      `json:"value"`
	Year           types.FlexInt          `json:"year"`
}

// ItemPatch carries optional fields for a partial item update
type ItemPatch struct {
	Name           *string                 `json:"name"`
	Description    *string                 `json:"description"`
	ImageURL       *string                 `json:"image_url"`
	Condition      *string                 `json:"condition"`
	CollectionID   *string                 `json:"collection_id"`
	CollectionName *string                 `json:"collection_name"`
	Tags           *types.FlexList[string] `json:"tags"`
	Value          *types.FlexFloat64      `json:"value"`
	Year           *types.FlexInt          `json:"year"`
}

func (p ItemPatch) empty() bool {
	return p.Name == nil && p.Description == nil && p.ImageURL == nil &&
		p.Condition == nil && p.CollectionID == nil && p.CollectionName == nil &&
		p.Tags == nil && p.Value == nil && p.Year == nil
}

// Assignment maps one item onto a collection by id and/or name
type Assignment struct {
	ItemID         string  `json:"item_id"`
	CollectionID   *string `json:"collection_id"`
	CollectionName *string `json:"collection_name"`
}

// AssignResult aggregates the per-assignment outcomes of a bulk assign
type AssignResult struct {
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors,omitempty"`
}

// ListItems returns every item owned by userID
func ListItems(db *gorm.DB, userID string) ([]models.Item, error) {
	items := make([]models.Item, 0)
	if err := db.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, types.NewUpstreamError("Failed to fetch collection", err)
	}
	return items, nil
}

// ListUnassignedItems returns items whose collection name is null or
// blank after trimming.
func ListUnassignedItems(db *gorm.DB, userID string) ([]models.Item, error) {
	items := make([]models.Item, 0)
	if err := db.
		Where("user_id = ? AND (collection_name IS NULL OR TRIM(collection_name) = '')", userID).
		Find(&items).Error; err != nil {
		return nil, types.NewUpstreamError("Failed to fetch unassigned items", err)
	}
	return items, nil
}

// resolveCollection pins down a consistent (id, name) pair for an item:
// lookup by id first, then by name (created when absent), then the
// default bucket. Runs inside the caller's transaction.
func resolveCollection(tx *gorm.DB, userID, collectionID, collectionName string) (string, string, error) {
	if collectionID != "" {
		var collection models.Collection
		err := tx.Where("collection_id = ? AND user_id = ?", collectionID, userID).
			First(&collection).Error
		if err == nil {
			return collection.CollectionID, collection.CollectionName, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", err
		}
		// Unknown id, fall through to the name
	}

	name := collectionName
	if name == "" {
		name = DefaultCollectionName
	}

	var collection models.Collection
	err := tx.Where("user_id = ? AND LOWER(collection_name) = LOWER(?)", userID, name).
		First(&collection).Error
	if err == nil {
		return collection.CollectionID, collection.CollectionName, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", err
	}

	collection = models.Collection{
		CollectionID:   uuid.NewString(),
		UserID:         userID,
		CollectionName: name,
	}
	if err := tx.Create(&collection).Error; err != nil {
		return "", "", err
	}
	return collection.CollectionID, collection.CollectionName, nil
}

// AddItem creates an item, resolving or creating its collection so the
// item never ends up with a dangling or missing reference.
func AddItem(db *gorm.DB, userID string, in AddItemInput) (*models.Item, error) {
	if in.Name == "" {
		return nil, types.NewValidationError("Name is required")
	}

	item := models.Item{
		ItemID:      uuid.NewString(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Condition:   in.Condition,
		Tags:        models.TagList(in.Tags.Slice()),
		Value:       in.Value.Float64(),
		Year:        in.Year.Int(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		id, name, err := resolveCollection(tx, userID, in.CollectionID, in.CollectionName)
		if err != nil {
			return types.NewUpstreamError("Failed to add item", err)
		}
		item.CollectionID = id
		item.CollectionName = name

		if err := tx.Create(&item).Error; err != nil {
			return types.NewUpstreamError("Failed to add item", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem applies the set fields of the patch to an owned item.
// Changing either collection field re-resolves the id/name pair; an
// explicitly blank collection_name unassigns the item.
func UpdateItem(db *gorm.DB, userID, itemID string, patch ItemPatch) (*models.Item, error) {
	if patch.empty() {
		return nil, types.NewValidationError("No fields to update")
	}

	var item models.Item
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ? AND user_id = ?", itemID, userID).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFoundError("Item not found")
			}
			return types.NewUpstreamError("Failed to update item", err)
		}

		updates := map[string]interface{}{}
		if patch.Name != nil {
			updates["name"] = *patch.Name
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}
		if patch.ImageURL != nil {
			updates["image_url"] = *patch.ImageURL
		}
		if patch.Condition != nil {
			updates["condition"] = *patch.Condition
		}
		if patch.Tags != nil {
			updates["tags"] = models.TagList(patch.Tags.Slice())
		}
		if patch.Value != nil {
			updates["value"] = patch.Value.Float64()
		}
		if patch.Year != nil {
			updates["year"] = patch.Year.Int()
		}

		if patch.CollectionID != nil || patch.CollectionName != nil {
			unassign := patch.CollectionName != nil && *patch.CollectionName == "" &&
				(patch.CollectionID == nil || *patch.CollectionID == "")
			if unassign {
				updates["collection_id"] = ""
				updates["collection_name"] = ""
			} else {
				var wantID, wantName string
				if patch.CollectionID != nil {
					wantID = *patch.CollectionID
				}
				if patch.CollectionName != nil {
					wantName = *patch.CollectionName
				}
				id, name, err := resolveCollection(tx, userID, wantID, wantName)
				if err != nil {
					return types.NewUpstreamError("Failed to update item", err)
				}
				updates["collection_id"] = id
				updates["collection_name"] = name
			}
		}

		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return types.NewUpstreamError("Failed to update item", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes an owned item. Deleting an absent item is not an
// error; the caller cannot tell the two outcomes apart.
func DeleteItem(db *gorm.DB, userID, itemID string) error {
	if err := db.Where("item_id = ? AND user_id = ?", itemID, userID).
		Delete(&models.Item{}).Error; err != nil {
		return types.NewUpstreamError("Failed to delete item", err)
	}
	return nil
}

// AssignItems applies each assignment independently and reports the
// aggregate outcome. There is no rollback across assignments.
func AssignItems(db *gorm.DB, userID string, assignments []Assignment) (*AssignResult, error) {
	if len(assignments) == 0 {
		return nil, types.NewValidationError("No assignments provided")
	}

	result := &AssignResult{Errors: make([]string, 0)}
	for _, a := range assignments {
		if a.ItemID == "" {
			result.ErrorCount++
			result.Errors = append(result.Errors, "Missing item_id for assignment")
			continue
		}
		if a.CollectionID == nil && a.CollectionName == nil {
			result.ErrorCount++
			result.Errors = append(result.Errors,
				fmt.Sprintf("Missing collection_id or collection_name for item %s", a.ItemID))
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var item models.Item
			if err := tx.Select("item_id").
				Where("item_id = ? AND user_id = ?", a.ItemID, userID).
				First(&item).Error; err != nil {
				return err
			}

			var wantID, wantName string
			if a.CollectionID != nil {
				wantID = *a.CollectionID
			}
			if a.CollectionName != nil {
				wantName = *a.CollectionName
			}
			id, name, err := resolveCollection(tx, userID, wantID, wantName)
			if err != nil {
				return err
			}

			return tx.Model(&models.Item{}).
				Where("item_id = ? AND user_id = ?", a.ItemID, userID).
				Updates(map[string]interface{}{"collection_id": id, "collection_name": name}).Error
		})
		if err != nil {
			result.ErrorCount++
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Errors = append(result.Errors,
					fmt.Sprintf("Item %s not found or does not belong to user", a.ItemID))
			} else {
				result.Errors = append(result.Errors,
					fmt.Sprintf("Error processing item %s: %v", a.ItemID, err))
			}
			continue
		}
		result.SuccessCount++
	}

	return result, nil
}
