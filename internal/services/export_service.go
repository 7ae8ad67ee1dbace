package services

import (
	"bytes"
	"encoding/csv"
	"strings"
	"time"

	"github.com/curiokeep/curiokeep/internal/models"
	"github.com/curiokeep/curiokeep/internal/types"
	"gorm.io/gorm"
)

// exportHeader is the fixed CSV column order
var exportHeader = []string{
	"Name", "Description", "Collection", "Image URL", "Tags", "Created At", "Updated At",
}

// ExportCollectionCSV renders every item of the named collection as CSV,
// newest first. Tags are flattened with a comma-space join.
func ExportCollectionCSV(db *gorm.DB, userID, collectionName string) ([]byte, error) {
	var items []models.Item
	if err := db.Where("user_id = ? AND collection_name = ?", userID, collectionName).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, types.NewUpstreamError("Failed to export collection", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, types.NewUpstreamError("Failed to export collection", err)
	}
	for _, item := range items {
		record := []string{
			item.Name,
			item.Description,
			item.CollectionName,
			item.ImageURL,
			strings.Join(item.Tags, ", "),
			item.CreatedAt.UTC().Format(time.RFC3339),
			item.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, types.NewUpstreamError("Failed to export collection", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, types.NewUpstreamError("Failed to export collection", err)
	}
	return buf.Bytes(), nil
}
