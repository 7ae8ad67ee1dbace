package services

import (
	"sort"

	"github.com/curiokeep/curiokeep/internal/models"
	"github.com/curiokeep/curiokeep/internal/types"
	"gorm.io/gorm"
)

// topItemCount bounds the "most valuable items" list
const topItemCount = 5

// CollectionStat is a per-collection item count and summed value
type CollectionStat struct {
	CollectionName string  `json:"collection_name"`
	ItemCount      int64   `json:"item_count"`
	TotalValue     float64 `json:"total_value"`
}

// TagStat counts the items carrying a tag
type TagStat struct {
	Tag        string `json:"tag"`
	UsageCount int    `json:"usage_count"`
}

// EvolutionPoint is the cumulative collection value at the end of a month
type EvolutionPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// AnalyticsResult is the full analytics payload
type AnalyticsResult struct {
	TotalItems  int64            `json:"total_items"`
	TotalValue  float64          `json:"total_value"`
	Collections []CollectionStat `json:"collections"`
	TopItems    []models.Item    `json:"top_items"`
	Tags        []TagStat        `json:"tags"`
	Evolution   []EvolutionPoint `json:"evolution"`
}

// Analytics aggregates the owner's collection. The evolution series is
// derived from real item timestamps; with no items it is empty, never a
// synthesized curve. topCollection optionally narrows the top-items list.
func Analytics(db *gorm.DB, userID, topCollection string) (*AnalyticsResult, error) {
	result := &AnalyticsResult{
		Collections: make([]CollectionStat, 0),
		TopItems:    make([]models.Item, 0),
		Tags:        make([]TagStat, 0),
		Evolution:   make([]EvolutionPoint, 0),
	}

	if err := db.Model(&models.Item{}).
		Where("user_id = ?", userID).
		Count(&result.TotalItems).Error; err != nil {
		return nil, types.NewUpstreamError("Failed to get analytics", err)
	}

	if err := db.Model(&models.Item{}).
		Select("collection_name, COUNT(*) AS item_count, COALESCE(SUM(value), 0) AS total_value").
		Where("user_id = ? AND collection_name IS NOT NULL AND TRIM(collection_name) <> ''", userID).
		Group("collection_name").
		Order("item_count DESC").
		Scan(&result.Collections).Error; err != nil {
		return nil, types.NewUpstreamError("Failed to get analytics", err)
	}

	top := db.Where("user_id = ?", userID)
	if topCollection != "" {
		top = top.Where("LOWER(collection_name) = LOWER(?)", topCollection)
	}
	if err := top.Order("value DESC").Limit(topItemCount).
		Find(&result.TopItems).Error; err != nil {
		return nil, types.NewUpstreamError("Failed to get analytics", err)
	}

	// Tag usage and the evolution series need the raw rows: tags live in
	// a JSON column there is no portable SQL over, and the cumulative sum
	// is a single in-order pass anyway.
	var rows []models.Item
	if err := db.Select("tags, value, created_at").
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return nil, types.NewUpstreamError("Failed to get analytics", err)
	}

	tagCounts := make(map[string]int)
	monthTotals := make(map[string]float64)
	for _, row := range rows {
		for _, tag := range row.Tags {
			tagCounts[tag]++
		}
		result.TotalValue += row.Value
		monthTotals[row.CreatedAt.UTC().Format("2006-01")] += row.Value
	}

	for tag, count := range tagCounts {
		result.Tags = append(result.Tags, TagStat{Tag: tag, UsageCount: count})
	}
	sort.Slice(result.Tags, func(i, j int) bool {
		if result.Tags[i].UsageCount != result.Tags[j].UsageCount {
			return result.Tags[i].UsageCount > result.Tags[j].UsageCount
		}
		return result.Tags[i].Tag < result.Tags[j].Tag
	})

	months := make([]string, 0, len(monthTotals))
	for month := range monthTotals {
		months = append(months, month)
	}
	sort.Strings(months)

	var running float64
	for _, month := range months {
		running += monthTotals[month]
		result.Evolution = append(result.Evolution, EvolutionPoint{Month: month, Value: running})
	}

	return result, nil
}
