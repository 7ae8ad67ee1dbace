package services

import (
	"strings"

	"github.com/curiokeep/curiokeep/internal/models"
	"github.com/curiokeep/curiokeep/internal/types"
	"gorm.io/gorm"
)

// searchResultCap bounds how many rows a single search returns
const searchResultCap = 100

// SearchParams is a conjunctive item filter. Nil bounds are not applied.
type SearchParams struct {
	Query          string
	CollectionName string
	MinYear        *int
	MaxYear        *int
	MinValue       *float64
	MaxValue       *float64
}

// SearchItems runs a case-insensitive substring match over name,
// description and collection name, narrowed by the optional filters.
// Results come back most valuable first, capped at searchResultCap.
// Inverted ranges simply match nothing.
func SearchItems(db *gorm.DB, userID string, p SearchParams) ([]models.Item, error) {
	q := db.Where("user_id = ?", userID)

	if p.Query != "" {
		pattern := "%" + strings.ToLower(p.Query) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(collection_name) LIKE ?)",
			pattern, pattern, pattern)
	}
	if p.CollectionName != "" {
		q = q.Where("LOWER(collection_name) = LOWER(?)", p.CollectionName)
	}
	if p.MinYear != nil {
		q = q.Where("year >= ?", *p.MinYear)
	}
	if p.MaxYear != nil {
		q = q.Where("year <= ?", *p.MaxYear)
	}
	if p.MinValue != nil {
		q = q.Where("value >= ?", *p.MinValue)
	}
	if p.MaxValue != nil {
		q = q.Where("value <= ?", *p.MaxValue)
	}

	items := make([]models.Item, 0)
	if err := q.Order("value DESC").Limit(searchResultCap).Find(&items).Error; err != nil {
		return nil, types.NewUpstreamError("Search failed", err)
	}
	return items, nil
}
