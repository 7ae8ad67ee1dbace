package handlers

import (
	"fmt"
	"net/url"

	"github.com/curiokeep/curiokeep/internal/services"
	"github.com/curiokeep/curiokeep/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// InsightsHandler handles search, analytics and export routes
type InsightsHandler struct {
	DB *gorm.DB
}

// Search handles GET /collection/search
// @Summary Search items
// @Tags Insights
// @Produce json
// @Param query query string false "Substring to match on name, description and collection name"
// @Param collection_name query string false "Exact collection filter"
// @Param min_year query int false "Inclusive lower year bound"
// @Param max_year query int false "Inclusive upper year bound"
// @Param min_value query number false "Inclusive lower value bound"
// @Param max_value query number false "Inclusive upper value bound"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collection/search [get]
func (h *InsightsHandler) Search(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
	}

	params := services.SearchParams{
		Query:          c.Query("query", ""),
		CollectionName: c.Query("collection_name", ""),
		MinYear:        queryInt(c, "min_year"),
		MaxYear:        queryInt(c, "max_year"),
		MinValue:       queryFloat(c, "min_value"),
		MaxValue:       queryFloat(c, "max_value"),
	}

	items, err := services.SearchItems(h.DB, userID, params)
	if err != nil {
		return utils.APIErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"items": items})
}

// Analytics handles GET /collection/analytics
// @Summary Aggregate collection analytics
// @Tags Insights
// @Produce json
// @Param collection query string false "Narrow the top-items list to one collection"
// @Success 200 {object} services.AnalyticsResult
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collection/analytics [get]
func (h *InsightsHandler) Analytics(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
	}

	result, err := services.Analytics(h.DB, userID, c.Query("collection", ""))
	if err != nil {
		return utils.APIErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// Export handles GET /collection/export/:collection_name
// @Summary Export a collection as CSV
// @Tags Insights
// @Produce text/csv
// @Param collection_name path string true "Collection name"
// @Success 200 {string} string "CSV payload"
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collection/export/{collection_name} [get]
func (h *InsightsHandler) Export(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
	}

	collectionName := c.Params("collection_name")
	if decoded, err := url.PathUnescape(collectionName); err == nil {
		collectionName = decoded
	}

	data, err := services.ExportCollectionCSV(h.DB, userID, collectionName)
	if err != nil {
		return utils.APIErrorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s_export.csv", collectionName))
	return c.Status(fiber.StatusOK).Send(data)
}
