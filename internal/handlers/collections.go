package handlers

import (
	"github.com/curiokeep/curiokeep/internal/services"
	"github.com/curiokeep/curiokeep/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CollectionHandler handles collection CRUD routes
type CollectionHandler struct {
	DB *gorm.DB
}

// GetCollections handles GET /collection/collections
// @Summary List the owner's collections
// @Tags Collections
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collection/collections [get]
func (h *CollectionHandler) GetCollections(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
	}

	collections, err := services.ListCollections(h.DB, userID)
	if err != nil {
		return utils.APIErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"collections": collections})
}

// GetCollectionsList handles GET /collection/collections-list
// @Summary List collections with item statistics
// @Tags Collections
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collection/collections-list [get]
func (h *CollectionHandler) GetCollectionsList(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
	}

	summaries, err := services.ListCollectionSummaries(h.DB, userID)
	if err != nil {
		return utils.APIErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"collections": summaries})
}

// CreateCollection handles POST /collection/create
// @Summary Create a collection
// @Tags Collections
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /collection/create [post]
func (h *CollectionHandler) CreateCollection(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
	}

	var in struct {
		CollectionName string `json:"collection_name"`
		Description    string `json:"description"`
	}
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err.Error())
	}

	collection, err := services.CreateCollection(h.DB, userID, in.CollectionName, in.Description)
	if err != nil {
		return utils.APIErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Collection created successfully",
		"collection": collection,
	})
}

// EditCollection handles PUT /collection/edit/:id
// @Summary Partially update a collection
// @Tags Collections
// @Accept json
// @Produce json
// @Param id path string true "Collection ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /collection/edit/{id} [put]
func (h *CollectionHandler) EditCollection(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
	}

	var patch services.CollectionPatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err.Error())
	}

	collection, err := services.EditCollection(h.DB, userID, c.Params("id"), patch)
	if err != nil {
		return utils.APIErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":    "Collection updated successfully",
		"collection": collection,
	})
}

// DeleteCollection handles DELETE /collection/delete/:id. Items of the
// collection are unassigned, not removed.
// @Summary Delete a collection
// @Tags Collections
// @Produce json
// @Param id path string true "Collection ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /collection/delete/{id} [delete]
func (h *CollectionHandler) DeleteCollection(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
	}

	if err := services.DeleteCollection(h.DB, userID, c.Params("id")); err != nil {
		return utils.APIErrorResponse(c, err)
	}

	return utils.MessageResponse(c, fiber.StatusOK, "Collection deleted and its items unassigned")
}
