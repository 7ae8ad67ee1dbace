package handlers

import (
	"github.com/curiokeep/curiokeep/internal/services"
	"github.com/curiokeep/curiokeep/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ItemHandler handles item CRUD and bulk-assignment routes
type ItemHandler struct {
	DB *gorm.DB
}

// GetItems handles GET /collection/
// @Summary List all items of the owner
// @Tags Items
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collection/ [get]
func (h *ItemHandler) GetItems(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
	}

	items, err := services.ListItems(h.DB, userID)
	if err != nil {
		return utils.APIErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"collection": items})
}

// GetUnassignedItems handles GET /collection/unassigned
// @Summary List items without a collection
// @Tags Items
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collection/unassigned [get]
func (h *ItemHandler) GetUnassignedItems(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
	}

	items, err := services.ListUnassignedItems(h.DB, userID)
	if err != nil {
		return utils.APIErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"items": items})
}

// AddItem handles POST /collection/add
// @Summary Add an item
// @Tags Items
// @Accept json
// @Produce json
// @Param body body services.AddItemInput true "Item fields"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collection/add [post]
func (h *ItemHandler) AddItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
	}

	var in services.AddItemInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err.Error())
	}

	item, err := services.AddItem(h.DB, userID, in)
	if err != nil {
		return utils.APIErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Item added successfully",
		"item":    item,
	})
}

// UpdateItem handles PUT /collection/item/update/:id
// @Summary Partially update an item
// @Tags Items
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /collection/item/update/{id} [put]
func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
	}

	var patch services.ItemPatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err.Error())
	}

	item, err := services.UpdateItem(h.DB, userID, c.Params("id"), patch)
	if err != nil {
		return utils.APIErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Item updated successfully",
		"item":    item,
	})
}

// DeleteItem handles DELETE /collection/item/delete/:id
// @Summary Delete an item
// @Tags Items
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /collection/item/delete/{id} [delete]
func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
	}

	if err := services.DeleteItem(h.DB, userID, c.Params("id")); err != nil {
		return utils.APIErrorResponse(c, err)
	}

	return utils.MessageResponse(c, fiber.StatusOK, "Item deleted successfully")
}

// AssignItems handles POST /collection/assign. Assignments are applied
// independently; a mixed outcome returns 207.
// @Summary Assign items to collections in bulk
// @Tags Items
// @Accept json
// @Produce json
// @Success 200 {object} services.AssignResult
// @Success 207 {object} services.AssignResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /collection/assign [post]
func (h *ItemHandler) AssignItems(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
	}

	var in struct {
		Assignments []services.Assignment `json:"assignments"`
	}
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err.Error())
	}

	result, err := services.AssignItems(h.DB, userID, in.Assignments)
	if err != nil {
		return utils.APIErrorResponse(c, err)
	}

	status := fiber.StatusOK
	if result.ErrorCount > 0 {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(fiber.Map{
		"message":       "Processed assignments",
		"success_count": result.SuccessCount,
		"error_count":   result.ErrorCount,
		"errors":        result.Errors,
	})
}
