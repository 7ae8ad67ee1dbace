package handlers

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// getUserID extracts the authenticated user id from context (set by the
// session middleware)
func getUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user not found in context")
	}
	return userID, nil
}

// queryInt parses an optional integer query parameter. Malformed values
// are logged and dropped rather than rejected.
func queryInt(c *fiber.Ctx, key string) *int {
	raw := c.Query(key, "")
	if raw == "" {
		return nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Search: dropping invalid %s=%q: %v", key, raw, err)
		return nil
	}
	return &val
}

// queryFloat parses an optional float query parameter, same drop policy
// as queryInt.
func queryFloat(c *fiber.Ctx, key string) *float64 {
	raw := c.Query(key, "")
	if raw == "" {
		return nil
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Search: dropping invalid %s=%q: %v", key, raw, err)
		return nil
	}
	return &val
}
