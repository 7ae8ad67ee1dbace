package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/curiokeep/curiokeep/internal/database"
	"github.com/curiokeep/curiokeep/internal/handlers"
	"github.com/curiokeep/curiokeep/internal/middleware"
	"github.com/curiokeep/curiokeep/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// setupApp builds a Fiber app with the full route table and session auth,
// backed by an in-memory database.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db := setupTestDB(t)

	app := fiber.New()
	sessions := session.New(session.Config{
		KeyLookup:      "cookie:user_session",
		CookieHTTPOnly: true,
	})
	revoked := services.NewMemoryTokenStore()

	authHandler := &handlers.AuthHandler{DB: db, Sessions: sessions, Revoked: revoked}
	auth := app.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Get("/logout", authHandler.Logout)
	auth.Post("/request-reset", authHandler.RequestReset)
	auth.Post("/confirm-reset", authHandler.ConfirmReset)

	collectionHandler := &handlers.CollectionHandler{DB: db}
	itemHandler := &handlers.ItemHandler{DB: db}
	insightsHandler := &handlers.InsightsHandler{DB: db}

	collection := app.Group("/collection", middleware.RequireUser(sessions, revoked))
	collection.Get("/", itemHandler.GetItems)
	collection.Get("/unassigned", itemHandler.GetUnassignedItems)
	collection.Get("/collections", collectionHandler.GetCollections)
	collection.Get("/collections-list", collectionHandler.GetCollectionsList)
	collection.Post("/create", collectionHandler.CreateCollection)
	collection.Put("/edit/:id", collectionHandler.EditCollection)
	collection.Delete("/delete/:id", collectionHandler.DeleteCollection)
	collection.Post("/add", itemHandler.AddItem)
	collection.Put("/item/update/:id", itemHandler.UpdateItem)
	collection.Delete("/item/delete/:id", itemHandler.DeleteItem)
	collection.Post("/assign", itemHandler.AssignItems)
	collection.Get("/search", insightsHandler.Search)
	collection.Get("/analytics", insightsHandler.Analytics)
	collection.Get("/export/:collection_name", insightsHandler.Export)

	return app, db
}

// doRequest executes an optionally-authenticated JSON request against the app
func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, cookie string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", "user_session="+cookie)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	return resp
}

// decodeBody parses a JSON response body into a generic map
func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return result
}

// sessionCookie extracts the session cookie value from a login response
func sessionCookie(t *testing.T, resp *http.Response) string {
	t.Helper()

	for _, c := range resp.Cookies() {
		if c.Name == "user_session" {
			return c.Value
		}
	}
	t.Fatal("Expected a user_session cookie in the response")
	return ""
}

// registerAndLogin creates an account and returns its session cookie
func registerAndLogin(t *testing.T, app *fiber.App, username, email, password string) string {
	t.Helper()

	resp := doRequest(t, app, "POST", "/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, "")
	if resp.StatusCode != 201 {
		t.Fatalf("Expected status 201 from signup, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, "POST", "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200 from login, got %d", resp.StatusCode)
	}

	return sessionCookie(t, resp)
}

// addItem creates an item for the logged-in user and returns its response body
func addItem(t *testing.T, app *fiber.App, cookie string, fields map[string]interface{}) map[string]interface{} {
	t.Helper()

	resp := doRequest(t, app, "POST", "/collection/add", fields, cookie)
	if resp.StatusCode != 201 {
		t.Fatalf("Expected status 201 from add item, got %d", resp.StatusCode)
	}
	return decodeBody(t, resp)
}
