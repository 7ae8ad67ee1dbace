package database_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/curiokeep/curiokeep/internal/config"
	"github.com/curiokeep/curiokeep/internal/database"
	"github.com/curiokeep/curiokeep/internal/services"
	_ "github.com/go-sql-driver/mysql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// waitForDB polls the raw driver until the server accepts connections;
// the container log line fires before the port is reliably usable.
func waitForDB(t *testing.T, cfg *config.Config) {
	t.Helper()

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBDatabase)
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		raw, err := sql.Open("mysql", dsn)
		if err == nil {
			err = raw.Ping()
			raw.Close()
			if err == nil {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatal("Database never became ready")
}

// dbImage resolves the container image, defaulting to a recent MariaDB
func dbImage() string {
	if img := os.Getenv("DB_IMAGE"); img != "" {
		return img
	}
	return "mariadb:11"
}

// TestWithMariaDB tests the service against a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start MariaDB container
	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImage(),
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.Config{
		DBType:            "mysql",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	waitForDB(t, cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Run("AccountLifecycle", func(t *testing.T) {
		testAccountLifecycle(t, db)
	})

	t.Run("CollectionAndItems", func(t *testing.T) {
		testCollectionAndItems(t, db)
	})

	t.Run("HealthCheck", func(t *testing.T) {
		result := services.HealthCheck(cfg, db)
		if result.Status != "healthy" {
			t.Errorf("Expected healthy, got %s (%s)", result.Status, result.ErrorMessage)
		}
		if result.Database != "ok" {
			t.Errorf("Expected database ok, got %s", result.Database)
		}
	})
}

// testAccountLifecycle tests signup, login and password reset on a real
// database
func testAccountLifecycle(t *testing.T, db *gorm.DB) {
	user, err := services.Signup(db, services.SignupInput{
		Username: "it-alice",
		Email:    "it-alice@example.com",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("Failed to sign up: %v", err)
	}
	if user.UserID == "" {
		t.Fatal("Expected a generated user id")
	}

	// Case-insensitive duplicate detection relies on real collation
	if _, err := services.Signup(db, services.SignupInput{
		Username: "IT-ALICE",
		Email:    "other@example.com",
		Password: "s3cret",
	}); err == nil {
		t.Error("Expected a conflict for the duplicate username")
	}

	if _, err := services.Login(db, "it-alice", "s3cret"); err != nil {
		t.Errorf("Failed to log in: %v", err)
	}
	if _, err := services.Login(db, "it-alice", "wrong"); err == nil {
		t.Error("Expected an error for a wrong password")
	}

	token, err := services.RequestPasswordReset(db, "it-alice@example.com")
	if err != nil {
		t.Fatalf("Failed to request a reset: %v", err)
	}
	if err := services.ConfirmPasswordReset(db, token, "newpass"); err != nil {
		t.Fatalf("Failed to confirm the reset: %v", err)
	}
	if _, err := services.Login(db, "it-alice", "newpass"); err != nil {
		t.Errorf("Failed to log in with the new password: %v", err)
	}
}

// testCollectionAndItems tests the denormalized collection/item pair and
// the JSON tags column on a real database
func testCollectionAndItems(t *testing.T, db *gorm.DB) {
	user, err := services.Signup(db, services.SignupInput{
		Username: "it-bob",
		Email:    "it-bob@example.com",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("Failed to sign up: %v", err)
	}

	collection, err := services.CreateCollection(db, user.UserID, "Vinyl", "records")
	if err != nil {
		t.Fatalf("Failed to create a collection: %v", err)
	}

	item, err := services.AddItem(db, user.UserID, services.AddItemInput{
		Name:           "Abbey Road",
		CollectionName: "Vinyl",
		Tags:           []string{"music", "rock"},
		Value:          120,
		Year:           1969,
	})
	if err != nil {
		t.Fatalf("Failed to add an item: %v", err)
	}
	if item.CollectionID != collection.CollectionID {
		t.Errorf("Expected the item to resolve to the existing collection")
	}

	// Tags survive the JSON column round trip
	items, err := services.ListItems(db, user.UserID)
	if err != nil {
		t.Fatalf("Failed to list items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if len(items[0].Tags) != 2 || items[0].Tags[0] != "music" {
		t.Errorf("Expected tags [music rock], got %v", items[0].Tags)
	}

	// Deleting the collection unassigns the item
	if err := services.DeleteCollection(db, user.UserID, collection.CollectionID); err != nil {
		t.Fatalf("Failed to delete the collection: %v", err)
	}
	unassigned, err := services.ListUnassignedItems(db, user.UserID)
	if err != nil {
		t.Fatalf("Failed to list unassigned items: %v", err)
	}
	if len(unassigned) != 1 {
		t.Errorf("Expected 1 unassigned item, got %d", len(unassigned))
	}

	result, err := services.Analytics(db, user.UserID, "")
	if err != nil {
		t.Fatalf("Failed to get analytics: %v", err)
	}
	if result.TotalItems != 1 {
		t.Errorf("Expected 1 total item, got %d", result.TotalItems)
	}
	if result.TotalValue != 120 {
		t.Errorf("Expected total value 120, got %v", result.TotalValue)
	}
}
