package services

import (
	"errors"
	"strings"
	"time"

	"github.com/curiokeep/curiokeep/internal/models"
	"github.com/curiokeep/curiokeep/internal/types"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// resetTokenTTL bounds how long a password reset token stays redeemable.
const resetTokenTTL = time.Hour

// SignupInput is the payload for account registration
type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new account. Username and email collisions are
// checked case-insensitively before insert.
func Signup(db *gorm.DB, in SignupInput) (*models.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, types.NewValidationError("Missing required fields")
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", in.Username).
		Count(&count).Error; err != nil {
		return nil, types.NewUpstreamError("Error checking username availability", err)
	}
	if count > 0 {
		return nil, types.NewConflictError("Username already taken")
	}

	if err := db.Model(&models.User{}).
		Where("LOWER(email) = LOWER(?)", in.Email).
		Count(&count).Error; err != nil {
		return nil, types.NewUpstreamError("Error checking email availability", err)
	}
	if count > 0 {
		return nil, types.NewConflictError("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, types.NewUpstreamError("Failed to hash password", err)
	}

	user := models.User{
		UserID:       uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, types.NewUpstreamError("Failed to register user", err)
	}

	return &user, nil
}

// Login authenticates by username or email. The identifier is treated as
// an email when it contains '@'.
func Login(db *gorm.DB, identifier, password string) (*models.User, error) {
	if identifier == "" || password == "" {
		return nil, types.NewValidationError("Username and password are required")
	}

	column := "username"
	if strings.Contains(identifier, "@") {
		column = "email"
	}

	var user models.User
	err := db.Where("LOWER("+column+") = LOWER(?)", identifier).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewAuthError("Invalid credentials")
		}
		return nil, types.NewUpstreamError("An error occurred during login", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, types.NewAuthError("Invalid credentials")
	}

	return &user, nil
}

// RequestPasswordReset creates a single-use reset token for a registered
// email. Unknown emails return an empty token and no error so the
// endpoint stays enumeration-resistant.
func RequestPasswordReset(db *gorm.DB, email string) (string, error) {
	if email == "" {
		return "", types.NewValidationError("Email is required")
	}

	var user models.User
	err := db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", types.NewUpstreamError("An error occurred processing your request", err)
	}

	reset := models.PasswordReset{
		Token:     uuid.NewString(),
		UserID:    user.UserID,
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
	}
	if err := db.Create(&reset).Error; err != nil {
		return "", types.NewUpstreamError("An error occurred processing your request", err)
	}

	return reset.Token, nil
}

// ConfirmPasswordReset redeems a reset token and replaces the user's
// password hash. Tokens are single-use and expire after resetTokenTTL.
func ConfirmPasswordReset(db *gorm.DB, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return types.NewValidationError("Token and new password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return types.NewUpstreamError("An error occurred processing your request", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var reset models.PasswordReset
		if err := tx.Where("token = ?", token).First(&reset).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewAuthError("Invalid or expired token")
			}
			return types.NewUpstreamError("An error occurred processing your request", err)
		}

		if reset.UsedAt != nil || time.Now().UTC().After(reset.ExpiresAt) {
			return types.NewAuthError("Invalid or expired token")
		}

		if err := tx.Model(&models.User{}).
			Where("user_id = ?", reset.UserID).
			Update("password_hash", string(hash)).Error; err != nil {
			return types.NewUpstreamError("An error occurred processing your request", err)
		}

		now := time.Now().UTC()
		if err := tx.Model(&reset).Update("used_at", &now).Error; err != nil {
			return types.NewUpstreamError("An error occurred processing your request", err)
		}

		return nil
	})

	return err
}
