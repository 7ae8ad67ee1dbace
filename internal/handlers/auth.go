package handlers

import (
	"log"

	"github.com/curiokeep/curiokeep/internal/services"
	"github.com/curiokeep/curiokeep/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"
)

// AuthHandler handles signup, login, logout and password reset routes
type AuthHandler struct {
	DB       *gorm.DB
	Sessions *session.Store
	Revoked  services.TokenStore
}

// Signup handles POST /auth/signup
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.SignupInput true "Account details"
// @Success 201 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in services.SignupInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err.Error())
	}

	user, err := services.Signup(h.DB, in)
	if err != nil {
		return utils.APIErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user_id": user.UserID,
	})
}

// Login handles POST /auth/login. The username field accepts either a
// username or an email.
// @Summary Log in with username or email
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err.Error())
	}

	user, err := services.Login(h.DB, in.Username, in.Password)
	if err != nil {
		return utils.APIErrorResponse(c, err)
	}

	sess, err := h.Sessions.Get(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "An error occurred during login", err.Error())
	}
	// Rotate the session id on privilege change
	if err := sess.Regenerate(); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "An error occurred during login", err.Error())
	}
	sess.Set("user_id", user.UserID)
	sess.Set("username", user.Username)
	if err := sess.Save(); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "An error occurred during login", err.Error())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Login successful",
		"user_id":  user.UserID,
		"username": user.Username,
	})
}

// Logout handles GET /auth/logout. Destroys the session and marks its id
// revoked; calling it without a session is still a success.
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.MessageResponseStruct
// @Router /auth/logout [get]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.Sessions.Get(c)
	if err == nil {
		if h.Revoked != nil {
			h.Revoked.Revoke(sess.ID())
		}
		if err := sess.Destroy(); err != nil {
			log.Printf("Logout: failed to destroy session: %v", err)
		}
	}

	return utils.MessageResponse(c, fiber.StatusOK, "Logged out successfully")
}

// RequestReset handles POST /auth/request-reset. Responds identically for
// registered and unknown emails. The token in the response stands in for
// email delivery during development.
// @Summary Request a password reset token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /auth/request-reset [post]
func (h *AuthHandler) RequestReset(c *fiber.Ctx) error {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err.Error())
	}

	token, err := services.RequestPasswordReset(h.DB, in.Email)
	if err != nil {
		return utils.APIErrorResponse(c, err)
	}

	body := fiber.Map{
		"message": "If your email is registered, you will receive a password reset link shortly.",
	}
	if token != "" {
		// TODO: deliver by email once an outbound mail integration exists
		body["reset_token"] = token
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

// ConfirmReset handles POST /auth/confirm-reset
// @Summary Redeem a password reset token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/confirm-reset [post]
func (h *AuthHandler) ConfirmReset(c *fiber.Ctx) error {
	var in struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid input", err.Error())
	}

	if err := services.ConfirmPasswordReset(h.DB, in.Token, in.NewPassword); err != nil {
		return utils.APIErrorResponse(c, err)
	}

	return utils.MessageResponse(c, fiber.StatusOK, "Password has been reset successfully")
}
