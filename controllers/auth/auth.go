package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"courier-backend/logger"
	"courier-backend/middleware"
	"courier-backend/models/user"
	"courier-backend/types"
)

type AuthController struct {
	db             *gorm.DB
	loggerInstance *logger.AsyncLogger
}

func NewAuthController(db *gorm.DB, loggerInstance *logger.AsyncLogger) *AuthController {
	return &AuthController{db: db, loggerInstance: loggerInstance}
}

// Login verifies credentials and hands out the opaque token. Re-login rotates
// any live token rather than accumulating a second one.
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req types.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing login request", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if v := req.Validate(); v != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": v})
	}

	var u user.User
	if err := h.db.Where("username = ?", req.Username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid username or password"})
		}
		logger.Error("Login user lookup failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid username or password"})
	}

	tok, err := middleware.IssueToken(h.db, u.ID)
	if err != nil {
		logger.Error("Failed to issue token", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
	}

	h.loggerInstance.Log(types.LogEntry{
		Method:     c.Method(),
		URL:        c.OriginalURL(),
		StatusCode: fiber.StatusAccepted,
		CreatedAt:  time.Now(),
	})

	logger.Success("User logged in: " + u.Username)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"token": tok.Token})
}

// Logout deletes the presented token. The route is on the bypass list so a
// client with an already-expired credential can still clear it.
func (h *AuthController) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	value := strings.TrimSpace(strings.TrimPrefix(authHeader, "Token "))
	if value != "" {
		if err := h.db.Where("token = ?", value).Delete(&user.Token{}).Error; err != nil {
			logger.Error("Failed to delete token on logout", err)
		}
	}
	return c.JSON(fiber.Map{"status": "logged out"})
}

// VerifyToken exists for clients to probe whether their stored credential
// still passes the gate.
func (h *AuthController) VerifyToken(c *fiber.Ctx) error {
	resp := fiber.Map{"status": "valid"}
	if nt := middleware.NewToken(c); nt != "" {
		resp["new_token"] = nt
	}
	return c.JSON(resp)
}

// Profile returns the caller's operator identity, plus the rotated token when
// the gate replaced it during this request.
func (h *AuthController) Profile(c *fiber.Ctx) error {
	profile, err := middleware.Operator(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "operator profile not found"})
	}

	resp := fiber.Map{
		"type":      profile.Type,
		"name":      profile.FullName(),
		"code_name": profile.CodeName,
		"new_token": "none",
	}
	if nt := middleware.NewToken(c); nt != "" {
		resp["new_token"] = nt
	}
	return c.JSON(resp)
}
