package handlers

import (
	"errors"

	"formsheet/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for signup and login.
type AuthHandler struct {
	logs        *zap.SugaredLogger
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(logger *zap.SugaredLogger, authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		logs:        logger,
		authService: authService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/signup", h.HandleSignup)
	router.Post("/login", h.HandleLogin)
}

// SignupRequest represents the request body for signup.
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,maxbytes=72"`
	Email    string `json:"email" validate:"required,email,max=255"`
}

// HandleSignup registers a new account.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		h.logs.Infow("failed to parse signup request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "All fields are required",
			"errors":  validationMessages(err),
		})
	}

	if err := h.authService.Signup(c.UserContext(), req.Username, req.Password, req.Email); err != nil {
		if errors.Is(err, services.ErrEmailRegistered) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Email already registered",
			})
		}
		h.logs.Errorw("failed to sign up user", "email", req.Email, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to sign up user",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User signed up successfully!",
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin checks the credentials and issues a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		h.logs.Infow("failed to parse login request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Email and password are required",
			"errors":  validationMessages(err),
		})
	}

	token, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "User not found",
			})
		case errors.Is(err, services.ErrIncorrectPassword):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid password",
			})
		}
		h.logs.Errorw("login failed", "email", req.Email, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error during login",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}
