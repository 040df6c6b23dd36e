package handlers

import (
	"errors"

	"formsheet/internal/models"
	"formsheet/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SubmissionHandler handles the public form endpoint and the protected data endpoint.
type SubmissionHandler struct {
	logs     *zap.SugaredLogger
	service  *services.SubmissionService
	validate *validator.Validate
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(logger *zap.SugaredLogger, service *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		logs:     logger,
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers /submit and, behind authRequired, /data.
func (h *SubmissionHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Post("/submit", h.HandleSubmit)
	router.Get("/data", authRequired, h.HandleGetData)
}

// SubmitRequest represents the request body of a form submission.
type SubmitRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

// HandleSubmit stores a form entry, one per email.
func (h *SubmissionHandler) HandleSubmit(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		h.logs.Infow("failed to parse submit request body", "error", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid request body.")
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Name, a valid email and a message are required.")
	}

	submission := &models.Submission{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := h.service.Submit(c.UserContext(), submission); err != nil {
		if errors.Is(err, services.ErrAlreadySubmitted) {
			return c.Status(fiber.StatusBadRequest).SendString("This email has already been submitted.")
		}
		h.logs.Errorw("failed to store submission", "email", req.Email, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Error adding data to the sheet.")
	}

	return c.Status(fiber.StatusOK).SendString("Data added to the sheet!")
}

// HandleGetData returns every stored submission row as a JSON array of arrays.
func (h *SubmissionHandler) HandleGetData(c *fiber.Ctx) error {
	rows, err := h.service.List(c.UserContext())
	if err != nil {
		if errors.Is(err, services.ErrNoData) {
			return c.Status(fiber.StatusNotFound).SendString("No data found in the sheet.")
		}
		h.logs.Errorw("failed to retrieve submissions", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Error retrieving data from the sheet.")
	}
	return c.Status(fiber.StatusOK).JSON(rows)
}
