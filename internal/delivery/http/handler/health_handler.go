package handler

import (
	"chemjobs/internal/delivery/http/dto"
	"chemjobs/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	apiKeyConfigured bool
}

func NewHealthHandler(apiKeyConfigured bool) *HealthHandler {
	return &HealthHandler{apiKeyConfigured: apiKeyConfigured}
}

func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	return response.JSON(c, fiber.StatusOK, dto.HealthResponse{
		Status:           "ok",
		APIKeyConfigured: h.apiKeyConfigured,
	})
}
