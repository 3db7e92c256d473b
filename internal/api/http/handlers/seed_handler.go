package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inspection-service/internal/api/dto"
	"github.com/spec-kit/inspection-service/internal/service"
)

// SeedHandler exposes the destructive fixture endpoint. Development aid, not
// part of the production contract.
type SeedHandler struct {
	service *service.SeedService
}

// NewSeedHandler constructs handler.
func NewSeedHandler(seedService *service.SeedService) *SeedHandler {
	return &SeedHandler{service: seedService}
}

// Seed POST /api/seed.
func (h *SeedHandler) Seed(c *fiber.Ctx) error {
	result, err := h.service.Seed(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.SeedResponse{
		Message: "seed complete",
		Reports: result.Reports,
		Users:   result.Users,
	})
}
