package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inspection-service/internal/api/dto"
	"github.com/spec-kit/inspection-service/internal/service"
	apperrors "github.com/spec-kit/inspection-service/pkg/util"
)

// UploadsHandler brokers image uploads to the media host.
type UploadsHandler struct {
	service *service.MediaService
}

// NewUploadsHandler constructs handler.
func NewUploadsHandler(mediaService *service.MediaService) *UploadsHandler {
	return &UploadsHandler{service: mediaService}
}

// Upload POST /api/upload (multipart field "image").
func (h *UploadsHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("image")
	if err != nil {
		return apperrors.NewValidationError("image file is required", nil)
	}
	url, err := h.service.UploadImage(c.UserContext(), header)
	if err != nil {
		return err
	}
	return c.JSON(dto.UploadResponse{ImageURL: url})
}

// UploadBase64 POST /api/upload/base64.
func (h *UploadsHandler) UploadBase64(c *fiber.Ctx) error {
	var req dto.Base64UploadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	url, err := h.service.UploadBase64(c.UserContext(), req.Image)
	if err != nil {
		return err
	}
	return c.JSON(dto.UploadResponse{ImageURL: url})
}
