package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inspection-service/internal/api/dto"
	"github.com/spec-kit/inspection-service/internal/domain"
	"github.com/spec-kit/inspection-service/internal/service"
	apperrors "github.com/spec-kit/inspection-service/pkg/util"
)

// UsersHandler serves the account endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// List GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(userResponses(users))
}

// ListMaintenance GET /api/users/maintenance.
func (h *UsersHandler) ListMaintenance(c *fiber.Ctx) error {
	users, err := h.service.ListMaintenanceTeam(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(userResponses(users))
}

// Create POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.CreateUser(c.UserContext(), service.UserCreateInput{
		Name:        req.Name,
		Email:       req.Email,
		Role:        req.Role,
		Department:  req.Department,
		Expertise:   req.Expertise,
		PhoneNumber: req.PhoneNumber,
		Avatar:      req.Avatar,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(userResponse(user))
}

// Update PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.UpdateUser(c.UserContext(), c.Params("id"), service.UserUpdateInput{
		Name:        req.Name,
		Email:       req.Email,
		Role:        req.Role,
		Department:  req.Department,
		Expertise:   req.Expertise,
		PhoneNumber: req.PhoneNumber,
		Avatar:      req.Avatar,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// UpdateStatus PUT /api/users/:id/status.
func (h *UsersHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateUserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.SetUserStatus(c.UserContext(), c.Params("id"), req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// Delete DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}

func userResponses(users []domain.User) []dto.UserResponse {
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return items
}

func userResponse(user *domain.User) dto.UserResponse {
	expertise := user.Expertise
	if expertise == nil {
		expertise = []string{}
	}
	return dto.UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Department:  user.Department,
		Expertise:   expertise,
		PhoneNumber: user.PhoneNumber,
		Avatar:      user.Avatar,
		IsActive:    user.IsActive,
		LastActive:  user.LastActive,
		CreatedAt:   user.CreatedAt,
	}
}
