package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/inspection-service/internal/auth"
	"github.com/spec-kit/inspection-service/internal/domain"
	"github.com/spec-kit/inspection-service/internal/repository"
	apperrors "github.com/spec-kit/inspection-service/pkg/util"
)

// UserService coordinates account management.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	BcryptCost int
}

// UserCreateInput describes an account creation payload.
type UserCreateInput struct {
	Name        string
	Email       string
	Role        domain.UserRole
	Department  *string
	Expertise   []string
	PhoneNumber *string
	Avatar      *string
	Password    string
}

// UserUpdateInput describes a partial account update. The password is not
// changeable through this path.
type UserUpdateInput struct {
	Name        *string
	Email       *string
	Role        *domain.UserRole
	Department  *string
	Expertise   *[]string
	PhoneNumber *string
	Avatar      *string
	IsActive    *bool
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{users: deps.UserRepo, bcryptCost: deps.BcryptCost}
}

// ListUsers returns every account.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListAll(ctx)
}

// ListMaintenanceTeam returns accounts with the engineer role. The endpoint
// name is historical; clients call it the maintenance team.
func (s *UserService) ListMaintenanceTeam(ctx context.Context) ([]domain.User, error) {
	return s.users.ListByRole(ctx, domain.RoleEngineer)
}

// CreateUser validates, enforces email uniqueness and stores a new account
// with the password hashed.
func (s *UserService) CreateUser(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.NewValidationError("email is required", nil)
	}
	if input.Password == "" {
		return nil, apperrors.NewValidationError("password is required", nil)
	}
	if !domain.ValidUserRole(input.Role) {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	inUse, err := s.users.EmailInUse(ctx, input.Email, "")
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, apperrors.NewConflict("email already in use", map[string]any{"email": input.Email})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	expertise := input.Expertise
	if expertise == nil {
		expertise = []string{}
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		Role:         input.Role,
		Department:   input.Department,
		Expertise:    expertise,
		PhoneNumber:  input.PhoneNumber,
		Avatar:       input.Avatar,
		IsActive:     true,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser overwrites only the supplied fields, re-checking email
// uniqueness against every other account.
func (s *UserService) UpdateUser(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	if input.Role != nil && !domain.ValidUserRole(*input.Role) {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *input.Role})
	}
	if input.Email != nil {
		inUse, err := s.users.EmailInUse(ctx, *input.Email, id)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, apperrors.NewConflict("email already in use", map[string]any{"email": *input.Email})
		}
	}

	patch := repository.UserPatch{
		Name:        input.Name,
		Email:       input.Email,
		Role:        input.Role,
		Department:  input.Department,
		Expertise:   input.Expertise,
		PhoneNumber: input.PhoneNumber,
		Avatar:      input.Avatar,
		IsActive:    input.IsActive,
	}
	user, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, mapUserErr(err, id)
	}
	return user, nil
}

// SetUserStatus toggles the active flag. Activating stamps lastActive.
func (s *UserService) SetUserStatus(ctx context.Context, id string, isActive bool) (*domain.User, error) {
	user, err := s.users.SetActive(ctx, id, isActive)
	if err != nil {
		return nil, mapUserErr(err, id)
	}
	return user, nil
}

// DeleteUser removes an account.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return mapUserErr(err, id)
	}
	return nil
}

func mapUserErr(err error, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return err
}
