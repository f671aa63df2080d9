package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/od-portal-api/internal/models"
	appErrors "github.com/noah-isme/od-portal-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}

// UpsertUserRequest represents payload for creating or updating a profile.
// The id must match the authenticated subject.
type UpsertUserRequest struct {
	ID         string `json:"id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required"`
	Year       int    `json:"year" validate:"required,min=1,max=5"`
}

// UserService handles self-service profile workflows.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// Get returns a user profile. Callers may read their own row; admins may
// read anyone's.
func (s *UserService) Get(ctx context.Context, id string, claims *models.JWTClaims, isAdmin bool) (*models.User, error) {
	if !isAdmin && id != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot read another user's profile")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// Upsert creates or updates the caller's own profile. Writing any other id
// is forbidden before the store is touched.
func (s *UserService) Upsert(ctx context.Context, req UpsertUserRequest, claims *models.JWTClaims) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	if req.ID != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot write another user's profile")
	}

	user := &models.User{
		ID:         req.ID,
		Name:       req.Name,
		Email:      strings.ToLower(req.Email),
		Department: req.Department,
		Year:       req.Year,
	}
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save user")
	}

	s.logger.Info("user profile saved", zap.String("user_id", user.ID))
	return user, nil
}
