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

type whitelistRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.WhitelistEntry, error)
	List(ctx context.Context) ([]models.WhitelistEntry, error)
	Create(ctx context.Context, entry *models.WhitelistEntry) error
	Delete(ctx context.Context, email string) error
}

// AddWhitelistRequest grants admin access to an email, optionally scoped to
// a department.
type AddWhitelistRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department"`
}

// WhitelistService manages the admin whitelist. Only existing admins reach
// these operations; the route guard enforces that.
type WhitelistService struct {
	repo      whitelistRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWhitelistService creates an instance of WhitelistService.
func NewWhitelistService(repo whitelistRepository, validate *validator.Validate, logger *zap.Logger) *WhitelistService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &WhitelistService{repo: repo, validator: validate, logger: logger}
}

// List returns all whitelist entries.
func (s *WhitelistService) List(ctx context.Context) ([]models.WhitelistEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list whitelist")
	}
	return entries, nil
}

// Add inserts a new whitelist entry.
func (s *WhitelistService) Add(ctx context.Context, req AddWhitelistRequest, actorID string) (*models.WhitelistEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid whitelist payload")
	}

	email := strings.ToLower(req.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already whitelisted")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check whitelist")
	}

	entry := &models.WhitelistEntry{Email: email, Department: req.Department}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create whitelist entry")
	}

	s.logger.Info("whitelist entry added", zap.String("email", email), zap.String("actor", actorID))
	return entry, nil
}

// Remove deletes a whitelist entry by email.
func (s *WhitelistService) Remove(ctx context.Context, email, actorID string) error {
	if err := s.repo.Delete(ctx, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "email not whitelisted")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete whitelist entry")
	}

	s.logger.Info("whitelist entry removed", zap.String("email", strings.ToLower(email)), zap.String("actor", actorID))
	return nil
}
