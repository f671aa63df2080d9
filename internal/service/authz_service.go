package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/od-portal-api/internal/models"
	appErrors "github.com/noah-isme/od-portal-api/pkg/errors"
)

type whitelistLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.WhitelistEntry, error)
}

// AuthzService resolves the caller's role from the admin whitelist. Every
// authorized call re-reads the whitelist; membership is never cached, so
// revoking an admin takes effect on the next request.
type AuthzService struct {
	whitelist     whitelistLookup
	trustedDomain string
	logger        *zap.Logger
}

// NewAuthzService constructs an AuthzService instance.
func NewAuthzService(whitelist whitelistLookup, trustedDomain string, logger *zap.Logger) *AuthzService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthzService{whitelist: whitelist, trustedDomain: strings.ToLower(trustedDomain), logger: logger}
}

// ResolveAdmin authorizes the identity as an administrator. On success the
// matched whitelist entry is returned so callers can scope queries to the
// admin's department (empty department means all departments).
func (s *AuthzService) ResolveAdmin(ctx context.Context, claims *models.JWTClaims) (*models.WhitelistEntry, error) {
	entry, err := s.whitelist.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "admin access required")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admin whitelist")
	}
	return entry, nil
}

// ResolveUser authorizes the identity as an ordinary member: not on the
// whitelist and carrying a trusted institutional email.
func (s *AuthzService) ResolveUser(ctx context.Context, claims *models.JWTClaims) error {
	if _, err := s.whitelist.FindByEmail(ctx, claims.Email); err == nil {
		return appErrors.Clone(appErrors.ErrForbidden, "user access required")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admin whitelist")
	}

	if !s.hasTrustedDomain(claims.Email) {
		return appErrors.Clone(appErrors.ErrForbidden, "user access required")
	}
	return nil
}

func (s *AuthzService) hasTrustedDomain(email string) bool {
	if s.trustedDomain == "" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(email), "@"+s.trustedDomain)
}
