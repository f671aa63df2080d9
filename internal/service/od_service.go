package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/od-portal-api/internal/models"
	appErrors "github.com/noah-isme/od-portal-api/pkg/errors"
)

type odRepository interface {
	Create(ctx context.Context, od *models.ODRequest) (*models.ODRequest, error)
	FindByID(ctx context.Context, id string) (*models.ODRequest, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.ODRequest, int, error)
	ListPending(ctx context.Context, department string) ([]models.ODRequestDetail, error)
	Review(ctx context.Context, id string, status models.ODStatus, remarks, reviewedBy string, reviewedAt time.Time) (*models.ODRequest, error)
}

type timingLookup interface {
	CountByYearAndPeriods(ctx context.Context, year int, periods []int64) (int, error)
}

// CreateODRequest represents payload for submitting an OD request.
type CreateODRequest struct {
	UserID     string  `json:"user_id" validate:"required"`
	Year       int     `json:"year" validate:"required,min=1,max=5"`
	Periods    []int64 `json:"periods" validate:"required,min=1,dive,min=1"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	Department string  `json:"department" validate:"required"`
	Category   string  `json:"od_category" validate:"required"`
	Remarks    string  `json:"remarks"`
}

// ReviewODRequest represents payload for the admin review decision.
type ReviewODRequest struct {
	Status     models.ODStatus `json:"status" validate:"required,oneof=approved rejected"`
	Remarks    string          `json:"remarks"`
	ReviewedBy string          `json:"reviewedBy" validate:"required"`
}

// ODService handles the OD request lifecycle: submission with date/period
// validation, history, the pending review queue, and the single review
// transition.
type ODService struct {
	repo      odRepository
	timings   timingLookup
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewODService creates an instance of ODService.
func NewODService(repo odRepository, timings timingLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ODService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ODService{repo: repo, timings: timings, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// Create validates and stores a new OD request owned by the caller. The
// ownership check runs before any store write; the row's status is left to
// the store default (pending).
func (s *ODService) Create(ctx context.Context, req CreateODRequest, claims *models.JWTClaims) (*models.ODRequest, error) {
	if req.UserID != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "user_id must match the authenticated user")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid od request payload")
	}

	date, err := s.validateDate(req.Date)
	if err != nil {
		return nil, err
	}

	if err := s.validatePeriods(ctx, req.Year, req.Periods); err != nil {
		return nil, err
	}

	od := &models.ODRequest{
		UserID:     req.UserID,
		Year:       req.Year,
		Periods:    req.Periods,
		Date:       date,
		Department: req.Department,
		Category:   req.Category,
		Remarks:    req.Remarks,
	}
	created, err := s.repo.Create(ctx, od)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create od request")
	}

	s.invalidateReports(ctx)
	s.logger.Info("od request created", zap.String("id", created.ID), zap.String("user_id", created.UserID))
	return created, nil
}

// History returns a user's OD requests, newest first. Users read their own
// history; admins may read anyone's.
func (s *ODService) History(ctx context.Context, userID string, claims *models.JWTClaims, isAdmin bool, page, pageSize int) ([]models.ODRequest, *models.Pagination, error) {
	if !isAdmin && userID != claims.UserID {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "cannot read another user's history")
	}

	requests, total, err := s.repo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list od history")
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
	return requests, pagination, nil
}

// Pending returns the admin review queue, scoped to the admin's department
// unless the whitelist entry spans all departments.
func (s *ODService) Pending(ctx context.Context, scope *models.WhitelistEntry) ([]models.ODRequestDetail, error) {
	department := ""
	if scope != nil && !scope.AllDepartments() {
		department = scope.Department
	}

	requests, err := s.repo.ListPending(ctx, department)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending od requests")
	}
	return requests, nil
}

// Review applies the single lifecycle transition pending → approved/rejected,
// stamping the reviewer and time. The update carries a status precondition:
// a request that was already reviewed yields 409 rather than a silent
// overwrite.
func (s *ODService) Review(ctx context.Context, id string, req ReviewODRequest, claims *models.JWTClaims) (*models.ODRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	if req.ReviewedBy != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "reviewedBy must match the authenticated admin")
	}

	reviewed, err := s.repo.Review(ctx, id, req.Status, req.Remarks, claims.UserID, s.now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.classifyReviewMiss(ctx, id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to review od request")
	}

	s.invalidateReports(ctx)
	s.logger.Info("od request reviewed",
		zap.String("id", reviewed.ID),
		zap.String("status", string(reviewed.Status)),
		zap.String("reviewed_by", claims.UserID),
	)
	return reviewed, nil
}

// classifyReviewMiss distinguishes a missing row from one that lost the
// compare-and-swap because it was reviewed already.
func (s *ODService) classifyReviewMiss(ctx context.Context, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "od request not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load od request")
	}
	return appErrors.Clone(appErrors.ErrConflict, "od request already reviewed as "+string(existing.Status))
}

// validateDate parses the request date and rejects anything strictly before
// today. Both sides are normalised to local midnight so a same-day request
// submitted late in the evening still passes.
func (s *ODService) validateDate(raw string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date format, expected YYYY-MM-DD")
	}

	now := s.now().In(time.Local)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if date.Before(today) {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "request date is in the past")
	}
	return date, nil
}

// validatePeriods enforces that every requested period has a timing row for
// the year.
func (s *ODService) validatePeriods(ctx context.Context, year int, periods []int64) error {
	unique := make(map[int64]struct{}, len(periods))
	distinct := make([]int64, 0, len(periods))
	for _, p := range periods {
		if _, ok := unique[p]; ok {
			continue
		}
		unique[p] = struct{}{}
		distinct = append(distinct, p)
	}

	count, err := s.timings.CountByYearAndPeriods(ctx, year, distinct)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify periods")
	}
	if count != len(distinct) {
		return appErrors.Clone(appErrors.ErrValidation, "one or more periods are not configured for this year")
	}
	return nil
}

func (s *ODService) invalidateReports(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "reports:summary:*"); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.Error(err))
	}
}
