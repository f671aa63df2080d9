package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/od-portal-api/internal/models"
	appErrors "github.com/noah-isme/od-portal-api/pkg/errors"
)

type timingRepository interface {
	ListByYear(ctx context.Context, year int) ([]models.PeriodTiming, error)
	UpsertMany(ctx context.Context, timings []models.PeriodTiming) error
}

// UpsertTimingRequest is one timing row in an admin bulk upsert.
type UpsertTimingRequest struct {
	Year         int    `json:"year" validate:"required,min=1,max=5"`
	PeriodNumber int    `json:"period_number" validate:"required,min=1"`
	StartTime    string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime      string `json:"end_time" validate:"required,datetime=15:04"`
}

// UpsertTimingsRequest is the admin bulk upsert payload.
type UpsertTimingsRequest struct {
	Timings []UpsertTimingRequest `json:"timings" validate:"required,min=1,dive"`
}

// TimingService manages year period timings.
type TimingService struct {
	repo      timingRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimingService creates an instance of TimingService.
func NewTimingService(repo timingRepository, validate *validator.Validate, logger *zap.Logger) *TimingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TimingService{repo: repo, validator: validate, logger: logger}
}

// ListByYear returns all timings for a year. Any authenticated caller may
// read timings; they are needed to build a valid OD request.
func (s *TimingService) ListByYear(ctx context.Context, year int) ([]models.PeriodTiming, error) {
	if year < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year must be positive")
	}
	timings, err := s.repo.ListByYear(ctx, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timings")
	}
	return timings, nil
}

// Upsert writes the supplied timing rows and returns the stored set.
func (s *TimingService) Upsert(ctx context.Context, req UpsertTimingsRequest) ([]models.PeriodTiming, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timings payload")
	}

	timings := make([]models.PeriodTiming, 0, len(req.Timings))
	for _, t := range req.Timings {
		timings = append(timings, models.PeriodTiming{
			Year:         t.Year,
			PeriodNumber: t.PeriodNumber,
			StartTime:    t.StartTime,
			EndTime:      t.EndTime,
		})
	}

	if err := s.repo.UpsertMany(ctx, timings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert timings")
	}

	s.logger.Info("period timings upserted", zap.Int("count", len(timings)))
	return timings, nil
}
