package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/od-portal-api/internal/models"
	appErrors "github.com/noah-isme/od-portal-api/pkg/errors"
)

type odRepoStub struct {
	created   *models.ODRequest
	existing  *models.ODRequest
	reviewErr error
	createErr error
	pendingBy string
}

func (s *odRepoStub) Create(ctx context.Context, od *models.ODRequest) (*models.ODRequest, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	stored := *od
	stored.ID = "od-1"
	stored.Status = models.ODStatusPending
	s.created = &stored
	return &stored, nil
}

func (s *odRepoStub) FindByID(ctx context.Context, id string) (*models.ODRequest, error) {
	if s.existing == nil {
		return nil, sql.ErrNoRows
	}
	return s.existing, nil
}

func (s *odRepoStub) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.ODRequest, int, error) {
	return []models.ODRequest{{ID: "od-1", UserID: userID}}, 1, nil
}

func (s *odRepoStub) ListPending(ctx context.Context, department string) ([]models.ODRequestDetail, error) {
	s.pendingBy = department
	return []models.ODRequestDetail{}, nil
}

func (s *odRepoStub) Review(ctx context.Context, id string, status models.ODStatus, remarks, reviewedBy string, reviewedAt time.Time) (*models.ODRequest, error) {
	if s.reviewErr != nil {
		return nil, s.reviewErr
	}
	return &models.ODRequest{ID: id, Status: status, Remarks: remarks, ReviewedBy: &reviewedBy, ReviewedAt: &reviewedAt}, nil
}

type timingLookupStub struct {
	known   map[int64]bool
	queried []int64
	err     error
}

func (s *timingLookupStub) CountByYearAndPeriods(ctx context.Context, year int, periods []int64) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.queried = periods
	count := 0
	for _, p := range periods {
		if s.known[p] {
			count++
		}
	}
	return count, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newODServiceForTest(repo *odRepoStub, timings *timingLookupStub, now time.Time) *ODService {
	svc := NewODService(repo, timings, nil, nil, nil)
	svc.now = fixedClock(now)
	return svc
}

func studentClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u1", Email: "s1@college.edu"}
}

func TestODServiceCreate(t *testing.T) {
	repo := &odRepoStub{}
	timings := &timingLookupStub{known: map[int64]bool{3: true, 4: true}}
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.Local)
	svc := newODServiceForTest(repo, timings, now)

	od, err := svc.Create(context.Background(), CreateODRequest{
		UserID:     "u1",
		Year:       2,
		Periods:    []int64{3, 4},
		Date:       "2026-09-10",
		Department: "CSE",
		Category:   "symposium",
		Remarks:    "tech fest",
	}, studentClaims())
	require.NoError(t, err)
	assert.Equal(t, "od-1", od.ID)
	assert.Equal(t, models.ODStatusPending, od.Status)
}

func TestODServiceCreateSameDayAllowed(t *testing.T) {
	repo := &odRepoStub{}
	timings := &timingLookupStub{known: map[int64]bool{1: true}}
	now := time.Date(2026, 9, 1, 23, 30, 0, 0, time.Local)
	svc := newODServiceForTest(repo, timings, now)

	_, err := svc.Create(context.Background(), CreateODRequest{
		UserID: "u1", Year: 2, Periods: []int64{1}, Date: "2026-09-01", Department: "CSE", Category: "sports",
	}, studentClaims())
	require.NoError(t, err)
}

func TestODServiceCreatePastDate(t *testing.T) {
	repo := &odRepoStub{}
	timings := &timingLookupStub{known: map[int64]bool{1: true}}
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
	svc := newODServiceForTest(repo, timings, now)

	_, err := svc.Create(context.Background(), CreateODRequest{
		UserID: "u1", Year: 2, Periods: []int64{1}, Date: "2026-08-31", Department: "CSE", Category: "sports",
	}, studentClaims())
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
	assert.Nil(t, repo.created)
}

func TestODServiceCreateUnknownPeriod(t *testing.T) {
	repo := &odRepoStub{}
	timings := &timingLookupStub{known: map[int64]bool{1: true}}
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
	svc := newODServiceForTest(repo, timings, now)

	_, err := svc.Create(context.Background(), CreateODRequest{
		UserID: "u1", Year: 2, Periods: []int64{1, 9}, Date: "2026-09-10", Department: "CSE", Category: "sports",
	}, studentClaims())
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
	assert.Nil(t, repo.created)
}

func TestODServiceCreateDedupesPeriods(t *testing.T) {
	repo := &odRepoStub{}
	timings := &timingLookupStub{known: map[int64]bool{3: true}}
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
	svc := newODServiceForTest(repo, timings, now)

	_, err := svc.Create(context.Background(), CreateODRequest{
		UserID: "u1", Year: 2, Periods: []int64{3, 3, 3}, Date: "2026-09-10", Department: "CSE", Category: "sports",
	}, studentClaims())
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, timings.queried)
}

func TestODServiceCreateForAnotherUser(t *testing.T) {
	repo := &odRepoStub{}
	timings := &timingLookupStub{known: map[int64]bool{1: true}}
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
	svc := newODServiceForTest(repo, timings, now)

	_, err := svc.Create(context.Background(), CreateODRequest{
		UserID: "u2", Year: 2, Periods: []int64{1}, Date: "2026-09-10", Department: "CSE", Category: "sports",
	}, studentClaims())
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
	assert.Nil(t, repo.created)
}

func TestODServiceHistoryOwnership(t *testing.T) {
	repo := &odRepoStub{}
	svc := newODServiceForTest(repo, &timingLookupStub{}, time.Now())

	_, _, err := svc.History(context.Background(), "u2", studentClaims(), false, 1, 20)
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	list, pagination, err := svc.History(context.Background(), "u2", studentClaims(), true, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestODServicePendingScope(t *testing.T) {
	repo := &odRepoStub{}
	svc := newODServiceForTest(repo, &timingLookupStub{}, time.Now())

	_, err := svc.Pending(context.Background(), &models.WhitelistEntry{Email: "hod@college.edu", Department: "CSE"})
	require.NoError(t, err)
	assert.Equal(t, "CSE", repo.pendingBy)

	_, err = svc.Pending(context.Background(), &models.WhitelistEntry{Email: "principal@college.edu", Department: ""})
	require.NoError(t, err)
	assert.Equal(t, "", repo.pendingBy)
}

func TestODServiceReview(t *testing.T) {
	repo := &odRepoStub{}
	svc := newODServiceForTest(repo, &timingLookupStub{}, time.Now())
	claims := &models.JWTClaims{UserID: "admin-1", Email: "hod@college.edu"}

	od, err := svc.Review(context.Background(), "od-1", ReviewODRequest{
		Status: models.ODStatusApproved, Remarks: "ok", ReviewedBy: "admin-1",
	}, claims)
	require.NoError(t, err)
	assert.Equal(t, models.ODStatusApproved, od.Status)
	require.NotNil(t, od.ReviewedBy)
	assert.Equal(t, "admin-1", *od.ReviewedBy)
}

func TestODServiceReviewByMismatch(t *testing.T) {
	repo := &odRepoStub{}
	svc := newODServiceForTest(repo, &timingLookupStub{}, time.Now())
	claims := &models.JWTClaims{UserID: "admin-1", Email: "hod@college.edu"}

	_, err := svc.Review(context.Background(), "od-1", ReviewODRequest{
		Status: models.ODStatusApproved, ReviewedBy: "someone-else",
	}, claims)
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}

func TestODServiceReviewInvalidStatus(t *testing.T) {
	repo := &odRepoStub{}
	svc := newODServiceForTest(repo, &timingLookupStub{}, time.Now())
	claims := &models.JWTClaims{UserID: "admin-1", Email: "hod@college.edu"}

	_, err := svc.Review(context.Background(), "od-1", ReviewODRequest{
		Status: "pending", ReviewedBy: "admin-1",
	}, claims)
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestODServiceReviewAlreadyReviewed(t *testing.T) {
	repo := &odRepoStub{
		reviewErr: sql.ErrNoRows,
		existing:  &models.ODRequest{ID: "od-1", Status: models.ODStatusApproved},
	}
	svc := newODServiceForTest(repo, &timingLookupStub{}, time.Now())
	claims := &models.JWTClaims{UserID: "admin-1", Email: "hod@college.edu"}

	_, err := svc.Review(context.Background(), "od-1", ReviewODRequest{
		Status: models.ODStatusRejected, ReviewedBy: "admin-1",
	}, claims)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 409, appErr.Status)
	assert.Contains(t, appErr.Message, "approved")
}

func TestODServiceReviewNotFound(t *testing.T) {
	repo := &odRepoStub{reviewErr: sql.ErrNoRows}
	svc := newODServiceForTest(repo, &timingLookupStub{}, time.Now())
	claims := &models.JWTClaims{UserID: "admin-1", Email: "hod@college.edu"}

	_, err := svc.Review(context.Background(), "missing", ReviewODRequest{
		Status: models.ODStatusApproved, ReviewedBy: "admin-1",
	}, claims)
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
