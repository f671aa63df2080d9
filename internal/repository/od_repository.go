package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/od-portal-api/internal/models"
)

const odColumns = `id, user_id, year, periods, date, department, od_category, status, remarks, reviewed_by, reviewed_at, submitted_at`

// ODRepository provides database access for OD requests.
type ODRepository struct {
	db *sqlx.DB
}

// NewODRepository creates a new instance of ODRepository.
func NewODRepository(db *sqlx.DB) *ODRepository {
	return &ODRepository{db: db}
}

// Create inserts a new OD request and reads the stored row back. The status
// column is intentionally omitted so the store-side default (`pending`)
// applies; the RETURNING clause materialises it for the response.
func (r *ODRepository) Create(ctx context.Context, od *models.ODRequest) (*models.ODRequest, error) {
	if od.ID == "" {
		od.ID = uuid.NewString()
	}
	if od.SubmittedAt.IsZero() {
		od.SubmittedAt = time.Now().UTC()
	}

	const query = `INSERT INTO od_requests (id, user_id, year, periods, date, department, od_category, remarks, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + odColumns
	var created models.ODRequest
	if err := r.db.GetContext(ctx, &created, query,
		od.ID, od.UserID, od.Year, od.Periods, od.Date, od.Department, od.Category, od.Remarks, od.SubmittedAt,
	); err != nil {
		return nil, fmt.Errorf("create od request: %w", err)
	}
	return &created, nil
}

// FindByID returns an OD request by identifier.
func (r *ODRepository) FindByID(ctx context.Context, id string) (*models.ODRequest, error) {
	const query = `SELECT ` + odColumns + ` FROM od_requests WHERE id = $1 LIMIT 1`
	var od models.ODRequest
	if err := r.db.GetContext(ctx, &od, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find od request by id: %w", err)
	}
	return &od, nil
}

// ListByUser returns a user's OD history, newest first, with total count.
func (r *ODRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.ODRequest, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT `+odColumns+` FROM od_requests WHERE user_id = $1 ORDER BY submitted_at DESC LIMIT %d OFFSET %d`, pageSize, offset)
	var requests []models.ODRequest
	if err := r.db.SelectContext(ctx, &requests, query, userID); err != nil {
		return nil, 0, fmt.Errorf("list od requests by user: %w", err)
	}

	const countQuery = `SELECT COUNT(*) FROM od_requests WHERE user_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("count od requests by user: %w", err)
	}

	return requests, total, nil
}

// ListPending returns pending requests joined with the requester's name and
// email, optionally scoped to a department.
func (r *ODRepository) ListPending(ctx context.Context, department string) ([]models.ODRequestDetail, error) {
	query := `SELECT o.id, o.user_id, o.year, o.periods, o.date, o.department, o.od_category, o.status, o.remarks,
			o.reviewed_by, o.reviewed_at, o.submitted_at, u.name AS user_name, u.email AS user_email
		FROM od_requests o
		JOIN users u ON u.id = o.user_id
		WHERE o.status = 'pending'`
	args := []interface{}{}
	if department != "" {
		query += ` AND o.department = $1`
		args = append(args, department)
	}
	query += ` ORDER BY o.submitted_at ASC`

	var requests []models.ODRequestDetail
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list pending od requests: %w", err)
	}
	return requests, nil
}

// Review transitions a pending request to approved or rejected, stamping the
// reviewer and time. The status precondition makes the transition a
// compare-and-swap: concurrent or repeated reviews of the same row match
// zero rows and return sql.ErrNoRows instead of overwriting.
func (r *ODRepository) Review(ctx context.Context, id string, status models.ODStatus, remarks, reviewedBy string, reviewedAt time.Time) (*models.ODRequest, error) {
	const query = `UPDATE od_requests
		SET status = $2, remarks = $3, reviewed_by = $4, reviewed_at = $5
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + odColumns
	var od models.ODRequest
	if err := r.db.GetContext(ctx, &od, query, id, status, remarks, reviewedBy, reviewedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("review od request: %w", err)
	}
	return &od, nil
}

// ListDetailed returns all requests joined with requester info, optionally
// scoped to a department. Used by reporting; the result set is unbounded.
func (r *ODRepository) ListDetailed(ctx context.Context, department string) ([]models.ODRequestDetail, error) {
	query := `SELECT o.id, o.user_id, o.year, o.periods, o.date, o.department, o.od_category, o.status, o.remarks,
			o.reviewed_by, o.reviewed_at, o.submitted_at, u.name AS user_name, u.email AS user_email
		FROM od_requests o
		JOIN users u ON u.id = o.user_id`
	args := []interface{}{}
	if department != "" {
		query += ` WHERE o.department = $1`
		args = append(args, department)
	}
	query += ` ORDER BY o.submitted_at DESC`

	var requests []models.ODRequestDetail
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list od requests: %w", err)
	}
	return requests, nil
}
