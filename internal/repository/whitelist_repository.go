package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/od-portal-api/internal/models"
)

// WhitelistRepository provides database access for the admin whitelist.
type WhitelistRepository struct {
	db *sqlx.DB
}

// NewWhitelistRepository creates a new instance of WhitelistRepository.
func NewWhitelistRepository(db *sqlx.DB) *WhitelistRepository {
	return &WhitelistRepository{db: db}
}

// FindByEmail returns the whitelist entry for an email, if present.
// This runs on every authorized call; membership is never cached.
func (r *WhitelistRepository) FindByEmail(ctx context.Context, email string) (*models.WhitelistEntry, error) {
	const query = `SELECT email, department, created_at FROM admin_whitelist WHERE email = $1 LIMIT 1`
	var entry models.WhitelistEntry
	if err := r.db.GetContext(ctx, &entry, query, strings.ToLower(email)); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find whitelist entry: %w", err)
	}
	return &entry, nil
}

// List returns all whitelist entries ordered by email.
func (r *WhitelistRepository) List(ctx context.Context) ([]models.WhitelistEntry, error) {
	const query = `SELECT email, department, created_at FROM admin_whitelist ORDER BY email ASC`
	var entries []models.WhitelistEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list whitelist: %w", err)
	}
	return entries, nil
}

// Create inserts a new whitelist entry.
func (r *WhitelistRepository) Create(ctx context.Context, entry *models.WhitelistEntry) error {
	entry.Email = strings.ToLower(entry.Email)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO admin_whitelist (email, department, created_at) VALUES (:email, :department, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create whitelist entry: %w", err)
	}
	return nil
}

// Delete removes a whitelist entry by email. Returns sql.ErrNoRows when
// the email was not whitelisted.
func (r *WhitelistRepository) Delete(ctx context.Context, email string) error {
	const query = `DELETE FROM admin_whitelist WHERE email = $1`
	res, err := r.db.ExecContext(ctx, query, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("delete whitelist entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete whitelist entry: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
