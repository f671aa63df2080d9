package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/od-portal-api/internal/models"
)

func newWhitelistRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestWhitelistRepositoryFindByEmailLowercases(t *testing.T) {
	db, mock, cleanup := newWhitelistRepoMock(t)
	defer cleanup()
	repo := NewWhitelistRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT email, department, created_at FROM admin_whitelist WHERE email = $1 LIMIT 1")).
		WithArgs("hod@college.edu").
		WillReturnRows(sqlmock.NewRows([]string{"email", "department", "created_at"}).
			AddRow("hod@college.edu", "CSE", time.Now()))

	entry, err := repo.FindByEmail(context.Background(), "HOD@College.EDU")
	require.NoError(t, err)
	assert.Equal(t, "CSE", entry.Department)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWhitelistRepositoryFindByEmailMiss(t *testing.T) {
	db, mock, cleanup := newWhitelistRepoMock(t)
	defer cleanup()
	repo := NewWhitelistRepository(db)

	mock.ExpectQuery("SELECT email, department, created_at FROM admin_whitelist").
		WithArgs("student@college.edu").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "student@college.edu")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWhitelistRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newWhitelistRepoMock(t)
	defer cleanup()
	repo := NewWhitelistRepository(db)

	mock.ExpectExec("INSERT INTO admin_whitelist").
		WithArgs("new@college.edu", "ECE", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &models.WhitelistEntry{Email: "New@College.edu", Department: "ECE"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWhitelistRepositoryDeleteMiss(t *testing.T) {
	db, mock, cleanup := newWhitelistRepoMock(t)
	defer cleanup()
	repo := NewWhitelistRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM admin_whitelist WHERE email = $1")).
		WithArgs("nobody@college.edu").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "nobody@college.edu")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
