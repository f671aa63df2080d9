package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/od-portal-api/internal/models"
	appErrors "github.com/noah-isme/od-portal-api/pkg/errors"
)

type whitelistLookupStub struct {
	entries map[string]*models.WhitelistEntry
	err     error
	calls   int
}

func (s *whitelistLookupStub) FindByEmail(ctx context.Context, email string) (*models.WhitelistEntry, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if entry, ok := s.entries[email]; ok {
		return entry, nil
	}
	return nil, sql.ErrNoRows
}

func TestAuthzResolveAdmin(t *testing.T) {
	lookup := &whitelistLookupStub{entries: map[string]*models.WhitelistEntry{
		"hod@college.edu": {Email: "hod@college.edu", Department: "CSE"},
	}}
	svc := NewAuthzService(lookup, "college.edu", nil)

	entry, err := svc.ResolveAdmin(context.Background(), &models.JWTClaims{UserID: "a1", Email: "hod@college.edu"})
	require.NoError(t, err)
	assert.Equal(t, "CSE", entry.Department)
}

func TestAuthzResolveAdminNotWhitelisted(t *testing.T) {
	lookup := &whitelistLookupStub{}
	svc := NewAuthzService(lookup, "college.edu", nil)

	_, err := svc.ResolveAdmin(context.Background(), &models.JWTClaims{UserID: "u1", Email: "s1@college.edu"})
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}

func TestAuthzResolveAdminLookupFailure(t *testing.T) {
	lookup := &whitelistLookupStub{err: errors.New("connection refused")}
	svc := NewAuthzService(lookup, "college.edu", nil)

	_, err := svc.ResolveAdmin(context.Background(), &models.JWTClaims{UserID: "u1", Email: "s1@college.edu"})
	require.Error(t, err)
	assert.Equal(t, 500, appErrors.FromError(err).Status)
}

func TestAuthzResolveUser(t *testing.T) {
	lookup := &whitelistLookupStub{}
	svc := NewAuthzService(lookup, "college.edu", nil)

	err := svc.ResolveUser(context.Background(), &models.JWTClaims{UserID: "u1", Email: "s1@college.edu"})
	assert.NoError(t, err)
}

func TestAuthzResolveUserRejectsAdmin(t *testing.T) {
	lookup := &whitelistLookupStub{entries: map[string]*models.WhitelistEntry{
		"hod@college.edu": {Email: "hod@college.edu", Department: "CSE"},
	}}
	svc := NewAuthzService(lookup, "college.edu", nil)

	err := svc.ResolveUser(context.Background(), &models.JWTClaims{UserID: "a1", Email: "hod@college.edu"})
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}

func TestAuthzResolveUserRejectsForeignDomain(t *testing.T) {
	lookup := &whitelistLookupStub{}
	svc := NewAuthzService(lookup, "college.edu", nil)

	err := svc.ResolveUser(context.Background(), &models.JWTClaims{UserID: "u1", Email: "s1@elsewhere.org"})
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}

func TestAuthzResolveUserDomainCaseInsensitive(t *testing.T) {
	lookup := &whitelistLookupStub{}
	svc := NewAuthzService(lookup, "College.EDU", nil)

	err := svc.ResolveUser(context.Background(), &models.JWTClaims{UserID: "u1", Email: "S1@COLLEGE.edu"})
	assert.NoError(t, err)
}

func TestAuthzResolvesOnEveryCall(t *testing.T) {
	lookup := &whitelistLookupStub{entries: map[string]*models.WhitelistEntry{
		"hod@college.edu": {Email: "hod@college.edu", Department: "CSE"},
	}}
	svc := NewAuthzService(lookup, "college.edu", nil)
	claims := &models.JWTClaims{UserID: "a1", Email: "hod@college.edu"}

	_, err := svc.ResolveAdmin(context.Background(), claims)
	require.NoError(t, err)
	_, err = svc.ResolveAdmin(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, 2, lookup.calls)
}
