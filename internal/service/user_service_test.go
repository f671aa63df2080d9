package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/od-portal-api/internal/models"
	appErrors "github.com/noah-isme/od-portal-api/pkg/errors"
)

type userRepoStub struct {
	users map[string]*models.User
	saved *models.User
	err   error
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) Upsert(ctx context.Context, user *models.User) error {
	if s.err != nil {
		return s.err
	}
	s.saved = user
	return nil
}

func TestUserServiceGetOwnProfile(t *testing.T) {
	repo := &userRepoStub{users: map[string]*models.User{
		"u1": {ID: "u1", Name: "Student One", Email: "s1@college.edu"},
	}}
	svc := NewUserService(repo, nil, nil)

	user, err := svc.Get(context.Background(), "u1", &models.JWTClaims{UserID: "u1", Email: "s1@college.edu"}, false)
	require.NoError(t, err)
	assert.Equal(t, "Student One", user.Name)
}

func TestUserServiceGetOtherProfileForbidden(t *testing.T) {
	repo := &userRepoStub{users: map[string]*models.User{"u2": {ID: "u2"}}}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Get(context.Background(), "u2", &models.JWTClaims{UserID: "u1", Email: "s1@college.edu"}, false)
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}

func TestUserServiceGetOtherProfileAsAdmin(t *testing.T) {
	repo := &userRepoStub{users: map[string]*models.User{"u2": {ID: "u2", Name: "Student Two"}}}
	svc := NewUserService(repo, nil, nil)

	user, err := svc.Get(context.Background(), "u2", &models.JWTClaims{UserID: "a1", Email: "hod@college.edu"}, true)
	require.NoError(t, err)
	assert.Equal(t, "Student Two", user.Name)
}

func TestUserServiceGetNotFound(t *testing.T) {
	repo := &userRepoStub{}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Get(context.Background(), "ghost", &models.JWTClaims{UserID: "ghost", Email: "g@college.edu"}, false)
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestUserServiceUpsert(t *testing.T) {
	repo := &userRepoStub{}
	svc := NewUserService(repo, nil, nil)

	user, err := svc.Upsert(context.Background(), UpsertUserRequest{
		ID: "u1", Name: "Student One", Email: "S1@College.EDU", Department: "CSE", Year: 2,
	}, &models.JWTClaims{UserID: "u1", Email: "s1@college.edu"})
	require.NoError(t, err)
	assert.Equal(t, "s1@college.edu", user.Email)
	require.NotNil(t, repo.saved)
	assert.Equal(t, "u1", repo.saved.ID)
}

func TestUserServiceUpsertOtherIDForbidden(t *testing.T) {
	repo := &userRepoStub{}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Upsert(context.Background(), UpsertUserRequest{
		ID: "u2", Name: "Student Two", Email: "s2@college.edu", Department: "CSE", Year: 2,
	}, &models.JWTClaims{UserID: "u1", Email: "s1@college.edu"})
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
	assert.Nil(t, repo.saved)
}

func TestUserServiceUpsertInvalidYear(t *testing.T) {
	repo := &userRepoStub{}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Upsert(context.Background(), UpsertUserRequest{
		ID: "u1", Name: "Student One", Email: "s1@college.edu", Department: "CSE", Year: 7,
	}, &models.JWTClaims{UserID: "u1", Email: "s1@college.edu"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}
