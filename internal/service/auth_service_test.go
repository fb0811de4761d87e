package service_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"parkhub/internal/db"
	"parkhub/internal/entities"
	apperrors "parkhub/internal/errors"
	"parkhub/internal/service"
)

// memCredentialStore keeps users by username the way the users table does.
type memCredentialStore struct {
	byUsername map[string]*db.User
	nextID     int
}

func newMemCredentialStore() *memCredentialStore {
	return &memCredentialStore{byUsername: make(map[string]*db.User)}
}

func (s *memCredentialStore) Create(user *db.User) error {
	if _, ok := s.byUsername[user.Username]; ok {
		return apperrors.ErrUsernameTaken
	}
	s.nextID++
	user.ID = s.nextID
	copied := *user
	s.byUsername[user.Username] = &copied
	return nil
}

func (s *memCredentialStore) GetByUsername(username string) (*db.User, error) {
	user, ok := s.byUsername[username]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

var testSecret = []byte("test-secret")

func TestRegister_HashesPasswordAndAssignsUserRole(t *testing.T) {
	store := newMemCredentialStore()
	svc := service.NewAuthService(store, testSecret)

	resp, err := svc.Register(entities.RegisterRequest{
		Username: "anand", Password: "anand123", Email: "anand@example.com", PhoneNumber: "+919900112233",
	})
	require.NoError(t, err)
	assert.Equal(t, "anand", resp.Username)

	stored, err := store.GetByUsername("anand")
	require.NoError(t, err)
	assert.Equal(t, db.RoleUser, stored.Role)
	assert.NotEqual(t, "anand123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("anand123")))
}

func TestRegister_MissingFields(t *testing.T) {
	svc := service.NewAuthService(newMemCredentialStore(), testSecret)

	_, err := svc.Register(entities.RegisterRequest{Username: "anand", Password: "x"})
	assert.ErrorIs(t, err, apperrors.ErrMissingUserFields)

	_, err = svc.Register(entities.RegisterRequest{Username: "anand", Email: "a@b.c"})
	assert.ErrorIs(t, err, apperrors.ErrMissingUserFields)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := service.NewAuthService(newMemCredentialStore(), testSecret)

	req := entities.RegisterRequest{Username: "anand", Password: "anand123", Email: "anand@example.com"}
	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestLogin_IssuesTokenWithRoleClaim(t *testing.T) {
	store := newMemCredentialStore()
	svc := service.NewAuthService(store, testSecret)

	_, err := svc.Register(entities.RegisterRequest{
		Username: "anand", Password: "anand123", Email: "anand@example.com",
	})
	require.NoError(t, err)

	resp, err := svc.Login(entities.LoginRequest{Username: "anand", Password: "anand123"})
	require.NoError(t, err)
	assert.Equal(t, db.RoleUser, resp.Role)
	assert.Equal(t, 1, resp.UserID)

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) { return testSecret, nil })
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, db.RoleUser, claims["role"])
	assert.EqualValues(t, 1, claims["sub"])
}

func TestLogin_WrongPasswordAndUnknownUserLookTheSame(t *testing.T) {
	store := newMemCredentialStore()
	svc := service.NewAuthService(store, testSecret)

	_, err := svc.Register(entities.RegisterRequest{
		Username: "anand", Password: "anand123", Email: "anand@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Login(entities.LoginRequest{Username: "anand", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(entities.LoginRequest{Username: "nobody", Password: "anand123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
