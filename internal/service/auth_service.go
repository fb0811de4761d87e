package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"parkhub/internal/db"
	"parkhub/internal/entities"
	apperrors "parkhub/internal/errors"
)

// CredentialStore is the slice of user persistence the auth flows need.
type CredentialStore interface {
	Create(user *db.User) error
	GetByUsername(username string) (*db.User, error)
}

type AuthService struct {
	Store  CredentialStore
	secret []byte
}

func NewAuthService(store CredentialStore, secret []byte) *AuthService {
	return &AuthService{Store: store, secret: secret}
}

// Register creates a plain user account. Admin accounts are seeded, never
// registered.
func (s *AuthService) Register(req entities.RegisterRequest) (*entities.UserResponse, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" || strings.TrimSpace(req.Email) == "" {
		return nil, apperrors.ErrMissingUserFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &db.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(req.Email),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Role:         db.RoleUser,
	}
	if err := s.Store.Create(user); err != nil {
		return nil, err
	}

	return &entities.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
	}, nil
}

// Login verifies the credentials and issues a signed token carrying the user's
// id and role. A missing user and a wrong password are indistinguishable to
// the caller.
func (s *AuthService) Login(req entities.LoginRequest) (*entities.LoginResponse, error) {
	user, err := s.Store.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &entities.LoginResponse{
		Message: "Login successful",
		Token:   token,
		Role:    user.Role,
		UserID:  user.ID,
	}, nil
}
