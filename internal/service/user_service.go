package service

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"parkhub/internal/db"
	"parkhub/internal/entities"
	apperrors "parkhub/internal/errors"
)

// UserStore is the persistence surface of the admin user-management screens.
type UserStore interface {
	Create(user *db.User) error
	GetByID(id int) (*db.User, error)
	ListByRole(role string) ([]db.User, error)
	Update(id int, username, email string) error
	Delete(id int) error
}

type UserService struct {
	Store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{Store: store}
}

func (s *UserService) List() ([]entities.UserResponse, error) {
	users, err := s.Store.ListByRole(db.RoleUser)
	if err != nil {
		return nil, err
	}
	out := make([]entities.UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, entities.UserResponse{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			PhoneNumber: user.PhoneNumber,
		})
	}
	return out, nil
}

// Create adds a plain user on behalf of an admin.
func (s *UserService) Create(req entities.RegisterRequest) (*entities.UserResponse, error) {
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

// Update renames a plain user. Empty fields keep their current value.
func (s *UserService) Update(id int, req entities.UpdateUserRequest) (*entities.UserResponse, error) {
	user, err := s.Store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user.Role != db.RoleUser {
		return nil, apperrors.ErrUserNotFound
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = user.Username
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = user.Email
	}

	if err := s.Store.Update(id, username, email); err != nil {
		return nil, err
	}
	return &entities.UserResponse{
		ID:          id,
		Username:    username,
		Email:       email,
		PhoneNumber: user.PhoneNumber,
	}, nil
}

// Delete removes a plain user unless they still hold an open reservation.
func (s *UserService) Delete(id int) error {
	return s.Store.Delete(id)
}
