package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"parkhub/internal/db"
	apperrors "parkhub/internal/errors"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(conn *sql.DB) *UserRepository {
	return &UserRepository{DB: conn}
}

func (r *UserRepository) Create(user *db.User) error {
	err := r.DB.QueryRow(`INSERT INTO users (username, password_hash, email, phone_number, role)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5) RETURNING id`,
		user.Username, user.PasswordHash, user.Email, user.PhoneNumber, user.Role).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return apperrors.ErrUsernameTaken
		}
		return fmt.Errorf("inserting user %q: %w", user.Username, err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(username string) (*db.User, error) {
	var user db.User
	err := r.DB.QueryRow(`SELECT id, username, password_hash, email, COALESCE(phone_number, ''), role
		FROM users WHERE username = $1`, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.PhoneNumber, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user %q: %w", username, err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id int) (*db.User, error) {
	var user db.User
	err := r.DB.QueryRow(`SELECT id, username, password_hash, email, COALESCE(phone_number, ''), role
		FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.PhoneNumber, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user %d: %w", id, err)
	}
	return &user, nil
}

func (r *UserRepository) ListByRole(role string) ([]db.User, error) {
	rows, err := r.DB.Query(`SELECT id, username, password_hash, email, COALESCE(phone_number, ''), role
		FROM users WHERE role = $1 ORDER BY id`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []db.User
	for rows.Next() {
		var user db.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.PhoneNumber, &user.Role); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Update renames a plain user; admins are not editable through this path.
func (r *UserRepository) Update(id int, username, email string) error {
	res, err := r.DB.Exec(`UPDATE users SET username = $1, email = $2 WHERE id = $3 AND role = $4`,
		username, email, id, db.RoleUser)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return apperrors.ErrUsernameTaken
		}
		return fmt.Errorf("updating user %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Delete removes a plain user and their reservation history. A user holding
// an open reservation cannot be deleted: that would strand an occupied spot
// with no reservation to close it.
func (r *UserRepository) Delete(id int) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var role string
	err = tx.QueryRow(`SELECT role FROM users WHERE id = $1`, id).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("querying user %d: %w", id, err)
	}
	if role != db.RoleUser {
		return apperrors.ErrUserNotFound
	}

	var hasOpen bool
	err = tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM reservations WHERE user_id = $1 AND end_time IS NULL)`, id).
		Scan(&hasOpen)
	if err != nil {
		return fmt.Errorf("checking open reservation for user %d: %w", id, err)
	}
	if hasOpen {
		return apperrors.ErrUserHasActiveReservation
	}

	if _, err := tx.Exec(`DELETE FROM reservations WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("deleting reservations of user %d: %w", id, err)
	}
	if _, err := tx.Exec(`DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	return tx.Commit()
}
