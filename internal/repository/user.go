package repository

import (
	"context"
	"time"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, limit, skip int) ([]*models.User, error)
}

type userRepository struct {
	db      *sqlx.DB
	logger  *zap.Logger
	timeout time.Duration
}

func NewUserRepository(db *sqlx.DB, logger *zap.Logger, timeout time.Duration) UserRepository {
	return &userRepository{db: db, logger: logger, timeout: timeout}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO users (email, password_hash, first_name, last_name)
	          VALUES ($1, $2, $3, $4) RETURNING id, is_active, created_at`
	err := r.db.QueryRowxContext(ctx, query, user.Email, user.PasswordHash, user.FirstName, user.LastName).
		Scan(&user.ID, &user.IsActive, &user.CreatedAt)
	return mapError(err)
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	query := `SELECT id, email, password_hash, first_name, last_name, is_active, created_at FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	query := `SELECT id, email, password_hash, first_name, last_name, is_active, created_at FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `UPDATE users SET email = $1, first_name = $2, last_name = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, user.Email, user.FirstName, user.LastName, user.ID)
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	query := `DELETE FROM users WHERE id = $1 RETURNING id, email, password_hash, first_name, last_name, is_active, created_at`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *userRepository) ListUsers(ctx context.Context, limit, skip int) ([]*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	users := []*models.User{}
	query := `SELECT id, email, password_hash, first_name, last_name, is_active, created_at FROM users
	          ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &users, query, limit, skip); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}
