package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stock_backend/internal/models"
)

// AdminUserRepository defines the interface for back-office operator accounts.
type AdminUserRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) (*models.AdminUser, error)
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	Count(ctx context.Context) (int, error)
}

type adminUserRepository struct {
	db *sql.DB
}

// NewAdminUserRepository creates a new instance of AdminUserRepository.
func NewAdminUserRepository(db *sql.DB) AdminUserRepository {
	return &adminUserRepository{db: db}
}

func (r *adminUserRepository) Create(ctx context.Context, admin *models.AdminUser) (*models.AdminUser, error) {
	query := `INSERT INTO admin_users (id, username, name, password_hash, email, role, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, now())
	          RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		admin.ID, admin.Username, admin.Name, admin.PasswordHash, admin.Email, admin.Role,
	).Scan(&admin.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "admin_users_username_key") {
			return nil, fmt.Errorf("%w: username %s", ErrDuplicateKey, admin.Username)
		}
		return nil, fmt.Errorf("%w: creating admin user: %v", ErrDatabaseError, err)
	}
	return admin, nil
}

func (r *adminUserRepository) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	query := `SELECT id, username, name, password_hash, email, role, created_at
	          FROM admin_users WHERE username = $1`

	var a models.AdminUser
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&a.ID, &a.Username, &a.Name, &a.PasswordHash, &a.Email, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting admin user by username: %v", ErrDatabaseError, err)
	}
	return &a, nil
}

func (r *adminUserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting admin users: %v", ErrDatabaseError, err)
	}
	return n, nil
}
