package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"stock_backend/internal/models"
)

// UserRepository defines the interface for the personnel directory.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByDocuments(ctx context.Context, documents string) (*models.User, error)
	List(ctx context.Context, page models.PageParams) ([]models.User, int, error)
	SearchByName(ctx context.Context, prefix string, page models.PageParams) ([]models.User, int, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, exec SQLExecutor, id string, active bool) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, sur_name, documents, role, is_active, created_at, updated_at`

const userDocumentsConstraint = "users_documents_key"

func scanUser(row scanner, extra ...interface{}) (*models.User, error) {
	var u models.User
	dest := append([]interface{}{
		&u.ID, &u.Name, &u.SurName, &u.Documents, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (id, name, sur_name, documents, role, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	          RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.SurName, user.Documents, user.Role, user.IsActive))
	if err != nil {
		if isUniqueViolation(err, userDocumentsConstraint) {
			return nil, fmt.Errorf("%w: documents %s", ErrDuplicateKey, user.Documents)
		}
		return nil, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return created, nil
}

func (r *userRepository) findOne(ctx context.Context, op, where string, arg interface{}) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrDatabaseError, op, err)
	}
	return u, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "getting user by id", `id = $1`, id)
}

func (r *userRepository) FindByDocuments(ctx context.Context, documents string) (*models.User, error) {
	return r.findOne(ctx, "getting user by documents", `documents = $1`, documents)
}

func (r *userRepository) List(ctx context.Context, page models.PageParams) ([]models.User, int, error) {
	return r.list(ctx, "", nil, page)
}

func (r *userRepository) SearchByName(ctx context.Context, prefix string, page models.PageParams) ([]models.User, int, error) {
	pattern := escapeLike(strings.ToLower(strings.TrimSpace(prefix))) + "%"
	return r.list(ctx, `lower(name) LIKE $1`, []interface{}{pattern}, page)
}

func (r *userRepository) list(ctx context.Context, where string, args []interface{}, page models.PageParams) ([]models.User, int, error) {
	var qb strings.Builder
	qb.WriteString(`SELECT ` + userColumns + `, COUNT(*) OVER() AS total_count FROM users`)
	if where != "" {
		qb.WriteString(" WHERE " + where)
	}
	n := len(args)
	qb.WriteString(fmt.Sprintf(" ORDER BY name ASC, sur_name ASC LIMIT $%d OFFSET $%d", n+1, n+2))

	rows, err := r.db.QueryContext(ctx, qb.String(), append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying users: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	users := []models.User{}
	totalCount := 0
	for rows.Next() {
		var rowTotal int
		u, err := scanUser(rows, &rowTotal)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating users: %v", ErrDatabaseError, err)
	}
	return users, totalCount, nil
}

// Update writes the editable fields; the activity flag is left untouched.
func (r *userRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	query := `UPDATE users SET name = $2, sur_name = $3, documents = $4, role = $5, updated_at = now()
	          WHERE id = $1
	          RETURNING ` + userColumns

	updated, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.SurName, user.Documents, user.Role))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err, userDocumentsConstraint) {
			return nil, fmt.Errorf("%w: documents %s", ErrDuplicateKey, user.Documents)
		}
		return nil, fmt.Errorf("%w: updating user: %v", ErrDatabaseError, err)
	}
	return updated, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting user: %v", ErrDatabaseError, err)
	}
	return rowsAffectedOrNotFound(res, "deleting user")
}

func (r *userRepository) SetActive(ctx context.Context, exec SQLExecutor, id string, active bool) error {
	res, err := exec.ExecContext(ctx, `UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("%w: setting user activity: %v", ErrDatabaseError, err)
	}
	return rowsAffectedOrNotFound(res, "setting user activity")
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
