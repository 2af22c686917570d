package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stock_backend/internal/models"
)

// GlobalLogRepository persists the append-only audit trail.
type GlobalLogRepository interface {
	Create(ctx context.Context, entry *models.GlobalLog) error
	ListByRange(ctx context.Context, from, to time.Time, page models.PageParams) ([]models.GlobalLog, int, error)
}

type globalLogRepository struct {
	db *sql.DB
}

// NewGlobalLogRepository creates a new instance of GlobalLogRepository.
func NewGlobalLogRepository(db *sql.DB) GlobalLogRepository {
	return &globalLogRepository{db: db}
}

func (r *globalLogRepository) Create(ctx context.Context, entry *models.GlobalLog) error {
	query := `INSERT INTO global_logs (id, module, operation, entity_id, change_data, change_message, date, user_id, name_user)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Module, entry.Operation, entry.EntityID,
		entry.Changes.Data, entry.Changes.Message, entry.Date, entry.UserID, entry.NameUser)
	if err != nil {
		return fmt.Errorf("%w: creating global log: %v", ErrDatabaseError, err)
	}
	return nil
}

// ListByRange returns entries dated in [from, to), newest first.
func (r *globalLogRepository) ListByRange(ctx context.Context, from, to time.Time, page models.PageParams) ([]models.GlobalLog, int, error) {
	query := `SELECT id, module, operation, entity_id, change_data, change_message, date, user_id, name_user,
	                 COUNT(*) OVER() AS total_count
	          FROM global_logs
	          WHERE date >= $1 AND date < $2
	          ORDER BY date DESC
	          LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query, from, to, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying global logs: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	logs := []models.GlobalLog{}
	totalCount := 0
	for rows.Next() {
		var l models.GlobalLog
		var rowTotal int
		if err := rows.Scan(&l.ID, &l.Module, &l.Operation, &l.EntityID,
			&l.Changes.Data, &l.Changes.Message, &l.Date, &l.UserID, &l.NameUser, &rowTotal); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning global log: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating global logs: %v", ErrDatabaseError, err)
	}
	return logs, totalCount, nil
}
