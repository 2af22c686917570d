package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stock_backend/internal/models"
)

// WorkRecordRepository defines the interface for work record persistence.
type WorkRecordRepository interface {
	Create(ctx context.Context, exec SQLExecutor, rec *models.WorkRecord) (*models.WorkRecord, error)
	FindByID(ctx context.Context, id string) (*models.WorkRecord, error)
	FindActiveByUser(ctx context.Context, userID string) (*models.WorkRecord, error)
	FindActiveByIDAndUser(ctx context.Context, recordID, userID string) (*models.WorkRecord, error)
	AppendNote(ctx context.Context, exec SQLExecutor, id string, note models.Note) (*models.WorkRecord, error)
	Close(ctx context.Context, exec SQLExecutor, id string, endTime time.Time, totalHours string) (*models.WorkRecord, error)
	ListByStatus(ctx context.Context, status models.WorkRecordStatus, page models.PageParams) ([]models.WorkRecord, int, error)
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time, page models.PageParams) ([]models.WorkRecord, int, error)
}

type workRecordRepository struct {
	db *sql.DB
}

// NewWorkRecordRepository creates a new instance of WorkRecordRepository.
func NewWorkRecordRepository(db *sql.DB) WorkRecordRepository {
	return &workRecordRepository{db: db}
}

const workRecordColumns = `id, user_id, profile, work_date, start_time, end_time, total_hours, description, status`

// activeUserConstraint is the partial unique index allowing one open shift per user.
const activeUserConstraint = "work_records_one_active_per_user"

func scanWorkRecord(row scanner, extra ...interface{}) (*models.WorkRecord, error) {
	var rec models.WorkRecord
	var endTime sql.NullTime
	var totalHours sql.NullString
	var status string

	dest := []interface{}{
		&rec.ID, &rec.UserID, &rec.Profile, &rec.WorkDate, &rec.StartTime,
		&endTime, &totalHours, &rec.Description, &status,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if endTime.Valid {
		t := endTime.Time
		rec.EndTime = &t
	}
	if totalHours.Valid {
		s := totalHours.String
		rec.TotalHours = &s
	}
	rec.Status = models.WorkRecordStatus(status)
	if rec.Description == nil {
		rec.Description = models.Notes{}
	}
	return &rec, nil
}

func (r *workRecordRepository) Create(ctx context.Context, exec SQLExecutor, rec *models.WorkRecord) (*models.WorkRecord, error) {
	query := `INSERT INTO work_records (` + workRecordColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING ` + workRecordColumns

	created, err := scanWorkRecord(exec.QueryRowContext(ctx, query,
		rec.ID, rec.UserID, rec.Profile, rec.WorkDate, rec.StartTime,
		rec.EndTime, rec.TotalHours, rec.Description, string(rec.Status),
	))
	if err != nil {
		if isUniqueViolation(err, activeUserConstraint) {
			return nil, fmt.Errorf("%w: user %s already has an active work record", ErrDuplicateKey, rec.UserID)
		}
		if isUniqueViolation(err, "") {
			return nil, fmt.Errorf("%w: work record %s", ErrDuplicateKey, rec.ID)
		}
		return nil, fmt.Errorf("%w: creating work record: %v", ErrDatabaseError, err)
	}
	return created, nil
}

func (r *workRecordRepository) findOne(ctx context.Context, op, where string, args ...interface{}) (*models.WorkRecord, error) {
	query := `SELECT ` + workRecordColumns + ` FROM work_records WHERE ` + where
	rec, err := scanWorkRecord(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrDatabaseError, op, err)
	}
	return rec, nil
}

func (r *workRecordRepository) FindByID(ctx context.Context, id string) (*models.WorkRecord, error) {
	return r.findOne(ctx, "getting work record by id", `id = $1`, id)
}

func (r *workRecordRepository) FindActiveByUser(ctx context.Context, userID string) (*models.WorkRecord, error) {
	return r.findOne(ctx, "getting active work record by user", `user_id = $1 AND status = 'active'`, userID)
}

func (r *workRecordRepository) FindActiveByIDAndUser(ctx context.Context, recordID, userID string) (*models.WorkRecord, error) {
	return r.findOne(ctx, "getting active work record by id and user",
		`id = $1 AND user_id = $2 AND status = 'active'`, recordID, userID)
}

// AppendNote appends in SQL so concurrent appends never overwrite each other.
func (r *workRecordRepository) AppendNote(ctx context.Context, exec SQLExecutor, id string, note models.Note) (*models.WorkRecord, error) {
	payload, err := json.Marshal(note)
	if err != nil {
		return nil, fmt.Errorf("encoding note: %w", err)
	}
	query := `UPDATE work_records
	          SET description = COALESCE(description, '[]'::jsonb) || jsonb_build_array($2::jsonb)
	          WHERE id = $1
	          RETURNING ` + workRecordColumns

	rec, err := scanWorkRecord(exec.QueryRowContext(ctx, query, id, string(payload)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: appending note to work record: %v", ErrDatabaseError, err)
	}
	return rec, nil
}

// Close moves an active record to closed. Only one caller can win: a record
// that is missing or already closed matches no row and yields ErrNotFound.
func (r *workRecordRepository) Close(ctx context.Context, exec SQLExecutor, id string, endTime time.Time, totalHours string) (*models.WorkRecord, error) {
	query := `UPDATE work_records
	          SET end_time = $2, total_hours = $3, status = 'closed'
	          WHERE id = $1 AND status = 'active'
	          RETURNING ` + workRecordColumns

	rec, err := scanWorkRecord(exec.QueryRowContext(ctx, query, id, endTime, totalHours))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: closing work record: %v", ErrDatabaseError, err)
	}
	return rec, nil
}

func (r *workRecordRepository) ListByStatus(ctx context.Context, status models.WorkRecordStatus, page models.PageParams) ([]models.WorkRecord, int, error) {
	return r.list(ctx, "listing work records by status", `status = $1`, []interface{}{string(status)}, page)
}

func (r *workRecordRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time, page models.PageParams) ([]models.WorkRecord, int, error) {
	return r.list(ctx, "listing work records by user and range",
		`user_id = $1 AND work_date >= $2 AND work_date < $3`, []interface{}{userID, from, to}, page)
}

func (r *workRecordRepository) list(ctx context.Context, op, where string, args []interface{}, page models.PageParams) ([]models.WorkRecord, int, error) {
	n := len(args)
	query := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count
	          FROM work_records
	          WHERE %s
	          ORDER BY work_date DESC, start_time DESC
	          LIMIT $%d OFFSET $%d`, workRecordColumns, where, n+1, n+2)

	rows, err := r.db.QueryContext(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", ErrDatabaseError, op, err)
	}
	defer rows.Close()

	records := []models.WorkRecord{}
	totalCount := 0
	for rows.Next() {
		var rowTotal int
		rec, err := scanWorkRecord(rows, &rowTotal)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning work record: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating work records: %v", ErrDatabaseError, err)
	}

	// A page past the end returns no rows, so the window count is unavailable.
	if len(records) == 0 && page.Offset() > 0 {
		countQuery := `SELECT COUNT(*) FROM work_records WHERE ` + where
		if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: counting work records: %v", ErrDatabaseError, err)
		}
	}
	return records, totalCount, nil
}
