package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// WorkRecordStatus is the lifecycle state of a work record.
type WorkRecordStatus string

const (
	WorkRecordActive WorkRecordStatus = "active"
	WorkRecordClosed WorkRecordStatus = "closed"
)

// Profile is the snapshot of a person's identity taken when a shift opens.
// It is stored with the record and never refreshed from the user directory.
type Profile struct {
	ID        string `json:"id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	SurName   string `json:"surName" binding:"required"`
	Documents string `json:"documents" binding:"required"`
}

// Value implements driver.Valuer (JSONB column).
func (p Profile) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner (JSONB column).
func (p *Profile) Scan(src interface{}) error {
	return scanJSON(src, p)
}

// Note is one timestamped entry of a work record's description.
type Note struct {
	Date    time.Time `json:"date"`
	Details string    `json:"details"`
}

// Notes is the append-only description of a work record.
type Notes []Note

// Value implements driver.Valuer; a nil slice is stored as an empty array.
func (n Notes) Value() (driver.Value, error) {
	if n == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Note(n))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner (JSONB column).
func (n *Notes) Scan(src interface{}) error {
	if err := scanJSON(src, (*[]Note)(n)); err != nil {
		return err
	}
	if *n == nil {
		*n = Notes{}
	}
	return nil
}

// WorkRecord is one tracked shift of one person.
type WorkRecord struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	Profile     Profile          `json:"profile"`
	WorkDate    time.Time        `json:"workDate"`
	StartTime   time.Time        `json:"startTime"`
	EndTime     *time.Time       `json:"endTime,omitempty"`
	TotalHours  *string          `json:"totalHours,omitempty"`
	Description Notes            `json:"description"`
	Status      WorkRecordStatus `json:"status"`
}

// IsActive reports whether the shift is still open.
func (w *WorkRecord) IsActive() bool {
	return w.Status == WorkRecordActive
}

// ActiveWorkRecordsPage is the body of GET /work-records/active.
type ActiveWorkRecordsPage struct {
	Data       []WorkRecord `json:"data"`
	TotalItems int          `json:"totalItems"`
	TotalPages int          `json:"totalPages"`
}

// UserWorkRecordsPage is the body of GET /work-hours/all-record/:userId.
type UserWorkRecordsPage struct {
	TotalRecords int          `json:"totalRecords"`
	TotalPages   int          `json:"totalPages"`
	CurrentPage  int          `json:"currentPage"`
	Data         []WorkRecord `json:"data"`
}

// MonthWorkRecordsPage is the body of GET /work-hours/search/months.
// Data holds []WorkRecord, or a single-element []string when the month has no records.
type MonthWorkRecordsPage struct {
	TotalPages int         `json:"totalPages"`
	TotalLogs  int         `json:"totalLogs"`
	Data       interface{} `json:"data"`
}

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported JSON column type %T", src)
	}
}
