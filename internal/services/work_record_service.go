package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"stock_backend/internal/models"
	"stock_backend/internal/repositories"
	"stock_backend/pkg/utils"
)

// --- Custom Service Errors for Work Records ---
var (
	ErrWorkRecordNotFound = errors.New("work record not found or already closed")
	ErrActiveShiftExists  = errors.New("user already has an active work record")
)

const (
	workRecordModule   = "documentos"
	opStartShift       = "Inicio de Hora Trabajada"
	opAddNote          = "Se Agregar Nota"
	opEndShift         = "Fin de Hora Trabajada"
	closedStateLabel   = "finalizado"
	noMonthDataPattern = "SIN DATOS PARA EL MES DE %s"
)

// --- Work Record DTOs ---

// StartShiftRequest opens a shift for Profile.ID. Status is accepted for
// compatibility and ignored: a new record is always active.
type StartShiftRequest struct {
	Profile models.Profile `json:"profile" binding:"required"`
	Status  *string        `json:"status"`
}

type NoteDetails struct {
	RegisterID string `json:"registerId" binding:"required"`
	Details    string `json:"details" binding:"required"`
}

type AddDetailsRequest struct {
	NewDetails NoteDetails `json:"newDetails" binding:"required"`
}

type EndShiftRequest struct {
	ID string `json:"id" binding:"required"`
}

type CloseRecordRequest struct {
	RecordID string `json:"recordId" binding:"required"`
	UserID   string `json:"userId" binding:"required"`
}

// --- WorkRecordService Interface ---
type WorkRecordService interface {
	StartShift(ctx context.Context, actor models.Actor, req StartShiftRequest) (*models.WorkRecord, error)
	AddDetails(ctx context.Context, actor models.Actor, req AddDetailsRequest) (*models.WorkRecord, error)
	EndShiftByUser(ctx context.Context, actor models.Actor, userID string) (*models.WorkRecord, error)
	CloseShift(ctx context.Context, actor models.Actor, recordID, userID string) (*models.WorkRecord, error)

	ListActive(ctx context.Context, page models.PageParams) (*models.ActiveWorkRecordsPage, error)
	ListCurrentMonthByUser(ctx context.Context, userID string, page models.PageParams) (*models.UserWorkRecordsPage, error)
	SearchByMonth(ctx context.Context, userID, month string, page models.PageParams) (*models.MonthWorkRecordsPage, error)
}

type workRecordService struct {
	records repositories.WorkRecordRepository
	users   repositories.UserRepository
	logs    GlobalLogService
	tx      repositories.Transactor
	now     Clock
}

// NewWorkRecordService creates a new instance of WorkRecordService.
func NewWorkRecordService(
	records repositories.WorkRecordRepository,
	users repositories.UserRepository,
	logs GlobalLogService,
	tx repositories.Transactor,
	clock Clock,
) WorkRecordService {
	return &workRecordService{records: records, users: users, logs: logs, tx: tx, now: clock}
}

func (s *workRecordService) audit(ctx context.Context, actor models.Actor, op, entityID, data, message string) {
	s.logs.Record(ctx, actor, LogEntry{
		Module:    workRecordModule,
		Operation: op,
		EntityID:  entityID,
		Data:      data,
		Message:   message,
	})
}

func (s *workRecordService) StartShift(ctx context.Context, actor models.Actor, req StartShiftRequest) (*models.WorkRecord, error) {
	userID := req.Profile.ID
	if utils.IsEmpty(userID) {
		return nil, fmt.Errorf("%w: profile id is required", ErrUserNotFound)
	}

	_, err := s.records.FindActiveByUser(ctx, userID)
	if err == nil {
		s.audit(ctx, actor, opStartShift, userID, userID, "El usuario ya tiene un registro de trabajo activo")
		return nil, ErrActiveShiftExists
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("checking active work record: %w", err)
	}

	now := s.now()
	rec := &models.WorkRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Profile:     req.Profile,
		WorkDate:    utils.StartOfDay(now),
		StartTime:   now,
		Description: models.Notes{},
		Status:      models.WorkRecordActive,
	}

	var created *models.WorkRecord
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		created, err = s.records.Create(ctx, exec, rec)
		if err != nil {
			return err
		}
		return s.users.SetActive(ctx, exec, userID, true)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateKey):
			s.audit(ctx, actor, opStartShift, userID, userID, "El usuario ya tiene un registro de trabajo activo")
			return nil, ErrActiveShiftExists
		case errors.Is(err, repositories.ErrNotFound):
			s.audit(ctx, actor, opStartShift, userID, userID, "El usuario no existe")
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("starting shift: %w", err)
	}

	s.audit(ctx, actor, opStartShift, created.ID,
		fmt.Sprintf("día: %s, inicio: %s", created.WorkDate.Format(utils.DateLayout), created.StartTime.Format(utils.ClockLayout)),
		"El Documento se creó con éxito")
	return created, nil
}

// AddDetails appends a note. Closed records still accept notes.
func (s *workRecordService) AddDetails(ctx context.Context, actor models.Actor, req AddDetailsRequest) (*models.WorkRecord, error) {
	id := req.NewDetails.RegisterID
	details := req.NewDetails.Details

	var updated *models.WorkRecord
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		updated, err = s.records.AppendNote(ctx, exec, id, models.Note{Date: s.now(), Details: details})
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.audit(ctx, actor, opAddNote, id, details, "El Documentos no existe")
			return nil, ErrWorkRecordNotFound
		}
		return nil, fmt.Errorf("appending note: %w", err)
	}

	s.audit(ctx, actor, opAddNote, id, details, "El Documentos creado")
	return updated, nil
}

func (s *workRecordService) EndShiftByUser(ctx context.Context, actor models.Actor, userID string) (*models.WorkRecord, error) {
	rec, err := s.records.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.audit(ctx, actor, opEndShift, userID, userID, "El Documento no existe")
			return nil, ErrWorkRecordNotFound
		}
		return nil, fmt.Errorf("finding active work record: %w", err)
	}

	closed, err := s.close(ctx, rec)
	if err != nil {
		if errors.Is(err, ErrWorkRecordNotFound) {
			s.audit(ctx, actor, opEndShift, userID, userID, "El Documento no existe")
		}
		return nil, err
	}

	s.audit(ctx, actor, opEndShift, userID, closedData(closed), "El Documento ha sido actualizado")
	return closed, nil
}

func (s *workRecordService) CloseShift(ctx context.Context, actor models.Actor, recordID, userID string) (*models.WorkRecord, error) {
	notFound := func() {
		s.audit(ctx, actor, opEndShift, recordID,
			fmt.Sprintf("Record ID: %s, User ID: %s", recordID, userID),
			"El registro de trabajo no existe o ya está finalizado.")
	}

	rec, err := s.records.FindActiveByIDAndUser(ctx, recordID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			notFound()
			return nil, ErrWorkRecordNotFound
		}
		return nil, fmt.Errorf("finding work record: %w", err)
	}

	closed, err := s.close(ctx, rec)
	if err != nil {
		if errors.Is(err, ErrWorkRecordNotFound) {
			notFound()
		}
		return nil, err
	}

	s.audit(ctx, actor, opEndShift, recordID, closedData(closed), "El registro de trabajo ha sido actualizado correctamente")
	return closed, nil
}

// close performs the active -> closed transition and clears the owner's
// activity flag in one transaction. A record closed concurrently by another
// caller surfaces as ErrWorkRecordNotFound.
func (s *workRecordService) close(ctx context.Context, rec *models.WorkRecord) (*models.WorkRecord, error) {
	end := s.now()
	total := ComputeDuration(rec.StartTime, end)

	var closed *models.WorkRecord
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		closed, err = s.records.Close(ctx, exec, rec.ID, end, total)
		if err != nil {
			return err
		}
		if err := s.users.SetActive(ctx, exec, rec.UserID, false); err != nil {
			if !errors.Is(err, repositories.ErrNotFound) {
				return err
			}
			utils.LogWarn(err, fmt.Sprintf("User %s no longer exists; activity flag not cleared", rec.UserID))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrWorkRecordNotFound
		}
		return nil, fmt.Errorf("closing work record %s: %w", rec.ID, err)
	}
	return closed, nil
}

func closedData(rec *models.WorkRecord) string {
	var end, total string
	if rec.EndTime != nil {
		end = rec.EndTime.Format(utils.DateTimeLayout)
	}
	if rec.TotalHours != nil {
		total = *rec.TotalHours
	}
	return fmt.Sprintf("día que terminó: %s, total de horas trabajadas: %s, estado: %s", end, total, closedStateLabel)
}

func (s *workRecordService) ListActive(ctx context.Context, page models.PageParams) (*models.ActiveWorkRecordsPage, error) {
	records, total, err := s.records.ListByStatus(ctx, models.WorkRecordActive, page)
	if err != nil {
		return nil, fmt.Errorf("listing active work records: %w", err)
	}
	return &models.ActiveWorkRecordsPage{
		Data:       records,
		TotalItems: total,
		TotalPages: page.TotalPages(total),
	}, nil
}

// ListCurrentMonthByUser covers the first of the current month through the end of today.
func (s *workRecordService) ListCurrentMonthByUser(ctx context.Context, userID string, page models.PageParams) (*models.UserWorkRecordsPage, error) {
	now := s.now()
	from := utils.StartOfMonth(now)
	to := utils.StartOfDay(now).AddDate(0, 0, 1)

	records, total, err := s.records.ListByUserAndRange(ctx, userID, from, to, page)
	if err != nil {
		return nil, fmt.Errorf("listing work records for user %s: %w", userID, err)
	}
	return &models.UserWorkRecordsPage{
		TotalRecords: total,
		TotalPages:   page.TotalPages(total),
		CurrentPage:  page.Page,
		Data:         records,
	}, nil
}

// SearchByMonth lists a user's records for a named month of the current year.
// A month without records yields a single-message sentinel instead of an empty list.
func (s *workRecordService) SearchByMonth(ctx context.Context, userID, month string, page models.PageParams) (*models.MonthWorkRecordsPage, error) {
	if utils.IsEmpty(userID) || utils.IsEmpty(month) {
		return &models.MonthWorkRecordsPage{Data: []models.WorkRecord{}}, nil
	}
	m, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}

	from, to := MonthRange(m, s.now())
	records, total, err := s.records.ListByUserAndRange(ctx, userID, from, to, page)
	if err != nil {
		return nil, fmt.Errorf("searching work records for %s: %w", month, err)
	}
	if total == 0 {
		return &models.MonthWorkRecordsPage{
			TotalPages: 1,
			TotalLogs:  0,
			Data:       []string{fmt.Sprintf(noMonthDataPattern, strings.ToUpper(strings.TrimSpace(month)))},
		}, nil
	}
	return &models.MonthWorkRecordsPage{
		TotalPages: page.TotalPages(total),
		TotalLogs:  total,
		Data:       records,
	}, nil
}
