package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"stock_backend/internal/models"
	"stock_backend/internal/repositories"
	"stock_backend/pkg/utils"
)

// LogEntry is what a caller supplies for one audit entry. Identity and date
// are stamped by the service.
type LogEntry struct {
	Module    string
	Operation string
	EntityID  string
	Data      string
	Message   string
}

// GlobalLogService records and lists audit entries.
type GlobalLogService interface {
	// Record appends an entry stamped with actor. Failures are logged, never returned.
	Record(ctx context.Context, actor models.Actor, entry LogEntry)
	ListCurrentMonth(ctx context.Context, page models.PageParams) (*models.GlobalLogsPage, error)
	SearchByMonth(ctx context.Context, month string, page models.PageParams) (*models.GlobalLogsMonthPage, error)
}

type globalLogService struct {
	repo repositories.GlobalLogRepository
	now  Clock
}

// NewGlobalLogService creates a new instance of GlobalLogService.
func NewGlobalLogService(repo repositories.GlobalLogRepository, clock Clock) GlobalLogService {
	return &globalLogService{repo: repo, now: clock}
}

func (s *globalLogService) Record(ctx context.Context, actor models.Actor, entry LogEntry) {
	actor = actor.OrUnknown()
	log := &models.GlobalLog{
		ID:        uuid.NewString(),
		Module:    entry.Module,
		Operation: entry.Operation,
		EntityID:  entry.EntityID,
		Changes:   models.LogChanges{Data: entry.Data, Message: entry.Message},
		Date:      s.now(),
		UserID:    actor.ID,
		NameUser:  actor.Name,
	}
	if err := s.repo.Create(ctx, log); err != nil {
		utils.LogError(err, fmt.Sprintf("Failed to record audit entry %s/%s for %s", entry.Module, entry.Operation, entry.EntityID))
	}
}

func (s *globalLogService) ListCurrentMonth(ctx context.Context, page models.PageParams) (*models.GlobalLogsPage, error) {
	now := s.now()
	logs, total, err := s.repo.ListByRange(ctx, utils.StartOfMonth(now), utils.StartOfNextMonth(now), page)
	if err != nil {
		return nil, fmt.Errorf("listing current month logs: %w", err)
	}
	return &models.GlobalLogsPage{TotalPages: page.TotalPages(total), Data: logs}, nil
}

func (s *globalLogService) SearchByMonth(ctx context.Context, month string, page models.PageParams) (*models.GlobalLogsMonthPage, error) {
	if strings.TrimSpace(month) == "" {
		return &models.GlobalLogsMonthPage{Data: []models.GlobalLog{}}, nil
	}
	m, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}
	from, to := MonthRange(m, s.now())
	logs, total, err := s.repo.ListByRange(ctx, from, to, page)
	if err != nil {
		return nil, fmt.Errorf("searching logs for %s: %w", month, err)
	}
	return &models.GlobalLogsMonthPage{TotalPages: page.TotalPages(total), TotalLogs: total, Data: logs}, nil
}

