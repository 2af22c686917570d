package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"stock_backend/internal/models"
	"stock_backend/internal/repositories"
)

// --- Custom Service Errors for Users ---
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDocumentsConflict = errors.New("a user with these documents already exists")
)

const (
	userModule   = "users"
	opCreateUser = "Creacion de Personal"
	opUpdateUser = "Actualización de Personal"
	opDeleteUser = "Borrar Personal"
)

// --- User DTOs ---
type CreateUserRequest struct {
	Name      string `json:"name" binding:"required"`
	SurName   string `json:"surName" binding:"required"`
	Documents string `json:"documents" binding:"required"`
	Role      string `json:"role" binding:"required"`
	IsActive  *bool  `json:"isActive"`
}

// UpdateUserRequest replaces the editable fields. The activity flag is owned
// by the work-record lifecycle and cannot be set here.
type UpdateUserRequest struct {
	Name      string `json:"name" binding:"required"`
	SurName   string `json:"surName" binding:"required"`
	Documents string `json:"documents" binding:"required"`
	Role      string `json:"role"`
}

// --- UserService Interface ---
type UserService interface {
	CreateUser(ctx context.Context, actor models.Actor, req CreateUserRequest) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, page models.PageParams) (*models.UsersPage, error)
	SearchUsers(ctx context.Context, name string, page models.PageParams) (*models.UsersPage, error)
	UpdateUser(ctx context.Context, actor models.Actor, id string, req UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, actor models.Actor, id string) error
}

type userService struct {
	repo repositories.UserRepository
	logs GlobalLogService
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo repositories.UserRepository, logs GlobalLogService) UserService {
	return &userService{repo: repo, logs: logs}
}

func (s *userService) audit(ctx context.Context, actor models.Actor, op, entityID, data, message string) {
	s.logs.Record(ctx, actor, LogEntry{Module: userModule, Operation: op, EntityID: entityID, Data: data, Message: message})
}

func (s *userService) CreateUser(ctx context.Context, actor models.Actor, req CreateUserRequest) (*models.User, error) {
	documents := strings.TrimSpace(req.Documents)

	existing, err := s.repo.FindByDocuments(ctx, documents)
	if err == nil {
		s.audit(ctx, actor, opCreateUser, existing.ID, existing.ID,
			fmt.Sprintf("Ya existe un trabajador con el documento %s", documents))
		return nil, ErrDocumentsConflict
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("checking documents: %w", err)
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		SurName:   strings.TrimSpace(req.SurName),
		Documents: documents,
		Role:      strings.TrimSpace(req.Role),
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			s.audit(ctx, actor, opCreateUser, user.ID, user.ID,
				fmt.Sprintf("Ya existe un trabajador con el documento %s", documents))
			return nil, ErrDocumentsConflict
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.audit(ctx, actor, opCreateUser, created.ID, created.ID,
		fmt.Sprintf("documents: %s,name: %s , surName: %s", created.Documents, created.Name, created.SurName))
	return created, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

func (s *userService) ListUsers(ctx context.Context, page models.PageParams) (*models.UsersPage, error) {
	users, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return &models.UsersPage{Data: users, TotalItems: total, TotalPages: page.TotalPages(total)}, nil
}

func (s *userService) SearchUsers(ctx context.Context, name string, page models.PageParams) (*models.UsersPage, error) {
	users, total, err := s.repo.SearchByName(ctx, name, page)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	return &models.UsersPage{Data: users, TotalItems: total, TotalPages: page.TotalPages(total)}, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor models.Actor, id string, req UpdateUserRequest) (*models.User, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.audit(ctx, actor, opUpdateUser, id, id, "el usuario no existe")
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	documents := strings.TrimSpace(req.Documents)
	if documents != existing.Documents {
		owner, err := s.repo.FindByDocuments(ctx, documents)
		if err == nil && owner.ID != id {
			s.audit(ctx, actor, opUpdateUser, id, documents,
				fmt.Sprintf("Ya existe un usuario con el documento: %s", documents))
			return nil, ErrDocumentsConflict
		}
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("checking documents: %w", err)
		}
	}

	existing.Name = strings.TrimSpace(req.Name)
	existing.SurName = strings.TrimSpace(req.SurName)
	existing.Documents = documents
	if role := strings.TrimSpace(req.Role); role != "" {
		existing.Role = role
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			s.audit(ctx, actor, opUpdateUser, id, id, "el usuario no existe")
			return nil, ErrUserNotFound
		case errors.Is(err, repositories.ErrDuplicateKey):
			s.audit(ctx, actor, opUpdateUser, id, documents,
				fmt.Sprintf("Ya existe un usuario con el documento: %s", documents))
			return nil, ErrDocumentsConflict
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.audit(ctx, actor, opUpdateUser, id, updated.Documents, "El usuario fue actualizado correctamente")
	return updated, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor models.Actor, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deleting user: %w", err)
	}
	s.audit(ctx, actor, opDeleteUser, id, id, "Usuario Borrado")
	return nil
}
