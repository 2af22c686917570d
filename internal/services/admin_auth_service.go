package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"stock_backend/internal/models"
	"stock_backend/internal/repositories"
	"stock_backend/pkg/utils"
)

// --- Custom Service Errors for Admin Auth ---
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminNotFound      = fmt.Errorf("%w: unknown username", ErrInvalidCredentials)
	ErrWrongPassword      = fmt.Errorf("%w: wrong password", ErrInvalidCredentials)
	ErrUsernameExists     = errors.New("username already exists")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// RoleAdmin is the role allowed to manage admin accounts.
const RoleAdmin = "admin"

// --- Admin DTOs ---
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	Name    string `json:"name,omitempty"`
}

type CreateAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required"`
}

// --- AdminAuthService Interface ---
type AdminAuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	CreateAdmin(ctx context.Context, req CreateAdminRequest) (*models.AdminUser, error)
}

type adminAuthService struct {
	repo      repositories.AdminUserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAdminAuthService creates a new instance of AdminAuthService.
func NewAdminAuthService(repo repositories.AdminUserRepository, jwtSecret []byte, tokenTTL time.Duration) AdminAuthService {
	return &adminAuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *adminAuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	admin, err := s.repo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("finding admin user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrWrongPassword
	}

	token, err := utils.GenerateAccessToken(s.jwtSecret, s.tokenTTL, admin.ID, admin.Username, admin.Role, admin.Name)
	if err != nil {
		utils.LogError(err, "Failed to sign admin token")
		return nil, ErrTokenGeneration
	}

	return &LoginResponse{
		Success: true,
		Message: "Inicio de sesión exitoso",
		Token:   token,
		Name:    admin.Name,
	}, nil
}

func (s *adminAuthService) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*models.AdminUser, error) {
	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	admin := &models.AdminUser{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hashed,
		Email:        strings.TrimSpace(req.Email),
		Role:         strings.TrimSpace(req.Role),
	}
	created, err := s.repo.Create(ctx, admin)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("creating admin user: %w", err)
	}
	return created, nil
}

// HashPassword bcrypt-hashes a plain password with the default cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
