package router

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_backend/internal/config"
	"stock_backend/internal/handlers"
	"stock_backend/internal/middleware"
	"stock_backend/internal/repositories"
	"stock_backend/internal/services"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, cfg config.Config, clock services.Clock) {
	// Initialize Repositories
	workRecordRepo := repositories.NewWorkRecordRepository(db)
	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	globalLogRepo := repositories.NewGlobalLogRepository(db)
	adminUserRepo := repositories.NewAdminUserRepository(db)
	transactor := repositories.NewTransactor(db)

	// Initialize Services
	jwtSecret := []byte(cfg.Auth.JWTSecret)
	globalLogService := services.NewGlobalLogService(globalLogRepo, clock)
	workRecordService := services.NewWorkRecordService(workRecordRepo, userRepo, globalLogService, transactor, clock)
	userService := services.NewUserService(userRepo, globalLogService)
	productService := services.NewProductService(productRepo, globalLogService, clock)
	adminAuthService := services.NewAdminAuthService(adminUserRepo, jwtSecret, cfg.Auth.TokenTTL)
	dollarService := services.NewDollarService(&http.Client{Timeout: cfg.Dollar.Timeout}, cfg.Dollar.SourceURL)

	// Initialize Handlers
	h := Handlers{
		WorkRecords: handlers.NewWorkRecordHandler(workRecordService),
		Users:       handlers.NewUserHandler(userService),
		Products:    handlers.NewProductHandler(productService),
		GlobalLogs:  handlers.NewGlobalLogHandler(globalLogService),
		AdminAuth:   handlers.NewAdminAuthHandler(adminAuthService),
		Dollar:      handlers.NewDollarHandler(dollarService),
	}
	Register(engine, h, jwtSecret)
}

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	WorkRecords *handlers.WorkRecordHandler
	Users       *handlers.UserHandler
	Products    *handlers.ProductHandler
	GlobalLogs  *handlers.GlobalLogHandler
	AdminAuth   *handlers.AdminAuthHandler
	Dollar      *handlers.DollarHandler
}

// Register mounts the public and authenticated routes on engine.
func Register(engine *gin.Engine, h Handlers, jwtSecret []byte) {
	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	SetupAdminLoginRoutes(engine.Group(""), h.AdminAuth)

	authenticated := engine.Group("")
	authenticated.Use(middleware.AuthMiddleware(jwtSecret))
	{
		SetupWorkRecordRoutes(authenticated, h.WorkRecords)
		SetupUserRoutes(authenticated, h.Users)
		SetupProductRoutes(authenticated, h.Products)
		SetupGlobalLogRoutes(authenticated, h.GlobalLogs)
		SetupAdminUserRoutes(authenticated, h.AdminAuth)
		SetupDollarRoutes(authenticated, h.Dollar)
	}
}
