package router

import (
	"github.com/gin-gonic/gin"

	"stock_backend/internal/handlers"
	"stock_backend/internal/middleware"
	"stock_backend/internal/services"
)

// SetupAdminLoginRoutes sets up the public login route.
func SetupAdminLoginRoutes(publicGroup *gin.RouterGroup, h *handlers.AdminAuthHandler) {
	publicGroup.POST("/admin/login", h.Login)
}

// SetupAdminUserRoutes sets up admin account management, restricted to admins.
func SetupAdminUserRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.AdminAuthHandler) {
	adminRoutes := authenticatedGroup.Group("/admin-users")
	adminRoutes.Use(middleware.RoleAuthMiddleware(services.RoleAdmin))
	{
		adminRoutes.POST("", h.CreateAdmin)
	}
}

// SetupWorkRecordRoutes sets up the shift lifecycle and work-hours listing routes.
func SetupWorkRecordRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.WorkRecordHandler) {
	recordRoutes := authenticatedGroup.Group("/work-records")
	{
		recordRoutes.POST("/start-worker-hours", h.StartShift)
		recordRoutes.POST("/add-details", h.AddDetails)
		recordRoutes.POST("/end-worker-hours", h.EndShift)
		recordRoutes.POST("/close-records", h.CloseRecord)
		recordRoutes.GET("/active", h.GetActiveRecords)
	}

	hoursRoutes := authenticatedGroup.Group("/work-hours")
	{
		hoursRoutes.GET("/all-record/:userId", h.GetUserRecords)
		hoursRoutes.GET("/search/months", h.SearchByMonth)
	}
}

// SetupUserRoutes sets up the personnel routes.
func SetupUserRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.UserHandler) {
	userRoutes := authenticatedGroup.Group("/users")
	{
		userRoutes.POST("/create", h.CreateUser)
		userRoutes.GET("", h.GetUsers)
		userRoutes.GET("/search", h.SearchUsers)
		userRoutes.GET("/search/:id", h.GetUserByID)
		userRoutes.PUT("/update/:id", h.UpdateUser)
		userRoutes.DELETE("/delete/:id", h.DeleteUser)
	}
}

// SetupProductRoutes sets up the inventory routes.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.ProductHandler) {
	productRoutes := authenticatedGroup.Group("/products")
	{
		productRoutes.GET("", h.GetProducts)
		productRoutes.GET("/search", h.SearchProducts)
		productRoutes.GET("/search/:id", h.GetProductByID)
		productRoutes.POST("/create", h.CreateProduct)
		productRoutes.PUT("/update/:id", h.UpdateProduct)
		productRoutes.DELETE("/delete/:id", h.DeleteProduct)
		productRoutes.POST("/update/count", h.AdjustStock)
	}
}

// SetupGlobalLogRoutes sets up the audit trail routes.
func SetupGlobalLogRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.GlobalLogHandler) {
	authenticatedGroup.GET("/global-logs", h.GetCurrentMonth)
	authenticatedGroup.GET("/globalLogs/search/months", h.SearchByMonth)
}

// SetupDollarRoutes sets up the exchange-rate quote route.
func SetupDollarRoutes(authenticatedGroup *gin.RouterGroup, h *handlers.DollarHandler) {
	authenticatedGroup.GET("/dollar-blue", h.GetDollarBlue)
}
