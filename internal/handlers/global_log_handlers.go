package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_backend/internal/services"
	"stock_backend/pkg/utils"
)

// GlobalLogHandler exposes the audit trail.
type GlobalLogHandler struct {
	globalLogService services.GlobalLogService
}

// NewGlobalLogHandler creates a new GlobalLogHandler.
func NewGlobalLogHandler(s services.GlobalLogService) *GlobalLogHandler {
	return &GlobalLogHandler{globalLogService: s}
}

// GetCurrentMonth handles GET /global-logs.
func (h *GlobalLogHandler) GetCurrentMonth(c *gin.Context) {
	page, err := h.globalLogService.ListCurrentMonth(c.Request.Context(), pageParams(c))
	if err != nil {
		utils.LogError(err, "GetCurrentMonth: Error from globalLogService.ListCurrentMonth")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch logs.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, page)
}

// SearchByMonth handles GET /globalLogs/search/months.
func (h *GlobalLogHandler) SearchByMonth(c *gin.Context) {
	month := c.Query("month")
	page, err := h.globalLogService.SearchByMonth(c.Request.Context(), month, pageParams(c))
	if err != nil {
		utils.LogError(err, "SearchByMonth: Error from globalLogService.SearchByMonth for month "+month)
		if errors.Is(err, services.ErrInvalidMonth) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid month name.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to search logs.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, page)
}
