package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_backend/internal/middleware"
	"stock_backend/internal/models"
	"stock_backend/internal/services"
	"stock_backend/pkg/utils"
)

// WorkRecordHandler holds the work record service.
type WorkRecordHandler struct {
	workRecordService services.WorkRecordService
}

// NewWorkRecordHandler creates a new WorkRecordHandler.
func NewWorkRecordHandler(s services.WorkRecordService) *WorkRecordHandler {
	return &WorkRecordHandler{workRecordService: s}
}

func pageParams(c *gin.Context) models.PageParams {
	page, limit := utils.ParsePagination(c)
	return models.NewPageParams(page, limit)
}

// respondWorkRecordError maps lifecycle errors to HTTP responses.
func respondWorkRecordError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrWorkRecordNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Work record not found or already closed.", err.Error()))
	case errors.Is(err, services.ErrUserNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found.", err.Error()))
	case errors.Is(err, services.ErrActiveShiftExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "User already has an active work record.", err.Error()))
	case errors.Is(err, services.ErrInvalidMonth):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid month name.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}

// StartShift handles POST /work-records/start-worker-hours.
func (h *WorkRecordHandler) StartShift(c *gin.Context) {
	var req services.StartShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "StartShift: Failed to bind JSON")
		utils.RespondValidationFailed(c, err)
		return
	}

	rec, err := h.workRecordService.StartShift(c.Request.Context(), middleware.ActorFromContext(c), req)
	if err != nil {
		utils.LogError(err, "StartShift: Error from workRecordService.StartShift for user "+req.Profile.ID)
		respondWorkRecordError(c, err, "Failed to start work record.")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// AddDetails handles POST /work-records/add-details.
func (h *WorkRecordHandler) AddDetails(c *gin.Context) {
	var req services.AddDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "AddDetails: Failed to bind JSON")
		utils.RespondValidationFailed(c, err)
		return
	}

	rec, err := h.workRecordService.AddDetails(c.Request.Context(), middleware.ActorFromContext(c), req)
	if err != nil {
		utils.LogError(err, "AddDetails: Error from workRecordService.AddDetails for record "+req.NewDetails.RegisterID)
		respondWorkRecordError(c, err, "Failed to add details.")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// EndShift handles POST /work-records/end-worker-hours.
func (h *WorkRecordHandler) EndShift(c *gin.Context) {
	var req services.EndShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "EndShift: Failed to bind JSON")
		utils.RespondValidationFailed(c, err)
		return
	}

	rec, err := h.workRecordService.EndShiftByUser(c.Request.Context(), middleware.ActorFromContext(c), req.ID)
	if err != nil {
		utils.LogError(err, "EndShift: Error from workRecordService.EndShiftByUser for user "+req.ID)
		respondWorkRecordError(c, err, "Failed to close work record.")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// CloseRecord handles POST /work-records/close-records.
func (h *WorkRecordHandler) CloseRecord(c *gin.Context) {
	var req services.CloseRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CloseRecord: Failed to bind JSON")
		utils.RespondValidationFailed(c, err)
		return
	}

	rec, err := h.workRecordService.CloseShift(c.Request.Context(), middleware.ActorFromContext(c), req.RecordID, req.UserID)
	if err != nil {
		utils.LogError(err, "CloseRecord: Error from workRecordService.CloseShift for record "+req.RecordID)
		respondWorkRecordError(c, err, "Failed to close work record.")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetActiveRecords handles GET /work-records/active.
func (h *WorkRecordHandler) GetActiveRecords(c *gin.Context) {
	page, err := h.workRecordService.ListActive(c.Request.Context(), pageParams(c))
	if err != nil {
		utils.LogError(err, "GetActiveRecords: Error from workRecordService.ListActive")
		respondWorkRecordError(c, err, "Failed to fetch active work records.")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetUserRecords handles GET /work-hours/all-record/:userId.
func (h *WorkRecordHandler) GetUserRecords(c *gin.Context) {
	userID := c.Param("userId")
	page, err := h.workRecordService.ListCurrentMonthByUser(c.Request.Context(), userID, pageParams(c))
	if err != nil {
		utils.LogError(err, "GetUserRecords: Error from workRecordService.ListCurrentMonthByUser for user "+userID)
		respondWorkRecordError(c, err, "Failed to fetch work records.")
		return
	}
	c.JSON(http.StatusOK, page)
}

// SearchByMonth handles GET /work-hours/search/months.
func (h *WorkRecordHandler) SearchByMonth(c *gin.Context) {
	userID := c.Query("userId")
	month := c.Query("search")
	page, err := h.workRecordService.SearchByMonth(c.Request.Context(), userID, month, pageParams(c))
	if err != nil {
		utils.LogError(err, "SearchByMonth: Error from workRecordService.SearchByMonth for month "+month)
		respondWorkRecordError(c, err, "Failed to search work records.")
		return
	}
	c.JSON(http.StatusOK, page)
}
