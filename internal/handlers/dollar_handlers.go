package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_backend/internal/services"
	"stock_backend/pkg/utils"
)

// DollarHandler serves the blue-dollar quote.
type DollarHandler struct {
	dollarService services.DollarService
}

// NewDollarHandler creates a new DollarHandler.
func NewDollarHandler(s services.DollarService) *DollarHandler {
	return &DollarHandler{dollarService: s}
}

// GetDollarBlue handles GET /dollar-blue.
func (h *DollarHandler) GetDollarBlue(c *gin.Context) {
	quote, err := h.dollarService.GetBlue(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetDollarBlue: Error from dollarService.GetBlue")
		c.JSON(http.StatusBadGateway, services.DollarBlueResponse{Success: false, Message: "Error al obtener los datos"})
		return
	}
	c.JSON(http.StatusOK, services.DollarBlueResponse{Success: true, Blue: quote})
}
