package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_backend/internal/middleware"
	"stock_backend/internal/services"
	"stock_backend/pkg/utils"
)

// ProductHandler holds the inventory service.
type ProductHandler struct {
	productService services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(s services.ProductService) *ProductHandler {
	return &ProductHandler{productService: s}
}

func respondProductError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Producto no encontrado.", err.Error()))
	case errors.Is(err, services.ErrInvalidQuantity):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "La cantidad debe ser mayor a 0.", err.Error()))
	case errors.Is(err, services.ErrNoChanges):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "No hay cambios para actualizar", err.Error()))
	case errors.Is(err, services.ErrInvalidSearchType):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid search type.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}

// GetProducts handles GET /products.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	page, err := h.productService.ListProducts(c.Request.Context(), pageParams(c))
	if err != nil {
		utils.LogError(err, "GetProducts: Error from productService.ListProducts")
		respondProductError(c, err, "Failed to fetch products.")
		return
	}
	c.JSON(http.StatusOK, page)
}

// SearchProducts handles GET /products/search?searchType=&term=.
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	page, err := h.productService.SearchProducts(c.Request.Context(), c.Query("searchType"), c.Query("term"), pageParams(c))
	if err != nil {
		utils.LogError(err, "SearchProducts: Error from productService.SearchProducts")
		respondProductError(c, err, "Failed to search products.")
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreateProduct handles POST /products/create.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateProduct: Failed to bind JSON")
		utils.RespondValidationFailed(c, err)
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), middleware.ActorFromContext(c), req)
	if err != nil {
		utils.LogError(err, "CreateProduct: Error from productService.CreateProduct")
		respondProductError(c, err, "Failed to create product.")
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetProductByID handles GET /products/search/:id.
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id := c.Param("id")
	product, err := h.productService.GetProductByID(c.Request.Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		utils.LogError(err, "GetProductByID: Error from productService.GetProductByID for ID "+id)
		respondProductError(c, err, "Failed to fetch product.")
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct handles PUT /products/update/:id.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateProduct: Failed to bind JSON for ID "+id)
		utils.RespondValidationFailed(c, err)
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), middleware.ActorFromContext(c), id, req)
	if err != nil {
		utils.LogError(err, "UpdateProduct: Error from productService.UpdateProduct for ID "+id)
		respondProductError(c, err, "Failed to update product.")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/delete/:id.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.productService.DeleteProduct(c.Request.Context(), middleware.ActorFromContext(c), id); err != nil {
		utils.LogError(err, "DeleteProduct: Error from productService.DeleteProduct for ID "+id)
		respondProductError(c, err, "Failed to delete product.")
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock handles POST /products/update/count. A refused negative
// adjustment still answers 200 with the unchanged count.
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	var req services.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "AdjustStock: Failed to bind JSON")
		utils.RespondValidationFailed(c, err)
		return
	}

	res, err := h.productService.AdjustStock(c.Request.Context(), middleware.ActorFromContext(c), req)
	if err != nil && !errors.Is(err, services.ErrNegativeStock) {
		utils.LogError(err, "AdjustStock: Error from productService.AdjustStock for ID "+req.RegisterID)
		respondProductError(c, err, "Failed to update stock.")
		return
	}
	c.JSON(http.StatusOK, res)
}
