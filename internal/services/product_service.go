package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"stock_backend/internal/models"
	"stock_backend/internal/repositories"
	"stock_backend/pkg/utils"
)

// --- Custom Service Errors for Products ---
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidQuantity   = errors.New("product quantity must be greater than zero")
	ErrNoChanges         = errors.New("no changes to update")
	ErrInvalidSearchType = errors.New("searchType must be 'name' or 'dimension'")
	ErrNegativeStock     = errors.New("stock cannot be negative")
)

const (
	productModule    = "products"
	opCreateProduct  = "Creacion De Producto"
	opDeleteProduct  = "Producto Borrado"
	opUpdateProduct  = "Actualización de Producto"
	opAdjustStock    = "Actualizacion de Cantidad"
	msgNegativeStock = "El stock no puede ser negativo."
	msgStockAdjusted = "Cantidad actualizada correctamente."
)

// --- Product DTOs ---
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Dimension   string `json:"dimension" binding:"required"`
	Price       string `json:"price" binding:"required"`
}

// UpdateProductRequest carries candidate values; absent, empty and zero
// values are treated as "leave unchanged".
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Quantity    *int    `json:"quantity"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Dimension   *string `json:"dimension"`
	Price       *string `json:"price"`
}

type AdjustStockRequest struct {
	RegisterID string `json:"registerId" binding:"required"`
	Count      *int   `json:"count" binding:"required"`
}

// --- ProductService Interface ---
type ProductService interface {
	CreateProduct(ctx context.Context, actor models.Actor, req CreateProductRequest) (*models.Product, error)
	GetProductByID(ctx context.Context, actor models.Actor, id string) (*models.Product, error)
	ListProducts(ctx context.Context, page models.PageParams) (*models.ProductsPage, error)
	SearchProducts(ctx context.Context, searchType, term string, page models.PageParams) (*models.ProductsPage, error)
	UpdateProduct(ctx context.Context, actor models.Actor, id string, req UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, actor models.Actor, id string) error
	// AdjustStock returns ErrNegativeStock together with the unchanged count
	// when the adjustment would take the stock below zero.
	AdjustStock(ctx context.Context, actor models.Actor, req AdjustStockRequest) (*models.StockAdjustment, error)
}

type productService struct {
	repo repositories.ProductRepository
	logs GlobalLogService
	now  Clock
}

// NewProductService creates a new instance of ProductService.
func NewProductService(repo repositories.ProductRepository, logs GlobalLogService, clock Clock) ProductService {
	return &productService{repo: repo, logs: logs, now: clock}
}

func (s *productService) audit(ctx context.Context, actor models.Actor, op, entityID, data, message string) {
	s.logs.Record(ctx, actor, LogEntry{Module: productModule, Operation: op, EntityID: entityID, Data: data, Message: message})
}

func (s *productService) CreateProduct(ctx context.Context, actor models.Actor, req CreateProductRequest) (*models.Product, error) {
	if req.Quantity <= 0 {
		s.audit(ctx, actor, opCreateProduct, "", strconv.Itoa(req.Quantity), "El Producto fue igual a 0 o menos a 0")
		return nil, ErrInvalidQuantity
	}

	p := &models.Product{
		ID:          uuid.NewString(),
		Create:      utils.StartOfDay(s.now()),
		Name:        strings.TrimSpace(req.Name),
		Quantity:    req.Quantity,
		Description: req.Description,
		Type:        req.Type,
		Dimension:   req.Dimension,
		Price:       req.Price,
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	s.audit(ctx, actor, opCreateProduct, created.ID, created.Name, "El Producto creado")
	return created, nil
}

func (s *productService) GetProductByID(ctx context.Context, actor models.Actor, id string) (*models.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.audit(ctx, actor, opUpdateProduct, id, fmt.Sprintf("No producto no existe %s", id), "No producto no existe")
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return p, nil
}

func (s *productService) ListProducts(ctx context.Context, page models.PageParams) (*models.ProductsPage, error) {
	products, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return &models.ProductsPage{Data: products, TotalItems: total, TotalPages: page.TotalPages(total)}, nil
}

func (s *productService) SearchProducts(ctx context.Context, searchType, term string, page models.PageParams) (*models.ProductsPage, error) {
	field := repositories.ProductSearchField(strings.ToLower(strings.TrimSpace(searchType)))
	if field != repositories.ProductSearchByName && field != repositories.ProductSearchByDimension {
		return nil, ErrInvalidSearchType
	}
	products, total, err := s.repo.Search(ctx, field, term, page)
	if err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}
	return &models.ProductsPage{Data: products, TotalItems: total, TotalPages: page.TotalPages(total)}, nil
}

func (s *productService) UpdateProduct(ctx context.Context, actor models.Actor, id string, req UpdateProductRequest) (*models.Product, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.audit(ctx, actor, opUpdateProduct, id, fmt.Sprintf("No producto no existe %s", id), "No producto no existe")
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("getting product: %w", err)
	}

	changed := map[string]interface{}{}
	setString := func(field string, candidate *string, dst *string) {
		if candidate != nil && *candidate != "" && *candidate != *dst {
			*dst = *candidate
			changed[field] = *candidate
		}
	}
	setString("name", req.Name, &existing.Name)
	setString("description", req.Description, &existing.Description)
	setString("dimension", req.Dimension, &existing.Dimension)
	setString("type", req.Type, &existing.Type)
	setString("price", req.Price, &existing.Price)
	if req.Quantity != nil && *req.Quantity != 0 && *req.Quantity != existing.Quantity {
		if *req.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
		existing.Quantity = *req.Quantity
		changed["quantity"] = *req.Quantity
	}

	if len(changed) == 0 {
		s.audit(ctx, actor, opUpdateProduct, id, "No hay cambios para actualizar", "No hay cambios para actualizar")
		return nil, ErrNoChanges
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("updating product: %w", err)
	}

	s.audit(ctx, actor, opUpdateProduct, id, changesData(changed), "El Producto fue actualizado")
	return updated, nil
}

// changesData renders the changed fields for the audit entry; an unencodable
// value leaves the data empty rather than failing the update.
func changesData(changed map[string]interface{}) string {
	data, err := json.Marshal(map[string]interface{}{"additionalProperties": changed})
	if err != nil {
		utils.LogError(err, "Failed to encode product changes for audit entry")
		return ""
	}
	return string(data)
}

func (s *productService) DeleteProduct(ctx context.Context, actor models.Actor, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.audit(ctx, actor, opDeleteProduct, id, "El Producto no existe", "El Producto no existe")
			return ErrProductNotFound
		}
		return fmt.Errorf("deleting product: %w", err)
	}
	s.audit(ctx, actor, opDeleteProduct, id, "El Producto fue borrado", "El Producto fue borrado")
	return nil
}

func (s *productService) AdjustStock(ctx context.Context, actor models.Actor, req AdjustStockRequest) (*models.StockAdjustment, error) {
	count := 0
	if req.Count != nil {
		count = *req.Count
	}

	before, after, err := s.repo.AdjustQuantity(ctx, req.RegisterID, count)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrProductNotFound
		case errors.Is(err, repositories.ErrConflict):
			s.audit(ctx, actor, opAdjustStock, req.RegisterID, strconv.Itoa(count), msgNegativeStock)
			return &models.StockAdjustment{Message: msgNegativeStock, NewCount: before}, ErrNegativeStock
		}
		return nil, fmt.Errorf("adjusting stock: %w", err)
	}

	if count >= 0 {
		s.audit(ctx, actor, opAdjustStock+", Suma", req.RegisterID, strconv.Itoa(count),
			fmt.Sprintf("El stock Actualizado Correctamente, Antes : %d, Ingresante %d, Total %d", before, count, after))
	} else {
		s.audit(ctx, actor, opAdjustStock+", Resta", req.RegisterID, strconv.Itoa(count),
			fmt.Sprintf("El stock Actualizado Correctamente, Antes : %d, Egreso %d, Total %d", before, -count, after))
	}
	return &models.StockAdjustment{Message: msgStockAdjusted, NewCount: after}, nil
}
