package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"stock_backend/internal/models"
)

// ProductSearchField selects the column a product search matches against.
type ProductSearchField string

const (
	ProductSearchByName      ProductSearchField = "name"
	ProductSearchByDimension ProductSearchField = "dimension"
)

// ProductRepository defines the interface for inventory persistence.
type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, page models.PageParams) ([]models.Product, int, error)
	Search(ctx context.Context, field ProductSearchField, prefix string, page models.PageParams) ([]models.Product, int, error)
	Update(ctx context.Context, p *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	// AdjustQuantity adds delta to the stock and returns the quantities before and after.
	// A change that would leave the stock negative is rejected with ErrConflict.
	AdjustQuantity(ctx context.Context, id string, delta int) (before, after int, err error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, created_on, name, quantity, description, type, dimension, price`

func scanProduct(row scanner, extra ...interface{}) (*models.Product, error) {
	var p models.Product
	dest := append([]interface{}{
		&p.ID, &p.Create, &p.Name, &p.Quantity, &p.Description, &p.Type, &p.Dimension, &p.Price,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	query := `INSERT INTO products (` + productColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING ` + productColumns

	created, err := scanProduct(r.db.QueryRowContext(ctx, query,
		p.ID, p.Create, p.Name, p.Quantity, p.Description, p.Type, p.Dimension, p.Price))
	if err != nil {
		if isUniqueViolation(err, "") {
			return nil, fmt.Errorf("%w: product %s", ErrDuplicateKey, p.ID)
		}
		return nil, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return created, nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by id: %v", ErrDatabaseError, err)
	}
	return p, nil
}

func (r *productRepository) List(ctx context.Context, page models.PageParams) ([]models.Product, int, error) {
	return r.list(ctx, "", nil, page)
}

func (r *productRepository) Search(ctx context.Context, field ProductSearchField, prefix string, page models.PageParams) ([]models.Product, int, error) {
	var column string
	switch field {
	case ProductSearchByName:
		column = "name"
	case ProductSearchByDimension:
		column = "dimension"
	default:
		return nil, 0, fmt.Errorf("unsupported product search field %q", field)
	}
	pattern := escapeLike(strings.ToLower(strings.TrimSpace(prefix))) + "%"
	return r.list(ctx, fmt.Sprintf(`lower(%s) LIKE $1`, column), []interface{}{pattern}, page)
}

func (r *productRepository) list(ctx context.Context, where string, args []interface{}, page models.PageParams) ([]models.Product, int, error) {
	var qb strings.Builder
	qb.WriteString(`SELECT ` + productColumns + `, COUNT(*) OVER() AS total_count FROM products`)
	if where != "" {
		qb.WriteString(" WHERE " + where)
	}
	n := len(args)
	qb.WriteString(fmt.Sprintf(" ORDER BY created_on DESC, name ASC LIMIT $%d OFFSET $%d", n+1, n+2))

	rows, err := r.db.QueryContext(ctx, qb.String(), append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	products := []models.Product{}
	totalCount := 0
	for rows.Next() {
		var rowTotal int
		p, err := scanProduct(rows, &rowTotal)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating products: %v", ErrDatabaseError, err)
	}
	return products, totalCount, nil
}

func (r *productRepository) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	query := `UPDATE products
	          SET name = $2, quantity = $3, description = $4, type = $5, dimension = $6, price = $7
	          WHERE id = $1
	          RETURNING ` + productColumns

	updated, err := scanProduct(r.db.QueryRowContext(ctx, query,
		p.ID, p.Name, p.Quantity, p.Description, p.Type, p.Dimension, p.Price))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating product: %v", ErrDatabaseError, err)
	}
	return updated, nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting product: %v", ErrDatabaseError, err)
	}
	return rowsAffectedOrNotFound(res, "deleting product")
}

func (r *productRepository) AdjustQuantity(ctx context.Context, id string, delta int) (int, int, error) {
	query := `UPDATE products SET quantity = quantity + $2
	          WHERE id = $1 AND quantity + $2 >= 0
	          RETURNING quantity - $2, quantity`

	var before, after int
	err := r.db.QueryRowContext(ctx, query, id, delta).Scan(&before, &after)
	if err == nil {
		return before, after, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, 0, fmt.Errorf("%w: adjusting product quantity: %v", ErrDatabaseError, err)
	}

	// No row updated: either the product is missing or the stock would go negative.
	var current int
	err = r.db.QueryRowContext(ctx, `SELECT quantity FROM products WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrNotFound
		}
		return 0, 0, fmt.Errorf("%w: reading product quantity: %v", ErrDatabaseError, err)
	}
	return current, current, ErrConflict
}
