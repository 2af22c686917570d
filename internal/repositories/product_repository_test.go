package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_backend/internal/models"
	"stock_backend/internal/repositories"
	"stock_backend/internal/testutil"
)

func TestProductRepository_AdjustQuantity(t *testing.T) {
	db := testutil.NewSQLDB(t)
	testutil.Truncate(t, db, "products")
	repo := repositories.NewProductRepository(db)
	ctx := context.Background()

	p, err := repo.Create(ctx, &models.Product{
		ID: uuid.NewString(), Create: time.Now().UTC(), Name: "Tornillo", Quantity: 5,
		Description: "acero", Type: "ferreteria", Dimension: "3mm", Price: "10.50",
	})
	require.NoError(t, err)

	before, after, err := repo.AdjustQuantity(ctx, p.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 5, before)
	assert.Equal(t, 2, after)

	before, after, err = repo.AdjustQuantity(ctx, p.ID, -3)
	assert.ErrorIs(t, err, repositories.ErrConflict)
	assert.Equal(t, 2, before)
	assert.Equal(t, 2, after)

	_, _, err = repo.AdjustQuantity(ctx, uuid.NewString(), 1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestProductRepository_Search(t *testing.T) {
	db := testutil.NewSQLDB(t)
	testutil.Truncate(t, db, "products")
	repo := repositories.NewProductRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Tornillo", "Tuerca", "Arandela"} {
		_, err := repo.Create(ctx, &models.Product{
			ID: uuid.NewString(), Create: time.Now().UTC(), Name: name, Quantity: 1, Dimension: "3mm", Price: "1",
		})
		require.NoError(t, err)
	}

	found, total, err := repo.Search(ctx, repositories.ProductSearchByName, "t", models.NewPageParams(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, found, 2)

	found, total, err = repo.Search(ctx, repositories.ProductSearchByName, "zz", models.NewPageParams(1, 10))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, found)

	_, total, err = repo.Search(ctx, repositories.ProductSearchByDimension, "3M", models.NewPageParams(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}
