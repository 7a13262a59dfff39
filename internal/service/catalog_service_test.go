package service

import (
	"testing"

	"toystore-pos/internal/model"
	"toystore-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory_RejectsDuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewCategoryRepo(db), repository.NewProductRepo(db))

	first := &model.Category{Name: "Board Games", Active: true}
	require.NoError(t, svc.CreateCategory(first, "tester"))

	dup := &model.Category{Name: "Board Games", Active: true}
	require.ErrorIs(t, svc.CreateCategory(dup, "tester"), ErrDuplicateName)
}

func TestUpdateCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewCategoryRepo(db), repository.NewProductRepo(db))

	category := &model.Category{Name: "Puzles", Active: true}
	require.NoError(t, svc.CreateCategory(category, "tester"))
	other := &model.Category{Name: "Vehicles", Active: true}
	require.NoError(t, svc.CreateCategory(other, "tester"))

	// Fix the typo.
	updated, err := svc.UpdateCategory(category.ID, &model.Category{Name: "Puzzles", Active: true}, "tester")
	require.NoError(t, err)
	assert.Equal(t, "Puzzles", updated.Name)

	// Renaming onto another category's name must fail.
	_, err = svc.UpdateCategory(category.ID, &model.Category{Name: "Vehicles", Active: true}, "tester")
	require.ErrorIs(t, err, ErrDuplicateName)

	_, err = svc.UpdateCategory(uuid.New(), &model.Category{Name: "Ghost", Active: true}, "tester")
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteCategory_BlockedWhileProductsExist(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewCategoryRepo(db), repository.NewProductRepo(db))

	category := seedCategory(t, db, "Plush Toys")
	seedProduct(t, db, category.ID, "TOY-100", "9.90", 3)

	require.ErrorIs(t, svc.DeleteCategory(category.ID, "tester"), ErrCategoryInUse)

	empty := seedCategory(t, db, "Empty Shelf")
	require.NoError(t, svc.DeleteCategory(empty.ID, "tester"))

	_, err := svc.GetCategory(empty.ID)
	require.ErrorIs(t, err, ErrCategoryNotFound)

	// Soft delete keeps the row with both audit marks set.
	var gone model.Category
	require.NoError(t, db.Unscoped().First(&gone, "id = ?", empty.ID).Error)
	assert.Equal(t, "tester", gone.DeletedBy)
	assert.True(t, gone.DeletedAt.Valid)
}

func TestCreateProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewCategoryRepo(db), repository.NewProductRepo(db))
	category := seedCategory(t, db, "Action Figures")

	product := &model.Product{
		Code:          "FIG-001",
		Name:          "Space Ranger",
		CategoryID:    category.ID,
		PurchasePrice: decimal.RequireFromString("10.00"),
		SalePrice:     decimal.RequireFromString("19.90"),
		Stock:         15,
		MinStock:      3,
		Active:        true,
	}
	require.NoError(t, svc.CreateProduct(product, "tester"))

	t.Run("duplicate code", func(t *testing.T) {
		dup := &model.Product{
			Code:          "FIG-001",
			Name:          "Another Ranger",
			CategoryID:    category.ID,
			PurchasePrice: decimal.RequireFromString("8.00"),
			SalePrice:     decimal.RequireFromString("15.00"),
			Active:        true,
		}
		require.ErrorIs(t, svc.CreateProduct(dup, "tester"), ErrDuplicateCode)
	})

	t.Run("unknown category", func(t *testing.T) {
		orphan := &model.Product{
			Code:          "FIG-002",
			Name:          "Lost Ranger",
			CategoryID:    uuid.New(),
			PurchasePrice: decimal.RequireFromString("8.00"),
			SalePrice:     decimal.RequireFromString("15.00"),
			Active:        true,
		}
		require.ErrorIs(t, svc.CreateProduct(orphan, "tester"), ErrCategoryNotFound)
	})

	t.Run("negative sale price", func(t *testing.T) {
		bad := &model.Product{
			Code:          "FIG-003",
			Name:          "Discount Ranger",
			CategoryID:    category.ID,
			PurchasePrice: decimal.RequireFromString("8.00"),
			SalePrice:     decimal.RequireFromString("-1.00"),
			Active:        true,
		}
		var vErr *ValidationError
		require.ErrorAs(t, svc.CreateProduct(bad, "tester"), &vErr)
		assert.Equal(t, "sale_price", vErr.Field)
	})
}

func TestDeleteProduct_BlockedWhileSoldAtLeastOnce(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	category := seedCategory(t, db, "Electronic Toys")
	sold := seedProduct(t, db, category.ID, "TOY-101", "49.90", 10)
	unsold := seedProduct(t, db, category.ID, "TOY-102", "29.90", 10)

	saleSvc := newTestSaleService(t, db, fixedClock(testNow))
	_, err := saleSvc.CreateSale(&CreateSaleInput{
		PaymentMethod: model.PayCash,
		Items: []CreateSaleItemInput{
			{ProductID: sold.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("49.90")},
		},
	}, user.ID)
	require.NoError(t, err)

	svc := NewCatalogService(repository.NewCategoryRepo(db), repository.NewProductRepo(db))

	require.ErrorIs(t, svc.DeleteProduct(sold.ID, "tester"), ErrProductInUse)
	require.NoError(t, svc.DeleteProduct(unsold.ID, "tester"))

	_, err = svc.GetProduct(unsold.ID)
	require.ErrorIs(t, err, ErrProductNotFound)

	var gone model.Product
	require.NoError(t, db.Unscoped().First(&gone, "id = ?", unsold.ID).Error)
	assert.Equal(t, "tester", gone.DeletedBy)
	assert.True(t, gone.DeletedAt.Valid)
}

func TestSearchProducts_ActiveInStockOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewCategoryRepo(db), repository.NewProductRepo(db))
	category := seedCategory(t, db, "Dolls")

	inStock := seedProduct(t, db, category.ID, "DOLL-01", "25.00", 5)
	seedProduct(t, db, category.ID, "DOLL-02", "25.00", 0) // out of stock
	inactive := seedProduct(t, db, category.ID, "DOLL-03", "25.00", 5)
	require.NoError(t, db.Model(&model.Product{}).Where("id = ?", inactive.ID).Update("active", false).Error)

	results, err := svc.SearchProducts("DOLL", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, inStock.ID, results[0].ID)
}

func TestGetLowStockProducts(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewCategoryRepo(db), repository.NewProductRepo(db))
	category := seedCategory(t, db, "Building Blocks")

	low := seedProduct(t, db, category.ID, "BLK-01", "30.00", 1) // min_stock 2
	seedProduct(t, db, category.ID, "BLK-02", "30.00", 20)

	products, err := svc.GetLowStockProducts()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, low.ID, products[0].ID)
	assert.True(t, products[0].LowStock())
}
