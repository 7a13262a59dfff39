package service

import (
	"testing"
	"time"

	"toystore-pos/internal/model"
	"toystore-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database migrated with the full schema.
// A single connection keeps all work on the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Customer{},
		&model.Sale{},
		&model.SaleItem{},
	))

	return db
}

// fixedClock pins service time for deterministic numbers and report buckets.
func fixedClock(ts time.Time) Clock {
	return func() time.Time { return ts }
}

var testNow = time.Date(2025, time.August, 15, 10, 30, 0, 0, time.UTC)

func newTestSaleService(t *testing.T, db *gorm.DB, clock Clock) SaleService {
	t.Helper()
	return NewSaleService(
		repository.NewSaleRepo(db),
		repository.NewProductRepo(db),
		repository.NewCustomerRepo(db),
		db,
		NewSimulatedGateway(),
		clock,
		nil,
	)
}

func seedUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user := &model.User{
		Email:    "cashier@example.com",
		FullName: "Test Cashier",
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, Active: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID, code string, price string, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Code:          code,
		Name:          "Toy " + code,
		CategoryID:    categoryID,
		PurchasePrice: decimal.RequireFromString("5.00"),
		SalePrice:     decimal.RequireFromString(price),
		Stock:         stock,
		MinStock:      2,
		Active:        true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedCustomer(t *testing.T, db *gorm.DB, document string) *model.Customer {
	t.Helper()
	customer := &model.Customer{
		DocumentType:   model.DocNationalID,
		DocumentNumber: document,
		FirstName:      "Maria",
		LastName:       "Lopez",
		Active:         true,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func productStock(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var product model.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return product.Stock
}

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(value).Count(&count).Error)
	return count
}
