package service

import (
	"testing"
	"time"

	"toystore-pos/internal/model"
	"toystore-pos/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestReportService(db *gorm.DB, clock Clock) ReportService {
	return NewReportService(
		repository.NewSaleRepo(db),
		repository.NewProductRepo(db),
		repository.NewCustomerRepo(db),
		clock,
	)
}

// sellAt creates a completed one-line sale dated by the given clock.
func sellAt(t *testing.T, db *gorm.DB, ts time.Time, user *model.User, product *model.Product, qty int, price string, method model.PaymentMethod) *model.Sale {
	t.Helper()
	svc := newTestSaleService(t, db, fixedClock(ts))
	sale, err := svc.CreateSale(&CreateSaleInput{
		PaymentMethod: method,
		Items: []CreateSaleItemInput{
			{ProductID: product.ID, Quantity: qty, UnitPrice: decimal.RequireFromString(price)},
		},
	}, user.ID)
	require.NoError(t, err)
	return sale
}

func TestDailyReport_ScopedToOneDay(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	category := seedCategory(t, db, "Board Games")
	product := seedProduct(t, db, category.ID, "TOY-300", "20.00", 100)

	today := sellAt(t, db, testNow, user, product, 2, "20.00", model.PayCash)
	alsoToday := sellAt(t, db, testNow.Add(3*time.Hour), user, product, 1, "20.00", model.PayCard)
	sellAt(t, db, testNow.AddDate(0, 0, -1), user, product, 5, "20.00", model.PayCash) // yesterday

	voided := sellAt(t, db, testNow, user, product, 1, "20.00", model.PayCash)
	saleSvc := newTestSaleService(t, db, fixedClock(testNow))
	_, err := saleSvc.VoidSale(voided.ID, user.ID)
	require.NoError(t, err)

	svc := newTestReportService(db, fixedClock(testNow))
	report, err := svc.DailyReport(testNow)
	require.NoError(t, err)

	assert.Equal(t, "2025-08-15", report.Date)
	assert.Equal(t, int64(2), report.Totals.Count)
	expected := today.Total.Add(alsoToday.Total)
	assert.True(t, report.Totals.Total.Equal(expected), "total = %s, want %s", report.Totals.Total, expected)
	assert.Len(t, report.Sales, 2)

	require.Len(t, report.TopProducts, 1)
	assert.Equal(t, int64(3), report.TopProducts[0].QuantitySold)

	cash, ok := report.PaymentMethods[model.PayCash]
	require.True(t, ok)
	assert.Equal(t, int64(1), cash.Count)
	card, ok := report.PaymentMethods[model.PayCard]
	require.True(t, ok)
	assert.Equal(t, int64(1), card.Count)
}

func TestMonthlyReport_AggregatesDays(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	category := seedCategory(t, db, "Plush Toys")
	product := seedProduct(t, db, category.ID, "TOY-301", "10.00", 100)

	day5 := time.Date(2025, time.August, 5, 12, 0, 0, 0, time.UTC)
	day20 := time.Date(2025, time.August, 20, 12, 0, 0, 0, time.UTC)
	july := time.Date(2025, time.July, 30, 12, 0, 0, 0, time.UTC)

	first := sellAt(t, db, day5, user, product, 1, "10.00", model.PayCash)
	second := sellAt(t, db, day5, user, product, 2, "10.00", model.PayCash)
	third := sellAt(t, db, day20, user, product, 3, "10.00", model.PayYape)
	sellAt(t, db, july, user, product, 4, "10.00", model.PayCash) // previous month

	svc := newTestReportService(db, fixedClock(testNow))
	report, err := svc.MonthlyReport(2025, time.August)
	require.NoError(t, err)

	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, 8, report.Month)
	assert.Equal(t, int64(3), report.Totals.Count)

	expected := first.Total.Add(second.Total).Add(third.Total)
	assert.True(t, report.Totals.Total.Equal(expected))

	require.Len(t, report.DailyTotals, 2)
	assert.Equal(t, int64(2), report.DailyTotals[0].Count)
	assert.Equal(t, int64(1), report.DailyTotals[1].Count)

	require.Len(t, report.TopProducts, 1)
	assert.Equal(t, int64(6), report.TopProducts[0].QuantitySold)
}

func TestDashboard(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	category := seedCategory(t, db, "Vehicles")
	fast := seedProduct(t, db, category.ID, "CAR-01", "15.00", 100)
	seedProduct(t, db, category.ID, "CAR-02", "25.00", 1) // below min_stock
	seedCustomer(t, db, "10102020")

	todaySale := sellAt(t, db, testNow, user, fast, 4, "15.00", model.PayCash)
	earlier := sellAt(t, db, testNow.AddDate(0, 0, -10), user, fast, 2, "15.00", model.PayCard)

	svc := newTestReportService(db, fixedClock(testNow))
	data, err := svc.Dashboard()
	require.NoError(t, err)

	assert.True(t, data.Stats.SalesToday.Equal(todaySale.Total))
	assert.True(t, data.Stats.SalesMonth.Equal(todaySale.Total.Add(earlier.Total)))
	assert.Equal(t, int64(0), data.Stats.PendingSales)
	assert.Equal(t, int64(2), data.Stats.ActiveProducts)
	assert.Equal(t, int64(1), data.Stats.ActiveCustomers)
	assert.Equal(t, int64(1), data.Stats.LowStockProducts)

	assert.Len(t, data.LatestSales, 2)
	require.Len(t, data.TopProducts, 1)
	assert.Equal(t, fast.ID, data.TopProducts[0].ProductID)
	assert.Equal(t, int64(6), data.TopProducts[0].QuantitySold)
}
