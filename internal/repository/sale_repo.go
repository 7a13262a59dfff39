package repository

import (
	"time"

	"toystore-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleFilter struct {
	Search        string
	Status        model.SaleStatus
	PaymentMethod model.PaymentMethod
	CustomerID    *uuid.UUID
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// SaleTotals aggregates the monetary columns of a set of sales.
type SaleTotals struct {
	Count    int64           `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ProductSales ranks a product by units sold over a period.
type ProductSales struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductCode  string          `json:"product_code"`
	ProductName  string          `json:"product_name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DailyTotal is one day's bucket in the monthly report series.
type DailyTotal struct {
	Date  string          `json:"date"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type SaleRepository interface {
	// Create persists the sale and its items inside the caller's transaction.
	Create(tx *gorm.DB, sale *model.Sale) error
	FindByID(id uuid.UUID) (*model.Sale, error)
	FindAll(filter SaleFilter) ([]model.Sale, error)
	FindCompletedBetween(from, to time.Time) ([]model.Sale, error)
	Latest(limit int) ([]model.Sale, error)

	// LastNumberForPrefix returns the highest existing sale number for the
	// given year-month prefix, or "" when the month has no sales yet. Runs on
	// the caller's transaction so the read stays inside the create scope.
	LastNumberForPrefix(tx *gorm.DB, prefix string) (string, error)

	// UpdateStatus transitions the sale to status unless it already holds it.
	// The guard in the WHERE clause makes the transition first-writer-wins, so
	// two racing voids can never both claim the sale.
	UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.SaleStatus, updatedBy string) (bool, error)

	CountByStatus(status model.SaleStatus) (int64, error)
	TotalsBetween(from, to time.Time) (*SaleTotals, error)
	SumTotalBetween(from, to time.Time) (decimal.Decimal, error)
	TopProducts(from, to *time.Time, limit int) ([]ProductSales, error)
	DailyTotals(from, to time.Time) ([]DailyTotal, error)
	PaymentMethodTotals(from, to time.Time) (map[model.PaymentMethod]SaleTotals, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.
		Preload("Customer").
		Preload("User").
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Category").
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) FindAll(filter SaleFilter) ([]model.Sale, error) {
	query := r.db.Model(&model.Sale{}).
		Preload("Customer").
		Preload("User")

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.
			Joins("LEFT JOIN customers ON customers.id = sales.customer_id").
			Where(
				"sales.number LIKE ? OR customers.first_name LIKE ? OR customers.last_name LIKE ? OR customers.document_number LIKE ?",
				like, like, like, like,
			)
	}
	if filter.Status != "" {
		query = query.Where("sales.status = ?", filter.Status)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("sales.payment_method = ?", filter.PaymentMethod)
	}
	if filter.CustomerID != nil {
		query = query.Where("sales.customer_id = ?", *filter.CustomerID)
	}
	if filter.From != nil {
		query = query.Where("sales.sale_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("sales.sale_date < ?", *filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var sales []model.Sale
	err := query.Order("sales.created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindCompletedBetween(from, to time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.
		Preload("Customer").
		Preload("Items").
		Preload("Items.Product").
		Where("status = ? AND sale_date >= ? AND sale_date < ?", model.SaleCompleted, from, to).
		Order("sale_date DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) Latest(limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.
		Preload("Customer").
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) LastNumberForPrefix(tx *gorm.DB, prefix string) (string, error) {
	var sale model.Sale
	err := tx.Select("number").
		Where("number LIKE ?", prefix+"%").
		Order("number DESC").
		First(&sale).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sale.Number, nil
}

func (r *saleRepo) UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.SaleStatus, updatedBy string) (bool, error) {
	res := tx.Model(&model.Sale{}).
		Where("id = ? AND status <> ?", id, status).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *saleRepo) CountByStatus(status model.SaleStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Sale{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *saleRepo) TotalsBetween(from, to time.Time) (*SaleTotals, error) {
	var totals SaleTotals
	err := r.db.Model(&model.Sale{}).
		Select(`
			COUNT(*) as count,
			COALESCE(SUM(subtotal), 0) as subtotal,
			COALESCE(SUM(discount), 0) as discount,
			COALESCE(SUM(tax), 0) as tax,
			COALESCE(SUM(total), 0) as total
		`).
		Where("status = ? AND sale_date >= ? AND sale_date < ?", model.SaleCompleted, from, to).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *saleRepo) SumTotalBetween(from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.Model(&model.Sale{}).
		Select("COALESCE(SUM(total), 0)").
		Where("status = ? AND sale_date >= ? AND sale_date < ?", model.SaleCompleted, from, to).
		Scan(&sum).Error
	return sum, err
}

// TopProducts ranks products by summed quantity over completed sales. Nil
// bounds mean all-time.
func (r *saleRepo) TopProducts(from, to *time.Time, limit int) ([]ProductSales, error) {
	query := r.db.Model(&model.SaleItem{}).
		Select(`
			sale_items.product_id,
			sale_items.product_code,
			sale_items.product_name,
			SUM(sale_items.quantity) as quantity_sold,
			COALESCE(SUM(sale_items.subtotal), 0) as revenue
		`).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.status = ? AND sales.deleted_at IS NULL", model.SaleCompleted)

	if from != nil {
		query = query.Where("sales.sale_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("sales.sale_date < ?", *to)
	}

	var results []ProductSales
	err := query.
		Group("sale_items.product_id, sale_items.product_code, sale_items.product_name").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}

func (r *saleRepo) DailyTotals(from, to time.Time) ([]DailyTotal, error) {
	rows, err := r.db.Model(&model.Sale{}).
		Select(`
			DATE(sale_date) as date,
			COUNT(*) as count,
			COALESCE(SUM(total), 0) as total
		`).
		Where("status = ? AND sale_date >= ? AND sale_date < ?", model.SaleCompleted, from, to).
		Group("DATE(sale_date)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DailyTotal
	for rows.Next() {
		var day DailyTotal
		if err := rows.Scan(&day.Date, &day.Count, &day.Total); err != nil {
			return nil, err
		}
		results = append(results, day)
	}
	return results, rows.Err()
}

func (r *saleRepo) PaymentMethodTotals(from, to time.Time) (map[model.PaymentMethod]SaleTotals, error) {
	rows, err := r.db.Model(&model.Sale{}).
		Select(`
			payment_method,
			COUNT(*) as count,
			COALESCE(SUM(total), 0) as total
		`).
		Where("status = ? AND sale_date >= ? AND sale_date < ?", model.SaleCompleted, from, to).
		Group("payment_method").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make(map[model.PaymentMethod]SaleTotals)
	for rows.Next() {
		var method model.PaymentMethod
		var totals SaleTotals
		if err := rows.Scan(&method, &totals.Count, &totals.Total); err != nil {
			return nil, err
		}
		results[method] = totals
	}
	return results, rows.Err()
}
