package service

import (
	"time"

	"toystore-pos/internal/model"
	"toystore-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// DailyReport summarizes one day of completed sales.
type DailyReport struct {
	Date           string                                        `json:"date"`
	Totals         repository.SaleTotals                         `json:"totals"`
	Sales          []model.Sale                                  `json:"sales"`
	TopProducts    []repository.ProductSales                     `json:"top_products"`
	PaymentMethods map[model.PaymentMethod]repository.SaleTotals `json:"payment_methods"`
}

// MonthlyReport summarizes one calendar month with a per-day series.
type MonthlyReport struct {
	Year        int                       `json:"year"`
	Month       int                       `json:"month"`
	Totals      repository.SaleTotals     `json:"totals"`
	DailyTotals []repository.DailyTotal   `json:"daily_totals"`
	TopProducts []repository.ProductSales `json:"top_products"`
}

// DashboardStats is the overview card row of the dashboard.
type DashboardStats struct {
	SalesToday       decimal.Decimal `json:"sales_today"`
	SalesMonth       decimal.Decimal `json:"sales_month"`
	PendingSales     int64           `json:"pending_sales"`
	ActiveProducts   int64           `json:"active_products"`
	ActiveCustomers  int64           `json:"active_customers"`
	LowStockProducts int64           `json:"low_stock_products"`
}

type DashboardData struct {
	Stats       DashboardStats            `json:"stats"`
	LatestSales []model.Sale              `json:"latest_sales"`
	TopProducts []repository.ProductSales `json:"top_products"`
}

type ReportService interface {
	DailyReport(date time.Time) (*DailyReport, error)
	MonthlyReport(year int, month time.Month) (*MonthlyReport, error)
	Dashboard() (*DashboardData, error)
}

type reportService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	clock        Clock
}

func NewReportService(
	sRepo repository.SaleRepository,
	pRepo repository.ProductRepository,
	cRepo repository.CustomerRepository,
	clock Clock,
) ReportService {
	return &reportService{
		saleRepo:     sRepo,
		productRepo:  pRepo,
		customerRepo: cRepo,
		clock:        clock,
	}
}

func (s *reportService) DailyReport(date time.Time) (*DailyReport, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, 1)

	totals, err := s.saleRepo.TotalsBetween(from, to)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.FindCompletedBetween(from, to)
	if err != nil {
		return nil, err
	}
	top, err := s.saleRepo.TopProducts(&from, &to, 10)
	if err != nil {
		return nil, err
	}
	byMethod, err := s.saleRepo.PaymentMethodTotals(from, to)
	if err != nil {
		return nil, err
	}

	return &DailyReport{
		Date:           from.Format("2006-01-02"),
		Totals:         *totals,
		Sales:          sales,
		TopProducts:    top,
		PaymentMethods: byMethod,
	}, nil
}

func (s *reportService) MonthlyReport(year int, month time.Month) (*MonthlyReport, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, s.clock().Location())
	to := from.AddDate(0, 1, 0)

	totals, err := s.saleRepo.TotalsBetween(from, to)
	if err != nil {
		return nil, err
	}
	daily, err := s.saleRepo.DailyTotals(from, to)
	if err != nil {
		return nil, err
	}
	top, err := s.saleRepo.TopProducts(&from, &to, 10)
	if err != nil {
		return nil, err
	}

	return &MonthlyReport{
		Year:        year,
		Month:       int(month),
		Totals:      *totals,
		DailyTotals: daily,
		TopProducts: top,
	}, nil
}

func (s *reportService) Dashboard() (*DashboardData, error) {
	now := s.clock()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	salesToday, err := s.saleRepo.SumTotalBetween(dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	salesMonth, err := s.saleRepo.SumTotalBetween(monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	pending, err := s.saleRepo.CountByStatus(model.SalePending)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.CountActive()
	if err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.CountActive()
	if err != nil {
		return nil, err
	}
	lowStock, err := s.productRepo.CountLowStock()
	if err != nil {
		return nil, err
	}
	latest, err := s.saleRepo.Latest(5)
	if err != nil {
		return nil, err
	}
	top, err := s.saleRepo.TopProducts(nil, nil, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		Stats: DashboardStats{
			SalesToday:       salesToday,
			SalesMonth:       salesMonth,
			PendingSales:     pending,
			ActiveProducts:   products,
			ActiveCustomers:  customers,
			LowStockProducts: lowStock,
		},
		LatestSales: latest,
		TopProducts: top,
	}, nil
}
