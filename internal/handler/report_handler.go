package handler

import (
	"strconv"
	"time"

	"toystore-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
	clock   service.Clock
}

func NewReportHandler(s service.ReportService, clock service.Clock) *ReportHandler {
	return &ReportHandler{service: s, clock: clock}
}

// GetDailyReport returns the daily sales report.
// Query params: date (YYYY-MM-DD, default today)
func (h *ReportHandler) GetDailyReport(c *fiber.Ctx) error {
	date := h.clock()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date, use YYYY-MM-DD"})
		}
		date = parsed
	}

	report, err := h.service.DailyReport(date)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build daily report"})
	}
	return c.JSON(report)
}

// GetMonthlyReport returns the monthly sales report.
// Query params: year, month (default current month)
func (h *ReportHandler) GetMonthlyReport(c *fiber.Ctx) error {
	now := h.clock()
	year, err := strconv.Atoi(c.Query("year", strconv.Itoa(now.Year())))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid year"})
	}
	month, err := strconv.Atoi(c.Query("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid month"})
	}

	report, err := h.service.MonthlyReport(year, time.Month(month))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build monthly report"})
	}
	return c.JSON(report)
}

// GetDashboard returns the overview stats, latest sales and best sellers.
func (h *ReportHandler) GetDashboard(c *fiber.Ctx) error {
	data, err := h.service.Dashboard()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard data"})
	}
	return c.JSON(data)
}
