package handler

import (
	"errors"
	"strconv"
	"time"

	"toystore-pos/internal/model"
	"toystore-pos/internal/repository"
	"toystore-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// Helper to read the operator identity from the JWT context (set by RequireAuth).
func getUserID(c *fiber.Ctx) uuid.UUID {
	raw := c.Locals("user_id")
	if raw == nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// errorStatus maps business errors to HTTP status codes.
func errorStatus(err error) int {
	var vErr *service.ValidationError
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &vErr), errors.As(err, &stockErr):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrSaleAlreadyVoided),
		errors.Is(err, service.ErrSaleNumberConflict),
		errors.Is(err, service.ErrCategoryInUse),
		errors.Is(err, service.ErrProductInUse),
		errors.Is(err, service.ErrCustomerInUse),
		errors.Is(err, service.ErrDuplicateCode),
		errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrDuplicateDocument):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrPaymentDeclined):
		return fiber.StatusPaymentRequired
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var input service.CreateSaleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.CreateSale(&input, getUserID(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale registered", "data": sale})
}

func (h *SaleHandler) VoidSale(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.service.VoidSale(id, getUserID(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Sale voided", "data": sale})
}

func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.service.GetSale(id)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sale)
}

func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	filter := repository.SaleFilter{
		Search:        c.Query("search"),
		Status:        model.SaleStatus(c.Query("status")),
		PaymentMethod: model.PaymentMethod(c.Query("payment_method")),
	}

	if raw := c.Query("customer_id"); raw != "" {
		id, err := parseUUID(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
		}
		filter.CustomerID = &id
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid 'from' date, use YYYY-MM-DD"})
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid 'to' date, use YYYY-MM-DD"})
		}
		// Inclusive end of day
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset", "0"))

	sales, err := h.service.ListSales(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	stats, err := h.service.Statistics()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{
		"data":       sales,
		"statistics": stats,
	})
}
