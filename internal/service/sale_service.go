package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"toystore-pos/internal/model"
	"toystore-pos/internal/repository"
	"toystore-pos/internal/ws"
	"toystore-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxNumberRetries bounds how many times a sale creation is replayed when the
// generated number collides with a concurrent sale.
const maxNumberRetries = 3

// CreateSaleItemInput is one requested line of a new sale. UnitPrice is the
// price charged now, snapshotted into the item regardless of later product
// price changes.
type CreateSaleItemInput struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity  int             `json:"quantity" validate:"required,gte=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

type CreateSaleInput struct {
	CustomerID    *uuid.UUID            `json:"customer_id"`
	PaymentMethod model.PaymentMethod   `json:"payment_method" validate:"required,oneof=cash card yape plin transfer"`
	Notes         string                `json:"notes"`
	Items         []CreateSaleItemInput `json:"items" validate:"required,min=1,dive"`
}

// SaleStatistics backs the header widgets of the sales screen.
type SaleStatistics struct {
	SalesToday     decimal.Decimal `json:"sales_today"`
	SalesMonth     decimal.Decimal `json:"sales_month"`
	CompletedCount int64           `json:"completed_count"`
	PendingCount   int64           `json:"pending_count"`
}

type SaleService interface {
	CreateSale(input *CreateSaleInput, userID uuid.UUID) (*model.Sale, error)
	VoidSale(id uuid.UUID, userID uuid.UUID) (*model.Sale, error)
	GetSale(id uuid.UUID) (*model.Sale, error)
	ListSales(filter repository.SaleFilter) ([]model.Sale, error)
	Statistics() (*SaleStatistics, error)
}

type saleService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	db           *gorm.DB
	gateway      PaymentGateway
	clock        Clock
	wsHub        *ws.Hub
}

func NewSaleService(
	sRepo repository.SaleRepository,
	pRepo repository.ProductRepository,
	cRepo repository.CustomerRepository,
	db *gorm.DB,
	gateway PaymentGateway,
	clock Clock,
	hub *ws.Hub,
) SaleService {
	return &saleService{
		saleRepo:     sRepo,
		productRepo:  pRepo,
		customerRepo: cRepo,
		db:           db,
		gateway:      gateway,
		clock:        clock,
		wsHub:        hub,
	}
}

// CreateSale validates the cart, checks and decrements stock, charges the
// gateway and persists the sale with its items as one atomic unit. A duplicate
// sale number (two requests racing for the same monthly sequence slot) replays
// the whole transaction with a freshly derived number.
func (s *saleService) CreateSale(input *CreateSaleInput, userID uuid.UUID) (*model.Sale, error) {
	if err := validateSaleInput(input); err != nil {
		return nil, err
	}

	var saleID uuid.UUID
	var err error
	charged := false
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		saleID, err = s.createOnce(input, userID, &charged)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		break
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrSaleNumberConflict
	}
	if err != nil {
		return nil, err
	}

	sale, err := s.saleRepo.FindByID(saleID)
	if err != nil {
		return nil, err
	}

	s.broadcast("sale_created", map[string]interface{}{
		"sale_id": sale.ID,
		"number":  sale.Number,
		"total":   sale.Total,
		"status":  sale.Status,
	})

	return sale, nil
}

func (s *saleService) createOnce(input *CreateSaleInput, userID uuid.UUID, charged *bool) (uuid.UUID, error) {
	var saleID uuid.UUID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := s.clock()

		if input.CustomerID != nil {
			var customer model.Customer
			if err := tx.First(&customer, "id = ?", *input.CustomerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCustomerNotFound
				}
				return err
			}
		}

		// First pass: resolve products, check stock, compute line subtotals.
		subtotal := decimal.Zero
		items := make([]model.SaleItem, 0, len(input.Items))
		for _, line := range input.Items {
			var product model.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}
			if product.Stock < line.Quantity {
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   line.Quantity,
					Available:   product.Stock,
				}
			}

			lineSubtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Sub(line.Discount)
			subtotal = subtotal.Add(lineSubtotal)

			items = append(items, model.SaleItem{
				ProductID:   product.ID,
				ProductCode: product.Code,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				Discount:    line.Discount,
				Subtotal:    lineSubtotal,
			})
		}

		// Per-line discounts are already netted into subtotal, so the
		// sale-level discount stays zero in this flow.
		discount := decimal.Zero
		tax := subtotal.Mul(model.TaxRate).Round(2)
		total := subtotal.Sub(discount).Add(tax)

		// Charge at most once: a replay after a number collision reuses the
		// payment taken on the first attempt.
		if !*charged {
			if err := s.gateway.Charge(input.PaymentMethod, total); err != nil {
				return ErrPaymentDeclined
			}
			*charged = true
		}

		// Second pass: take the stock. The guarded update protects against a
		// concurrent sale draining the shelf between our read and write.
		for _, item := range items {
			ok, err := s.productRepo.DecrementStock(tx, item.ProductID, item.Quantity, userID.String())
			if err != nil {
				return err
			}
			if !ok {
				var current model.Product
				if err := tx.First(&current, "id = ?", item.ProductID).Error; err != nil {
					return err
				}
				return &InsufficientStockError{
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					Requested:   item.Quantity,
					Available:   current.Stock,
				}
			}
		}

		number, err := s.nextSaleNumber(tx)
		if err != nil {
			return err
		}

		sale := &model.Sale{
			Number:        number,
			CustomerID:    input.CustomerID,
			UserID:        userID,
			SaleDate:      now,
			Subtotal:      subtotal,
			Discount:      discount,
			Tax:           tax,
			Total:         total,
			PaymentMethod: input.PaymentMethod,
			Status:        model.SaleCompleted,
			Notes:         input.Notes,
			Items:         items,
		}
		sale.CreatedBy = userID.String()
		sale.UpdatedBy = userID.String()

		if err := s.saleRepo.Create(tx, sale); err != nil {
			return err
		}
		saleID = sale.ID
		return nil
	})

	return saleID, err
}

// nextSaleNumber derives the next number in the current month's sequence. The
// unique index on sales.number is the real arbiter: if another transaction
// commits the same candidate first, the insert fails with ErrDuplicatedKey and
// CreateSale retries.
func (s *saleService) nextSaleNumber(tx *gorm.DB) (string, error) {
	prefix := model.SaleNumberPrefix(s.clock())
	last, err := s.saleRepo.LastNumberForPrefix(tx, prefix)
	if err != nil {
		return "", err
	}
	seq := 1
	if last != "" {
		seq = model.ParseSaleNumberSeq(last) + 1
	}
	return model.FormatSaleNumber(prefix, seq), nil
}

// VoidSale transitions a pending or completed sale to voided and restores the
// consumed stock. The restore runs even for products deactivated since the
// sale. Both steps commit or roll back together.
func (s *saleService) VoidSale(id uuid.UUID, userID uuid.UUID) (*model.Sale, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var sale model.Sale
		if err := tx.Preload("Items").First(&sale, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}

		// Claim the transition before touching stock. The read above takes no
		// lock, so a racing void may have flipped the status already; losing
		// the guarded update means the stock was restored by the winner.
		ok, err := s.saleRepo.UpdateStatus(tx, sale.ID, model.SaleVoided, userID.String())
		if err != nil {
			return err
		}
		if !ok {
			return ErrSaleAlreadyVoided
		}

		for _, item := range sale.Items {
			if err := s.productRepo.IncrementStock(tx, item.ProductID, item.Quantity, userID.String()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	s.broadcast("sale_voided", map[string]interface{}{
		"sale_id": sale.ID,
		"number":  sale.Number,
	})

	return sale, nil
}

func (s *saleService) GetSale(id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}

func (s *saleService) ListSales(filter repository.SaleFilter) ([]model.Sale, error) {
	return s.saleRepo.FindAll(filter)
}

func (s *saleService) Statistics() (*SaleStatistics, error) {
	now := s.clock()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	today, err := s.saleRepo.SumTotalBetween(dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	month, err := s.saleRepo.SumTotalBetween(monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	completed, err := s.saleRepo.CountByStatus(model.SaleCompleted)
	if err != nil {
		return nil, err
	}
	pending, err := s.saleRepo.CountByStatus(model.SalePending)
	if err != nil {
		return nil, err
	}

	return &SaleStatistics{
		SalesToday:     today,
		SalesMonth:     month,
		CompletedCount: completed,
		PendingCount:   pending,
	}, nil
}

// validateSaleInput rejects malformed carts before any store is touched.
func validateSaleInput(input *CreateSaleInput) error {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		first := errs[0]
		return &ValidationError{Field: first.FailedField, Rule: first.Tag}
	}
	for i, line := range input.Items {
		if line.UnitPrice.IsNegative() {
			return &ValidationError{Field: fmt.Sprintf("items[%d].unit_price", i), Rule: "gte=0"}
		}
		if line.Discount.IsNegative() {
			return &ValidationError{Field: fmt.Sprintf("items[%d].discount", i), Rule: "gte=0"}
		}
		lineGross := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		if line.Discount.GreaterThan(lineGross) {
			return &ValidationError{Field: fmt.Sprintf("items[%d].discount", i), Rule: "lte=quantity*unit_price"}
		}
	}
	return nil
}

func (s *saleService) broadcast(event string, payload map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload["type"] = event
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
