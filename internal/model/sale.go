package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SalePending   SaleStatus = "pending"
	SaleCompleted SaleStatus = "completed"
	SaleVoided    SaleStatus = "voided"
)

type PaymentMethod string

const (
	PayCash     PaymentMethod = "cash"
	PayCard     PaymentMethod = "card"
	PayYape     PaymentMethod = "yape"
	PayPlin     PaymentMethod = "plin"
	PayTransfer PaymentMethod = "transfer"
)

// TaxRate is the IGV applied on every sale subtotal.
var TaxRate = decimal.RequireFromString("0.18")

// Sale is a commercial transaction owning one or more items. Monetary fields
// always satisfy total = subtotal - discount + tax with tax = subtotal * 0.18
// rounded to two decimals.
type Sale struct {
	BaseModel
	Number        string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"number"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"`
	Customer      *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SaleDate      time.Time       `gorm:"not null;index" json:"sale_date"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	Tax           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null;default:'cash'" json:"payment_method"`
	Status        SaleStatus      `gorm:"type:varchar(20);not null;default:'completed';index" json:"status"`
	Notes         string          `gorm:"type:text" json:"notes"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// SaleItem is one product line within a sale. Code, name and unit price are
// snapshots taken at sale time, not live references to the product.
type SaleItem struct {
	BaseModel
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ProductCode string          `gorm:"type:varchar(50)" json:"product_code"`
	ProductName string          `gorm:"type:varchar(150)" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Discount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}

const saleNumberSeqWidth = 6

// SaleNumberPrefix returns the "V" + year + month prefix sale numbers carry for
// the month of ts, e.g. "V202508".
func SaleNumberPrefix(ts time.Time) string {
	return "V" + ts.Format("200601")
}

// FormatSaleNumber builds a full sale number from the monthly prefix and a
// sequence value, zero-padded to a fixed width.
func FormatSaleNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s%0*d", prefix, saleNumberSeqWidth, seq)
}

// ParseSaleNumberSeq extracts the numeric suffix of an existing sale number.
// Returns 0 when the number is malformed or too short.
func ParseSaleNumberSeq(number string) int {
	if len(number) < saleNumberSeqWidth {
		return 0
	}
	seq, err := strconv.Atoi(number[len(number)-saleNumberSeqWidth:])
	if err != nil {
		return 0
	}
	return seq
}
