package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Code          string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required,max=50"`
	Name          string          `gorm:"type:varchar(150);not null" json:"name" validate:"required,max=150"`
	Description   string          `gorm:"type:varchar(1000)" json:"description" validate:"max=1000"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id" validate:"uuid_required"`
	Category      *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"purchase_price"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"sale_price"`
	Stock         int             `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
	MinStock      int             `gorm:"not null;default:0" json:"min_stock" validate:"gte=0"`
	Active        bool            `gorm:"default:true" json:"active"`
}

// LowStock reports whether the product sits at or below its restock threshold.
func (p *Product) LowStock() bool {
	return p.Stock <= p.MinStock
}
