package model

type DocumentType string

const (
	DocNationalID DocumentType = "DNI" // national identity card
	DocTaxID      DocumentType = "RUC" // business tax registry
	DocForeignID  DocumentType = "CE"  // foreigner card
)

type Customer struct {
	BaseModel
	DocumentType   DocumentType `gorm:"type:varchar(20);not null;default:'DNI'" json:"document_type" validate:"required,oneof=DNI RUC CE"`
	DocumentNumber string       `gorm:"type:varchar(20);uniqueIndex;not null" json:"document_number" validate:"required,max=20"`
	FirstName      string       `gorm:"type:varchar(100);not null" json:"first_name" validate:"required,max=100"`
	LastName       string       `gorm:"type:varchar(100);not null" json:"last_name" validate:"required,max=100"`
	Phone          string       `gorm:"type:varchar(20)" json:"phone" validate:"max=20"`
	Email          string       `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Address        string       `gorm:"type:text" json:"address"`
	Active         bool         `gorm:"default:true" json:"active"`

	Sales []Sale `json:"sales,omitempty"`
}

// FullName joins first and last name for receipts and search results.
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
