package repository

import (
	"toystore-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerFilter struct {
	Search       string
	DocumentType model.DocumentType
	Active       *bool
	Limit        int
	Offset       int
}

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindAll(filter CustomerFilter) ([]model.Customer, error)
	FindByID(id uuid.UUID) (*model.Customer, error)
	FindByDocument(number string) (*model.Customer, error)
	Update(customer *model.Customer) error
	Delete(id uuid.UUID, deletedBy string) error
	Search(term string, limit int) ([]model.Customer, error)
	CountSales(id uuid.UUID) (int64, error)
	CountActive() (int64, error)
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) FindAll(filter CustomerFilter) ([]model.Customer, error) {
	query := r.db.Model(&model.Customer{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR document_number LIKE ? OR email LIKE ?",
			like, like, like, like,
		)
	}
	if filter.DocumentType != "" {
		query = query.Where("document_type = ?", filter.DocumentType)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var customers []model.Customer
	err := query.Order("last_name ASC, first_name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) FindByDocument(number string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, "document_number = ?", number).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Save(customer).Error
}

func (r *customerRepo) Delete(id uuid.UUID, deletedBy string) error {
	// Audit column and soft delete land together or not at all.
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Customer{}).Where("id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Customer{}, "id = ?", id).Error
	})
}

func (r *customerRepo) Search(term string, limit int) ([]model.Customer, error) {
	like := "%" + term + "%"
	var customers []model.Customer
	err := r.db.Where("active = ?", true).
		Where("first_name LIKE ? OR last_name LIKE ? OR document_number LIKE ?", like, like, like).
		Order("last_name ASC").
		Limit(limit).
		Find(&customers).Error
	return customers, err
}

func (r *customerRepo) CountSales(id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Sale{}).Where("customer_id = ?", id).Count(&count).Error
	return count, err
}

func (r *customerRepo) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Customer{}).Where("active = ?", true).Count(&count).Error
	return count, err
}
