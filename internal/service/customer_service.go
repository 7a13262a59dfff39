package service

import (
	"errors"

	"toystore-pos/internal/model"
	"toystore-pos/internal/repository"
	"toystore-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerService interface {
	CreateCustomer(req *model.Customer, userID string) error
	UpdateCustomer(id uuid.UUID, req *model.Customer, userID string) (*model.Customer, error)
	DeleteCustomer(id uuid.UUID, userID string) error
	GetCustomers(filter repository.CustomerFilter) ([]model.Customer, error)
	GetCustomer(id uuid.UUID) (*model.Customer, error)
	SearchCustomers(term string, limit int) ([]model.Customer, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: repo}
}

func (s *customerService) CreateCustomer(req *model.Customer, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return &ValidationError{Field: first.FailedField, Rule: first.Tag}
	}

	existing, _ := s.customerRepo.FindByDocument(req.DocumentNumber)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrDuplicateDocument
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.customerRepo.Create(req)
}

func (s *customerService) UpdateCustomer(id uuid.UUID, req *model.Customer, userID string) (*model.Customer, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, &ValidationError{Field: first.FailedField, Rule: first.Tag}
	}

	existing, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, ErrCustomerNotFound
	}

	if other, _ := s.customerRepo.FindByDocument(req.DocumentNumber); other != nil && other.ID != existing.ID {
		return nil, ErrDuplicateDocument
	}

	existing.DocumentType = req.DocumentType
	existing.DocumentNumber = req.DocumentNumber
	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.Address = req.Address
	existing.Active = req.Active
	existing.UpdatedBy = userID

	if err := s.customerRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteCustomer refuses while any sale still references the customer.
func (s *customerService) DeleteCustomer(id uuid.UUID, userID string) error {
	if _, err := s.customerRepo.FindByID(id); err != nil {
		return ErrCustomerNotFound
	}

	count, err := s.customerRepo.CountSales(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCustomerInUse
	}

	return s.customerRepo.Delete(id, userID)
}

func (s *customerService) GetCustomers(filter repository.CustomerFilter) ([]model.Customer, error) {
	return s.customerRepo.FindAll(filter)
}

func (s *customerService) GetCustomer(id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *customerService) SearchCustomers(term string, limit int) ([]model.Customer, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.customerRepo.Search(term, limit)
}
