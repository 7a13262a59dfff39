package service

import (
	"errors"

	"toystore-pos/internal/model"
	"toystore-pos/internal/repository"
	"toystore-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService owns categories and products: the referential data the sale
// workflow resolves against.
type CatalogService interface {
	CreateCategory(req *model.Category, userID string) error
	UpdateCategory(id uuid.UUID, req *model.Category, userID string) (*model.Category, error)
	DeleteCategory(id uuid.UUID, userID string) error
	GetCategories(filter repository.CategoryFilter) ([]model.Category, error)
	GetCategory(id uuid.UUID) (*model.Category, error)

	CreateProduct(req *model.Product, userID string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error)
	DeleteProduct(id uuid.UUID, userID string) error
	GetProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	SearchProducts(term string, limit int) ([]model.Product, error)
	GetLowStockProducts() ([]model.Product, error)
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

func NewCatalogService(cRepo repository.CategoryRepository, pRepo repository.ProductRepository) CatalogService {
	return &catalogService{
		categoryRepo: cRepo,
		productRepo:  pRepo,
	}
}

func (s *catalogService) CreateCategory(req *model.Category, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return &ValidationError{Field: first.FailedField, Rule: first.Tag}
	}

	existing, _ := s.categoryRepo.FindByName(req.Name)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrDuplicateName
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.categoryRepo.Create(req)
}

func (s *catalogService) UpdateCategory(id uuid.UUID, req *model.Category, userID string) (*model.Category, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, &ValidationError{Field: first.FailedField, Rule: first.Tag}
	}

	existing, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}

	if other, _ := s.categoryRepo.FindByName(req.Name); other != nil && other.ID != existing.ID {
		return nil, ErrDuplicateName
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Active = req.Active
	existing.UpdatedBy = userID

	if err := s.categoryRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteCategory refuses while any product still references the category.
func (s *catalogService) DeleteCategory(id uuid.UUID, userID string) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		return ErrCategoryNotFound
	}

	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	return s.categoryRepo.Delete(id, userID)
}

func (s *catalogService) GetCategories(filter repository.CategoryFilter) ([]model.Category, error) {
	return s.categoryRepo.FindAll(filter)
}

func (s *catalogService) GetCategory(id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *catalogService) CreateProduct(req *model.Product, userID string) error {
	if err := validateProduct(req); err != nil {
		return err
	}

	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		return ErrCategoryNotFound
	}

	existing, _ := s.productRepo.FindByCode(req.Code)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrDuplicateCode
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.productRepo.Create(req)
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		return nil, ErrCategoryNotFound
	}

	if other, _ := s.productRepo.FindByCode(req.Code); other != nil && other.ID != existing.ID {
		return nil, ErrDuplicateCode
	}

	existing.Code = req.Code
	existing.Name = req.Name
	existing.Description = req.Description
	existing.CategoryID = req.CategoryID
	existing.Category = nil
	existing.PurchasePrice = req.PurchasePrice
	existing.SalePrice = req.SalePrice
	existing.Stock = req.Stock
	existing.MinStock = req.MinStock
	existing.Active = req.Active
	existing.UpdatedBy = userID

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteProduct refuses while any sale item still references the product, so
// historic sales keep resolving.
func (s *catalogService) DeleteProduct(id uuid.UUID, userID string) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return ErrProductNotFound
	}

	count, err := s.productRepo.CountSaleItems(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrProductInUse
	}

	return s.productRepo.Delete(id, userID)
}

func (s *catalogService) GetProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(filter)
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) SearchProducts(term string, limit int) ([]model.Product, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.productRepo.Search(term, limit)
}

func (s *catalogService) GetLowStockProducts() ([]model.Product, error) {
	return s.productRepo.FindLowStock()
}

func validateProduct(req *model.Product) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return &ValidationError{Field: first.FailedField, Rule: first.Tag}
	}
	if req.PurchasePrice.IsNegative() {
		return &ValidationError{Field: "purchase_price", Rule: "gte=0"}
	}
	if req.SalePrice.IsNegative() {
		return &ValidationError{Field: "sale_price", Rule: "gte=0"}
	}
	return nil
}
