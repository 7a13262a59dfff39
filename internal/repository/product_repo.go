package repository

import (
	"toystore-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductFilter struct {
	Search     string
	CategoryID *uuid.UUID
	Active     *bool
	LowStock   bool
	Limit      int
	Offset     int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByCode(code string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID, deletedBy string) error
	Search(term string, limit int) ([]model.Product, error)
	FindLowStock() ([]model.Product, error)
	CountSaleItems(id uuid.UUID) (int64, error)
	CountActive() (int64, error)
	CountLowStock() (int64, error)

	// Stock mutations take *gorm.DB so they join the caller's transaction.
	DecrementStock(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) (bool, error)
	IncrementStock(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(filter ProductFilter) ([]model.Product, error) {
	query := r.db.Model(&model.Product{}).Preload("Category")
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("code LIKE ? OR name LIKE ? OR description LIKE ?", like, like, like)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.LowStock {
		query = query.Where("stock <= min_stock")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var products []model.Product
	err := query.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByCode(code string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID, deletedBy string) error {
	// Audit column and soft delete land together or not at all.
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).Where("id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, "id = ?", id).Error
	})
}

// Search is the autocomplete lookup used by the sale screen: active products
// with stock on hand only.
func (r *productRepo) Search(term string, limit int) ([]model.Product, error) {
	like := "%" + term + "%"
	var products []model.Product
	err := r.db.Preload("Category").
		Where("active = ? AND stock > 0", true).
		Where("code LIKE ? OR name LIKE ?", like, like).
		Order("name ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindLowStock() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").
		Where("stock <= min_stock AND active = ?", true).
		Order("stock ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) CountSaleItems(id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.SaleItem{}).Where("product_id = ?", id).Count(&count).Error
	return count, err
}

func (r *productRepo) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("active = ?", true).Count(&count).Error
	return count, err
}

func (r *productRepo) CountLowStock() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("stock <= min_stock AND active = ?", true).
		Count(&count).Error
	return count, err
}

// DecrementStock subtracts quantity only when enough stock remains. The guard
// lives in the WHERE clause so two concurrent sales can never both take the
// last units; the caller checks the returned flag.
func (r *productRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_by": updatedBy,
		})
	return res.RowsAffected > 0, res.Error
}

// IncrementStock restores quantity units. Unconditional on purpose: voiding a
// sale must restore stock even for deactivated products.
func (r *productRepo) IncrementStock(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", quantity),
			"updated_by": updatedBy,
		}).Error
}
