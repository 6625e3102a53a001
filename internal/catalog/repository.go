package catalog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/pkg/common"
)

// ErrNotFound is returned when an operation targets a missing product id.
var ErrNotFound = errors.New("product not found")

// ProductForm carries the writable product fields. Identity and both
// timestamps are assigned by the store.
type ProductForm struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
}

// Repository handles persistence for the product collection.
type Repository interface {
	// List retrieves the full collection in snapshot order (created_at, id).
	List(ctx context.Context) ([]domain.Product, error)

	// Get retrieves a single product, ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Product, error)

	// Create inserts a new product under a store-generated id with
	// created_at == updated_at.
	Create(ctx context.Context, form ProductForm) (*domain.Product, error)

	// Update merges form fields into an existing product, refreshing
	// updated_at and preserving created_at. ErrNotFound when absent.
	Update(ctx context.Context, id string, form ProductForm) (*domain.Product, error)

	// Delete removes a product. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error
}

// GormRepository is the GORM implementation of Repository
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-based repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&products).Error
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

func (r *GormRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get product")
	}
	return &p, nil
}

func (r *GormRepository) Create(ctx context.Context, form ProductForm) (*domain.Product, error) {
	p := domain.Product{
		ID:          common.UUID(),
		Name:        strings.TrimSpace(form.Name),
		Description: form.Description,
		Price:       form.Price,
		Category:    form.Category,
		Stock:       form.Stock,
		Image:       strings.TrimSpace(form.Image),
	}
	if p.Image == "" {
		p.Image = domain.PlaceholderImage
	}
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	return &p, nil
}

func (r *GormRepository) Update(ctx context.Context, id string, form ProductForm) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// never merge-create on update, a write against a deleted
		// product is an error
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "update product")
	}

	p.Name = strings.TrimSpace(form.Name)
	p.Description = form.Description
	p.Price = form.Price
	p.Category = form.Category
	p.Stock = form.Stock
	p.Image = strings.TrimSpace(form.Image)
	if p.Image == "" {
		p.Image = domain.PlaceholderImage
	}

	if err := r.db.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, errors.Wrap(err, "update product")
	}
	return &p, nil
}

func (r *GormRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{}).Error
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	return nil
}
