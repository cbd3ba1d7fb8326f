package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/furniture-store-api/domain/product"
	"gorm.io/gorm"
)

// SearchLimit caps the number of products a name search returns.
const SearchLimit = 10

// DefaultQueryTimeout bounds every database call made by the repository.
const DefaultQueryTimeout = 5 * time.Second

var (
	// ErrNotFound is returned when a product is not found.
	ErrNotFound = errors.New("product not found")
	// ErrInvalidProduct is returned when a product is missing required fields.
	ErrInvalidProduct = errors.New("product name is required and price must be non-negative")
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repository provides read access to the product catalog.
type Repository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewRepository creates a new product repository.
func NewRepository(db *gorm.DB, timeout time.Duration) *Repository {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &Repository{db: db, timeout: timeout}
}

// Migrate runs database migrations for the product table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&product.Product{})
}

// Create saves a product. The catalog is populated out of band; the API never calls this.
func (r *Repository) Create(ctx context.Context, p *product.Product) error {
	if strings.TrimSpace(p.Name) == "" || p.Price < 0 {
		return ErrInvalidProduct
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindAll retrieves all products.
func (r *Repository) FindAll(ctx context.Context) ([]product.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	products := make([]product.Product, 0)
	if err := r.db.WithContext(ctx).Order("rowid").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

// FindByCategory retrieves the products whose category matches exactly.
func (r *Repository) FindByCategory(ctx context.Context, category string) ([]product.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	products := make([]product.Product, 0)
	if err := r.db.WithContext(ctx).Where("category = ?", category).Order("rowid").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products by category: %w", err)
	}
	return products, nil
}

// FindByID retrieves a product by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var p product.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &p, nil
}

// SearchByName returns up to SearchLimit products whose name contains query,
// ignoring case (Unicode-aware). An empty query matches nothing.
func (r *Repository) SearchByName(ctx context.Context, query string) ([]product.Product, error) {
	products := make([]product.Product, 0)
	if query == "" {
		return products, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	if err := r.db.WithContext(ctx).
		Where(`unicode_lower(name) LIKE ? ESCAPE '\'`, pattern).
		Order("rowid").
		Limit(SearchLimit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}
