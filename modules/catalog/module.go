package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/example/furniture-store-api/domain/product"
	"github.com/example/furniture-store-api/store"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// CatalogModule serves read-only product queries.
type CatalogModule struct {
	db           *gorm.DB
	repo         *Repository
	queryTimeout time.Duration
	inflight     singleflight.Group // Coalesces identical concurrent reads
}

// Compile-time interface checks.
var _ mono.Module = (*CatalogModule)(nil)
var _ mono.ServiceProviderModule = (*CatalogModule)(nil)
var _ mono.HealthCheckableModule = (*CatalogModule)(nil)

// NewModule creates a new CatalogModule on top of the shared database handle.
func NewModule(db *gorm.DB, queryTimeout time.Duration) *CatalogModule {
	return &CatalogModule{
		db:           db,
		queryTimeout: queryTimeout,
	}
}

// Name returns the module name.
func (m *CatalogModule) Name() string {
	return "catalog"
}

// Start runs migrations and prepares the repository.
func (m *CatalogModule) Start(_ context.Context) error {
	if m.db == nil {
		return store.ErrNotInitialized
	}

	m.repo = NewRepository(m.db, m.queryTimeout)
	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("[catalog] Module started successfully")
	return nil
}

// Stop stops the module. The database handle is owned by main.
func (m *CatalogModule) Stop(_ context.Context) error {
	log.Println("[catalog] Module stopped")
	return nil
}

// Health performs a health check on the catalog module.
func (m *CatalogModule) Health(ctx context.Context) mono.HealthStatus {
	if err := store.Ping(ctx, m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: err.Error(),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
		},
	}
}

// RegisterServices registers request-reply services in the service container.
// The framework prefixes service names, so "get" becomes "services.catalog.get".
func (m *CatalogModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.listProducts,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "by-category", json.Unmarshal, json.Marshal, m.listByCategory,
	); err != nil {
		return fmt.Errorf("failed to register by-category service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getProduct,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "search", json.Unmarshal, json.Marshal, m.searchProducts,
	); err != nil {
		return fmt.Errorf("failed to register search service: %w", err)
	}

	log.Printf("[catalog] Registered services: services.catalog.{list,by-category,get,search}")
	return nil
}

func (m *CatalogModule) listProducts(ctx context.Context, _ ListProductsRequest, _ *mono.Msg) (ProductsResponse, error) {
	products, err := shared(ctx, &m.inflight, "list", func(ctx context.Context) ([]product.Product, error) {
		return m.repo.FindAll(ctx)
	})
	if err != nil {
		return ProductsResponse{}, err
	}
	return ProductsResponse{Products: products}, nil
}

func (m *CatalogModule) listByCategory(ctx context.Context, req ListByCategoryRequest, _ *mono.Msg) (ProductsResponse, error) {
	products, err := shared(ctx, &m.inflight, "category:"+req.Category, func(ctx context.Context) ([]product.Product, error) {
		return m.repo.FindByCategory(ctx, req.Category)
	})
	if err != nil {
		return ProductsResponse{}, err
	}
	return ProductsResponse{Products: products}, nil
}

func (m *CatalogModule) getProduct(ctx context.Context, req GetProductRequest, _ *mono.Msg) (product.Product, error) {
	if req.ID == "" {
		return product.Product{}, ErrNotFound
	}

	p, err := shared(ctx, &m.inflight, "get:"+req.ID, func(ctx context.Context) (*product.Product, error) {
		return m.repo.FindByID(ctx, req.ID)
	})
	if err != nil {
		return product.Product{}, err
	}
	return *p, nil
}

func (m *CatalogModule) searchProducts(ctx context.Context, req SearchRequest, _ *mono.Msg) (ProductsResponse, error) {
	products, err := shared(ctx, &m.inflight, "search:"+req.Query, func(ctx context.Context) ([]product.Product, error) {
		return m.repo.SearchByName(ctx, req.Query)
	})
	if err != nil {
		return ProductsResponse{}, err
	}
	return ProductsResponse{Products: products}, nil
}

// shared runs fn once for all concurrent callers using the same key.
// fn runs under a context detached from the caller's cancellation. The
// repository timeout still bounds the query.
// Results are shared between callers and must not be mutated.
func shared[T any](ctx context.Context, g *singleflight.Group, key string, fn func(context.Context) (T, error)) (T, error) {
	detached := context.WithoutCancel(ctx)
	v, err, _ := g.Do(key, func() (any, error) {
		return fn(detached)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
