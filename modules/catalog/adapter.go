package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/furniture-store-api/domain/product"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// CatalogPort is what the HTTP layer needs from the catalog.
type CatalogPort interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
	ListByCategory(ctx context.Context, category string) ([]product.Product, error)
	GetProduct(ctx context.Context, id string) (*product.Product, error)
	Search(ctx context.Context, query string) ([]product.Product, error)
}

// CatalogAdapter implements CatalogPort using the service container.
type CatalogAdapter struct {
	container mono.ServiceContainer
}

// NewCatalogAdapter creates a new CatalogAdapter.
func NewCatalogAdapter(container mono.ServiceContainer) *CatalogAdapter {
	return &CatalogAdapter{container: container}
}

// ListProducts returns the whole catalog.
func (a *CatalogAdapter) ListProducts(ctx context.Context) ([]product.Product, error) {
	return callProducts(ctx, a.container, "list", &ListProductsRequest{})
}

// ListByCategory returns products with exactly the given category.
func (a *CatalogAdapter) ListByCategory(ctx context.Context, category string) ([]product.Product, error) {
	return callProducts(ctx, a.container, "by-category", &ListByCategoryRequest{Category: category})
}

// GetProduct returns one product, or ErrNotFound.
func (a *CatalogAdapter) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	req := GetProductRequest{ID: id}
	var resp product.Product

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		// Errors cross the container as text; restore the sentinel.
		if strings.Contains(err.Error(), ErrNotFound.Error()) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	return &resp, nil
}

// Search returns at most SearchLimit products whose name contains query.
func (a *CatalogAdapter) Search(ctx context.Context, query string) ([]product.Product, error) {
	if query == "" {
		return []product.Product{}, nil
	}
	return callProducts(ctx, a.container, "search", &SearchRequest{Query: query})
}

func callProducts[Req any](ctx context.Context, container mono.ServiceContainer, service string, req *Req) ([]product.Product, error) {
	var resp ProductsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s request failed: %w", service, err)
	}
	if resp.Products == nil {
		resp.Products = []product.Product{}
	}
	return resp.Products, nil
}
