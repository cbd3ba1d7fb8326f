package catalog

import "github.com/example/furniture-store-api/domain/product"

// ListProductsRequest is the request for listing every product.
type ListProductsRequest struct{}

// ListByCategoryRequest selects products of one category.
type ListByCategoryRequest struct {
	Category string `json:"category"`
}

// GetProductRequest is the request for getting a product.
type GetProductRequest struct {
	ID string `json:"id"`
}

// SearchRequest carries a case-insensitive name fragment.
type SearchRequest struct {
	Query string `json:"query"`
}

// ProductsResponse is the response containing a list of products.
type ProductsResponse struct {
	Products []product.Product `json:"products"`
}
