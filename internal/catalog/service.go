package catalog

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
)

// Service defines the behavior needed by the catalog controller.
type Service interface {
	Search(ctx context.Context, query string, limit, offset int) (*SearchResult, error)
}

type productRepository interface {
	Search(ctx context.Context, query string, limit, offset int) ([]models.Product, int64, error)
	Count(ctx context.Context) (int64, error)
}

type service struct {
	products productRepository
}

// ServiceParams bundles the dependencies required to build a catalog service.
type ServiceParams struct {
	ProductRepo productRepository
}

// NewService constructs a catalog service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{products: params.ProductRepo}, nil
}

// Search matches products by name or description substring. A blank query
// matches nothing rather than everything; the catalog-wide count is still
// reported so the UI can show how many products exist.
func (s *service) Search(ctx context.Context, query string, limit, offset int) (*SearchResult, error) {
	catalogTotal, err := s.products.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count catalog")
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &SearchResult{Products: []ProductDTO{}, CatalogTotal: catalogTotal}, nil
	}

	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if offset < 0 {
		offset = 0
	}

	products, total, err := s.products.Search(ctx, trimmed, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search products")
	}

	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, FromModel(&products[i]))
	}
	return &SearchResult{Products: dtos, Total: total, CatalogTotal: catalogTotal}, nil
}
