package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
)

// ProductDTO is the transport shape for catalog entries.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SearchResult wraps a page of products with its total hit count.
// CatalogTotal is the full catalog size, shown alongside search results and
// returned even for a blank query.
type SearchResult struct {
	Products     []ProductDTO `json:"products"`
	Total        int64        `json:"total"`
	CatalogTotal int64        `json:"catalog_total"`
}

func FromModel(p *models.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
	}
}
