package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cardtavern/storefront/models"
)

// Item is denormalized product data used to enrich cart lines.
type Item struct {
	ID        int64
	Name      string
	Condition string
	Price     decimal.Decimal
	ImageURL  string
}

// Fetcher resolves product ids of one type to items. Implementations
// tolerate partial failure: ids that cannot be resolved are absent from
// the result map rather than failing the whole fetch.
type Fetcher interface {
	Type() models.ProductType
	FetchByIDs(ctx context.Context, ids []int64) (map[int64]Item, error)
}

// Registry maps product types to their fetchers so callers stay
// agnostic to how many catalogs exist.
type Registry map[models.ProductType]Fetcher

func NewRegistry(fetchers ...Fetcher) Registry {
	reg := make(Registry, len(fetchers))
	for _, f := range fetchers {
		reg[f.Type()] = f
	}
	return reg
}
