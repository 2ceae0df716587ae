package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cardtavern/storefront/models"
)

const (
	apparelFunction         = "rapid-handler"
	apparelFetchConcurrency = 4
)

// Invoker is the serverless function invocation capability the apparel
// catalog consumes.
type Invoker interface {
	Invoke(ctx context.Context, name string, body interface{}) (json.RawMessage, error)
}

// ApparelCatalog resolves print-on-demand products through the sync
// function. The remote API has no batch lookup, so ids are fetched
// individually in bounded-parallel calls; a failed fetch drops that id
// from the result instead of failing the listing.
type ApparelCatalog struct {
	fns Invoker
	log *zap.Logger
}

func NewApparelCatalog(fns Invoker, log *zap.Logger) *ApparelCatalog {
	return &ApparelCatalog{fns: fns, log: log}
}

func (c *ApparelCatalog) Type() models.ProductType {
	return models.ProductTypeApparel
}

func (c *ApparelCatalog) FetchByIDs(ctx context.Context, ids []int64) (map[int64]Item, error) {
	items := make(map[int64]Item, len(ids))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(apparelFetchConcurrency)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			product, err := c.fetchOne(ctx, id)
			if err != nil {
				c.log.Warn("Dropping apparel item from listing",
					zap.Int64("product_id", id),
					zap.Error(err),
				)
				return nil
			}
			mu.Lock()
			items[id] = Item{
				ID:       product.ID,
				Name:     product.Name,
				Price:    product.RetailPrice,
				ImageURL: product.ThumbnailURL,
			}
			mu.Unlock()
			return nil
		})
	}

	// All outstanding fetches settle before the merge is visible.
	_ = g.Wait()

	return items, nil
}

func (c *ApparelCatalog) fetchOne(ctx context.Context, id int64) (*models.ApparelProduct, error) {
	raw, err := c.fns.Invoke(ctx, apparelFunction, map[string]string{
		"name": fmt.Sprintf("sync/products/%d", id),
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Result models.ApparelProduct `json:"result"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("invalid apparel response for id %d: %w", id, err)
	}
	if resp.Result.ID == 0 {
		return nil, fmt.Errorf("apparel product %d not found", id)
	}
	return &resp.Result, nil
}

// List returns all synced apparel products for catalog browsing.
func (c *ApparelCatalog) List(ctx context.Context) ([]models.ApparelProduct, error) {
	raw, err := c.fns.Invoke(ctx, apparelFunction, map[string]string{"name": "sync/products"})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Result []models.ApparelProduct `json:"result"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("invalid apparel list response: %w", err)
	}
	return resp.Result, nil
}
