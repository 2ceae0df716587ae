package catalog

import (
	"context"

	"github.com/cardtavern/storefront/models"
	"github.com/cardtavern/storefront/repository"
	"github.com/cardtavern/storefront/storage"
)

// CardCatalog resolves card ids with one batch query, fronted by the
// Redis cache.
type CardCatalog struct {
	repo   repository.CardRepository
	cache  *Cache
	images *storage.PublicURLBuilder
}

func NewCardCatalog(repo repository.CardRepository, cache *Cache, images *storage.PublicURLBuilder) *CardCatalog {
	return &CardCatalog{
		repo:   repo,
		cache:  cache,
		images: images,
	}
}

func (c *CardCatalog) Type() models.ProductType {
	return models.ProductTypeCard
}

func (c *CardCatalog) FetchByIDs(ctx context.Context, ids []int64) (map[int64]Item, error) {
	items := make(map[int64]Item, len(ids))

	var misses []int64
	for _, id := range ids {
		if card, ok := c.cache.GetCard(ctx, id); ok {
			items[id] = c.toItem(card)
			continue
		}
		misses = append(misses, id)
	}

	if len(misses) > 0 {
		cards, err := c.repo.FindByIDs(ctx, misses)
		if err != nil {
			return nil, err
		}
		for i := range cards {
			items[cards[i].ID] = c.toItem(&cards[i])
		}
		c.cache.SetCardsAsync(cards)
	}

	return items, nil
}

func (c *CardCatalog) toItem(card *models.Card) Item {
	return Item{
		ID:        card.ID,
		Name:      card.Name,
		Condition: card.Condition,
		Price:     card.Price,
		ImageURL:  c.images.ImageURL(card.Image),
	}
}
