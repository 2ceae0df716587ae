package services

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cardtavern/storefront/auth"
	"github.com/cardtavern/storefront/catalog"
	apperrors "github.com/cardtavern/storefront/common/errors"
	"github.com/cardtavern/storefront/models"
	"github.com/cardtavern/storefront/repository"
)

// AddItemRequest identifies the variant to add to the cart.
type AddItemRequest struct {
	ProductType models.ProductType `json:"product_type" binding:"required"`
	ProductID   int64              `json:"product_id" binding:"required"`
	Size        string             `json:"size"`
}

// ListFilters narrows and orders the enriched cart view. Filtering is
// applied purely in memory; it never re-queries storage.
type ListFilters struct {
	Condition   string
	ProductType models.ProductType
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Name        string
	SortKey     string // "price" or "created_at"
	SortOrder   string // "asc" or "desc"
}

// CartService presents one orderable collection of items regardless of
// which catalog they come from.
type CartService struct {
	repo     repository.CartRepository
	catalogs catalog.Registry
	log      *zap.Logger
}

func NewCartService(repo repository.CartRepository, catalogs catalog.Registry, log *zap.Logger) *CartService {
	return &CartService{
		repo:     repo,
		catalogs: catalogs,
		log:      log,
	}
}

// Add inserts a cart line unless the same variant is already present.
func (s *CartService) Add(ctx context.Context, identity auth.Identity, req AddItemRequest) error {
	if !req.ProductType.Valid() {
		return apperrors.ErrBadRequest
	}

	count, err := s.repo.CountLine(ctx, identity.UserID, req.ProductType, req.ProductID, req.Size)
	if err != nil {
		s.log.Error("Failed to check cart for existing line",
			zap.String("user_id", identity.UserID.String()),
			zap.Error(err),
		)
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrAlreadyInCart
	}

	line := &models.CartLine{
		UserID:      identity.UserID,
		ProductType: req.ProductType,
		ProductID:   req.ProductID,
		Size:        req.Size,
	}
	if err := s.repo.Create(ctx, line); err != nil {
		s.log.Error("Failed to insert cart line",
			zap.String("user_id", identity.UserID.String()),
			zap.Int64("product_id", req.ProductID),
			zap.Error(err),
		)
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Remove deletes matching lines for the user. Removing a line that is
// not present is not an error.
func (s *CartService) Remove(ctx context.Context, identity auth.Identity, productType models.ProductType, productID int64) error {
	if !productType.Valid() {
		return apperrors.ErrBadRequest
	}
	if err := s.repo.DeleteLine(ctx, identity.UserID, productType, productID); err != nil {
		s.log.Error("Failed to remove cart line",
			zap.String("user_id", identity.UserID.String()),
			zap.Int64("product_id", productID),
			zap.Error(err),
		)
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// InCart reports whether the variant is already in the user's cart.
func (s *CartService) InCart(ctx context.Context, identity auth.Identity, productType models.ProductType, productID int64, size string) (bool, error) {
	count, err := s.repo.CountLine(ctx, identity.UserID, productType, productID, size)
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// List returns the enriched cart. Lines are partitioned by product
// type and resolved through the matching catalog; items a catalog
// cannot resolve are dropped rather than failing the listing. An
// unauthenticated caller gets an empty cart, not an error.
func (s *CartService) List(ctx context.Context, identity auth.Identity) ([]models.EnrichedCartItem, error) {
	if identity.IsZero() {
		return []models.EnrichedCartItem{}, nil
	}

	lines, err := s.repo.FindByUserID(ctx, identity.UserID)
	if err != nil {
		s.log.Error("Failed to fetch cart lines",
			zap.String("user_id", identity.UserID.String()),
			zap.Error(err),
		)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(lines) == 0 {
		return []models.EnrichedCartItem{}, nil
	}

	byType := make(map[models.ProductType][]int64)
	for _, line := range lines {
		byType[line.ProductType] = append(byType[line.ProductType], line.ProductID)
	}

	resolved := make(map[models.ProductType]map[int64]catalog.Item, len(byType))
	for productType, ids := range byType {
		fetcher, ok := s.catalogs[productType]
		if !ok {
			s.log.Warn("No catalog for product type", zap.String("product_type", string(productType)))
			continue
		}
		items, err := fetcher.FetchByIDs(ctx, ids)
		if err != nil {
			s.log.Warn("Catalog fetch failed, dropping its items",
				zap.String("product_type", string(productType)),
				zap.Error(err),
			)
			continue
		}
		resolved[productType] = items
	}

	enriched := make([]models.EnrichedCartItem, 0, len(lines))
	for _, line := range lines {
		item, ok := resolved[line.ProductType][line.ProductID]
		if !ok {
			continue
		}
		enriched = append(enriched, models.EnrichedCartItem{
			LineID:      line.ID,
			ProductType: line.ProductType,
			ProductID:   line.ProductID,
			Size:        line.Size,
			Name:        item.Name,
			Condition:   item.Condition,
			Price:       item.Price,
			ImageURL:    item.ImageURL,
			AddedAt:     line.CreatedAt,
		})
	}

	return enriched, nil
}

// FilterSort applies the in-memory filters and sort to an enriched
// cart listing. The input slice is not modified.
func FilterSort(items []models.EnrichedCartItem, f ListFilters) []models.EnrichedCartItem {
	result := make([]models.EnrichedCartItem, 0, len(items))

	for _, item := range items {
		if f.Condition != "" && item.Condition != f.Condition {
			continue
		}
		if f.ProductType != "" && item.ProductType != f.ProductType {
			continue
		}
		if f.MinPrice != nil && item.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && item.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(f.Name)) {
			continue
		}
		result = append(result, item)
	}

	if f.SortKey != "" {
		desc := f.SortOrder == "desc"
		sort.SliceStable(result, func(i, j int) bool {
			var less bool
			switch f.SortKey {
			case "price":
				less = result[i].Price.LessThan(result[j].Price)
			case "created_at":
				less = result[i].AddedAt.Before(result[j].AddedAt)
			default:
				return false
			}
			if desc {
				return !less
			}
			return less
		})
	}

	return result
}

// Total sums the unit prices of the enriched items.
func Total(items []models.EnrichedCartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}
