package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/cardtavern/storefront/catalog"
	apperrors "github.com/cardtavern/storefront/common/errors"
	"github.com/cardtavern/storefront/middleware"
	"github.com/cardtavern/storefront/models"
	"github.com/cardtavern/storefront/repository"
	"github.com/cardtavern/storefront/services"
	"github.com/cardtavern/storefront/storage"
	"gorm.io/gorm"
)

// CatalogController handles HTTP requests for browsing the card and
// apparel catalogs.
type CatalogController struct {
	cards   repository.CardRepository
	apparel *catalog.ApparelCatalog
	images  *storage.PublicURLBuilder
	search  *services.SearchService
}

func NewCatalogController(cards repository.CardRepository, apparel *catalog.ApparelCatalog, images *storage.PublicURLBuilder, search *services.SearchService) *CatalogController {
	return &CatalogController{cards: cards, apparel: apparel, images: images, search: search}
}

type cardResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Condition string          `json:"condition"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
}

func (cc *CatalogController) toCardResponse(card *models.Card) cardResponse {
	return cardResponse{
		ID:        card.ID,
		Name:      card.Name,
		Condition: card.Condition,
		Price:     card.Price,
		ImageURL:  cc.images.ImageURL(card.Image),
	}
}

// ListCards handles GET /catalog/cards
func (cc *CatalogController) ListCards(ctx *gin.Context) {
	filters := repository.CardFilters{Condition: ctx.Query("condition")}
	if v := ctx.Query("min_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filters.MinPrice = &d
		}
	}
	if v := ctx.Query("max_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filters.MaxPrice = &d
		}
	}

	page, limit := parsePaginationParams(ctx)
	cards, total, err := cc.cards.List(ctx.Request.Context(), filters, page, limit)
	if err != nil {
		apperrors.Respond(ctx, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	out := make([]cardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, cc.toCardResponse(&cards[i]))
	}
	ctx.JSON(http.StatusOK, gin.H{
		"cards": out,
		"meta":  gin.H{"page": page, "limit": limit, "total": total},
	})
}

// GetCard handles GET /catalog/cards/:id
func (cc *CatalogController) GetCard(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card id"})
		return
	}

	card, err := cc.cards.FindByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(ctx, apperrors.ErrNotFound)
			return
		}
		apperrors.Respond(ctx, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	ctx.JSON(http.StatusOK, cc.toCardResponse(card))
}

// ListApparel handles GET /catalog/apparel
func (cc *CatalogController) ListApparel(ctx *gin.Context) {
	products, err := cc.apparel.List(ctx.Request.Context())
	if err != nil {
		apperrors.Respond(ctx, apperrors.New(http.StatusBadGateway, "Apparel catalog unavailable", err))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

// SuggestCards handles GET /catalog/cards/suggest. Lookups are
// debounced per client; a request superseded by a newer one from the
// same client gets 204 and no body.
func (cc *CatalogController) SuggestCards(ctx *gin.Context) {
	q := ctx.Query("q")
	if q == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	clientKey := ctx.ClientIP()
	if identity, ok := middleware.GetIdentity(ctx); ok {
		clientKey = identity.UserID.String()
	}

	cards, err := cc.search.Suggest(ctx.Request.Context(), clientKey, q, 10)
	if err != nil {
		if errors.Is(err, services.ErrSuperseded) {
			ctx.Status(http.StatusNoContent)
			return
		}
		apperrors.Respond(ctx, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	out := make([]cardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, cc.toCardResponse(&cards[i]))
	}
	ctx.JSON(http.StatusOK, gin.H{"suggestions": out})
}
