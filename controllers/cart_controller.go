package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/cardtavern/storefront/common/errors"
	"github.com/cardtavern/storefront/middleware"
	"github.com/cardtavern/storefront/models"
	"github.com/cardtavern/storefront/services"
)

// CartController handles HTTP requests for cart operations.
type CartController struct {
	cartService *services.CartService
}

func NewCartController(svc *services.CartService) *CartController {
	return &CartController{cartService: svc}
}

// AddItem handles POST /cart/items
func (cc *CartController) AddItem(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		apperrors.Respond(ctx, apperrors.ErrUnauthorized)
		return
	}

	var req services.AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := cc.cartService.Add(ctx.Request.Context(), identity, req); err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Item added to cart"})
}

// RemoveItem handles DELETE /cart/items/:product_type/:product_id
func (cc *CartController) RemoveItem(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		apperrors.Respond(ctx, apperrors.ErrUnauthorized)
		return
	}

	productID, err := strconv.ParseInt(ctx.Param("product_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}
	productType := models.ProductType(ctx.Param("product_type"))

	if err := cc.cartService.Remove(ctx.Request.Context(), identity, productType, productID); err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

// GetCart handles GET /cart. An unauthenticated caller gets an empty
// cart. Filters and sorting are applied to the enriched listing.
func (cc *CartController) GetCart(ctx *gin.Context) {
	identity, _ := middleware.GetIdentity(ctx)

	items, err := cc.cartService.List(ctx.Request.Context(), identity)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	items = services.FilterSort(items, parseListFilters(ctx))
	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": services.Total(items),
		"count": len(items),
	})
}

// CheckItem handles GET /cart/contains
func (cc *CartController) CheckItem(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusOK, gin.H{"in_cart": false})
		return
	}

	productID, err := strconv.ParseInt(ctx.Query("product_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}
	productType := models.ProductType(ctx.Query("product_type"))
	if !productType.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product type"})
		return
	}

	inCart, err := cc.cartService.InCart(ctx.Request.Context(), identity, productType, productID, ctx.Query("size"))
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"in_cart": inCart})
}

func parseListFilters(ctx *gin.Context) services.ListFilters {
	filters := services.ListFilters{
		Condition:   ctx.Query("condition"),
		ProductType: models.ProductType(ctx.Query("product_type")),
		Name:        ctx.Query("name"),
		SortKey:     ctx.Query("sort"),
		SortOrder:   ctx.DefaultQuery("order", "asc"),
	}
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
	return filters
}
