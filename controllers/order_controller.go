package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cardtavern/storefront/common/errors"
	"github.com/cardtavern/storefront/middleware"
	"github.com/cardtavern/storefront/services"
)

// OrderController handles HTTP requests for order confirmation and
// history.
type OrderController struct {
	finalizer    *services.FinalizerService
	orderService *services.OrderService
}

func NewOrderController(finalizer *services.FinalizerService, orders *services.OrderService) *OrderController {
	return &OrderController{finalizer: finalizer, orderService: orders}
}

// Confirm handles POST /orders/confirm. The payment provider redirects
// the customer back with a session_id query parameter; this endpoint
// verifies the session and commits the order records. Reloading the
// confirmation page repeats the call harmlessly.
func (oc *OrderController) Confirm(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		apperrors.Respond(ctx, apperrors.ErrUnauthorized)
		return
	}

	sessionID := ctx.Query("session_id")
	if sessionID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	session, err := oc.finalizer.Verify(ctx.Request.Context(), sessionID)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	outcome, err := oc.finalizer.CommitOrder(ctx.Request.Context(), sessionID, session, identity)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"outcome":        outcome,
		"session_id":     session.ID,
		"amount_total":   session.AmountTotal,
		"customer_email": session.CustomerEmail,
	})
}

// GetOrders handles GET /orders
func (oc *OrderController) GetOrders(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		apperrors.Respond(ctx, apperrors.ErrUnauthorized)
		return
	}

	page, limit := parsePaginationParams(ctx)
	resp, err := oc.orderService.GetUserOrders(ctx.Request.Context(), identity, page, limit)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// parsePaginationParams extracts and validates page/limit query params.
func parsePaginationParams(ctx *gin.Context) (int, int) {
	const maxLimit = 100
	pageInt, limitInt := 1, 10
	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && p > 0 {
		pageInt = p
	}
	if l, err := strconv.Atoi(ctx.DefaultQuery("limit", "10")); err == nil && l > 0 {
		if l > maxLimit {
			l = maxLimit
		}
		limitInt = l
	}
	return pageInt, limitInt
}
