package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cardtavern/storefront/common/errors"
	"github.com/cardtavern/storefront/middleware"
	"github.com/cardtavern/storefront/services"
)

// CheckoutController handles HTTP requests for checkout submission.
type CheckoutController struct {
	checkoutService *services.CheckoutService
}

func NewCheckoutController(svc *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: svc}
}

// Submit handles POST /checkout. On success the response carries the
// redirect URL for the hosted payment page; the caller performs the
// redirect. On a failed submission the terminal status is included so
// the client can show where the flow stopped.
func (cc *CheckoutController) Submit(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		apperrors.Respond(ctx, apperrors.ErrUnauthorized)
		return
	}

	var input services.CheckoutInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := cc.checkoutService.Submit(ctx.Request.Context(), identity, input)
	if err != nil {
		if result != nil {
			if e, isApp := err.(*apperrors.Error); isApp {
				ctx.JSON(e.Code, gin.H{"error": e.Message, "status": result.Status})
				return
			}
		}
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}
