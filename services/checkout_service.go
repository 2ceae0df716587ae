package services

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cardtavern/storefront/auth"
	apperrors "github.com/cardtavern/storefront/common/errors"
	"github.com/cardtavern/storefront/models"
	"github.com/cardtavern/storefront/payment"
	"github.com/cardtavern/storefront/repository"
)

// CheckoutInput is the address form collected before submission. When
// ShippingSameAsBilling is set the shipping address is a derived copy
// of billing, not independent input.
type CheckoutInput struct {
	Billing               models.Address `json:"billing_address"`
	Shipping              models.Address `json:"shipping_address"`
	ShippingSameAsBilling bool           `json:"shipping_same_as_billing"`
	Notes                 string         `json:"notes"`
}

// CheckoutResult reports the outcome of a submission. Status is always
// terminal when Submit returns.
type CheckoutResult struct {
	Status      CheckoutStatus  `json:"status"`
	DraftID     uuid.UUID       `json:"draft_id,omitempty"`
	SessionID   string          `json:"session_id,omitempty"`
	RedirectURL string          `json:"redirect_url,omitempty"`
	Total       decimal.Decimal `json:"total"`
}

// CheckoutService drives a checkout submission: persist a draft with a
// snapshot total, request a hosted payment session, hand back the
// redirect URL. The three steps are strictly sequential and nothing is
// retried automatically.
type CheckoutService struct {
	carts    *CartService
	orders   repository.OrderRepository
	payments payment.Provider
	validate *validator.Validate
	log      *zap.Logger
}

func NewCheckoutService(carts *CartService, orders repository.OrderRepository, payments payment.Provider, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		orders:   orders,
		payments: payments,
		validate: validator.New(),
		log:      log,
	}
}

// Submit runs the checkout flow for the authenticated user. The total
// is the sum of enriched unit prices at the moment of submission; the
// draft stores that snapshot and is never recomputed from it.
func (s *CheckoutService) Submit(ctx context.Context, identity auth.Identity, input CheckoutInput) (*CheckoutResult, error) {
	if identity.IsZero() {
		return nil, apperrors.ErrUnauthorized
	}

	if input.ShippingSameAsBilling {
		input.Shipping = input.Billing
	}
	if err := s.validate.Struct(input.Billing); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBadRequest, err)
	}
	if err := s.validate.Struct(input.Shipping); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBadRequest, err)
	}

	items, err := s.carts.List(ctx, identity)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	status := CheckoutStatusCollectingInput
	result := &CheckoutResult{Total: Total(items)}

	status = s.advance(status, CheckoutStatusSubmittingDraft)

	draft := &models.OrderDraft{
		UserID:          identity.UserID,
		TotalAmount:     result.Total,
		BillingAddress:  input.Billing,
		ShippingAddress: input.Shipping,
		Notes:           input.Notes,
	}
	if err := s.orders.CreateDraft(ctx, draft); err != nil {
		result.Status = s.advance(status, CheckoutStatusDraftFailed)
		s.log.Error("Failed to persist order draft",
			zap.String("user_id", identity.UserID.String()),
			zap.Error(err),
		)
		return result, apperrors.Wrap(apperrors.ErrDraftPersist, err)
	}
	result.DraftID = draft.ID

	status = s.advance(status, CheckoutStatusRequestingSession)

	lineItems := make([]payment.LineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, payment.LineItem{
			Name:       item.Name,
			ImageURL:   item.ImageURL,
			UnitAmount: item.Price.Mul(decimal.NewFromInt(100)).IntPart(),
		})
	}

	sessionID, redirectURL, err := s.payments.CreateCheckoutSession(ctx, lineItems, identity.Email, draft.ID.String())
	if err != nil {
		result.Status = s.advance(status, CheckoutStatusSessionFailed)
		s.log.Error("Failed to create payment session",
			zap.String("draft_id", draft.ID.String()),
			zap.Error(err),
		)
		return result, apperrors.Wrap(apperrors.ErrSessionCreate, err)
	}

	if err := s.orders.AttachSession(ctx, draft.ID, sessionID); err != nil {
		// Without the association the confirmation view cannot find
		// the draft, so the session is unusable.
		result.Status = s.advance(status, CheckoutStatusSessionFailed)
		s.log.Error("Failed to attach payment session to draft",
			zap.String("draft_id", draft.ID.String()),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return result, apperrors.Wrap(apperrors.ErrSessionCreate, err)
	}

	result.SessionID = sessionID
	result.RedirectURL = redirectURL
	result.Status = s.advance(status, CheckoutStatusRedirecting)

	s.log.Info("Checkout submitted",
		zap.String("user_id", identity.UserID.String()),
		zap.String("draft_id", draft.ID.String()),
		zap.String("session_id", sessionID),
		zap.String("total", result.Total.StringFixed(2)),
	)
	return result, nil
}

func (s *CheckoutService) advance(from, to CheckoutStatus) CheckoutStatus {
	if !from.CanTransitionTo(to) {
		// Transition table bugs, not runtime conditions.
		s.log.Error("Illegal checkout status transition",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		return from
	}
	return to
}
