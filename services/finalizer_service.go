package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cardtavern/storefront/auth"
	apperrors "github.com/cardtavern/storefront/common/errors"
	"github.com/cardtavern/storefront/models"
	"github.com/cardtavern/storefront/payment"
	awspkg "github.com/cardtavern/storefront/pkg/aws"
	"github.com/cardtavern/storefront/repository"
)

// CommitOutcome reports what a commit attempt did.
type CommitOutcome string

const (
	CommitOutcomeCommitted CommitOutcome = "committed"
	CommitOutcomeSkipped   CommitOutcome = "commit-skipped"
)

// FinalizerService verifies a returned payment session and commits
// the order records exactly once per session. Two guards back the
// exactly-once property: an in-process attempted-session set, and the
// order_commits unique row written in the same transaction as the
// records.
type FinalizerService struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	payments payment.Provider
	sns      awspkg.SNSPublisher
	topicArn string
	log      *zap.Logger

	mu        sync.Mutex
	attempted map[string]bool
}

func NewFinalizerService(orders repository.OrderRepository, carts repository.CartRepository, payments payment.Provider, sns awspkg.SNSPublisher, topicArn string, log *zap.Logger) *FinalizerService {
	return &FinalizerService{
		orders:    orders,
		carts:     carts,
		payments:  payments,
		sns:       sns,
		topicArn:  topicArn,
		log:       log,
		attempted: make(map[string]bool),
	}
}

// Verify checks the payment session with the provider. An unpaid
// session or a transport failure is a verification failure; no order
// is ever committed for a session that fails here.
func (s *FinalizerService) Verify(ctx context.Context, sessionID string) (*payment.Session, error) {
	if sessionID == "" {
		return nil, apperrors.ErrBadRequest
	}

	session, err := s.payments.VerifySession(ctx, sessionID)
	if err != nil {
		s.log.Error("Payment session verification failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return nil, apperrors.Wrap(apperrors.ErrVerification, err)
	}
	if !session.Paid {
		s.log.Warn("Payment session not paid", zap.String("session_id", sessionID))
		return nil, apperrors.ErrVerification
	}
	return session, nil
}

// CommitOrder writes one order record per cart line for a verified
// session, then clears the cart. Repeated calls for the same session
// are no-ops. On a record write failure the in-process guard is
// released so a later reload may retry.
func (s *FinalizerService) CommitOrder(ctx context.Context, sessionID string, session *payment.Session, identity auth.Identity) (CommitOutcome, error) {
	if sessionID == "" || session == nil || identity.IsZero() {
		return CommitOutcomeSkipped, apperrors.ErrBadRequest
	}

	s.mu.Lock()
	if s.attempted[sessionID] {
		s.mu.Unlock()
		s.log.Info("Commit already attempted for session, skipping",
			zap.String("session_id", sessionID),
		)
		return CommitOutcomeSkipped, nil
	}
	s.attempted[sessionID] = true
	s.mu.Unlock()

	draft, err := s.orders.FindDraftBySessionID(ctx, sessionID)
	if err != nil {
		s.release(sessionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("No order draft for verified session",
				zap.String("session_id", sessionID),
			)
			return CommitOutcomeSkipped, apperrors.ErrDraftNotFound
		}
		return CommitOutcomeSkipped, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	lines, err := s.carts.FindByUserID(ctx, identity.UserID)
	if err != nil {
		s.release(sessionID)
		s.log.Error("Failed to fetch cart lines for commit",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return CommitOutcomeSkipped, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(lines) == 0 {
		// Cart was already cleared; nothing to commit.
		s.log.Warn("No cart lines at commit time, treating as already cleared",
			zap.String("session_id", sessionID),
		)
		return CommitOutcomeSkipped, nil
	}

	now := time.Now().UTC()
	records := make([]models.OrderRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, models.OrderRecord{
			UserID:       identity.UserID,
			SessionID:    sessionID,
			ProductID:    line.ProductID,
			ProductType:  line.ProductType,
			Size:         line.Size,
			TotalAmount:  session.AmountTotal,
			PurchasedAt:  now,
			OrderDraftID: draft.ID,
		})
	}

	if err := s.orders.CommitRecords(ctx, sessionID, records); err != nil {
		if errors.Is(err, repository.ErrAlreadyCommitted) {
			s.log.Info("Order records already committed for session",
				zap.String("session_id", sessionID),
			)
			return CommitOutcomeSkipped, nil
		}
		s.release(sessionID)
		s.log.Error("Failed to write order records",
			zap.String("session_id", sessionID),
			zap.Int("records", len(records)),
			zap.Error(err),
		)
		return CommitOutcomeSkipped, apperrors.Wrap(apperrors.ErrOrderWrite, err)
	}

	// The order is durably recorded; a failed cart clear only leaves
	// stale cart rows behind.
	if err := s.carts.DeleteByUserID(ctx, identity.UserID); err != nil {
		s.log.Error("Failed to clear cart after order commit",
			zap.String("session_id", sessionID),
			zap.String("user_id", identity.UserID.String()),
			zap.Error(err),
		)
	}

	s.publishCompleted(ctx, sessionID, draft, identity, len(records))

	s.log.Info("Order committed",
		zap.String("session_id", sessionID),
		zap.String("draft_id", draft.ID.String()),
		zap.Int("records", len(records)),
	)
	return CommitOutcomeCommitted, nil
}

func (s *FinalizerService) release(sessionID string) {
	s.mu.Lock()
	delete(s.attempted, sessionID)
	s.mu.Unlock()
}

// publishCompleted emits an order.completed event. Best-effort: a
// publish failure never fails the commit.
func (s *FinalizerService) publishCompleted(ctx context.Context, sessionID string, draft *models.OrderDraft, identity auth.Identity, recordCount int) {
	if s.sns == nil || s.topicArn == "" {
		return
	}

	event := map[string]interface{}{
		"event":        "order.completed",
		"session_id":   sessionID,
		"user_id":      identity.UserID.String(),
		"draft_id":     draft.ID.String(),
		"total_amount": draft.TotalAmount.StringFixed(2),
		"items":        recordCount,
		"completed_at": time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Warn("Failed to marshal order event", zap.Error(err))
		return
	}
	if err := s.sns.Publish(ctx, s.topicArn, payload); err != nil {
		s.log.Warn("SNS publish failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}
