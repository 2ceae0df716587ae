package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/cardtavern/storefront/auth"
	apperrors "github.com/cardtavern/storefront/common/errors"
	"github.com/cardtavern/storefront/models"
	"github.com/cardtavern/storefront/repository"
)

type OrderHistoryResponse struct {
	Orders []models.OrderRecord `json:"orders"`
	Meta   MetaData             `json:"meta"`
}

type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

// OrderService serves the read side of committed orders.
type OrderService struct {
	orders repository.OrderRepository
	log    *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, log *zap.Logger) *OrderService {
	return &OrderService{orders: orders, log: log}
}

// GetUserOrders retrieves paginated order records for a user, newest
// first.
func (s *OrderService) GetUserOrders(ctx context.Context, identity auth.Identity, page, limit int) (*OrderHistoryResponse, error) {
	records, total, err := s.orders.FindRecordsByUserID(ctx, identity.UserID, page, limit)
	if err != nil {
		s.log.Error("Failed to fetch orders",
			zap.String("user_id", identity.UserID.String()),
			zap.Error(err),
		)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &OrderHistoryResponse{
		Orders: records,
		Meta: MetaData{
			Page:        page,
			Limit:       limit,
			TotalOrders: total,
			TotalPages:  calculateTotalPages(total, limit),
			HasMore:     total > int64(page*limit),
		},
	}, nil
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
