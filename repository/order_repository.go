package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardtavern/storefront/models"
)

// ErrAlreadyCommitted signals that order records for a payment session
// have already been written, by this or any other process.
var ErrAlreadyCommitted = errors.New("order records already committed for session")

// OrderRepository defines the interface for order draft and record data access
type OrderRepository interface {
	CreateDraft(ctx context.Context, draft *models.OrderDraft) error
	AttachSession(ctx context.Context, draftID uuid.UUID, sessionID string) error
	FindDraftBySessionID(ctx context.Context, sessionID string) (*models.OrderDraft, error)
	CommitRecords(ctx context.Context, sessionID string, records []models.OrderRecord) error
	FindRecordsByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.OrderRecord, int64, error)
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) CreateDraft(ctx context.Context, draft *models.OrderDraft) error {
	return r.db.WithContext(ctx).Create(draft).Error
}

// AttachSession records the payment session id on a draft. This is the
// only mutation a draft ever receives.
func (r *GormOrderRepository) AttachSession(ctx context.Context, draftID uuid.UUID, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderDraft{}).
		Where("id = ?", draftID).
		Update("session_id", sessionID).Error
}

func (r *GormOrderRepository) FindDraftBySessionID(ctx context.Context, sessionID string) (*models.OrderDraft, error) {
	var draft models.OrderDraft
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

// CommitRecords writes the order records for a session in a single
// transaction, guarded by the order_commits primary key. A duplicate
// commit of the same session returns ErrAlreadyCommitted and writes
// nothing.
func (r *GormOrderRepository) CommitRecords(ctx context.Context, sessionID string, records []models.OrderRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.OrderCommit{SessionID: sessionID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyCommitted
			}
			return err
		}
		return tx.Create(&records).Error
	})
}

// FindRecordsByUserID retrieves a user's order records with pagination,
// newest first.
func (r *GormOrderRepository) FindRecordsByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.OrderRecord, int64, error) {
	var records []models.OrderRecord
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.OrderRecord{}).
		Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("purchased_at DESC").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
