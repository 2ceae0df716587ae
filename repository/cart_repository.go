package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardtavern/storefront/models"
)

// CartRepository defines the interface for cart line data access
type CartRepository interface {
	CountLine(ctx context.Context, userID uuid.UUID, productType models.ProductType, productID int64, size string) (int64, error)
	Create(ctx context.Context, line *models.CartLine) error
	DeleteLine(ctx context.Context, userID uuid.UUID, productType models.ProductType, productID int64) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) CartRepository {
	return &GormCartRepository{db: db}
}

// CountLine counts lines matching the variant uniqueness key. Size is
// part of the key only when non-empty (card lines carry no size).
func (r *GormCartRepository) CountLine(ctx context.Context, userID uuid.UUID, productType models.ProductType, productID int64, size string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("user_id = ? AND product_type = ? AND product_id = ?", userID, productType, productID)
	if size != "" {
		query = query.Where("size = ?", size)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCartRepository) Create(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// DeleteLine removes matching lines for the user. Deleting a line that
// does not exist is not an error.
func (r *GormCartRepository) DeleteLine(ctx context.Context, userID uuid.UUID, productType models.ProductType, productID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_type = ? AND product_id = ?", userID, productType, productID).
		Delete(&models.CartLine{}).Error
}

func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *GormCartRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartLine{}).Error
}
