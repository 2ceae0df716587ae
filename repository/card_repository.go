package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cardtavern/storefront/models"
)

// CardFilters narrows catalog listings. Zero values mean "no filter".
type CardFilters struct {
	Condition string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
}

// CardRepository defines the interface for card catalog data access
type CardRepository interface {
	FindByIDs(ctx context.Context, ids []int64) ([]models.Card, error)
	FindByID(ctx context.Context, id int64) (*models.Card, error)
	List(ctx context.Context, filters CardFilters, page, limit int) ([]models.Card, int64, error)
	SearchByName(ctx context.Context, q string, limit int) ([]models.Card, error)
}

// GormCardRepository implements CardRepository using GORM
type GormCardRepository struct {
	db *gorm.DB
}

func NewGormCardRepository(db *gorm.DB) CardRepository {
	return &GormCardRepository{db: db}
}

func (r *GormCardRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Card, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var cards []models.Card
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *GormCardRepository) FindByID(ctx context.Context, id int64) (*models.Card, error) {
	var card models.Card
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *GormCardRepository) List(ctx context.Context, filters CardFilters, page, limit int) ([]models.Card, int64, error) {
	var cards []models.Card
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Card{})
	if filters.Condition != "" {
		query = query.Where("condition = ?", filters.Condition)
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", filters.MaxPrice)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&cards).Error; err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

func (r *GormCardRepository) SearchByName(ctx context.Context, q string, limit int) ([]models.Card, error) {
	var cards []models.Card
	if err := r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+q+"%").
		Limit(limit).
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}
