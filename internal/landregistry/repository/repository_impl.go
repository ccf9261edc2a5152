package repository

import (
	"context"

	"github.com/brickvale/homebuyer/internal/landregistry/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) ReplaceArea(ctx context.Context, area string, prices []domain.SoldPrice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("area = ?", area).Delete(&domain.SoldPrice{}).Error; err != nil {
			return err
		}
		if len(prices) == 0 {
			return nil
		}
		return tx.Create(&prices).Error
	})
}

func (r *repository) ListByArea(ctx context.Context, area string, limit int) ([]domain.SoldPrice, error) {
	var prices []domain.SoldPrice
	stmt := r.db.WithContext(ctx).
		Where("area = ?", area).
		Order("date DESC")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}
