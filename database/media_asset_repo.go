package database

import (
	"context"

	"github.com/rpupo63/portfolio-site/models"
	"gorm.io/gorm"
)

type MediaAssetRepo struct {
	db *gorm.DB
}

func NewMediaAssetRepo(db *gorm.DB) *MediaAssetRepo {
	return &MediaAssetRepo{db}
}

// Add records an uploaded file
func (r *MediaAssetRepo) Add(ctx context.Context, asset *models.MediaAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

// FindByID returns a media asset by its ID, or nil when absent
func (r *MediaAssetRepo) FindByID(ctx context.Context, id uint) (*models.MediaAsset, error) {
	var assets []models.MediaAsset
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&assets).Error; err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, nil
	}
	return &assets[0], nil
}
