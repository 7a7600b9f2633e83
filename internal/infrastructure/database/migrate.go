package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"focusframe-server/internal/infrastructure/database/entities"
)

// AutoMigrate applies the item and owner schema.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(&entities.Owner{}, &entities.Item{}); err != nil {
		return err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&entities.Item{}).Count(&count).Error; err != nil {
		return err
	}
	log.Info().Int64("items", count).Msg("database schema ready")
	return nil
}
