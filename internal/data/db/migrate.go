package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/infinitetutor-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrate() error {
	if err := AutoMigrateAll(s.db); err != nil {
		return err
	}
	s.log.Info("database migrated")
	return nil
}
