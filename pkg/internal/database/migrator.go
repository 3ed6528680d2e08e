package database

import (
	"github.com/Z-Wei-1117/survey-app/pkg/internal/models"
	"gorm.io/gorm"
)

// AutoMaintainRange lists every table owned by the service, parents first.
var AutoMaintainRange = []any{
	&models.Survey{},
	&models.Question{},
	&models.Option{},
	&models.Response{},
	&models.Answer{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}
