package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/weiawesome/wes-furniture/internal/domain"
	"github.com/weiawesome/wes-furniture/pkg/log"
)

// settingsRowID is the primary key of the only settings row.
const settingsRowID = 1

// GetSettings retrieves the site settings, storing the defaults on first use.
func (r *GormCatalogRepository) GetSettings(ctx context.Context) (*domain.SiteSettings, error) {
	l := log.Ctx(ctx)

	var model domain.SiteSettingsModel
	err := r.db.WithContext(ctx).First(&model, settingsRowID).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error().Err(err).Msg("failed to get site settings")
		return nil, err
	}

	defaults := domain.DefaultSiteSettings()
	model = *domain.SiteSettingsToModel(&defaults)
	model.ID = settingsRowID

	// A concurrent first read may have inserted the row already.
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error; err != nil {
		l.Error().Err(err).Msg("failed to create default site settings")
		return nil, err
	}
	l.Info().Msg("default site settings created")
	return &defaults, nil
}

// SaveSettings overwrites every settings section.
func (r *GormCatalogRepository) SaveSettings(ctx context.Context, settings *domain.SiteSettings) error {
	l := log.Ctx(ctx)

	model := domain.SiteSettingsToModel(settings)
	model.ID = settingsRowID

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"home", "contact", "about", "services", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		l.Error().Err(err).Msg("failed to save site settings")
		return err
	}
	return nil
}
