package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/weiawesome/wes-furniture/internal/domain"
	"github.com/weiawesome/wes-furniture/pkg/log"
)

const setItemsTable = "set_items"

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("items.code")
	})
}

// ListSets retrieves sets matching filter with their items, newest first.
func (r *GormCatalogRepository) ListSets(ctx context.Context, filter domain.SetFilter) ([]domain.Set, error) {
	l := log.Ctx(ctx)

	query := preloadItems(r.db.WithContext(ctx).Model(&domain.SetModel{}))
	if filter.Room != "" {
		query = query.Where("room = ?", filter.Room)
	}
	if filter.Style != "" {
		query = query.Where("style = ?", filter.Style)
	}

	var models []domain.SetModel
	if err := query.Order("created_at DESC").Order("code").Find(&models).Error; err != nil {
		l.Error().Err(err).Msg("failed to list sets from db")
		return nil, err
	}
	return setsToDomain(models), nil
}

// GetSetByID retrieves a set by ID.
func (r *GormCatalogRepository) GetSetByID(ctx context.Context, id string) (*domain.Set, error) {
	return r.getSet(ctx, "id = ?", id)
}

// GetSetBySlug retrieves a set by slug.
func (r *GormCatalogRepository) GetSetBySlug(ctx context.Context, slug string) (*domain.Set, error) {
	return r.getSet(ctx, "slug = ?", slug)
}

// GetSetByCode retrieves a set by product code.
func (r *GormCatalogRepository) GetSetByCode(ctx context.Context, code string) (*domain.Set, error) {
	return r.getSet(ctx, "code = ?", code)
}

func (r *GormCatalogRepository) getSet(ctx context.Context, cond string, arg string) (*domain.Set, error) {
	l := log.Ctx(ctx)

	var model domain.SetModel
	result := preloadItems(r.db.WithContext(ctx)).First(&model, cond, arg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSetNotFound
		}
		l.Error().Err(result.Error).Str("lookup", arg).Msg("failed to get set")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// GetSetsByCodes retrieves sets by code, in the order of codes.
func (r *GormCatalogRepository) GetSetsByCodes(ctx context.Context, codes []string) ([]domain.Set, error) {
	l := log.Ctx(ctx)

	if len(codes) == 0 {
		return []domain.Set{}, nil
	}

	var models []domain.SetModel
	if err := preloadItems(r.db.WithContext(ctx)).Where("code IN ?", codes).Find(&models).Error; err != nil {
		l.Error().Err(err).Msg("failed to get sets by codes")
		return nil, err
	}

	byCode := make(map[string]*domain.SetModel, len(models))
	for i := range models {
		byCode[models[i].Code] = &models[i]
	}

	sets := make([]domain.Set, 0, len(codes))
	for _, code := range codes {
		if m, ok := byCode[code]; ok {
			sets = append(sets, *m.ToDomain())
		}
	}
	return sets, nil
}

// ListSimilarSets retrieves the other sets of the same room and style.
func (r *GormCatalogRepository) ListSimilarSets(ctx context.Context, set *domain.Set) ([]domain.Set, error) {
	return r.findSets(ctx, "room = ? AND style = ? AND id <> ?", set.Room, set.Style, set.ID)
}

// ListOtherStyleSets retrieves sets of the same room in a different style.
func (r *GormCatalogRepository) ListOtherStyleSets(ctx context.Context, set *domain.Set) ([]domain.Set, error) {
	return r.findSets(ctx, "room = ? AND style <> ? AND id <> ?", set.Room, set.Style, set.ID)
}

func (r *GormCatalogRepository) findSets(ctx context.Context, cond string, args ...interface{}) ([]domain.Set, error) {
	l := log.Ctx(ctx)

	var models []domain.SetModel
	if err := preloadItems(r.db.WithContext(ctx)).Where(cond, args...).Order("code").Find(&models).Error; err != nil {
		l.Error().Err(err).Msg("failed to find sets")
		return nil, err
	}
	return setsToDomain(models), nil
}

// ListSetCodes returns every set code starting with prefix.
func (r *GormCatalogRepository) ListSetCodes(ctx context.Context, prefix string) ([]string, error) {
	return r.listCodes(ctx, &domain.SetModel{}, prefix)
}

// CreateSet creates a new set and links its items.
func (r *GormCatalogRepository) CreateSet(ctx context.Context, set *domain.Set) error {
	l := log.Ctx(ctx)

	set.ID = uuid.New().String()
	model := domain.SetToModel(set)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(model).Error; err != nil {
			return err
		}
		return linkItems(tx, set.ID, set.Items)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCode
		}
		l.Error().Err(err).Str(log.FieldCode, set.Code).Msg("failed to create set in db")
		return err
	}

	set.CreatedAt = model.CreatedAt
	set.UpdatedAt = model.UpdatedAt
	l.Debug().Str("set_id", set.ID).Str(log.FieldCode, set.Code).Msg("set created in db")
	return nil
}

// UpdateSet saves every field of set and optionally replaces its items.
func (r *GormCatalogRepository) UpdateSet(ctx context.Context, set *domain.Set, replaceItems bool) error {
	l := log.Ctx(ctx)

	model := domain.SetToModel(set)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.SetModel{}).
			Where("id = ?", set.ID).
			Select("name", "slug", "code", "style", "room", "description", "images").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSetNotFound
		}
		if !replaceItems {
			return nil
		}
		if err := tx.Exec("DELETE FROM "+setItemsTable+" WHERE set_model_id = ?", set.ID).Error; err != nil {
			return err
		}
		return linkItems(tx, set.ID, set.Items)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSetNotFound):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateCode
	default:
		l.Error().Err(err).Str("set_id", set.ID).Msg("failed to update set in db")
		return err
	}
}

// DeleteSet deletes a set. Its items are kept.
func (r *GormCatalogRepository) DeleteSet(ctx context.Context, id string) error {
	l := log.Ctx(ctx)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+setItemsTable+" WHERE set_model_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.SetModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSetNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrSetNotFound) {
		l.Error().Err(err).Str("set_id", id).Msg("failed to delete set from db")
	}
	return err
}

func linkItems(tx *gorm.DB, setID string, items []domain.Item) error {
	seen := make(map[string]bool, len(items))
	rows := make([]map[string]interface{}, 0, len(items))
	for _, it := range items {
		if it.ID == "" || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		rows = append(rows, map[string]interface{}{
			"set_model_id":  setID,
			"item_model_id": it.ID,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Table(setItemsTable).Create(&rows).Error
}

func setsToDomain(models []domain.SetModel) []domain.Set {
	sets := make([]domain.Set, len(models))
	for i := range models {
		sets[i] = *models[i].ToDomain()
	}
	return sets
}
