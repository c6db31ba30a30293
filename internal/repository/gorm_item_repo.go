package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/weiawesome/wes-furniture/internal/domain"
	"github.com/weiawesome/wes-furniture/pkg/log"
)

// GormCatalogRepository implements CatalogRepository using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM-based catalogue repository.
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

var _ CatalogRepository = (*GormCatalogRepository)(nil)

// Models returns the GORM models that back the catalogue, for auto-migration.
func Models() []interface{} {
	return []interface{}{
		&domain.ItemModel{},
		&domain.SetModel{},
		&domain.RoomModel{},
		&domain.SiteSettingsModel{},
	}
}

// ListItems retrieves items matching filter, newest first.
func (r *GormCatalogRepository) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	l := log.Ctx(ctx)

	query := r.db.WithContext(ctx).Model(&domain.ItemModel{})
	if filter.Room != "" {
		query = query.Where("room = ?", filter.Room)
	}
	if filter.Style != "" {
		query = query.Where("style = ?", filter.Style)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var models []domain.ItemModel
	if err := query.Order("created_at DESC").Order("code").Find(&models).Error; err != nil {
		l.Error().Err(err).Msg("failed to list items from db")
		return nil, err
	}
	return itemsToDomain(models), nil
}

// GetItemByID retrieves an item by ID.
func (r *GormCatalogRepository) GetItemByID(ctx context.Context, id string) (*domain.Item, error) {
	return r.getItem(ctx, "id = ?", id)
}

// GetItemBySlug retrieves an item by slug.
func (r *GormCatalogRepository) GetItemBySlug(ctx context.Context, slug string) (*domain.Item, error) {
	return r.getItem(ctx, "slug = ?", slug)
}

// GetItemByCode retrieves an item by product code.
func (r *GormCatalogRepository) GetItemByCode(ctx context.Context, code string) (*domain.Item, error) {
	return r.getItem(ctx, "code = ?", code)
}

func (r *GormCatalogRepository) getItem(ctx context.Context, cond string, arg string) (*domain.Item, error) {
	l := log.Ctx(ctx)

	var model domain.ItemModel
	result := r.db.WithContext(ctx).First(&model, cond, arg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		l.Error().Err(result.Error).Str("lookup", arg).Msg("failed to get item")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// GetItemsByCodes retrieves items by code, in the order of codes.
func (r *GormCatalogRepository) GetItemsByCodes(ctx context.Context, codes []string) ([]domain.Item, error) {
	l := log.Ctx(ctx)

	if len(codes) == 0 {
		return []domain.Item{}, nil
	}

	var models []domain.ItemModel
	if err := r.db.WithContext(ctx).Where("code IN ?", codes).Find(&models).Error; err != nil {
		l.Error().Err(err).Msg("failed to get items by codes")
		return nil, err
	}

	byCode := make(map[string]*domain.ItemModel, len(models))
	for i := range models {
		byCode[models[i].Code] = &models[i]
	}

	items := make([]domain.Item, 0, len(codes))
	for _, code := range codes {
		if m, ok := byCode[code]; ok {
			items = append(items, *m.ToDomain())
		}
	}
	return items, nil
}

// ListStyleVariants retrieves the other items of the same room and type.
func (r *GormCatalogRepository) ListStyleVariants(ctx context.Context, item *domain.Item) ([]domain.Item, error) {
	l := log.Ctx(ctx)

	var models []domain.ItemModel
	err := r.db.WithContext(ctx).
		Where("room = ? AND type = ? AND id <> ?", item.Room, item.Type, item.ID).
		Order("code").
		Find(&models).Error
	if err != nil {
		l.Error().Err(err).Str(log.FieldSlug, item.Slug).Msg("failed to list style variants")
		return nil, err
	}
	return itemsToDomain(models), nil
}

// ListRelatedItems retrieves up to limit items of the same room and another type.
func (r *GormCatalogRepository) ListRelatedItems(ctx context.Context, item *domain.Item, limit int) ([]domain.Item, error) {
	l := log.Ctx(ctx)

	var models []domain.ItemModel
	err := r.db.WithContext(ctx).
		Where("room = ? AND type <> ?", item.Room, item.Type).
		Order("code").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		l.Error().Err(err).Str(log.FieldSlug, item.Slug).Msg("failed to list related items")
		return nil, err
	}
	return itemsToDomain(models), nil
}

// ListItemRooms returns the distinct rooms items are filed under.
func (r *GormCatalogRepository) ListItemRooms(ctx context.Context) ([]string, error) {
	return r.distinctItemColumn(ctx, "room")
}

// ListItemTypes returns the distinct furniture types.
func (r *GormCatalogRepository) ListItemTypes(ctx context.Context) ([]string, error) {
	return r.distinctItemColumn(ctx, "type")
}

func (r *GormCatalogRepository) distinctItemColumn(ctx context.Context, column string) ([]string, error) {
	l := log.Ctx(ctx)

	values := []string{}
	err := r.db.WithContext(ctx).Model(&domain.ItemModel{}).
		Distinct(column).
		Where(column+" <> ''").
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		l.Error().Err(err).Str("column", column).Msg("failed to list distinct item values")
		return nil, err
	}
	return values, nil
}

// ListItemCodes returns every item code starting with prefix.
func (r *GormCatalogRepository) ListItemCodes(ctx context.Context, prefix string) ([]string, error) {
	return r.listCodes(ctx, &domain.ItemModel{}, prefix)
}

func (r *GormCatalogRepository) listCodes(ctx context.Context, model interface{}, prefix string) ([]string, error) {
	l := log.Ctx(ctx)

	codes := []string{}
	err := r.db.WithContext(ctx).Model(model).
		Where("code LIKE ? ESCAPE '"+likeEscape+"'", escapeLike(prefix)+"%").
		Pluck("code", &codes).Error
	if err != nil {
		l.Error().Err(err).Str("prefix", prefix).Msg("failed to list codes")
		return nil, err
	}
	return codes, nil
}

// CreateItem creates a new item.
func (r *GormCatalogRepository) CreateItem(ctx context.Context, item *domain.Item) error {
	l := log.Ctx(ctx)

	item.ID = uuid.New().String()

	model := domain.ItemToModel(item)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCode
		}
		l.Error().Err(err).Str(log.FieldCode, item.Code).Msg("failed to create item in db")
		return err
	}

	item.CreatedAt = model.CreatedAt
	item.UpdatedAt = model.UpdatedAt
	l.Debug().Str("item_id", item.ID).Str(log.FieldCode, item.Code).Msg("item created in db")
	return nil
}

// UpdateItem saves every field of item.
func (r *GormCatalogRepository) UpdateItem(ctx context.Context, item *domain.Item) error {
	l := log.Ctx(ctx)

	model := domain.ItemToModel(item)
	result := r.db.WithContext(ctx).Model(&domain.ItemModel{}).
		Where("id = ?", item.ID).
		Select("name", "slug", "code", "style", "type", "room", "description", "price", "images").
		Updates(model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCode
		}
		l.Error().Err(result.Error).Str("item_id", item.ID).Msg("failed to update item in db")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteItem deletes an item and drops it from every set.
func (r *GormCatalogRepository) DeleteItem(ctx context.Context, id string) error {
	l := log.Ctx(ctx)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+setItemsTable+" WHERE item_model_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.ItemModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrItemNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrItemNotFound) {
		l.Error().Err(err).Str("item_id", id).Msg("failed to delete item from db")
	}
	return err
}

func itemsToDomain(models []domain.ItemModel) []domain.Item {
	items := make([]domain.Item, len(models))
	for i := range models {
		items[i] = *models[i].ToDomain()
	}
	return items
}
