package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/weiawesome/wes-furniture/internal/domain"
	"github.com/weiawesome/wes-furniture/pkg/log"
)

// ListRooms retrieves all rooms sorted by name.
func (r *GormCatalogRepository) ListRooms(ctx context.Context) ([]domain.Room, error) {
	l := log.Ctx(ctx)

	var models []domain.RoomModel
	if err := r.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		l.Error().Err(err).Msg("failed to list rooms from db")
		return nil, err
	}

	rooms := make([]domain.Room, len(models))
	for i := range models {
		rooms[i] = *models[i].ToDomain()
	}
	return rooms, nil
}

// ListNavRooms retrieves name and slug of every room sorted by name.
func (r *GormCatalogRepository) ListNavRooms(ctx context.Context) ([]domain.NavRoom, error) {
	l := log.Ctx(ctx)

	rooms := []domain.NavRoom{}
	err := r.db.WithContext(ctx).Model(&domain.RoomModel{}).
		Select("name", "slug").
		Order("name").
		Scan(&rooms).Error
	if err != nil {
		l.Error().Err(err).Msg("failed to list nav rooms from db")
		return nil, err
	}
	return rooms, nil
}

// GetRoomByID retrieves a room by ID.
func (r *GormCatalogRepository) GetRoomByID(ctx context.Context, id string) (*domain.Room, error) {
	return r.getRoom(ctx, "id = ?", id)
}

// GetRoomBySlug retrieves a room by slug.
func (r *GormCatalogRepository) GetRoomBySlug(ctx context.Context, slug string) (*domain.Room, error) {
	return r.getRoom(ctx, "slug = ?", slug)
}

func (r *GormCatalogRepository) getRoom(ctx context.Context, cond string, arg string) (*domain.Room, error) {
	l := log.Ctx(ctx)

	var model domain.RoomModel
	result := r.db.WithContext(ctx).First(&model, cond, arg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		l.Error().Err(result.Error).Str("lookup", arg).Msg("failed to get room")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// CreateRoom creates a new room.
func (r *GormCatalogRepository) CreateRoom(ctx context.Context, room *domain.Room) error {
	l := log.Ctx(ctx)

	room.ID = uuid.New().String()
	if room.Slug == "" {
		room.Slug = domain.Slugify(room.Name)
	}

	if err := r.db.WithContext(ctx).Create(domain.RoomToModel(room)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCode
		}
		l.Error().Err(err).Str("room", room.Name).Msg("failed to create room in db")
		return err
	}
	return nil
}

// UpdateRoom saves the editable fields of room.
func (r *GormCatalogRepository) UpdateRoom(ctx context.Context, room *domain.Room) error {
	l := log.Ctx(ctx)

	result := r.db.WithContext(ctx).Model(&domain.RoomModel{}).
		Where("id = ?", room.ID).
		Select("description", "images").
		Updates(domain.RoomToModel(room))
	if result.Error != nil {
		l.Error().Err(result.Error).Str("room_id", room.ID).Msg("failed to update room in db")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}
