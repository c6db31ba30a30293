package repository

import (
	"context"
	"errors"

	"github.com/weiawesome/wes-furniture/internal/domain"
)

var (
	ErrItemNotFound  = errors.New("item not found")
	ErrSetNotFound   = errors.New("set not found")
	ErrRoomNotFound  = errors.New("room not found")
	ErrDuplicateCode = errors.New("code or slug already exists")
)

// ItemRepository defines the interface for furniture item storage.
type ItemRepository interface {
	ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error)
	GetItemByID(ctx context.Context, id string) (*domain.Item, error)
	GetItemBySlug(ctx context.Context, slug string) (*domain.Item, error)
	GetItemByCode(ctx context.Context, code string) (*domain.Item, error)
	// GetItemsByCodes returns the items in the order of codes, skipping unknown codes.
	GetItemsByCodes(ctx context.Context, codes []string) ([]domain.Item, error)
	// ListStyleVariants returns items sharing room and type with item, item excluded.
	ListStyleVariants(ctx context.Context, item *domain.Item) ([]domain.Item, error)
	// ListRelatedItems returns up to limit items of the same room and another type.
	ListRelatedItems(ctx context.Context, item *domain.Item, limit int) ([]domain.Item, error)
	ListItemRooms(ctx context.Context) ([]string, error)
	ListItemTypes(ctx context.Context) ([]string, error)
	ListItemCodes(ctx context.Context, prefix string) ([]string, error)
	CreateItem(ctx context.Context, item *domain.Item) error
	UpdateItem(ctx context.Context, item *domain.Item) error
	DeleteItem(ctx context.Context, id string) error
}

// SetRepository defines the interface for furniture set storage. Sets are
// always returned with their member items.
type SetRepository interface {
	ListSets(ctx context.Context, filter domain.SetFilter) ([]domain.Set, error)
	GetSetByID(ctx context.Context, id string) (*domain.Set, error)
	GetSetBySlug(ctx context.Context, slug string) (*domain.Set, error)
	GetSetByCode(ctx context.Context, code string) (*domain.Set, error)
	GetSetsByCodes(ctx context.Context, codes []string) ([]domain.Set, error)
	// ListSimilarSets returns sets of the same room and style, set excluded.
	ListSimilarSets(ctx context.Context, set *domain.Set) ([]domain.Set, error)
	// ListOtherStyleSets returns sets of the same room in another style.
	ListOtherStyleSets(ctx context.Context, set *domain.Set) ([]domain.Set, error)
	ListSetCodes(ctx context.Context, prefix string) ([]string, error)
	// CreateSet stores set and links set.Items by ID.
	CreateSet(ctx context.Context, set *domain.Set) error
	// UpdateSet stores set; when replaceItems is true membership becomes set.Items.
	UpdateSet(ctx context.Context, set *domain.Set, replaceItems bool) error
	DeleteSet(ctx context.Context, id string) error
}

// RoomRepository defines the interface for room storage.
type RoomRepository interface {
	ListRooms(ctx context.Context) ([]domain.Room, error)
	ListNavRooms(ctx context.Context) ([]domain.NavRoom, error)
	GetRoomByID(ctx context.Context, id string) (*domain.Room, error)
	GetRoomBySlug(ctx context.Context, slug string) (*domain.Room, error)
	CreateRoom(ctx context.Context, room *domain.Room) error
	UpdateRoom(ctx context.Context, room *domain.Room) error
}

// SettingsRepository stores the single site settings document.
type SettingsRepository interface {
	// GetSettings returns the stored settings, creating the defaults on first use.
	GetSettings(ctx context.Context) (*domain.SiteSettings, error)
	SaveSettings(ctx context.Context, settings *domain.SiteSettings) error
}

// CatalogRepository is everything the catalogue services read and write.
type CatalogRepository interface {
	ItemRepository
	SetRepository
	RoomRepository
	SettingsRepository
}

// Indexer mirrors catalogue writes into an external search index.
type Indexer interface {
	IndexItem(ctx context.Context, item *domain.Item) error
	IndexSet(ctx context.Context, set *domain.Set) error
	DeleteItem(ctx context.Context, id string) error
	DeleteSet(ctx context.Context, id string) error
}
