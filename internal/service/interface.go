package service

import (
	"context"
	"io"

	"github.com/weiawesome/wes-furniture/internal/domain"
)

// CatalogService defines the read side of the storefront. Page models are
// served through the cache.
type CatalogService interface {
	Home(ctx context.Context) (*domain.HomePage, error)
	Catalogue(ctx context.Context, filters domain.CatalogueFilters) (*domain.CataloguePage, error)
	Room(ctx context.Context, slug string) (*domain.RoomPage, error)
	Item(ctx context.Context, slug string) (*domain.ItemPage, error)
	Set(ctx context.Context, slug string) (*domain.SetPage, error)
	// NavRooms never fails; store errors yield an empty menu.
	NavRooms(ctx context.Context) []domain.NavRoom
	Settings(ctx context.Context) (*domain.SiteSettings, error)
	Wishlist(ctx context.Context, itemSlugs, setSlugs []string) (*domain.WishlistEntries, error)
}

// AdminService defines catalogue and content management.
type AdminService interface {
	ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error)
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	CreateItem(ctx context.Context, in *domain.ItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, id string, in *domain.ItemUpdate) (*domain.Item, error)
	DeleteItem(ctx context.Context, id string) error
	FurnitureTypes(ctx context.Context) ([]string, error)

	ListSets(ctx context.Context, filter domain.SetFilter) ([]domain.Set, error)
	GetSet(ctx context.Context, id string) (*domain.Set, error)
	CreateSet(ctx context.Context, in *domain.SetInput) (*domain.Set, error)
	UpdateSet(ctx context.Context, id string, in *domain.SetUpdate) (*domain.Set, error)
	DeleteSet(ctx context.Context, id string) error

	// NextCode returns the next free code for kind ("item" or "set") in room and style.
	NextCode(ctx context.Context, kind, room, style string) (string, error)

	ListRooms(ctx context.Context) ([]domain.Room, error)
	UpdateRoom(ctx context.Context, id string, in *domain.RoomUpdate) (*domain.Room, error)

	GetSettings(ctx context.Context) (*domain.SiteSettings, error)
	UpdateHome(ctx context.Context, home *domain.HomeSettings) (*domain.SiteSettings, error)
	UpdateContact(ctx context.Context, contact *domain.ContactSettings) (*domain.SiteSettings, error)
	UpdateAbout(ctx context.Context, about *domain.AboutContent) (*domain.SiteSettings, error)
	UpdateServices(ctx context.Context, services *domain.ServicesContent) (*domain.SiteSettings, error)
	// SetHeroImage stores url in hero slot index; index == len(images) appends.
	SetHeroImage(ctx context.Context, index int, url string) (*domain.SiteSettings, error)
	SetActiveHero(ctx context.Context, index int) (*domain.SiteSettings, error)

	UploadImage(ctx context.Context, folder string, r io.Reader) (*domain.Image, error)
}

// SearchService defines the public search operation.
type SearchService interface {
	Search(ctx context.Context, query string) (*domain.SearchResponse, error)
}

// ImageProcessor stores an uploaded image and its thumbnail.
type ImageProcessor interface {
	Process(ctx context.Context, folder string, r io.Reader) (*domain.Image, error)
}
