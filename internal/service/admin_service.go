package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/weiawesome/wes-furniture/internal/audit"
	"github.com/weiawesome/wes-furniture/internal/cache"
	"github.com/weiawesome/wes-furniture/internal/domain"
	"github.com/weiawesome/wes-furniture/internal/repository"
	"github.com/weiawesome/wes-furniture/pkg/log"
)

const (
	KindItem = "item"
	KindSet  = "set"
)

// adminServiceImpl implements AdminService. Every write clears the cache
// entries that may render the changed record and mirrors it to the search
// index when one is configured.
type adminServiceImpl struct {
	repo    repository.CatalogRepository
	cache   cache.Invalidator
	indexer repository.Indexer
	images  ImageProcessor
}

// NewAdminService creates a new admin service. indexer may be nil.
func NewAdminService(repo repository.CatalogRepository, c cache.Invalidator, indexer repository.Indexer, images ImageProcessor) AdminService {
	return &adminServiceImpl{
		repo:    repo,
		cache:   c,
		indexer: indexer,
		images:  images,
	}
}

// ListItems lists items for the dashboard.
func (s *adminServiceImpl) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	return s.repo.ListItems(ctx, filter)
}

// GetItem retrieves an item by ID.
func (s *adminServiceImpl) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return item, nil
}

// CreateItem creates an item, assigning the next free code unless one is given.
func (s *adminServiceImpl) CreateItem(ctx context.Context, in *domain.ItemInput) (*domain.Item, error) {
	if err := validateStyle(in.Style); err != nil {
		return nil, err
	}

	code, err := s.resolveCode(ctx, KindItem, in.Room, in.Style, in.CustomCode)
	if err != nil {
		return nil, err
	}

	item := &domain.Item{
		Name:        strings.TrimSpace(in.Name),
		Slug:        domain.Slugify(in.Name, code),
		Code:        code,
		Style:       in.Style,
		Type:        strings.TrimSpace(in.Type),
		Room:        in.Room,
		Description: in.Description,
		Price:       in.Price,
		Images:      in.Images,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, mapRepoError(err)
	}

	s.afterItemWrite(ctx, item)
	audit.Log(ctx, audit.ActionCreateItem, item.Code, "item created")
	return item, nil
}

// UpdateItem applies the non-nil fields of in.
func (s *adminServiceImpl) UpdateItem(ctx context.Context, id string, in *domain.ItemUpdate) (*domain.Item, error) {
	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
		item.Slug = domain.Slugify(item.Name, item.Code)
	}
	if in.Type != nil {
		item.Type = strings.TrimSpace(*in.Type)
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.Images != nil {
		item.Images = in.Images
	}
	if item.Name == "" || item.Type == "" {
		return nil, fmt.Errorf("%w: name and type are required", ErrInvalidInput)
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, mapRepoError(err)
	}

	s.afterItemWrite(ctx, item)
	audit.Log(ctx, audit.ActionUpdateItem, item.Code, "item updated")
	return item, nil
}

// DeleteItem deletes an item.
func (s *adminServiceImpl) DeleteItem(ctx context.Context, id string) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return mapRepoError(err)
	}

	if s.indexer != nil {
		if err := s.indexer.DeleteItem(ctx, id); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str("item_id", id).Msg("failed to remove item from search index")
		}
	}
	s.cache.InvalidateAll(ctx, cache.ProductPatterns...)
	audit.Log(ctx, audit.ActionDeleteItem, id, "item deleted")
	return nil
}

func (s *adminServiceImpl) afterItemWrite(ctx context.Context, item *domain.Item) {
	if s.indexer != nil {
		if err := s.indexer.IndexItem(ctx, item); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldCode, item.Code).Msg("failed to index item")
		}
	}
	s.cache.InvalidateAll(ctx, cache.ProductPatterns...)
}

// FurnitureTypes lists the furniture types in use.
func (s *adminServiceImpl) FurnitureTypes(ctx context.Context) ([]string, error) {
	return s.repo.ListItemTypes(ctx)
}

// ListSets lists sets for the dashboard.
func (s *adminServiceImpl) ListSets(ctx context.Context, filter domain.SetFilter) ([]domain.Set, error) {
	return s.repo.ListSets(ctx, filter)
}

// GetSet retrieves a set by ID.
func (s *adminServiceImpl) GetSet(ctx context.Context, id string) (*domain.Set, error) {
	set, err := s.repo.GetSetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return set, nil
}

// CreateSet creates a set from existing item codes.
func (s *adminServiceImpl) CreateSet(ctx context.Context, in *domain.SetInput) (*domain.Set, error) {
	if err := validateStyle(in.Style); err != nil {
		return nil, err
	}

	code, err := s.resolveCode(ctx, KindSet, in.Room, in.Style, in.CustomCode)
	if err != nil {
		return nil, err
	}

	items, err := s.resolveItems(ctx, in.ItemCodes)
	if err != nil {
		return nil, err
	}

	set := &domain.Set{
		Name:        strings.TrimSpace(in.Name),
		Slug:        domain.Slugify(in.Name, code),
		Code:        code,
		Style:       in.Style,
		Room:        in.Room,
		Description: in.Description,
		Images:      in.Images,
		Items:       items,
	}
	if err := s.repo.CreateSet(ctx, set); err != nil {
		return nil, mapRepoError(err)
	}

	s.afterSetWrite(ctx, set)
	audit.LogWithDetail(ctx, audit.ActionCreateSet, set.Code, strings.Join(in.ItemCodes, ","), "set created")
	return set, nil
}

// UpdateSet applies the non-nil fields of in. A non-nil ItemCodes replaces membership.
func (s *adminServiceImpl) UpdateSet(ctx context.Context, id string, in *domain.SetUpdate) (*domain.Set, error) {
	set, err := s.repo.GetSetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if in.Name != nil {
		set.Name = strings.TrimSpace(*in.Name)
		set.Slug = domain.Slugify(set.Name, set.Code)
		if set.Name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
	}
	if in.Description != nil {
		set.Description = *in.Description
	}
	if in.Images != nil {
		set.Images = in.Images
	}

	replace := in.ItemCodes != nil
	if replace {
		if set.Items, err = s.resolveItems(ctx, in.ItemCodes); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateSet(ctx, set, replace); err != nil {
		return nil, mapRepoError(err)
	}

	s.afterSetWrite(ctx, set)
	audit.Log(ctx, audit.ActionUpdateSet, set.Code, "set updated")
	return set, nil
}

// DeleteSet deletes a set; its items stay.
func (s *adminServiceImpl) DeleteSet(ctx context.Context, id string) error {
	if err := s.repo.DeleteSet(ctx, id); err != nil {
		return mapRepoError(err)
	}

	if s.indexer != nil {
		if err := s.indexer.DeleteSet(ctx, id); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str("set_id", id).Msg("failed to remove set from search index")
		}
	}
	s.cache.InvalidateAll(ctx, cache.ProductPatterns...)
	audit.Log(ctx, audit.ActionDeleteSet, id, "set deleted")
	return nil
}

func (s *adminServiceImpl) afterSetWrite(ctx context.Context, set *domain.Set) {
	if s.indexer != nil {
		if err := s.indexer.IndexSet(ctx, set); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldCode, set.Code).Msg("failed to index set")
		}
	}
	s.cache.InvalidateAll(ctx, cache.ProductPatterns...)
}

// resolveItems looks up every code and fails on the first unknown one.
func (s *adminServiceImpl) resolveItems(ctx context.Context, codes []string) ([]domain.Item, error) {
	items, err := s.repo.GetItemsByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(items))
	for _, it := range items {
		found[it.Code] = true
	}
	for _, code := range codes {
		if !found[code] {
			return nil, fmt.Errorf("%w: unknown item code %s", ErrInvalidInput, code)
		}
	}
	return items, nil
}

// NextCode returns the code following the highest one in use for the prefix.
func (s *adminServiceImpl) NextCode(ctx context.Context, kind, room, style string) (string, error) {
	if err := validateStyle(style); err != nil {
		return "", err
	}

	prefix := domain.CodePrefix(room, style)

	var (
		codes []string
		width int
		err   error
	)
	switch kind {
	case KindItem:
		codes, err = s.repo.ListItemCodes(ctx, prefix)
		width = domain.ItemCodeWidth
	case KindSet:
		codes, err = s.repo.ListSetCodes(ctx, prefix)
		width = domain.SetCodeWidth
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, kind)
	}
	if err != nil {
		return "", err
	}

	highest := 0
	for _, c := range codes {
		if n, ok := domain.CodeNumber(prefix, c); ok && n > highest {
			highest = n
		}
	}
	return domain.FormatCode(prefix, highest+1, width), nil
}

// resolveCode turns an admin supplied code into a full one. A bare number is
// padded onto the room/style prefix; anything else is used upper-cased. An
// empty custom code takes the next free one.
func (s *adminServiceImpl) resolveCode(ctx context.Context, kind, room, style, custom string) (string, error) {
	custom = strings.TrimSpace(custom)
	if custom == "" {
		return s.NextCode(ctx, kind, room, style)
	}

	if n, err := strconv.Atoi(custom); err == nil {
		if n <= 0 {
			return "", fmt.Errorf("%w: code number must be positive", ErrInvalidInput)
		}
		width := domain.ItemCodeWidth
		if kind == KindSet {
			width = domain.SetCodeWidth
		}
		return domain.FormatCode(domain.CodePrefix(room, style), n, width), nil
	}
	return strings.ToUpper(custom), nil
}

func validateStyle(style string) error {
	if !slices.Contains(domain.Styles, style) {
		return fmt.Errorf("%w: style must be one of %s", ErrInvalidInput, strings.Join(domain.Styles, ", "))
	}
	return nil
}

// ListRooms lists rooms for the dashboard.
func (s *adminServiceImpl) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return s.repo.ListRooms(ctx)
}

// UpdateRoom edits a room's description and images.
func (s *adminServiceImpl) UpdateRoom(ctx context.Context, id string, in *domain.RoomUpdate) (*domain.Room, error) {
	room, err := s.repo.GetRoomByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if in.Description != nil {
		room.Description = *in.Description
	}
	if in.Images != nil {
		room.Images = in.Images
	}

	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return nil, mapRepoError(err)
	}

	s.cache.InvalidateAll(ctx, cache.RoomPatterns...)
	audit.Log(ctx, audit.ActionUpdateRoom, room.Slug, "room updated")
	return room, nil
}

// GetSettings reads settings straight from the store.
func (s *adminServiceImpl) GetSettings(ctx context.Context) (*domain.SiteSettings, error) {
	return s.repo.GetSettings(ctx)
}

// UpdateHome replaces the home section.
func (s *adminServiceImpl) UpdateHome(ctx context.Context, home *domain.HomeSettings) (*domain.SiteSettings, error) {
	return s.updateSettings(ctx, "home", func(st *domain.SiteSettings) error {
		if home.Hero.ActiveImage < 0 || (len(home.Hero.Images) > 0 && home.Hero.ActiveImage >= len(home.Hero.Images)) {
			return fmt.Errorf("%w: active hero image out of range", ErrInvalidInput)
		}
		st.Home = *home
		return nil
	})
}

// UpdateContact replaces the contact section.
func (s *adminServiceImpl) UpdateContact(ctx context.Context, contact *domain.ContactSettings) (*domain.SiteSettings, error) {
	return s.updateSettings(ctx, "contact", func(st *domain.SiteSettings) error {
		st.Contact = *contact
		return nil
	})
}

// UpdateAbout replaces the about section.
func (s *adminServiceImpl) UpdateAbout(ctx context.Context, about *domain.AboutContent) (*domain.SiteSettings, error) {
	return s.updateSettings(ctx, "about", func(st *domain.SiteSettings) error {
		st.About = *about
		return nil
	})
}

// UpdateServices replaces the services section.
func (s *adminServiceImpl) UpdateServices(ctx context.Context, services *domain.ServicesContent) (*domain.SiteSettings, error) {
	return s.updateSettings(ctx, "services", func(st *domain.SiteSettings) error {
		st.Services = *services
		return nil
	})
}

// SetHeroImage stores url in hero slot index.
func (s *adminServiceImpl) SetHeroImage(ctx context.Context, index int, url string) (*domain.SiteSettings, error) {
	return s.updateSettings(ctx, "hero-image", func(st *domain.SiteSettings) error {
		images := st.Home.Hero.Images
		switch {
		case url == "":
			return fmt.Errorf("%w: image url is required", ErrInvalidInput)
		case index >= 0 && index < len(images):
			images[index] = url
		case index == len(images):
			images = append(images, url)
		default:
			return fmt.Errorf("%w: hero slot %d out of range", ErrInvalidInput, index)
		}
		st.Home.Hero.Images = images
		return nil
	})
}

// SetActiveHero selects the hero image shown first.
func (s *adminServiceImpl) SetActiveHero(ctx context.Context, index int) (*domain.SiteSettings, error) {
	return s.updateSettings(ctx, "hero-active", func(st *domain.SiteSettings) error {
		if index < 0 || index >= len(st.Home.Hero.Images) {
			return fmt.Errorf("%w: hero slot %d out of range", ErrInvalidInput, index)
		}
		st.Home.Hero.ActiveImage = index
		return nil
	})
}

func (s *adminServiceImpl) updateSettings(ctx context.Context, section string, apply func(*domain.SiteSettings) error) (*domain.SiteSettings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if err := apply(settings); err != nil {
		return nil, err
	}
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}

	s.cache.InvalidateAll(ctx, cache.SettingsPatterns...)
	audit.LogWithDetail(ctx, audit.ActionUpdateSettings, "settings", section, "site settings updated")
	return settings, nil
}

// UploadImage stores an image and its thumbnail under folder.
func (s *adminServiceImpl) UploadImage(ctx context.Context, folder string, r io.Reader) (*domain.Image, error) {
	img, err := s.images.Process(ctx, folder, r)
	if err != nil {
		return nil, err
	}
	audit.Log(ctx, audit.ActionUploadImage, img.Key, "image uploaded")
	return img, nil
}
