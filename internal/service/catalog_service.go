package service

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/weiawesome/wes-furniture/internal/cache"
	"github.com/weiawesome/wes-furniture/internal/domain"
	"github.com/weiawesome/wes-furniture/internal/repository"
	"github.com/weiawesome/wes-furniture/pkg/log"
)

var (
	ErrItemNotFound  = errors.New("item not found")
	ErrSetNotFound   = errors.New("set not found")
	ErrRoomNotFound  = errors.New("room not found")
	ErrDuplicateCode = errors.New("code already in use")
	ErrInvalidInput  = errors.New("invalid input")
)

const (
	relatedItemsLimit   = 6
	youMayAlsoLikeLimit = 6
	wishlistLimit       = 100
	defaultCatalogView  = "all"
)

// catalogServiceImpl implements CatalogService.
type catalogServiceImpl struct {
	repo    repository.CatalogRepository
	cache   *cache.Cache
	ttl     time.Duration
	shuffle func(n int, swap func(i, j int))
}

// NewCatalogService creates a new catalogue service. Page reads are cached for ttl.
func NewCatalogService(repo repository.CatalogRepository, c *cache.Cache, ttl time.Duration) CatalogService {
	return &catalogServiceImpl{
		repo:    repo,
		cache:   c,
		ttl:     ttl,
		shuffle: rand.Shuffle,
	}
}

// Home assembles the landing page.
func (s *catalogServiceImpl) Home(ctx context.Context) (*domain.HomePage, error) {
	page, err := cache.GetOrSet(ctx, s.cache, cache.HomeKey, s.ttl, s.fetchHome)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *catalogServiceImpl) fetchHome(ctx context.Context) (domain.HomePage, error) {
	var page domain.HomePage

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return page, err
	}
	codes := settings.Home.FeaturedCodes

	if page.FeaturedItems, err = s.repo.GetItemsByCodes(ctx, codes.SignatureItems); err != nil {
		return page, err
	}
	if page.CarouselItems, err = s.repo.GetItemsByCodes(ctx, codes.FeaturedItems); err != nil {
		return page, err
	}
	if page.CarouselSets, err = s.repo.GetSetsByCodes(ctx, codes.FeaturedSets); err != nil {
		return page, err
	}

	items, err := s.repo.ListItems(ctx, domain.ItemFilter{})
	if err != nil {
		return page, err
	}
	page.GroupedItems = make(map[string][]domain.Item)
	for _, it := range items {
		key := strings.ToLower(it.Type)
		page.GroupedItems[key] = append(page.GroupedItems[key], it)
	}

	if page.Rooms, err = s.repo.ListRooms(ctx); err != nil {
		return page, err
	}
	for i := range page.Rooms {
		code := settings.Home.BrowseByRoomCodes[page.Rooms[i].Name]
		if code == "" {
			continue
		}
		images, err := s.productImages(ctx, code)
		if err != nil {
			return page, err
		}
		if len(images) > 0 {
			page.Rooms[i].Images = images
		}
	}

	page.HeroContent = settings.Home.Hero
	page.ContactSettings = settings.Contact
	return page, nil
}

// productImages returns the images of the item, or else the set, with code.
func (s *catalogServiceImpl) productImages(ctx context.Context, code string) ([]string, error) {
	item, err := s.repo.GetItemByCode(ctx, code)
	if err == nil {
		return item.Images, nil
	}
	if !errors.Is(err, repository.ErrItemNotFound) {
		return nil, err
	}

	set, err := s.repo.GetSetByCode(ctx, code)
	if err == nil {
		return set.Images, nil
	}
	if !errors.Is(err, repository.ErrSetNotFound) {
		return nil, err
	}
	return nil, nil
}

// Catalogue lists everything; filtering happens client side from filters.
func (s *catalogServiceImpl) Catalogue(ctx context.Context, filters domain.CatalogueFilters) (*domain.CataloguePage, error) {
	page, err := cache.GetOrSet(ctx, s.cache, cache.CatalogueAllKey, s.ttl, s.fetchCatalogue)
	if err != nil {
		return nil, err
	}

	if filters.View == "" {
		filters.View = defaultCatalogView
	}
	page.Filters = filters
	return &page, nil
}

func (s *catalogServiceImpl) fetchCatalogue(ctx context.Context) (domain.CataloguePage, error) {
	var (
		page domain.CataloguePage
		err  error
	)

	if page.Items, err = s.repo.ListItems(ctx, domain.ItemFilter{}); err != nil {
		return page, err
	}
	if page.Sets, err = s.repo.ListSets(ctx, domain.SetFilter{}); err != nil {
		return page, err
	}
	if page.AllRooms, err = s.repo.ListItemRooms(ctx); err != nil {
		return page, err
	}
	if page.AllTypes, err = s.repo.ListItemTypes(ctx); err != nil {
		return page, err
	}
	page.AllStyles = append([]string{}, domain.Styles...)
	return page, nil
}

// Room returns a room with its sets and items.
func (s *catalogServiceImpl) Room(ctx context.Context, slug string) (*domain.RoomPage, error) {
	page, err := cache.GetOrSet(ctx, s.cache, cache.RoomKey(slug), s.ttl, func(ctx context.Context) (domain.RoomPage, error) {
		var page domain.RoomPage

		room, err := s.repo.GetRoomBySlug(ctx, slug)
		if err != nil {
			return page, err
		}
		page.Room = *room

		if page.Sets, err = s.repo.ListSets(ctx, domain.SetFilter{Room: room.Name}); err != nil {
			return page, err
		}
		if page.Items, err = s.repo.ListItems(ctx, domain.ItemFilter{Room: room.Name}); err != nil {
			return page, err
		}
		return page, nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	return &page, nil
}

// Item returns an item with its style variants and related items.
func (s *catalogServiceImpl) Item(ctx context.Context, slug string) (*domain.ItemPage, error) {
	page, err := cache.GetOrSet(ctx, s.cache, cache.ItemKey(slug), s.ttl, func(ctx context.Context) (domain.ItemPage, error) {
		var page domain.ItemPage

		item, err := s.repo.GetItemBySlug(ctx, slug)
		if err != nil {
			return page, err
		}
		page.Item = *item

		if page.StyleVariants, err = s.repo.ListStyleVariants(ctx, item); err != nil {
			return page, err
		}
		if page.RelatedItems, err = s.repo.ListRelatedItems(ctx, item, relatedItemsLimit); err != nil {
			return page, err
		}
		return page, nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	return &page, nil
}

// Set returns a set with similar sets and a random pick of sets in other styles.
// The cached page holds every candidate; the pick is made per request.
func (s *catalogServiceImpl) Set(ctx context.Context, slug string) (*domain.SetPage, error) {
	page, err := cache.GetOrSet(ctx, s.cache, cache.SetKey(slug), s.ttl, func(ctx context.Context) (domain.SetPage, error) {
		var page domain.SetPage

		set, err := s.repo.GetSetBySlug(ctx, slug)
		if err != nil {
			return page, err
		}
		page.Set = *set

		if page.SimilarSets, err = s.repo.ListSimilarSets(ctx, set); err != nil {
			return page, err
		}
		if page.YouMayAlsoLikeSets, err = s.repo.ListOtherStyleSets(ctx, set); err != nil {
			return page, err
		}
		return page, nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	// page may be shared with concurrent callers of the same key
	others := slices.Clone(page.YouMayAlsoLikeSets)
	s.shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })
	if len(others) > youMayAlsoLikeLimit {
		others = others[:youMayAlsoLikeLimit]
	}
	page.YouMayAlsoLikeSets = others
	return &page, nil
}

// NavRooms returns the header menu.
func (s *catalogServiceImpl) NavRooms(ctx context.Context) []domain.NavRoom {
	rooms, err := cache.GetOrSet(ctx, s.cache, cache.NavRoomsKey, s.ttl, s.repo.ListNavRooms)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to load navigation rooms")
		return []domain.NavRoom{}
	}
	if rooms == nil {
		return []domain.NavRoom{}
	}
	return rooms
}

// Settings returns the site content used by the static pages.
func (s *catalogServiceImpl) Settings(ctx context.Context) (*domain.SiteSettings, error) {
	settings, err := cache.GetOrSet(ctx, s.cache, cache.SettingsKey, s.ttl, func(ctx context.Context) (domain.SiteSettings, error) {
		settings, err := s.repo.GetSettings(ctx)
		if err != nil {
			return domain.SiteSettings{}, err
		}
		return *settings, nil
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Wishlist resolves the slugs a browser keeps locally. Unknown slugs are skipped.
func (s *catalogServiceImpl) Wishlist(ctx context.Context, itemSlugs, setSlugs []string) (*domain.WishlistEntries, error) {
	if len(itemSlugs)+len(setSlugs) > wishlistLimit {
		return nil, ErrInvalidInput
	}

	out := &domain.WishlistEntries{
		Items: []domain.ItemResult{},
		Sets:  []domain.SetResult{},
	}

	for _, slug := range itemSlugs {
		item, err := s.repo.GetItemBySlug(ctx, slug)
		if errors.Is(err, repository.ErrItemNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, item.ToResult())
	}

	for _, slug := range setSlugs {
		set, err := s.repo.GetSetBySlug(ctx, slug)
		if errors.Is(err, repository.ErrSetNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out.Sets = append(out.Sets, set.ToResult())
	}

	return out, nil
}

// mapRepoError converts repository sentinels to service sentinels.
func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrItemNotFound):
		return ErrItemNotFound
	case errors.Is(err, repository.ErrSetNotFound):
		return ErrSetNotFound
	case errors.Is(err, repository.ErrRoomNotFound):
		return ErrRoomNotFound
	case errors.Is(err, repository.ErrDuplicateCode):
		return ErrDuplicateCode
	default:
		return err
	}
}
