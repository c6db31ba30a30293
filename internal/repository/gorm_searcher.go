package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/weiawesome/wes-furniture/internal/domain"
	"github.com/weiawesome/wes-furniture/internal/search"
	"github.com/weiawesome/wes-furniture/pkg/log"
)

// likeEscape is portable across sqlite, postgres and mysql; a backslash is not.
const likeEscape = "!"

// GormSearcher runs search predicates as LIKE queries.
type GormSearcher struct {
	db *gorm.DB
}

// NewGormSearcher creates a search.Searcher over the catalogue tables.
func NewGormSearcher(db *gorm.DB) *GormSearcher {
	return &GormSearcher{db: db}
}

var _ search.Searcher = (*GormSearcher)(nil)

// SearchItems returns up to limit items where every token is found in at
// least one item search field.
func (s *GormSearcher) SearchItems(ctx context.Context, tokens []string, limit int) ([]domain.Item, error) {
	l := log.Ctx(ctx)

	var models []domain.ItemModel
	query := matchTokens(s.db.WithContext(ctx).Model(&domain.ItemModel{}), search.ItemFields, tokens)
	if err := query.Order("code").Limit(limit).Find(&models).Error; err != nil {
		l.Error().Err(err).Strs("tokens", tokens).Msg("failed to search items")
		return nil, err
	}
	return itemsToDomain(models), nil
}

// SearchSets returns up to limit sets where every token is found in at least
// one set search field. Member items are not loaded.
func (s *GormSearcher) SearchSets(ctx context.Context, tokens []string, limit int) ([]domain.Set, error) {
	l := log.Ctx(ctx)

	var models []domain.SetModel
	query := matchTokens(s.db.WithContext(ctx).Model(&domain.SetModel{}), search.SetFields, tokens)
	if err := query.Order("code").Limit(limit).Find(&models).Error; err != nil {
		l.Error().Err(err).Strs("tokens", tokens).Msg("failed to search sets")
		return nil, err
	}
	return setsToDomain(models), nil
}

// matchTokens adds one WHERE group per token, OR-ing the fields inside it.
func matchTokens(db *gorm.DB, fields []string, tokens []string) *gorm.DB {
	for _, tok := range tokens {
		pattern := "%" + escapeLike(strings.ToLower(tok)) + "%"

		conds := make([]string, len(fields))
		args := make([]interface{}, len(fields))
		for i, f := range fields {
			conds[i] = "LOWER(" + f + ") LIKE ? ESCAPE '" + likeEscape + "'"
			args[i] = pattern
		}
		db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	return db
}

var likeReplacer = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

func escapeLike(s string) string {
	return likeReplacer.Replace(s)
}
