// Package search ranks catalogue items and sets against free-text queries.
//
// A query is split into whitespace separated tokens. A record matches when
// every token is found, case-insensitively, in at least one of its searchable
// fields. Matches are scored per token and field, sorted by score and cut to
// a fixed number per collection.
package search

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/weiawesome/wes-furniture/internal/domain"
)

const (
	DefaultFetchLimit  = 30
	DefaultResultLimit = 20
)

// Per-token weights.
const (
	WeightName     = 10
	WeightExact    = 8 // style or type equals the token
	WeightContains = 5 // style or type contains the token
	WeightCode     = 3
	WeightRoom     = 2
)

// Field names a backend must match tokens against.
var (
	ItemFields = []string{"name", "code", "style", "type", "room"}
	SetFields  = []string{"name", "code", "style", "room"}
)

// Searcher runs the match predicate against a store. tokens are lower-cased
// and non-empty; implementations return at most limit records.
type Searcher interface {
	SearchItems(ctx context.Context, tokens []string, limit int) ([]domain.Item, error)
	SearchSets(ctx context.Context, tokens []string, limit int) ([]domain.Set, error)
}

// Options bounds the amount of work per query.
type Options struct {
	FetchLimit     int
	ResultLimit    int
	MinQueryLength int
}

// Ranker turns a query into ranked search results.
type Ranker struct {
	searcher Searcher
	opts     Options
}

// NewRanker creates a Ranker. Zero options take the package defaults.
func NewRanker(searcher Searcher, opts Options) *Ranker {
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = DefaultFetchLimit
	}
	if opts.ResultLimit <= 0 {
		opts.ResultLimit = DefaultResultLimit
	}
	return &Ranker{searcher: searcher, opts: opts}
}

// Tokenize splits query on whitespace runs. Order and duplicates are kept.
func Tokenize(query string) []string {
	return strings.Fields(query)
}

// Search returns the ranked items and sets for query. A query without tokens
// returns empty results without touching the store. Store errors are
// returned as is; there are no partial results.
func (r *Ranker) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < r.opts.MinQueryLength {
		return domain.EmptySearchResponse(), nil
	}

	tokens := lowerAll(Tokenize(query))
	if len(tokens) == 0 {
		return domain.EmptySearchResponse(), nil
	}

	var (
		items []domain.Item
		sets  []domain.Set
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		items, err = r.searcher.SearchItems(gCtx, tokens, r.opts.FetchLimit)
		return err
	})

	g.Go(func() error {
		var err error
		sets, err = r.searcher.SearchSets(gCtx, tokens, r.opts.FetchLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	items = filter(items, func(it *domain.Item) bool { return MatchItem(it, tokens) })
	sets = filter(sets, func(s *domain.Set) bool { return MatchSet(s, tokens) })

	resp := domain.EmptySearchResponse()
	for _, it := range RankItems(items, tokens, r.opts.ResultLimit) {
		resp.Items = append(resp.Items, it.ToResult())
	}
	for _, s := range RankSets(sets, tokens, r.opts.ResultLimit) {
		resp.Sets = append(resp.Sets, s.ToResult())
	}
	return resp, nil
}

// MatchItem reports whether every token is contained in at least one of the
// item's searchable fields. tokens must be lower-cased.
func MatchItem(item *domain.Item, tokens []string) bool {
	return matchAll(tokens, item.Name, item.Code, item.Style, item.Type, item.Room)
}

// MatchSet is MatchItem for sets.
func MatchSet(set *domain.Set, tokens []string) bool {
	return matchAll(tokens, set.Name, set.Code, set.Style, set.Room)
}

func matchAll(tokens []string, fields ...string) bool {
	for i := range fields {
		fields[i] = strings.ToLower(fields[i])
	}
	for _, tok := range tokens {
		found := false
		for _, f := range fields {
			if strings.Contains(f, tok) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func filter[T any](in []T, keep func(*T) bool) []T {
	out := in[:0:0]
	for i := range in {
		if keep(&in[i]) {
			out = append(out, in[i])
		}
	}
	return out
}

// ScoreItem sums the per-token weights for an item. tokens must be lower-cased.
func ScoreItem(item *domain.Item, tokens []string) int {
	name, style, typ := strings.ToLower(item.Name), strings.ToLower(item.Style), strings.ToLower(item.Type)
	code, room := strings.ToLower(item.Code), strings.ToLower(item.Room)

	score := 0
	for _, tok := range tokens {
		score += scoreCommon(tok, name, style, code, room)
		score += scoreKind(tok, typ)
	}
	return score
}

// ScoreSet sums the per-token weights for a set. Sets have no type.
func ScoreSet(set *domain.Set, tokens []string) int {
	name, style := strings.ToLower(set.Name), strings.ToLower(set.Style)
	code, room := strings.ToLower(set.Code), strings.ToLower(set.Room)

	score := 0
	for _, tok := range tokens {
		score += scoreCommon(tok, name, style, code, room)
	}
	return score
}

func scoreCommon(tok, name, style, code, room string) int {
	score := 0
	if strings.Contains(name, tok) {
		score += WeightName
	}
	score += scoreKind(tok, style)
	if strings.Contains(code, tok) {
		score += WeightCode
	}
	if strings.Contains(room, tok) {
		score += WeightRoom
	}
	return score
}

// scoreKind weighs a style or type field: exact beats substring, never both.
func scoreKind(tok, field string) int {
	switch {
	case field == tok:
		return WeightExact
	case strings.Contains(field, tok):
		return WeightContains
	default:
		return 0
	}
}

// RankItems stable-sorts items by descending score and keeps the top limit.
func RankItems(items []domain.Item, tokens []string, limit int) []domain.Item {
	in := make([]scored[domain.Item], len(items))
	for i := range items {
		in[i] = scored[domain.Item]{record: items[i], score: ScoreItem(&items[i], tokens)}
	}
	return rank(in, limit)
}

// RankSets stable-sorts sets by descending score and keeps the top limit.
func RankSets(sets []domain.Set, tokens []string, limit int) []domain.Set {
	in := make([]scored[domain.Set], len(sets))
	for i := range sets {
		in[i] = scored[domain.Set]{record: sets[i], score: ScoreSet(&sets[i], tokens)}
	}
	return rank(in, limit)
}

type scored[T any] struct {
	record T
	score  int
}

func rank[T any](in []scored[T], limit int) []T {
	sort.SliceStable(in, func(i, j int) bool {
		return in[i].score > in[j].score
	})

	if limit >= 0 && len(in) > limit {
		in = in[:limit]
	}

	out := make([]T, len(in))
	for i := range in {
		out[i] = in[i].record
	}
	return out
}

func lowerAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	return out
}
