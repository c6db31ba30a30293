package search

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-furniture/internal/domain"
)

type memSearcher struct {
	items   []domain.Item
	sets    []domain.Set
	calls   atomic.Int32
	itemErr error
	setErr  error
}

func (m *memSearcher) SearchItems(_ context.Context, tokens []string, limit int) ([]domain.Item, error) {
	m.calls.Add(1)
	if m.itemErr != nil {
		return nil, m.itemErr
	}
	var out []domain.Item
	for i := range m.items {
		if len(out) == limit {
			break
		}
		if MatchItem(&m.items[i], tokens) {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

func (m *memSearcher) SearchSets(_ context.Context, tokens []string, limit int) ([]domain.Set, error) {
	m.calls.Add(1)
	if m.setErr != nil {
		return nil, m.setErr
	}
	var out []domain.Set
	for i := range m.sets {
		if len(out) == limit {
			break
		}
		if MatchSet(&m.sets[i], tokens) {
			out = append(out, m.sets[i])
		}
	}
	return out, nil
}

func leatherSofa() domain.Item {
	return domain.Item{
		Name:  "Classic Leather Sofa",
		Slug:  "classic-leather-sofa",
		Code:  "LR-006",
		Style: "Royal",
		Type:  "Sofa",
		Room:  "Living Room",
	}
}

func itemCodes(items []domain.ItemResult) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Code
	}
	return out
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"royal", "bed", "royal"}, Tokenize("  royal \t bed\nroyal  "))
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize(" \t\n "))
}

func TestSearch_EmptyQueryTouchesNoStore(t *testing.T) {
	store := &memSearcher{items: []domain.Item{leatherSofa()}}
	r := NewRanker(store, Options{})

	for _, q := range []string{"", "   ", "\t\n"} {
		resp, err := r.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, domain.EmptySearchResponse(), resp)
	}
	assert.EqualValues(t, 0, store.calls.Load())
}

func TestSearch_MinQueryLength(t *testing.T) {
	store := &memSearcher{items: []domain.Item{leatherSofa()}}
	r := NewRanker(store, Options{MinQueryLength: 2})

	resp, err := r.Search(context.Background(), " s ")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.EqualValues(t, 0, store.calls.Load())

	resp, err = r.Search(context.Background(), "so")
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
}

func TestSearch_AndAcrossTokensOrAcrossFields(t *testing.T) {
	bed := domain.Item{Name: "Four Poster", Code: "BR-001", Style: "Royal", Type: "Bed", Room: "Bedroom"}
	store := &memSearcher{items: []domain.Item{bed}}
	r := NewRanker(store, Options{})

	resp, err := r.Search(context.Background(), "royal bed")
	require.NoError(t, err)
	assert.Equal(t, []string{"BR-001"}, itemCodes(resp.Items))

	resp, err = r.Search(context.Background(), "royal sofa")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestSearch_SetsIgnoreType(t *testing.T) {
	store := &memSearcher{sets: []domain.Set{
		{Name: "Dining Ensemble", Code: "DR-01", Style: "Modern", Room: "Dining Room"},
	}}
	r := NewRanker(store, Options{})

	resp, err := r.Search(context.Background(), "modern dining")
	require.NoError(t, err)
	require.Len(t, resp.Sets, 1)
	assert.Equal(t, "DR-01", resp.Sets[0].Code)
	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
}

func TestSearch_RanksNameAboveCode(t *testing.T) {
	codeOnly := domain.Item{Name: "Side Table", Code: "LT-ARM-01", Style: "Modern", Type: "Table", Room: "Living Room"}
	nameHit := domain.Item{Name: "Armchair", Code: "LR-002", Style: "Modern", Type: "Chair", Room: "Living Room"}
	store := &memSearcher{items: []domain.Item{codeOnly, nameHit}}
	r := NewRanker(store, Options{})

	tokens := []string{"arm"}
	assert.Greater(t, ScoreItem(&nameHit, tokens), ScoreItem(&codeOnly, tokens))

	resp, err := r.Search(context.Background(), "arm")
	require.NoError(t, err)
	assert.Equal(t, []string{"LR-002", "LT-ARM-01"}, itemCodes(resp.Items))
}

func TestSearch_CapsResultsToHighestScored(t *testing.T) {
	var items []domain.Item
	// 20 room-only matches first so store order alone would keep them.
	for i := 0; i < 20; i++ {
		items = append(items, domain.Item{Name: "Chair", Code: fmt.Sprintf("CH-%03d", i), Style: "Modern", Type: "Chair", Room: "Oakwood Lounge"})
	}
	for i := 0; i < 5; i++ {
		items = append(items, domain.Item{Name: "Oak Chair", Code: fmt.Sprintf("KC-%03d", i), Style: "Modern", Type: "Chair", Room: "Oakwood Lounge"})
	}
	store := &memSearcher{items: items}
	r := NewRanker(store, Options{})

	resp, err := r.Search(context.Background(), "oak")
	require.NoError(t, err)
	require.Len(t, resp.Items, DefaultResultLimit)
	for i := 0; i < 5; i++ {
		assert.Equal(t, fmt.Sprintf("KC-%03d", i), resp.Items[i].Code)
	}
	// ties keep store order
	assert.Equal(t, "CH-000", resp.Items[5].Code)
	assert.Equal(t, "CH-014", resp.Items[19].Code)
}

func TestSearch_FetchLimitBoundsScoring(t *testing.T) {
	var items []domain.Item
	for i := 0; i < 40; i++ {
		items = append(items, domain.Item{Name: "Chair", Code: fmt.Sprintf("OM-%03d", i), Style: "Modern", Type: "Chair", Room: "Office"})
	}
	store := &memSearcher{items: items}
	r := NewRanker(store, Options{FetchLimit: 30, ResultLimit: 50})

	resp, err := r.Search(context.Background(), "chair")
	require.NoError(t, err)
	assert.Len(t, resp.Items, 30)
}

func TestSearch_CaseInsensitive(t *testing.T) {
	store := &memSearcher{
		items: []domain.Item{
			leatherSofa(),
			{Name: "Royal Throne", Code: "LR-001", Style: "Royal", Type: "Chair", Room: "Living Room"},
			{Name: "Modern Desk", Code: "OM-001", Style: "Modern", Type: "Desk", Room: "Office"},
		},
		sets: []domain.Set{{Name: "Royal Bedroom Suite", Code: "BR-01", Style: "Royal", Room: "Bedroom"}},
	}
	r := NewRanker(store, Options{})

	upper, err := r.Search(context.Background(), "ROYAL")
	require.NoError(t, err)
	lower, err := r.Search(context.Background(), "royal")
	require.NoError(t, err)

	assert.Equal(t, lower, upper)
	assert.Equal(t, []string{"LR-001", "LR-006"}, itemCodes(lower.Items))
	assert.Len(t, lower.Sets, 1)
}

func TestSearch_SubstringMatches(t *testing.T) {
	store := &memSearcher{items: []domain.Item{{Name: "Sofabed", Code: "LM-001", Style: "Modern", Type: "Sofa", Room: "Living Room"}}}
	r := NewRanker(store, Options{})

	resp, err := r.Search(context.Background(), "Sofa")
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
}

func TestScoreItem_ClassicLeatherSofa(t *testing.T) {
	item := leatherSofa()
	tokens := lowerAll(Tokenize("Royal Sofa"))

	// royal: style exact 8
	// sofa: name 10, type exact 8
	assert.Equal(t, 26, ScoreItem(&item, tokens))

	store := &memSearcher{items: []domain.Item{item}}
	resp, err := NewRanker(store, Options{}).Search(context.Background(), "Royal Sofa")
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "classic-leather-sofa", resp.Items[0].Slug)
}

func TestScoreItem_ExactBeatsContainsNeverBoth(t *testing.T) {
	item := domain.Item{Style: "Traditional", Type: "Sofa"}

	assert.Equal(t, WeightContains, ScoreItem(&item, []string{"trad"}))
	assert.Equal(t, WeightExact, ScoreItem(&item, []string{"sofa"}))
}

func TestScoreItem_DuplicateTokensCountTwice(t *testing.T) {
	item := domain.Item{Name: "Bed", Type: "Bed"}
	assert.Equal(t, 2*(WeightName+WeightExact), ScoreItem(&item, []string{"bed", "bed"}))
}

func TestScoreSet(t *testing.T) {
	set := domain.Set{Name: "Royal Dining", Code: "DR-02", Style: "Royal", Room: "Dining Room"}

	// royal: name 10, style 8; dining: name 10, room 2; dr: code 3
	assert.Equal(t, 33, ScoreSet(&set, []string{"royal", "dining", "dr"}))
	assert.Zero(t, ScoreSet(&domain.Set{}, []string{"royal"}))
}

func TestSearch_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	r := NewRanker(&memSearcher{setErr: boom}, Options{})

	resp, err := r.Search(context.Background(), "royal")
	require.ErrorIs(t, err, boom)
	assert.Nil(t, resp)
}

func TestSearch_DropsRecordsFailingPredicate(t *testing.T) {
	loose := &looseSearcher{items: []domain.Item{
		{Name: "Sofa", Code: "LR-001", Style: "Royal", Type: "Sofa", Room: "Living Room"},
		{Name: "Bed", Code: "BR-001", Style: "Modern", Type: "Bed", Room: "Bedroom"},
	}}

	resp, err := NewRanker(loose, Options{}).Search(context.Background(), "sofa")
	require.NoError(t, err)
	assert.Equal(t, []string{"LR-001"}, itemCodes(resp.Items))
}

// looseSearcher returns everything, like a fuzzy backend would.
type looseSearcher struct {
	items []domain.Item
}

func (l *looseSearcher) SearchItems(context.Context, []string, int) ([]domain.Item, error) {
	return l.items, nil
}

func (l *looseSearcher) SearchSets(context.Context, []string, int) ([]domain.Set, error) {
	return nil, nil
}
