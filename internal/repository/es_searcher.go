package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/weiawesome/wes-furniture/internal/domain"
	"github.com/weiawesome/wes-furniture/internal/search"
	"github.com/weiawesome/wes-furniture/pkg/log"
)

// Every searchable field is a keyword so wildcard matches whole values.
var esIndexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"id":     map[string]string{"type": "keyword"},
			"name":   map[string]string{"type": "keyword"},
			"slug":   map[string]string{"type": "keyword"},
			"code":   map[string]string{"type": "keyword"},
			"style":  map[string]string{"type": "keyword"},
			"type":   map[string]string{"type": "keyword"},
			"room":   map[string]string{"type": "keyword"},
			"images": map[string]interface{}{"type": "keyword", "index": false},
		},
	},
}

// ESSearcher implements search.Searcher and Indexer on Elasticsearch.
type ESSearcher struct {
	client     *elasticsearch.Client
	indexItems string
	indexSets  string
}

// NewESSearcher creates a new Elasticsearch-based searcher.
func NewESSearcher(client *elasticsearch.Client, indexItems, indexSets string) *ESSearcher {
	return &ESSearcher{
		client:     client,
		indexItems: indexItems,
		indexSets:  indexSets,
	}
}

var (
	_ search.Searcher = (*ESSearcher)(nil)
	_ Indexer         = (*ESSearcher)(nil)
)

// EnsureIndices creates the item and set indices when missing.
func (s *ESSearcher) EnsureIndices(ctx context.Context) error {
	l := log.Ctx(ctx)

	body, err := json.Marshal(esIndexMapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	for _, index := range []string{s.indexItems, s.indexSets} {
		res, err := s.client.Indices.Exists([]string{index}, s.client.Indices.Exists.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", index, err)
		}
		res.Body.Close()
		if res.StatusCode == 200 {
			continue
		}

		res, err = s.client.Indices.Create(index,
			s.client.Indices.Create.WithContext(ctx),
			s.client.Indices.Create.WithBody(bytes.NewReader(body)),
		)
		if err != nil {
			return fmt.Errorf("failed to create index %s: %w", index, err)
		}
		if res.IsError() {
			defer res.Body.Close()
			return fmt.Errorf("elasticsearch error: %s", res.String())
		}
		res.Body.Close()
		l.Info().Str("index", index).Msg("search index created")
	}
	return nil
}

// SearchItems returns up to limit items where every token is found in at
// least one item search field.
func (s *ESSearcher) SearchItems(ctx context.Context, tokens []string, limit int) ([]domain.Item, error) {
	var results []domain.ItemResult
	if err := s.search(ctx, s.indexItems, search.ItemFields, tokens, limit, &results); err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}

	items := make([]domain.Item, len(results))
	for i, r := range results {
		items[i] = domain.Item{
			ID: r.ID, Name: r.Name, Slug: r.Slug, Code: r.Code,
			Style: r.Style, Type: r.Type, Room: r.Room, Images: r.Images,
		}
	}
	return items, nil
}

// SearchSets returns up to limit sets where every token is found in at least
// one set search field.
func (s *ESSearcher) SearchSets(ctx context.Context, tokens []string, limit int) ([]domain.Set, error) {
	var results []domain.SetResult
	if err := s.search(ctx, s.indexSets, search.SetFields, tokens, limit, &results); err != nil {
		return nil, fmt.Errorf("failed to search sets: %w", err)
	}

	sets := make([]domain.Set, len(results))
	for i, r := range results {
		sets[i] = domain.Set{
			ID: r.ID, Name: r.Name, Slug: r.Slug, Code: r.Code,
			Style: r.Style, Room: r.Room, Images: r.Images,
		}
	}
	return sets, nil
}

func (s *ESSearcher) search(ctx context.Context, index string, fields, tokens []string, limit int, out interface{}) error {
	data, err := json.Marshal(buildMatchQuery(fields, tokens, limit))
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(index),
		s.client.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var result esResponse
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	sources := make([]json.RawMessage, len(result.Hits.Hits))
	for i, hit := range result.Hits.Hits {
		sources[i] = hit.Source
	}
	raw, err := json.Marshal(sources)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// buildMatchQuery requires every token (must) to match any field (should).
func buildMatchQuery(fields, tokens []string, limit int) map[string]interface{} {
	must := make([]interface{}, 0, len(tokens))
	for _, tok := range tokens {
		should := make([]interface{}, 0, len(fields))
		for _, f := range fields {
			should = append(should, map[string]interface{}{
				"wildcard": map[string]interface{}{
					f: map[string]interface{}{
						"value":            "*" + escapeWildcard(tok) + "*",
						"case_insensitive": true,
					},
				},
			})
		}
		must = append(must, map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               should,
				"minimum_should_match": 1,
			},
		})
	}

	return map[string]interface{}{
		"size": limit,
		"sort": []interface{}{map[string]string{"code": "asc"}},
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}
}

var wildcardReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardReplacer.Replace(s)
}

// IndexItem upserts the searchable projection of item.
func (s *ESSearcher) IndexItem(ctx context.Context, item *domain.Item) error {
	return s.index(ctx, s.indexItems, item.ID, item.ToResult())
}

// IndexSet upserts the searchable projection of set.
func (s *ESSearcher) IndexSet(ctx context.Context, set *domain.Set) error {
	return s.index(ctx, s.indexSets, set.ID, set.ToResult())
}

// DeleteItem removes an item from the index. Missing documents are ignored.
func (s *ESSearcher) DeleteItem(ctx context.Context, id string) error {
	return s.delete(ctx, s.indexItems, id)
}

// DeleteSet removes a set from the index. Missing documents are ignored.
func (s *ESSearcher) DeleteSet(ctx context.Context, id string) error {
	return s.delete(ctx, s.indexSets, id)
}

func (s *ESSearcher) index(ctx context.Context, index, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := s.client.Index(index, bytes.NewReader(data),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(id),
	)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch error: %s", res.String())
	}
	return nil
}

func (s *ESSearcher) delete(ctx context.Context, index, id string) error {
	res, err := s.client.Delete(index, id, s.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elasticsearch error: %s", res.String())
	}
	return nil
}

// esResponse is the generic Elasticsearch search response structure.
type esResponse struct {
	Hits struct {
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
