package domain

// ItemResult is the public search projection of an Item.
type ItemResult struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Slug   string   `json:"slug"`
	Code   string   `json:"code"`
	Style  string   `json:"style"`
	Type   string   `json:"type"`
	Room   string   `json:"room"`
	Images []string `json:"images"`
}

// SetResult is the public search projection of a Set.
type SetResult struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Slug   string   `json:"slug"`
	Code   string   `json:"code"`
	Style  string   `json:"style"`
	Room   string   `json:"room"`
	Images []string `json:"images"`
}

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Items []ItemResult `json:"items"`
	Sets  []SetResult  `json:"sets"`
}

// EmptySearchResponse has non-nil slices so it encodes as empty JSON arrays.
func EmptySearchResponse() *SearchResponse {
	return &SearchResponse{Items: []ItemResult{}, Sets: []SetResult{}}
}

// ToResult projects an Item for search output.
func (i *Item) ToResult() ItemResult {
	return ItemResult{
		ID:     i.ID,
		Name:   i.Name,
		Slug:   i.Slug,
		Code:   i.Code,
		Style:  i.Style,
		Type:   i.Type,
		Room:   i.Room,
		Images: nonNil(i.Images),
	}
}

// ToResult projects a Set for search output.
func (s *Set) ToResult() SetResult {
	return SetResult{
		ID:     s.ID,
		Name:   s.Name,
		Slug:   s.Slug,
		Code:   s.Code,
		Style:  s.Style,
		Room:   s.Room,
		Images: nonNil(s.Images),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
