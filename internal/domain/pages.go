package domain

// Page models handed to the view layer. Every page also carries the header
// navigation rooms, filled in by the handler.

type HomePage struct {
	FeaturedItems   []Item            `json:"featuredItems"`
	CarouselItems   []Item            `json:"carouselItems"`
	CarouselSets    []Set             `json:"carouselSets"`
	GroupedItems    map[string][]Item `json:"groupedItems"`
	Rooms           []Room            `json:"rooms"`
	HeroContent     HeroContent       `json:"heroContent"`
	ContactSettings ContactSettings   `json:"contactSettings"`
}

type CatalogueFilters struct {
	Style string `form:"style" json:"style"`
	Room  string `form:"room" json:"room"`
	Type  string `form:"type" json:"type"`
	View  string `form:"view" json:"view"`
}

type CataloguePage struct {
	Items     []Item           `json:"items"`
	Sets      []Set            `json:"sets"`
	AllRooms  []string         `json:"allRooms"`
	AllStyles []string         `json:"allStyles"`
	AllTypes  []string         `json:"allTypes"`
	Filters   CatalogueFilters `json:"filters"`
}

type RoomPage struct {
	Room  Room   `json:"room"`
	Sets  []Set  `json:"sets"`
	Items []Item `json:"items"`
}

type ItemPage struct {
	Item          Item   `json:"item"`
	StyleVariants []Item `json:"styleVariants"`
	RelatedItems  []Item `json:"relatedItems"`
}

type SetPage struct {
	Set                Set   `json:"set"`
	SimilarSets        []Set `json:"similarSets"`
	YouMayAlsoLikeSets []Set `json:"youMayAlsoLikeSets"`
}

// WishlistEntries resolves slugs a browser keeps in local storage.
type WishlistEntries struct {
	Items []ItemResult `json:"items"`
	Sets  []SetResult  `json:"sets"`
}

// Page wraps any page model with shared chrome.
type Page struct {
	Title    string    `json:"title"`
	NavRooms []NavRoom `json:"navRooms"`
	Data     any       `json:"data,omitempty"`
}
