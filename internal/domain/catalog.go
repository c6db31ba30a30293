package domain

import "time"

// Styles offered across the catalogue.
var Styles = []string{"Royal", "Modern", "Traditional"}

// Item is a single piece of furniture.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Code        string    `json:"code"`
	Style       string    `json:"style"`
	Type        string    `json:"type"`
	Room        string    `json:"room"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price,omitempty"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Set is a styled group of items sold together.
type Set struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Code        string    `json:"code"`
	Style       string    `json:"style"`
	Room        string    `json:"room"`
	Description string    `json:"description,omitempty"`
	Images      []string  `json:"images"`
	Items       []Item    `json:"items"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Room groups sets and items for browsing.
type Room struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images"`
}

// NavRoom is the header dropdown projection of a Room.
type NavRoom struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ItemFilter narrows item listings. Empty fields match everything.
type ItemFilter struct {
	Room  string
	Style string
	Type  string
}

// SetFilter narrows set listings. Empty fields match everything.
type SetFilter struct {
	Room  string
	Style string
}

// ItemInput carries admin-editable item fields.
type ItemInput struct {
	Name        string   `json:"name" form:"name" binding:"required,max=200"`
	Room        string   `json:"room" form:"room" binding:"required"`
	Style       string   `json:"style" form:"style" binding:"required"`
	Type        string   `json:"type" form:"type" binding:"required"`
	Description string   `json:"description" form:"description"`
	Price       string   `json:"price" form:"price"`
	CustomCode  string   `json:"customCode" form:"customCode"`
	Images      []string `json:"images" form:"images"`
}

// ItemUpdate carries optional item changes.
type ItemUpdate struct {
	Name        *string  `json:"name"`
	Type        *string  `json:"type"`
	Description *string  `json:"description"`
	Price       *string  `json:"price"`
	Images      []string `json:"images"`
}

// SetInput carries admin-editable set fields.
type SetInput struct {
	Name        string   `json:"name" form:"name" binding:"required,max=200"`
	Room        string   `json:"room" form:"room" binding:"required"`
	Style       string   `json:"style" form:"style" binding:"required"`
	Description string   `json:"description" form:"description"`
	CustomCode  string   `json:"customCode" form:"customCode"`
	Images      []string `json:"images" form:"images"`
	ItemCodes   []string `json:"itemCodes" form:"itemCodes"`
}

// SetUpdate carries optional set changes. A non-nil ItemCodes replaces membership.
type SetUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Images      []string `json:"images"`
	ItemCodes   []string `json:"itemCodes"`
}

// RoomUpdate carries optional room changes.
type RoomUpdate struct {
	Description *string  `json:"description"`
	Images      []string `json:"images"`
}
