package domain

import (
	"time"

	"github.com/weiawesome/wes-furniture/pkg/database"
)

// ItemModel is the GORM model for items table.
type ItemModel struct {
	ID          string               `gorm:"type:varchar(36);primaryKey"`
	Name        string               `gorm:"type:varchar(200);not null"`
	Slug        string               `gorm:"type:varchar(255);uniqueIndex;not null"`
	Code        string               `gorm:"type:varchar(32);uniqueIndex;not null"`
	Style       string               `gorm:"type:varchar(50);index;not null"`
	Type        string               `gorm:"type:varchar(100);index;not null"`
	Room        string               `gorm:"type:varchar(100);index;not null"`
	Description string               `gorm:"type:text"`
	Price       string               `gorm:"type:varchar(50)"`
	Images      database.StringArray `gorm:"type:text"`
	CreatedAt   time.Time            `gorm:"autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for ItemModel.
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts ItemModel to domain Item.
func (m *ItemModel) ToDomain() *Item {
	return &Item{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Code:        m.Code,
		Style:       m.Style,
		Type:        m.Type,
		Room:        m.Room,
		Description: m.Description,
		Price:       m.Price,
		Images:      nonNil(m.Images),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ItemToModel converts domain Item to ItemModel.
func ItemToModel(i *Item) *ItemModel {
	return &ItemModel{
		ID:          i.ID,
		Name:        i.Name,
		Slug:        i.Slug,
		Code:        i.Code,
		Style:       i.Style,
		Type:        i.Type,
		Room:        i.Room,
		Description: i.Description,
		Price:       i.Price,
		Images:      database.StringArray(i.Images),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// SetModel is the GORM model for sets table.
type SetModel struct {
	ID          string               `gorm:"type:varchar(36);primaryKey"`
	Name        string               `gorm:"type:varchar(200);not null"`
	Slug        string               `gorm:"type:varchar(255);uniqueIndex;not null"`
	Code        string               `gorm:"type:varchar(32);uniqueIndex;not null"`
	Style       string               `gorm:"type:varchar(50);index;not null"`
	Room        string               `gorm:"type:varchar(100);index;not null"`
	Description string               `gorm:"type:text"`
	Images      database.StringArray `gorm:"type:text"`
	Items       []ItemModel          `gorm:"many2many:set_items;"`
	CreatedAt   time.Time            `gorm:"autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for SetModel.
func (SetModel) TableName() string {
	return "sets"
}

// ToDomain converts SetModel to domain Set. Items are included only when preloaded.
func (m *SetModel) ToDomain() *Set {
	items := make([]Item, len(m.Items))
	for i := range m.Items {
		items[i] = *m.Items[i].ToDomain()
	}
	return &Set{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Code:        m.Code,
		Style:       m.Style,
		Room:        m.Room,
		Description: m.Description,
		Images:      nonNil(m.Images),
		Items:       items,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// SetToModel converts domain Set to SetModel without its item association.
func SetToModel(s *Set) *SetModel {
	return &SetModel{
		ID:          s.ID,
		Name:        s.Name,
		Slug:        s.Slug,
		Code:        s.Code,
		Style:       s.Style,
		Room:        s.Room,
		Description: s.Description,
		Images:      database.StringArray(s.Images),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// RoomModel is the GORM model for rooms table.
type RoomModel struct {
	ID          string               `gorm:"type:varchar(36);primaryKey"`
	Name        string               `gorm:"type:varchar(100);uniqueIndex;not null"`
	Slug        string               `gorm:"type:varchar(120);uniqueIndex;not null"`
	Description string               `gorm:"type:text"`
	Images      database.StringArray `gorm:"type:text"`
	CreatedAt   time.Time            `gorm:"autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for RoomModel.
func (RoomModel) TableName() string {
	return "rooms"
}

// ToDomain converts RoomModel to domain Room.
func (m *RoomModel) ToDomain() *Room {
	return &Room{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		Images:      nonNil(m.Images),
	}
}

// RoomToModel converts domain Room to RoomModel.
func RoomToModel(r *Room) *RoomModel {
	return &RoomModel{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Images:      database.StringArray(r.Images),
	}
}

// SiteSettingsModel is the GORM model for the single site_settings row.
type SiteSettingsModel struct {
	ID        uint                           `gorm:"primaryKey"`
	Home      database.JSON[HomeSettings]    `gorm:"type:text"`
	Contact   database.JSON[ContactSettings] `gorm:"type:text"`
	About     database.JSON[AboutContent]    `gorm:"type:text"`
	Services  database.JSON[ServicesContent] `gorm:"type:text"`
	CreatedAt time.Time                      `gorm:"autoCreateTime"`
	UpdatedAt time.Time                      `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for SiteSettingsModel.
func (SiteSettingsModel) TableName() string {
	return "site_settings"
}

// ToDomain converts SiteSettingsModel to domain SiteSettings.
func (m *SiteSettingsModel) ToDomain() *SiteSettings {
	return &SiteSettings{
		Home:     m.Home.Data,
		Contact:  m.Contact.Data,
		About:    m.About.Data,
		Services: m.Services.Data,
	}
}

// SiteSettingsToModel converts domain SiteSettings to SiteSettingsModel.
func SiteSettingsToModel(s *SiteSettings) *SiteSettingsModel {
	return &SiteSettingsModel{
		Home:     database.NewJSON(s.Home),
		Contact:  database.NewJSON(s.Contact),
		About:    database.NewJSON(s.About),
		Services: database.NewJSON(s.Services),
	}
}
