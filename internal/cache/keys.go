package cache

// Keys follow "<entity>:<slug>", "<entity>:<slug>:<sub>" and "<entity>:all".
const (
	CatalogueAllKey   = "catalogue:all"
	CatalogueMetaKey  = "catalogue:meta"
	NavRoomsKey       = "nav:rooms"
	HomeKey           = "home:page"
	SettingsKey       = "settings:site"
	RoomsAllKey       = "room:all"
	catalogueWildcard = "catalogue:*"
)

func ItemKey(slug string) string { return "item:" + slug }

func SetKey(slug string) string { return "set:" + slug }

func RoomKey(slug string) string { return "room:" + slug }

// RoomSubKey addresses a sub-resource of a room page, e.g. its items of one type.
func RoomSubKey(slug, sub string) string { return "room:" + slug + ":" + sub }

// Invalidation patterns grouped by what an admin write touches.
var (
	// ProductPatterns covers every page that lists items or sets.
	ProductPatterns = []string{catalogueWildcard, "item:*", "set:*", "room:*", "home:*"}

	// RoomPatterns adds the navigation menu to ProductPatterns.
	RoomPatterns = append(append([]string{}, ProductPatterns...), "nav:*")

	// SettingsPatterns covers pages rendered from site settings.
	SettingsPatterns = []string{"settings:*", "home:*"}
)
