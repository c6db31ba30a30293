package domain

// SiteSettings is the singleton document holding editable site content.
type SiteSettings struct {
	Home     HomeSettings    `json:"home"`
	Contact  ContactSettings `json:"contact"`
	About    AboutContent    `json:"about"`
	Services ServicesContent `json:"services"`
}

type HomeSettings struct {
	Hero              HeroContent       `json:"hero"`
	FeaturedCodes     FeaturedCodes     `json:"featuredCodes"`
	BrowseByRoomCodes map[string]string `json:"browseByRoomCodes"`
}

type HeroContent struct {
	Tagline     string     `json:"tagline"`
	Badges      []string   `json:"badges"`
	Stats       []HeroStat `json:"stats"`
	Images      []string   `json:"images"`
	ActiveImage int        `json:"activeImage"`
}

type HeroStat struct {
	Number string `json:"number"`
	Label  string `json:"label"`
}

type FeaturedCodes struct {
	SignatureItems []string `json:"signatureItems"`
	FeaturedItems  []string `json:"featuredItems"`
	FeaturedSets   []string `json:"featuredSets"`
}

type ContactSettings struct {
	Phone1          string        `json:"phone1"`
	Phone2          string        `json:"phone2"`
	WhatsappEnquiry string        `json:"whatsappEnquiry"`
	Email           string        `json:"email"`
	FormEmail       string        `json:"formEmail"`
	Address         Address       `json:"address"`
	BusinessHours   BusinessHours `json:"businessHours"`
}

type Address struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	Line3   string `json:"line3"`
	Country string `json:"country"`
}

type BusinessHours struct {
	Weekday string `json:"weekday"`
	Weekend string `json:"weekend"`
}

type AboutContent struct {
	Story    Story        `json:"story"`
	Values   []ValueEntry `json:"values"`
	Process  Process      `json:"process"`
	Heritage Heritage     `json:"heritage"`
}

type Story struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Content  string `json:"content"`
	Image    Image  `json:"image"`
}

type ValueEntry struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Process struct {
	Intro string        `json:"intro"`
	Steps []ProcessStep `json:"steps"`
}

type ProcessStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       Image  `json:"image"`
}

type Heritage struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ServicesContent struct {
	Intro ServicesIntro  `json:"intro"`
	Items []ServiceEntry `json:"items"`
}

type ServicesIntro struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ServiceEntry struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Image       Image    `json:"image"`
}

// Image references an uploaded asset.
type Image struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Key       string `json:"key,omitempty"`
}

// DefaultSiteSettings returns the content a fresh installation starts with.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		Home: HomeSettings{
			Hero: HeroContent{
				Tagline: "Only The Finest Furniture",
				Badges:  []string{"Workshop In Rajpura", "Since 1980"},
				Stats:   []HeroStat{},
				Images:  []string{},
			},
			FeaturedCodes: FeaturedCodes{
				SignatureItems: []string{},
				FeaturedItems:  []string{},
				FeaturedSets:   []string{},
			},
			BrowseByRoomCodes: map[string]string{
				"Living Room": "LT-04",
				"Dining Room": "DR-04",
				"Bedroom":     "BR-09",
				"Office":      "OT-02",
				"Showpieces":  "SR-044",
			},
		},
		Contact: ContactSettings{
			Phone1:          "+91 8360550271",
			Phone2:          "+91 6239811718",
			WhatsappEnquiry: "918360550271",
			Email:           "pawanafurniture07@gmail.com",
			FormEmail:       "pawanafurniture07@gmail.com",
			Address: Address{
				Line1:   "Pawana Furniture",
				Line2:   "Patiala Road, NH 7",
				Line3:   "Liberty Chowk, Punjab 140401",
				Country: "India",
			},
			BusinessHours: BusinessHours{
				Weekday: "Monday - Saturday: 8:00 AM - 7:30 PM",
				Weekend: "Sunday: 8:00 AM - 6:30 PM",
			},
		},
		About: AboutContent{
			Values:  []ValueEntry{},
			Process: Process{Steps: []ProcessStep{}},
		},
		Services: ServicesContent{
			Items: []ServiceEntry{},
		},
	}
}
