package models

// DateLayout is the calendar-date format used for date_added everywhere:
// in the API payloads and in the stored rows.
const DateLayout = "2006-01-02"

// Listing is one rental-property record in its tabular shape. Coordinates
// are pointers because extraction from the map URL can fail; they are
// always set or cleared as a pair.
type Listing struct {
	Title          string             `json:"title"`
	ListingURL     string             `json:"listing_url,omitempty"`
	MapURL         string             `json:"map_url"`
	Latitude       *float64           `json:"latitude"`
	Longitude      *float64           `json:"longitude"`
	Price          int                `json:"price"`
	ContractLength int                `json:"contract_length"`
	HasDesk        bool               `json:"has_desk"`
	DateAdded      string             `json:"date_added"`
	Description    string             `json:"description,omitempty"`
	Status         AvailabilityStatus `json:"availability_status"`
	StatusNote     string             `json:"status_note,omitempty"`
	ImageURL       string             `json:"image_url,omitempty"`
}

// HasCoordinates reports whether the listing can be placed on the map.
func (l Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// ListingDraft is the insert payload collected from the submission form.
// It carries every Listing field except the status ones, which are not
// settable through insert. Coordinates are filled by the service from
// MapURL and never accepted from the client.
type ListingDraft struct {
	Title          string   `json:"title"`
	ListingURL     string   `json:"listing_url"`
	MapURL         string   `json:"map_url"`
	Latitude       *float64 `json:"-"`
	Longitude      *float64 `json:"-"`
	Price          int      `json:"price"`
	ContractLength int      `json:"contract_length"`
	HasDesk        bool     `json:"has_desk"`
	DateAdded      string   `json:"date_added"`
	Description    string   `json:"description"`
	ImageURL       string   `json:"image_url"`
}

// DefaultLocation is the singleton reference point the map is centered
// on. It is provisioned directly in the store, never through this
// service.
type DefaultLocation struct {
	Title     string  `json:"title"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
