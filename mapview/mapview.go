// Package mapview turns the listing collection into the view models the
// frontend renders: filtered/sorted tables and the marker set for the
// map. Everything here is a pure function of its inputs.
package mapview

import (
	"fmt"
	"sort"

	"github.com/cmrentals/property_map_service/geo"
	"github.com/cmrentals/property_map_service/models"
)

// Filter is the browse-page selection: an inclusive price range and the
// set of availability statuses to show.
type Filter struct {
	PriceMin int
	PriceMax int
	Statuses []models.AvailabilityStatus
}

// Apply keeps a listing iff PriceMin <= price <= PriceMax and its
// status is in the selected set. An empty status set yields an empty
// result regardless of price. Input order is preserved.
func Apply(listings []models.Listing, f Filter) []models.Listing {
	selected := make(map[models.AvailabilityStatus]bool, len(f.Statuses))
	for _, s := range f.Statuses {
		selected[s] = true
	}

	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Price < f.PriceMin || l.Price > f.PriceMax {
			continue
		}
		if !selected[l.Status] {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Sort keys accepted by Sort. Date keys compare the ISO date strings,
// which order the same as the dates themselves.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortDateAsc   = "date_asc"
	SortDateDesc  = "date_desc"
)

// Sort returns a copy of listings ordered by the given key. The sort is
// stable, so equal elements keep their fetch order.
func Sort(listings []models.Listing, key string) ([]models.Listing, error) {
	var less func(a, b models.Listing) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b models.Listing) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b models.Listing) bool { return a.Price > b.Price }
	case SortDateAsc:
		less = func(a, b models.Listing) bool { return a.DateAdded < b.DateAdded }
	case SortDateDesc:
		less = func(a, b models.Listing) bool { return a.DateAdded > b.DateAdded }
	default:
		return nil, fmt.Errorf("mapview: unknown sort key %q", key)
	}

	sorted := make([]models.Listing, len(listings))
	copy(sorted, listings)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted, nil
}

// PriceBounds returns the minimum and maximum price over the unfiltered
// collection, for the frontend's price slider. Empty input is (0, 0).
func PriceBounds(listings []models.Listing) (min, max int) {
	if len(listings) == 0 {
		return 0, 0
	}
	min, max = listings[0].Price, listings[0].Price
	for _, l := range listings[1:] {
		if l.Price < min {
			min = l.Price
		}
		if l.Price > max {
			max = l.Price
		}
	}
	return min, max
}

// Popup is the detail card shown when a marker is clicked.
type Popup struct {
	Title       string `json:"title"`
	Price       int    `json:"price"`
	Description string `json:"description,omitempty"`
	StatusLabel string `json:"status_label"`
	StatusNote  string `json:"status_note,omitempty"`
	ListingURL  string `json:"listing_url,omitempty"`
	MapURL      string `json:"map_url,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Marker is one point on the map.
type Marker struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Color     string  `json:"color"`
	Icon      string  `json:"icon"`
	Tooltip   string  `json:"tooltip"`
	Popup     Popup   `json:"popup"`
}

// LegendEntry explains one marker color.
type LegendEntry struct {
	Color string `json:"color"`
	Text  string `json:"text"`
}

// MapView is everything the frontend needs to render the map page.
// Unmapped counts listings left off the map because they carry no
// coordinates.
type MapView struct {
	Center   geo.Coordinates `json:"center"`
	Zoom     int             `json:"zoom"`
	Markers  []Marker        `json:"markers"`
	Unmapped int             `json:"unmapped"`
	Legend   []LegendEntry   `json:"legend"`
}

// Build assembles the map view: the default location becomes the center
// and a red heart marker, and every listing with coordinates becomes a
// home marker colored by its availability status.
func Build(loc models.DefaultLocation, listings []models.Listing, zoom int) MapView {
	view := MapView{
		Center:  geo.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude},
		Zoom:    zoom,
		Markers: make([]Marker, 0, len(listings)+1),
		Legend: []LegendEntry{
			{Color: "green", Text: "Availability confirmed"},
			{Color: "orange", Text: "Availability not confirmed or partially confirmed"},
			{Color: "red", Text: "Confirmed as fully booked"},
		},
	}

	view.Markers = append(view.Markers, Marker{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Color:     "red",
		Icon:      "heart",
		Tooltip:   loc.Title,
		Popup:     Popup{Title: loc.Title},
	})

	for _, l := range listings {
		if !l.HasCoordinates() {
			view.Unmapped++
			continue
		}
		view.Markers = append(view.Markers, Marker{
			Latitude:  *l.Latitude,
			Longitude: *l.Longitude,
			Color:     l.Status.MarkerColor(),
			Icon:      "home",
			Tooltip:   l.Title,
			Popup: Popup{
				Title:       l.Title,
				Price:       l.Price,
				Description: l.Description,
				StatusLabel: l.Status.Label(),
				StatusNote:  l.StatusNote,
				ListingURL:  l.ListingURL,
				MapURL:      l.MapURL,
				ImageURL:    l.ImageURL,
			},
		})
	}

	return view
}
