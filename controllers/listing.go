package controllers

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmrentals/property_map_service/geo"
	"github.com/cmrentals/property_map_service/mapview"
	"github.com/cmrentals/property_map_service/models"
)

// ListingRepository is the slice of the storage facade the handlers
// need.
type ListingRepository interface {
	Insert(ctx context.Context, draft models.ListingDraft) (models.Listing, error)
	FetchListings(ctx context.Context) ([]models.Listing, error)
	FetchDefaultLocation(ctx context.Context) (models.DefaultLocation, error)
}

// createListingResponse tells the frontend whether coordinates were
// extracted from the submitted map URL, so it can warn about an
// unmappable listing.
type createListingResponse struct {
	Listing  models.Listing `json:"listing"`
	Geocoded bool           `json:"geocoded"`
}

// CreateListing accepts a submitted listing draft, extracts coordinates
// from its map URL, and stores it. Extraction failure never blocks
// creation; the listing is stored without coordinates and the response
// carries geocoded=false.
func CreateListing(repo ListingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft models.ListingDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			log.Printf("Invalid request body: %v", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(draft.Title) == "" {
			http.Error(w, "Title is required", http.StatusBadRequest)
			return
		}
		if draft.Price < 0 {
			http.Error(w, "Price must not be negative", http.StatusBadRequest)
			return
		}
		if draft.ContractLength < 0 || draft.ContractLength > 12 {
			http.Error(w, "Contract length must be between 0 and 12 months", http.StatusBadRequest)
			return
		}
		if _, err := time.Parse(models.DateLayout, draft.DateAdded); err != nil {
			http.Error(w, "Date added must be a YYYY-MM-DD date", http.StatusBadRequest)
			return
		}

		geocoded := false
		if coords, ok := geo.ExtractCoordinates(draft.MapURL); ok {
			if coords.Valid() {
				draft.Latitude = &coords.Latitude
				draft.Longitude = &coords.Longitude
				geocoded = true
			} else {
				log.Printf("Discarding out-of-range coordinates (%v, %v) from %q",
					coords.Latitude, coords.Longitude, draft.MapURL)
			}
		}

		listing, err := repo.Insert(r.Context(), draft)
		if err != nil {
			log.Printf("Insert failed: %v", err)
			http.Error(w, "Failed to create listing", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(createListingResponse{Listing: listing, Geocoded: geocoded})
	}
}

// parseFilter reads the browse query parameters shared by the table and
// map endpoints: min_price, max_price, and status (comma-separated
// display labels; absent means all three, present-but-empty means
// none).
func parseFilter(r *http.Request) (mapview.Filter, error) {
	query := r.URL.Query()

	f := mapview.Filter{PriceMin: 0, PriceMax: math.MaxInt}
	if raw := query.Get("min_price"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return mapview.Filter{}, errBadParam{"min_price", raw}
		}
		f.PriceMin = n
	}
	if raw := query.Get("max_price"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return mapview.Filter{}, errBadParam{"max_price", raw}
		}
		f.PriceMax = n
	}

	if !query.Has("status") {
		f.Statuses = models.AllStatuses()
		return f, nil
	}

	f.Statuses = []models.AvailabilityStatus{}
	for _, label := range strings.Split(query.Get("status"), ",") {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		status, err := models.ParseStatusLabel(label)
		if err != nil {
			return mapview.Filter{}, errBadParam{"status", label}
		}
		f.Statuses = append(f.Statuses, status)
	}
	return f, nil
}

type errBadParam struct {
	param string
	value string
}

func (e errBadParam) Error() string {
	return "Invalid " + e.param + " value: " + e.value
}

// GetListings returns the listing collection filtered by price range
// and status set, optionally sorted. The result is always a JSON array,
// never null.
func GetListings(repo ListingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		listings, err := repo.FetchListings(r.Context())
		if err != nil {
			log.Printf("Fetch listings failed: %v", err)
			http.Error(w, "Failed to fetch listings", http.StatusInternalServerError)
			return
		}

		filtered := mapview.Apply(listings, filter)

		if key := r.URL.Query().Get("sort"); key != "" {
			filtered, err = mapview.Sort(filtered, key)
			if err != nil {
				http.Error(w, "Invalid sort key: "+key, http.StatusBadRequest)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(filtered)
	}
}

// GetPriceBounds returns the minimum and maximum price over the whole
// unfiltered collection, which the frontend uses as its price-slider
// range.
func GetPriceBounds(repo ListingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listings, err := repo.FetchListings(r.Context())
		if err != nil {
			log.Printf("Fetch listings failed: %v", err)
			http.Error(w, "Failed to fetch listings", http.StatusInternalServerError)
			return
		}

		min, max := mapview.PriceBounds(listings)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"min_price": min, "max_price": max})
	}
}
