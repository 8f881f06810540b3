package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/cmrentals/property_map_service/mapview"
	"github.com/cmrentals/property_map_service/storage"
)

// GetMapView returns everything needed to render the map page: the
// center from the default location plus one marker per mappable
// listing, honoring the same filter parameters as the listings
// endpoint.
func GetMapView(repo ListingRepository, zoom int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		loc, err := repo.FetchDefaultLocation(r.Context())
		if err != nil {
			log.Printf("Fetch default location failed: %v", err)
			if errors.Is(err, storage.ErrNoDefaultLocation) {
				http.Error(w, "Default location is not provisioned", http.StatusInternalServerError)
				return
			}
			http.Error(w, "Failed to fetch default location", http.StatusInternalServerError)
			return
		}

		listings, err := repo.FetchListings(r.Context())
		if err != nil {
			log.Printf("Fetch listings failed: %v", err)
			http.Error(w, "Failed to fetch listings", http.StatusInternalServerError)
			return
		}

		view := mapview.Build(loc, mapview.Apply(listings, filter), zoom)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(view)
	}
}

// GetDefaultLocation returns the singleton reference location row.
func GetDefaultLocation(repo ListingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loc, err := repo.FetchDefaultLocation(r.Context())
		if err != nil {
			log.Printf("Fetch default location failed: %v", err)
			if errors.Is(err, storage.ErrNoDefaultLocation) {
				http.Error(w, "Default location is not provisioned", http.StatusInternalServerError)
				return
			}
			http.Error(w, "Failed to fetch default location", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(loc)
	}
}

// HealthCheck reports service liveness.
func HealthCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
