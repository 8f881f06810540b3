package routes

import (
	"github.com/cmrentals/property_map_service/controllers"
	"github.com/cmrentals/property_map_service/middleware"
	"github.com/gorilla/mux"
)

func Routes(router *mux.Router, repo controllers.ListingRepository, mapZoom int) {
	router.Use(middleware.Logging)

	router.HandleFunc("/health", controllers.HealthCheck()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Listing routes
	api.HandleFunc("/properties", controllers.CreateListing(repo)).Methods("POST")
	api.HandleFunc("/properties", controllers.GetListings(repo)).Methods("GET")
	api.HandleFunc("/properties/price-bounds", controllers.GetPriceBounds(repo)).Methods("GET")

	// Map routes
	api.HandleFunc("/map", controllers.GetMapView(repo, mapZoom)).Methods("GET")
	api.HandleFunc("/default-location", controllers.GetDefaultLocation(repo)).Methods("GET")
}
