package geo

import (
	"strconv"
	"testing"
)

func TestExtractCoordinatesPlacePattern(t *testing.T) {
	tests := []struct {
		url     string
		wantLat float64
		wantLon float64
	}{
		{"https://www.google.com/maps/place/Nimman/!3d18.7883!4d98.9853", 18.7883, 98.9853},
		{"https://maps.google.com/?q=x!3d-33.8688!4d151.2093", -33.8688, 151.2093},
		// The place encoding wins over a trailing viewport fragment.
		{"https://www.google.com/maps/place/X/!3d18.7883!4d98.9853/@18.0,99.0,15z", 18.7883, 98.9853},
		// First occurrence wins.
		{"!3d10.5!4d20.5 and later !3d11.5!4d21.5", 10.5, 20.5},
	}

	for _, tt := range tests {
		got, ok := ExtractCoordinates(tt.url)
		if !ok {
			t.Errorf("ExtractCoordinates(%q) not found; want (%v, %v)", tt.url, tt.wantLat, tt.wantLon)
			continue
		}
		if got.Latitude != tt.wantLat || got.Longitude != tt.wantLon {
			t.Errorf("ExtractCoordinates(%q) = (%v, %v); want (%v, %v)",
				tt.url, got.Latitude, got.Longitude, tt.wantLat, tt.wantLon)
		}
	}
}

func TestExtractCoordinatesViewportFallback(t *testing.T) {
	tests := []struct {
		url     string
		wantLat float64
		wantLon float64
	}{
		{"https://maps.google.com/@18.7961,98.9772,15z", 18.7961, 98.9772},
		{"https://www.google.com/maps/@-36.8485,174.7633,12z", -36.8485, 174.7633},
		{"@0.0,0.0", 0, 0},
	}

	for _, tt := range tests {
		got, ok := ExtractCoordinates(tt.url)
		if !ok {
			t.Errorf("ExtractCoordinates(%q) not found; want (%v, %v)", tt.url, tt.wantLat, tt.wantLon)
			continue
		}
		if got.Latitude != tt.wantLat || got.Longitude != tt.wantLon {
			t.Errorf("ExtractCoordinates(%q) = (%v, %v); want (%v, %v)",
				tt.url, got.Latitude, got.Longitude, tt.wantLat, tt.wantLon)
		}
	}
}

func TestExtractCoordinatesNotFound(t *testing.T) {
	urls := []string{
		"",
		"https://example.com/no-coords",
		"https://maps.google.com/place/somewhere",
		// Shape matches but the fragment is not a parseable float pair.
		"!3d1.2.3!4d98.9853",
		"!3d18.7883!4d9.8.5",
		"@1.2.3,4.5.6",
		"@.,.",
	}

	for _, url := range urls {
		if got, ok := ExtractCoordinates(url); ok {
			t.Errorf("ExtractCoordinates(%q) = (%v, %v); want not found",
				url, got.Latitude, got.Longitude)
		}
	}
}

func TestExtractCoordinatesRoundTripStable(t *testing.T) {
	urls := []string{
		"!3d18.7883!4d98.9853",
		"!3d-0.0001!4d179.9999",
		"@13.7563,100.5018",
	}

	for _, url := range urls {
		got, ok := ExtractCoordinates(url)
		if !ok {
			t.Fatalf("ExtractCoordinates(%q) not found", url)
		}
		relat, err := strconv.ParseFloat(strconv.FormatFloat(got.Latitude, 'f', -1, 64), 64)
		if err != nil || relat != got.Latitude {
			t.Errorf("latitude %v did not survive format/parse round trip", got.Latitude)
		}
		relon, err := strconv.ParseFloat(strconv.FormatFloat(got.Longitude, 'f', -1, 64), 64)
		if err != nil || relon != got.Longitude {
			t.Errorf("longitude %v did not survive format/parse round trip", got.Longitude)
		}
	}
}

func TestCoordinatesValid(t *testing.T) {
	tests := []struct {
		c    Coordinates
		want bool
	}{
		{Coordinates{18.7883, 98.9853}, true},
		{Coordinates{-90, -180}, true},
		{Coordinates{90, 180}, true},
		{Coordinates{90.0001, 0}, false},
		{Coordinates{0, -180.0001}, false},
		{Coordinates{991.1, 98.9}, false},
	}

	for _, tt := range tests {
		if got := tt.c.Valid(); got != tt.want {
			t.Errorf("Valid(%v, %v) = %v; want %v", tt.c.Latitude, tt.c.Longitude, got, tt.want)
		}
	}
}
