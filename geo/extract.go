package geo

import (
	"regexp"
	"strconv"
)

var (
	// placeRegexp captures the !3d<lat>!4d<lon> pair embedded in
	// map-service place URLs.
	placeRegexp = regexp.MustCompile(`!3d(-?[0-9.]+)!4d(-?[0-9.]+)`)
	// viewportRegexp captures the @<lat>,<lon> viewport center used in
	// map navigation URLs.
	viewportRegexp = regexp.MustCompile(`@(-?[0-9.]+),(-?[0-9.]+)`)
)

// Coordinates is a geographic point in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the pair lies inside the legal latitude and
// longitude ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// ExtractCoordinates parses latitude and longitude out of a map-service
// URL. The !3d/!4d place encoding takes priority over the @lat,lon
// viewport encoding; the first occurrence of a pattern wins. The second
// return value is false when the URL carries neither encoding, or when
// a matched fragment does not parse as a pair of floats.
func ExtractCoordinates(url string) (Coordinates, bool) {
	if match := placeRegexp.FindStringSubmatch(url); match != nil {
		return parsePair(match[1], match[2])
	}
	if match := viewportRegexp.FindStringSubmatch(url); match != nil {
		return parsePair(match[1], match[2])
	}
	return Coordinates{}, false
}

// parsePair guards against fragments that match the pattern shape but
// are not valid floats, e.g. "1.2.3".
func parsePair(rawLat, rawLon string) (Coordinates, bool) {
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return Coordinates{}, false
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil {
		return Coordinates{}, false
	}
	return Coordinates{Latitude: lat, Longitude: lon}, true
}
