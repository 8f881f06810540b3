package models

import "fmt"

// AvailabilityStatus is the stored availability code of a listing.
type AvailabilityStatus int

const (
	StatusFull      AvailabilityStatus = 0
	StatusFreeRooms AvailabilityStatus = 1
	StatusTBD       AvailabilityStatus = 2
)

var statusLabels = map[AvailabilityStatus]string{
	StatusFull:      "Full",
	StatusFreeRooms: "Free rooms",
	StatusTBD:       "TBD",
}

var statusColors = map[AvailabilityStatus]string{
	StatusFull:      "red",
	StatusFreeRooms: "green",
	StatusTBD:       "orange",
}

var labelCodes = map[string]AvailabilityStatus{
	"Full":       StatusFull,
	"Free rooms": StatusFreeRooms,
	"TBD":        StatusTBD,
}

// AllStatuses returns the three availability codes in display order.
func AllStatuses() []AvailabilityStatus {
	return []AvailabilityStatus{StatusFull, StatusFreeRooms, StatusTBD}
}

// Valid reports whether s is one of the three recognized codes.
func (s AvailabilityStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display label for the status code. Filtering in the
// UI round-trips through these labels, so Label and ParseStatusLabel
// must stay exact inverses of each other.
func (s AvailabilityStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("Unknown(%d)", int(s))
}

// MarkerColor returns the map marker color for the status code.
func (s AvailabilityStatus) MarkerColor() string {
	if color, ok := statusColors[s]; ok {
		return color
	}
	return "gray"
}

// ParseStatusLabel maps a display label back to its status code.
func ParseStatusLabel(label string) (AvailabilityStatus, error) {
	if code, ok := labelCodes[label]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("unknown availability status %q", label)
}
