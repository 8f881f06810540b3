package storage

import (
	"context"
	"errors"

	"github.com/cmrentals/property_map_service/models"
)

// Table selects one of the logical tables the repository exposes. The
// physical table names behind the selectors come from configuration.
type Table string

const (
	TableListings        Table = "all"
	TableDefaultLocation Table = "default_location"
)

var (
	// ErrInvalidTable is returned for a selector outside the recognized
	// set, before any network call is made.
	ErrInvalidTable = errors.New("storage: invalid table")

	// ErrNoDefaultLocation is returned when the default-location table
	// holds no rows. The row is provisioned out-of-band, so this is a
	// deployment problem, not a user error.
	ErrNoDefaultLocation = errors.New("storage: default location not provisioned")
)

// Store moves rows in and out of one remote table store, keyed by
// physical table name. Implementations do no caching, validation or
// retries; that all lives in the Repository.
type Store interface {
	InsertListing(ctx context.Context, table string, l models.Listing) error
	FetchListings(ctx context.Context, table string) ([]models.Listing, error)
	FetchDefaultLocations(ctx context.Context, table string) ([]models.DefaultLocation, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
