package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/cmrentals/property_map_service/cache"
	"github.com/cmrentals/property_map_service/models"
)

// Repository is the data-access facade the HTTP layer talks to. It maps
// table selectors to physical table names, memoizes reads through the
// table cache, bounds every store call with a timeout, and holds no
// mutable state of its own.
type Repository struct {
	store   Store
	cache   *cache.TableCache
	tables  map[Table]string
	timeout time.Duration
}

// NewRepository wires a Store, a cache, and the configured physical
// table names behind the two selectors.
func NewRepository(store Store, c *cache.TableCache, listingsTable, defaultLocationTable string, timeout time.Duration) *Repository {
	return &Repository{
		store: store,
		cache: c,
		tables: map[Table]string{
			TableListings:        listingsTable,
			TableDefaultLocation: defaultLocationTable,
		},
		timeout: timeout,
	}
}

// tableFor resolves a selector to its physical table name. It runs
// before any network call on every operation.
func (r *Repository) tableFor(t Table) (string, error) {
	name, ok := r.tables[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTable, string(t))
	}
	return name, nil
}

func cacheKey(table string) string {
	return "table:" + table
}

// Insert validates and normalizes a draft, writes it through the store,
// and invalidates the listings cache before returning the stored
// record. Not idempotent: identical drafts create duplicate rows.
func (r *Repository) Insert(ctx context.Context, draft models.ListingDraft) (models.Listing, error) {
	if err := validateDraft(draft); err != nil {
		return models.Listing{}, fmt.Errorf("storage: invalid draft: %w", err)
	}

	table, err := r.tableFor(TableListings)
	if err != nil {
		return models.Listing{}, err
	}

	// Status is not settable through insert; new rows start as TBD and
	// get curated out-of-band.
	listing := models.Listing{
		Title:          draft.Title,
		ListingURL:     draft.ListingURL,
		MapURL:         draft.MapURL,
		Latitude:       draft.Latitude,
		Longitude:      draft.Longitude,
		Price:          draft.Price,
		ContractLength: draft.ContractLength,
		HasDesk:        draft.HasDesk,
		DateAdded:      draft.DateAdded,
		Description:    draft.Description,
		Status:         models.StatusTBD,
		ImageURL:       draft.ImageURL,
	}

	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.store.InsertListing(tctx, table, listing); err != nil {
		return models.Listing{}, fmt.Errorf("storage: insert listing: %w", err)
	}

	// Synchronous, so a fetch right after the insert sees the new row.
	r.cache.Delete(ctx, cacheKey(table))

	return listing, nil
}

func validateDraft(draft models.ListingDraft) error {
	if _, err := time.Parse(models.DateLayout, draft.DateAdded); err != nil {
		return fmt.Errorf("date_added %q is not a YYYY-MM-DD date", draft.DateAdded)
	}
	if draft.Price < 0 {
		return fmt.Errorf("price %d is negative", draft.Price)
	}
	if (draft.Latitude == nil) != (draft.Longitude == nil) {
		return fmt.Errorf("latitude and longitude must be set together")
	}
	return nil
}

// FetchListings returns every listing row, serving from the cache when
// a fresh entry exists. An empty table is an empty slice, not an error.
func (r *Repository) FetchListings(ctx context.Context) ([]models.Listing, error) {
	table, err := r.tableFor(TableListings)
	if err != nil {
		return nil, err
	}

	key := cacheKey(table)
	if data, ok := r.cache.Get(ctx, key); ok {
		var listings []models.Listing
		if err := json.Unmarshal(data, &listings); err != nil {
			log.Printf("Discarding undecodable cache entry for %s: %v", key, err)
		} else {
			return listings, nil
		}
	}

	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	listings, err := r.store.FetchListings(tctx, table)
	if err != nil {
		return nil, fmt.Errorf("storage: fetch listings: %w", err)
	}
	if listings == nil {
		listings = []models.Listing{}
	}

	if data, err := json.Marshal(listings); err == nil {
		r.cache.Set(ctx, key, data)
	}

	return listings, nil
}

// FetchDefaultLocation returns the singleton reference row. Zero rows
// is ErrNoDefaultLocation; with more than one row the first wins, with
// a warning.
func (r *Repository) FetchDefaultLocation(ctx context.Context) (models.DefaultLocation, error) {
	table, err := r.tableFor(TableDefaultLocation)
	if err != nil {
		return models.DefaultLocation{}, err
	}

	key := cacheKey(table)
	if data, ok := r.cache.Get(ctx, key); ok {
		var loc models.DefaultLocation
		if err := json.Unmarshal(data, &loc); err != nil {
			log.Printf("Discarding undecodable cache entry for %s: %v", key, err)
		} else {
			return loc, nil
		}
	}

	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	locations, err := r.store.FetchDefaultLocations(tctx, table)
	if err != nil {
		return models.DefaultLocation{}, fmt.Errorf("storage: fetch default location: %w", err)
	}
	if len(locations) == 0 {
		return models.DefaultLocation{}, ErrNoDefaultLocation
	}
	if len(locations) > 1 {
		log.Printf("Default-location table %s holds %d rows; using the first", table, len(locations))
	}
	loc := locations[0]

	if data, err := json.Marshal(loc); err == nil {
		r.cache.Set(ctx, key, data)
	}

	return loc, nil
}
