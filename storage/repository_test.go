package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmrentals/property_map_service/cache"
	"github.com/cmrentals/property_map_service/models"
)

// memStore is an in-memory Store for repository tests.
type memStore struct {
	listings   map[string][]models.Listing
	locations  map[string][]models.DefaultLocation
	fetchCalls int
	insertErr  error
	fetchErr   error
}

func newMemStore() *memStore {
	return &memStore{
		listings:  make(map[string][]models.Listing),
		locations: make(map[string][]models.DefaultLocation),
	}
}

func (m *memStore) InsertListing(ctx context.Context, table string, l models.Listing) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.listings[table] = append(m.listings[table], l)
	return nil
}

func (m *memStore) FetchListings(ctx context.Context, table string) ([]models.Listing, error) {
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.listings[table], nil
}

func (m *memStore) FetchDefaultLocations(ctx context.Context, table string) ([]models.DefaultLocation, error) {
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.locations[table], nil
}

func (m *memStore) Ping(ctx context.Context) error  { return nil }
func (m *memStore) Close(ctx context.Context) error { return nil }

func newTestRepo(store Store) *Repository {
	c := cache.New(100, 5*time.Minute, nil)
	return NewRepository(store, c, "properties", "default_location", time.Second)
}

func draft() models.ListingDraft {
	lat, lon := 18.7883, 98.9853
	return models.ListingDraft{
		Title:          "Room near old town",
		ListingURL:     "https://example.com/rooms/42",
		MapURL:         "https://maps.google.com/place/x/!3d18.7883!4d98.9853",
		Latitude:       &lat,
		Longitude:      &lon,
		Price:          350,
		ContractLength: 6,
		HasDesk:        true,
		DateAdded:      "2024-06-15",
		Description:    "Quiet street",
		ImageURL:       "https://example.com/rooms/42.jpg",
	}
}

func TestInsertThenFetch(t *testing.T) {
	repo := newTestRepo(newMemStore())
	ctx := context.Background()

	d := draft()
	stored, err := repo.Insert(ctx, d)
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if stored.Status != models.StatusTBD {
		t.Errorf("stored status = %v; want TBD", stored.Status)
	}

	listings, err := repo.FetchListings(ctx)
	if err != nil {
		t.Fatalf("FetchListings returned error: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("got %d listings; want 1", len(listings))
	}

	got := listings[0]
	if got.Title != d.Title || got.ListingURL != d.ListingURL || got.MapURL != d.MapURL ||
		got.Price != d.Price || got.ContractLength != d.ContractLength ||
		got.HasDesk != d.HasDesk || got.DateAdded != d.DateAdded ||
		got.Description != d.Description || got.ImageURL != d.ImageURL {
		t.Errorf("fetched listing %+v does not match submitted draft %+v", got, d)
	}
	if !got.HasCoordinates() || *got.Latitude != 18.7883 || *got.Longitude != 98.9853 {
		t.Errorf("fetched coordinates = (%v, %v); want (18.7883, 98.9853)", got.Latitude, got.Longitude)
	}
}

func TestInsertNotIdempotent(t *testing.T) {
	repo := newTestRepo(newMemStore())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := repo.Insert(ctx, draft()); err != nil {
			t.Fatalf("Insert %d returned error: %v", i, err)
		}
	}

	listings, err := repo.FetchListings(ctx)
	if err != nil {
		t.Fatalf("FetchListings returned error: %v", err)
	}
	if len(listings) != 2 {
		t.Errorf("got %d listings after two identical inserts; want 2 duplicate rows", len(listings))
	}
}

func TestInsertRejectsBadDrafts(t *testing.T) {
	store := newMemStore()
	repo := newTestRepo(store)
	ctx := context.Background()

	lat := 18.7883
	tests := []struct {
		name   string
		mutate func(*models.ListingDraft)
	}{
		{"bad date", func(d *models.ListingDraft) { d.DateAdded = "15/06/2024" }},
		{"negative price", func(d *models.ListingDraft) { d.Price = -1 }},
		{"half coordinate pair", func(d *models.ListingDraft) { d.Latitude = &lat; d.Longitude = nil }},
	}

	for _, tt := range tests {
		d := draft()
		tt.mutate(&d)
		if _, err := repo.Insert(ctx, d); err == nil {
			t.Errorf("%s: Insert accepted an invalid draft", tt.name)
		}
	}

	if len(store.listings["properties"]) != 0 {
		t.Errorf("invalid drafts reached the store: %d rows", len(store.listings["properties"]))
	}
}

func TestFetchListingsEmpty(t *testing.T) {
	repo := newTestRepo(newMemStore())

	listings, err := repo.FetchListings(context.Background())
	if err != nil {
		t.Fatalf("FetchListings returned error: %v", err)
	}
	if listings == nil {
		t.Fatal("empty table returned nil; want an empty slice")
	}
	if len(listings) != 0 {
		t.Errorf("got %d listings from an empty table", len(listings))
	}
}

func TestFetchListingsServedFromCache(t *testing.T) {
	store := newMemStore()
	repo := newTestRepo(store)
	ctx := context.Background()

	if _, err := repo.FetchListings(ctx); err != nil {
		t.Fatalf("first fetch returned error: %v", err)
	}
	if _, err := repo.FetchListings(ctx); err != nil {
		t.Fatalf("second fetch returned error: %v", err)
	}

	if store.fetchCalls != 1 {
		t.Errorf("store saw %d fetches; want 1 (second served from cache)", store.fetchCalls)
	}
}

func TestInsertInvalidatesListingsCache(t *testing.T) {
	store := newMemStore()
	repo := newTestRepo(store)
	ctx := context.Background()

	if _, err := repo.FetchListings(ctx); err != nil {
		t.Fatalf("priming fetch returned error: %v", err)
	}
	if _, err := repo.Insert(ctx, draft()); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	listings, err := repo.FetchListings(ctx)
	if err != nil {
		t.Fatalf("fetch after insert returned error: %v", err)
	}
	if len(listings) != 1 {
		t.Errorf("fetch after insert saw %d listings; want the new row", len(listings))
	}
	if store.fetchCalls != 2 {
		t.Errorf("store saw %d fetches; want 2 (cache invalidated by insert)", store.fetchCalls)
	}
}

func TestFetchDefaultLocation(t *testing.T) {
	store := newMemStore()
	store.locations["default_location"] = []models.DefaultLocation{
		{Title: "Office", Latitude: 18.7961, Longitude: 98.9772},
	}
	repo := newTestRepo(store)

	loc, err := repo.FetchDefaultLocation(context.Background())
	if err != nil {
		t.Fatalf("FetchDefaultLocation returned error: %v", err)
	}
	if loc.Title != "Office" || loc.Latitude != 18.7961 || loc.Longitude != 98.9772 {
		t.Errorf("got %+v; want the provisioned row", loc)
	}
}

func TestFetchDefaultLocationZeroRows(t *testing.T) {
	repo := newTestRepo(newMemStore())

	_, err := repo.FetchDefaultLocation(context.Background())
	if !errors.Is(err, ErrNoDefaultLocation) {
		t.Errorf("got %v; want ErrNoDefaultLocation", err)
	}
}

func TestFetchDefaultLocationFirstRowWins(t *testing.T) {
	store := newMemStore()
	store.locations["default_location"] = []models.DefaultLocation{
		{Title: "First", Latitude: 1, Longitude: 2},
		{Title: "Second", Latitude: 3, Longitude: 4},
	}
	repo := newTestRepo(store)

	loc, err := repo.FetchDefaultLocation(context.Background())
	if err != nil {
		t.Fatalf("FetchDefaultLocation returned error: %v", err)
	}
	if loc.Title != "First" {
		t.Errorf("got %q; want the first row", loc.Title)
	}
}

func TestStoreErrorSurfaces(t *testing.T) {
	store := newMemStore()
	store.fetchErr = errors.New("connection reset")
	repo := newTestRepo(store)

	if _, err := repo.FetchListings(context.Background()); err == nil {
		t.Error("FetchListings swallowed a store error")
	}
	if _, err := repo.FetchDefaultLocation(context.Background()); err == nil {
		t.Error("FetchDefaultLocation swallowed a store error")
	}
	if store.fetchCalls != 2 {
		t.Errorf("store saw %d fetches; want 2 (no retries)", store.fetchCalls)
	}
}

func TestTableForUnknownSelector(t *testing.T) {
	repo := newTestRepo(newMemStore())

	if _, err := repo.tableFor(Table("favorites")); !errors.Is(err, ErrInvalidTable) {
		t.Errorf("got %v; want ErrInvalidTable", err)
	}
}
