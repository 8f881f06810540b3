package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"github.com/cmrentals/property_map_service/models"
)

// PostgresStore is the alternate Store implementation over PostgreSQL,
// selected with STORE_BACKEND=postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection, waits for the server to answer
// pings, and creates the two tables if they do not exist yet. The ping
// retry covers slow container startup only; request-path operations
// never retry.
func NewPostgresStore(dsn, listingsTable, defaultLocationTable string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(listingsTable, defaultLocationTable); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	log.Println("Connected to PostgreSQL")
	return ps, nil
}

// migrate creates the dev-convenience schema. The listings table has no
// uniqueness constraint on purpose: repeated identical inserts append
// duplicate rows.
func (ps *PostgresStore) migrate(listingsTable, defaultLocationTable string) error {
	_, err := ps.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id                  SERIAL PRIMARY KEY,
			title               TEXT     NOT NULL,
			listing_url         TEXT     NOT NULL DEFAULT '',
			map_url             TEXT     NOT NULL DEFAULT '',
			latitude            DOUBLE PRECISION,
			longitude           DOUBLE PRECISION,
			price               INTEGER  NOT NULL DEFAULT 0,
			contract_length     INTEGER  NOT NULL DEFAULT 0,
			has_desk            SMALLINT NOT NULL DEFAULT 0,
			date_added          DATE     NOT NULL,
			description         TEXT     NOT NULL DEFAULT '',
			availability_status SMALLINT NOT NULL DEFAULT 2,
			status_note         TEXT     NOT NULL DEFAULT '',
			image_url           TEXT     NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS %s (
			id        SERIAL PRIMARY KEY,
			title     TEXT             NOT NULL,
			latitude  DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL
		);
	`, pq.QuoteIdentifier(listingsTable), pq.QuoteIdentifier(defaultLocationTable)))
	return err
}

func (ps *PostgresStore) InsertListing(ctx context.Context, table string, l models.Listing) error {
	hasDesk := 0
	if l.HasDesk {
		hasDesk = 1
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (title, listing_url, map_url, latitude, longitude, price,
			contract_length, has_desk, date_added, description,
			availability_status, status_note, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, pq.QuoteIdentifier(table))

	_, err := ps.db.ExecContext(ctx, query,
		l.Title, l.ListingURL, l.MapURL, l.Latitude, l.Longitude, l.Price,
		l.ContractLength, hasDesk, l.DateAdded, l.Description,
		int(l.Status), l.StatusNote, l.ImageURL)
	if err != nil {
		return fmt.Errorf("postgres: insert into %s: %w", table, err)
	}
	return nil
}

func (ps *PostgresStore) FetchListings(ctx context.Context, table string) ([]models.Listing, error) {
	query := fmt.Sprintf(`
		SELECT title, listing_url, map_url, latitude, longitude, price,
			contract_length, has_desk, to_char(date_added, 'YYYY-MM-DD'),
			description, availability_status, status_note, image_url
		FROM %s
		ORDER BY id
	`, pq.QuoteIdentifier(table))

	rows, err := ps.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: select from %s: %w", table, err)
	}
	defer rows.Close()

	listings := make([]models.Listing, 0)
	for rows.Next() {
		var (
			l        models.Listing
			lat, lon sql.NullFloat64
			hasDesk  int
			status   int
		)
		if err := rows.Scan(&l.Title, &l.ListingURL, &l.MapURL, &lat, &lon, &l.Price,
			&l.ContractLength, &hasDesk, &l.DateAdded,
			&l.Description, &status, &l.StatusNote, &l.ImageURL); err != nil {
			return nil, fmt.Errorf("postgres: scan %s row: %w", table, err)
		}
		if lat.Valid && lon.Valid {
			l.Latitude = &lat.Float64
			l.Longitude = &lon.Float64
		}
		l.HasDesk = hasDesk != 0
		l.Status = models.AvailabilityStatus(status)
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate %s rows: %w", table, err)
	}
	return listings, nil
}

func (ps *PostgresStore) FetchDefaultLocations(ctx context.Context, table string) ([]models.DefaultLocation, error) {
	query := fmt.Sprintf(`
		SELECT title, latitude, longitude FROM %s ORDER BY id
	`, pq.QuoteIdentifier(table))

	rows, err := ps.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: select from %s: %w", table, err)
	}
	defer rows.Close()

	locations := make([]models.DefaultLocation, 0)
	for rows.Next() {
		var loc models.DefaultLocation
		if err := rows.Scan(&loc.Title, &loc.Latitude, &loc.Longitude); err != nil {
			return nil, fmt.Errorf("postgres: scan %s row: %w", table, err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate %s rows: %w", table, err)
	}
	return locations, nil
}

func (ps *PostgresStore) Ping(ctx context.Context) error {
	return ps.db.PingContext(ctx)
}

func (ps *PostgresStore) Close(ctx context.Context) error {
	if err := ps.db.Close(); err != nil {
		return fmt.Errorf("postgres: close: %w", err)
	}
	log.Println("PostgreSQL connection closed")
	return nil
}
