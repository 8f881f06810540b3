package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cmrentals/property_map_service/models"
)

// MongoStore is the default Store implementation, backed by one MongoDB
// database. Each logical table maps to a collection of the same name.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to MongoDB, pings it, and returns a ready
// store.
func NewMongoStore(uri, dbName string) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: MONGOURI not set in environment")
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	log.Println("Connected to MongoDB")
	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

// listingDoc is the stored row shape: has_desk persists as 0/1 and a
// failed extraction leaves the coordinate fields absent, not zeroed.
type listingDoc struct {
	Title          string   `bson:"title"`
	ListingURL     string   `bson:"listing_url,omitempty"`
	MapURL         string   `bson:"map_url"`
	Latitude       *float64 `bson:"latitude,omitempty"`
	Longitude      *float64 `bson:"longitude,omitempty"`
	Price          int      `bson:"price"`
	ContractLength int      `bson:"contract_length"`
	HasDesk        int      `bson:"has_desk"`
	DateAdded      string   `bson:"date_added"`
	Description    string   `bson:"description,omitempty"`
	Status         int      `bson:"availability_status"`
	StatusNote     string   `bson:"status_note,omitempty"`
	ImageURL       string   `bson:"image_url,omitempty"`
}

type defaultLocationDoc struct {
	Title     string  `bson:"title"`
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
}

func docFromListing(l models.Listing) listingDoc {
	hasDesk := 0
	if l.HasDesk {
		hasDesk = 1
	}
	return listingDoc{
		Title:          l.Title,
		ListingURL:     l.ListingURL,
		MapURL:         l.MapURL,
		Latitude:       l.Latitude,
		Longitude:      l.Longitude,
		Price:          l.Price,
		ContractLength: l.ContractLength,
		HasDesk:        hasDesk,
		DateAdded:      l.DateAdded,
		Description:    l.Description,
		Status:         int(l.Status),
		StatusNote:     l.StatusNote,
		ImageURL:       l.ImageURL,
	}
}

func listingFromDoc(d listingDoc) models.Listing {
	return models.Listing{
		Title:          d.Title,
		ListingURL:     d.ListingURL,
		MapURL:         d.MapURL,
		Latitude:       d.Latitude,
		Longitude:      d.Longitude,
		Price:          d.Price,
		ContractLength: d.ContractLength,
		HasDesk:        d.HasDesk != 0,
		DateAdded:      d.DateAdded,
		Description:    d.Description,
		Status:         models.AvailabilityStatus(d.Status),
		StatusNote:     d.StatusNote,
		ImageURL:       d.ImageURL,
	}
}

func (s *MongoStore) InsertListing(ctx context.Context, table string, l models.Listing) error {
	if _, err := s.db.Collection(table).InsertOne(ctx, docFromListing(l)); err != nil {
		return fmt.Errorf("mongo: insert into %s: %w", table, err)
	}
	return nil
}

func (s *MongoStore) FetchListings(ctx context.Context, table string) ([]models.Listing, error) {
	cursor, err := s.db.Collection(table).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo: find in %s: %w", table, err)
	}

	var docs []listingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode %s rows: %w", table, err)
	}

	listings := make([]models.Listing, 0, len(docs))
	for _, d := range docs {
		listings = append(listings, listingFromDoc(d))
	}
	return listings, nil
}

func (s *MongoStore) FetchDefaultLocations(ctx context.Context, table string) ([]models.DefaultLocation, error) {
	cursor, err := s.db.Collection(table).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo: find in %s: %w", table, err)
	}

	var docs []defaultLocationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode %s rows: %w", table, err)
	}

	locations := make([]models.DefaultLocation, 0, len(docs))
	for _, d := range docs {
		locations = append(locations, models.DefaultLocation{
			Title:     d.Title,
			Latitude:  d.Latitude,
			Longitude: d.Longitude,
		})
	}
	return locations, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo: disconnect: %w", err)
	}
	log.Println("MongoDB connection closed")
	return nil
}
