//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	bookingsrepository "staybook/internal/bookings/repository"
	couponsrepository "staybook/internal/coupons/repository"
	listingsrepository "staybook/internal/listings/repository"
	"staybook/pkg/model"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "staybook"
	ConnectionTimeout   = 10 * time.Second
)

// MongoHelper seeds what the services only read (listings) and inspects
// what they write.
type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	require.NoError(t, err, "connect to MongoDB")
	require.NoError(t, client.Ping(ctx, nil), "ping MongoDB")

	return &MongoHelper{Client: client, Database: client.Database(dbName)}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// CleanCollections empties the collections but keeps validators and indexes
// created by the migration job.
func (m *MongoHelper) CleanCollections(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, name := range []string{
		bookingsrepository.CollectionName,
		couponsrepository.CollectionName,
		listingsrepository.CollectionName,
	} {
		_, err := m.Database.Collection(name).DeleteMany(ctx, bson.M{})
		require.NoError(t, err, "clean %s", name)
	}
}

func (m *MongoHelper) InsertListing(t *testing.T, listing *model.Listing) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := m.Database.Collection(listingsrepository.CollectionName).InsertOne(ctx, listing)
	require.NoError(t, err)
	oid, ok := res.InsertedID.(primitive.ObjectID)
	require.True(t, ok)
	listing.ID = oid.Hex()
	return listing.ID
}

func (m *MongoHelper) CountBookings(t *testing.T) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := m.Database.Collection(bookingsrepository.CollectionName).CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	return count
}
