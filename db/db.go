package db

import (
	"context"
	"log"
	"time"

	"github.com/craftingshard/tour-website-sub000/globals"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ToursCollection         *mongo.Collection
	AdminToursCollection    *mongo.Collection
	BookingsCollection      *mongo.Collection
	ReviewsCollection       *mongo.Collection
	RefundsCollection       *mongo.Collection
	NotificationsCollection *mongo.Collection
	UserCollection          *mongo.Collection
	AdminUsersCollection    *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := globals.Getenv("MONGODB_URI", "mongodb://localhost:27017")
	dbName := globals.Getenv("MONGO_DB", "tourdb")

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	ToursCollection = Client.Database(dbName).Collection("tours")
	AdminToursCollection = Client.Database(dbName).Collection("admintours")
	BookingsCollection = Client.Database(dbName).Collection("bookings")
	ReviewsCollection = Client.Database(dbName).Collection("reviews")
	RefundsCollection = Client.Database(dbName).Collection("refunds")
	NotificationsCollection = Client.Database(dbName).Collection("notifications")
	UserCollection = Client.Database(dbName).Collection("users")
	AdminUsersCollection = Client.Database(dbName).Collection("admusers")
}

// EnsureIndexes creates the query indexes the ledger and aggregator rely on.
// The composite booking index backs the duplicate check; it is intentionally
// not unique because cancelled and refunded bookings may share the same
// (userId, tourId, startDate) triple with an active one.
func EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := BookingsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "tourId", Value: 1}, {Key: "startDate", Value: 1}}},
		{Keys: bson.D{{Key: "tourId", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = ReviewsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tourId", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = NotificationsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "role", Value: 1}, {Key: "read", Value: 1}},
	})
	return err
}
