package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongoDB initializes the database connection
func ConnectMongoDB(uri, dbName string) *mongo.Database {
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}

	// Ping the database to verify connection
	err = client.Ping(ctx, nil)
	if err != nil {
		log.Fatalf("MongoDB ping failed: %v", err)
	}

	fmt.Println("✅ Connected to MongoDB")
	return client.Database(dbName)
}

// NewResumeBucket returns the GridFS bucket holding uploaded resumes.
func NewResumeBucket(database *mongo.Database) *gridfs.Bucket {
	bucket, err := gridfs.NewBucket(database, options.GridFSBucket().SetName("resumes"))
	if err != nil {
		log.Fatalf("Failed to create GridFS bucket: %v", err)
	}
	return bucket
}
