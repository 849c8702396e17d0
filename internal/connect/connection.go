package connect

import (
	"context"
	"fmt"
	"time"

	"github.com/chartsheet/server/internal/config"
	"github.com/cloudinary/cloudinary-go/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoDBClient *mongo.Client

func MongoDBConnect(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)

	var err error
	MongoDBClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	if err := MongoDBClient.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	return MongoDBClient, nil
}

func MongoDBDisconnect() error {
	if MongoDBClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := MongoDBClient.Disconnect(ctx)
	if err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %v", err)
	}
	MongoDBClient = nil
	return nil
}

// CloudinaryFromConfig builds a Cloudinary client from either the single
// URL credential or the three separate variables. Returns (nil, nil) when
// neither is configured, which switches avatar storage to local disk.
func CloudinaryFromConfig(cfg *config.Config) (*cloudinary.Cloudinary, error) {
	if !cfg.CloudinaryConfigured() {
		return nil, nil
	}

	if cfg.CloudinaryURL != "" {
		cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Cloudinary from URL: %v", err)
		}
		return cld, nil
	}

	cld, err := cloudinary.NewFromParams(
		cfg.CloudinaryName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinarySecret,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %v", err)
	}
	return cld, nil
}
