package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UploadRepo interface {
	CreateUpload(ctx context.Context, upload *Upload) (*Upload, error)
	// ListUploadsByUser returns the owner's uploads newest first.
	ListUploadsByUser(ctx context.Context, userID primitive.ObjectID) ([]*Upload, error)
	GetUploadByID(ctx context.Context, id primitive.ObjectID) (*Upload, error)
	// DeleteOwnedUpload removes the record only when it belongs to userID;
	// a foreign or unknown id both come back as ErrNotFound.
	DeleteOwnedUpload(ctx context.Context, id, userID primitive.ObjectID) (*Upload, error)
	CountUploadsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	LatestUploadByUser(ctx context.Context, userID primitive.ObjectID) (*Upload, error)
}

func (mdb *MongodbRepo) CreateUpload(ctx context.Context, upload *Upload) (*Upload, error) {
	if err := Validate.Struct(upload); err != nil {
		return nil, fmt.Errorf("invalid upload data: %w", err)
	}
	if err := upload.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare upload for creation: %w", err)
	}
	col, err := mdb.GetCollection(ctx, UploadsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	if _, err := col.InsertOne(ctx, upload); err != nil {
		return nil, fmt.Errorf("failed to insert upload: %v", err)
	}
	return upload, nil
}

func (mdb *MongodbRepo) ListUploadsByUser(ctx context.Context, userID primitive.ObjectID) ([]*Upload, error) {
	col, err := mdb.GetCollection(ctx, UploadsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding uploads: %v", err)
	}
	defer cursor.Close(ctx)

	var uploads []*Upload
	for cursor.Next(ctx) {
		var upload Upload
		if err := cursor.Decode(&upload); err != nil {
			return nil, fmt.Errorf("error decoding upload: %v", err)
		}
		uploads = append(uploads, &upload)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return uploads, nil
}

func (mdb *MongodbRepo) GetUploadByID(ctx context.Context, id primitive.ObjectID) (*Upload, error) {
	col, err := mdb.GetCollection(ctx, UploadsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	var upload Upload
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&upload)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding upload by ID: %v", err)
	}
	return &upload, nil
}

func (mdb *MongodbRepo) DeleteOwnedUpload(ctx context.Context, id, userID primitive.ObjectID) (*Upload, error) {
	col, err := mdb.GetCollection(ctx, UploadsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	var deleted Upload
	err = col.FindOneAndDelete(ctx, bson.M{"_id": id, "user": userID}).Decode(&deleted)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error deleting upload: %v", err)
	}
	return &deleted, nil
}

func (mdb *MongodbRepo) CountUploadsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	col, err := mdb.GetCollection(ctx, UploadsColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}
	n, err := col.CountDocuments(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, fmt.Errorf("error counting uploads: %v", err)
	}
	return n, nil
}

func (mdb *MongodbRepo) LatestUploadByUser(ctx context.Context, userID primitive.ObjectID) (*Upload, error) {
	col, err := mdb.GetCollection(ctx, UploadsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})

	var upload Upload
	err = col.FindOne(ctx, bson.M{"user": userID}, opts).Decode(&upload)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding latest upload: %v", err)
	}
	return &upload, nil
}
