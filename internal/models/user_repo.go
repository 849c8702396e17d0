package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	// FindCredentialConflict returns any user other than exclude that
	// already holds the given email or username. Pass primitive.NilObjectID
	// to probe against the whole collection.
	FindCredentialConflict(ctx context.Context, email, username string, exclude primitive.ObjectID) (*User, error)
	UpdateUserFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*User, error)
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID, when time.Time) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	MergePreferences(ctx context.Context, id primitive.ObjectID, patch PreferencesPatch) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UserStats(ctx context.Context) (*UserStats, error)
	SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) (*User, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role string) (*User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

func (mdb *MongodbRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	if err := user.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare user for creation: %w", err)
	}
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	if _, err := col.InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}
	return user, nil
}

func (mdb *MongodbRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	var user User
	err = col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding user by email: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	var user User
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding user by ID: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) FindCredentialConflict(ctx context.Context, email, username string, exclude primitive.ObjectID) (*User, error) {
	or := bson.A{}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if len(or) == 0 {
		return nil, nil
	}

	filter := bson.M{"$or": or}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}

	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	var user User
	err = col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error probing credential conflict: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) UpdateUserFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*User, error) {
	if len(fields) == 0 {
		return mdb.GetUserByID(ctx, id)
	}
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{}
	for key, value := range fields {
		set[key] = value
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated User
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %v", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, when time.Time) error {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"lastLogin": when}})
	if err != nil {
		return fmt.Errorf("failed to update last login: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password": hash}})
	if err != nil {
		return fmt.Errorf("failed to update password: %v", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MergePreferences sets only the supplied preference keys so unspecified
// ones keep their stored values.
func (mdb *MongodbRepo) MergePreferences(ctx context.Context, id primitive.ObjectID, patch PreferencesPatch) (*User, error) {
	set := bson.M{}
	if patch.Theme != nil {
		set["preferences.theme"] = *patch.Theme
	}
	if patch.EmailNotifications != nil {
		set["preferences.emailNotifications"] = *patch.EmailNotifications
	}
	if patch.AppNotifications != nil {
		set["preferences.appNotifications"] = *patch.AppNotifications
	}
	if len(set) == 0 {
		return mdb.GetUserByID(ctx, id)
	}

	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated User
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to merge preferences: %v", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) ListUsers(ctx context.Context) ([]*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []*User
	for cursor.Next(ctx) {
		var user User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("error decoding user: %v", err)
		}
		users = append(users, &user)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return users, nil
}

func (mdb *MongodbRepo) UserStats(ctx context.Context) (*UserStats, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	counts := []struct {
		dst    *int64
		filter bson.M
	}{
		{nil, bson.M{}}, // total, filled below
		{nil, bson.M{"isBlocked": false}},
		{nil, bson.M{"isBlocked": true}},
		{nil, bson.M{"role": RoleAdmin}},
		{nil, bson.M{"createdAt": bson.M{"$gte": now.AddDate(0, 0, -30)}}},
		{nil, bson.M{"lastLogin": bson.M{"$gte": now.Add(-24 * time.Hour)}}},
	}

	stats := &UserStats{}
	counts[0].dst = &stats.TotalUsers
	counts[1].dst = &stats.ActiveUsers
	counts[2].dst = &stats.BlockedUsers
	counts[3].dst = &stats.AdminUsers
	counts[4].dst = &stats.RecentRegistrations
	counts[5].dst = &stats.RecentlyActive

	for _, c := range counts {
		n, err := col.CountDocuments(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("error counting users: %v", err)
		}
		*c.dst = n
	}
	return stats, nil
}

func (mdb *MongodbRepo) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) (*User, error) {
	return mdb.UpdateUserFields(ctx, id, map[string]interface{}{"isBlocked": blocked})
}

func (mdb *MongodbRepo) SetRole(ctx context.Context, id primitive.ObjectID, role string) (*User, error) {
	if role != RoleUser && role != RoleAdmin {
		return nil, ErrInvalidRole
	}
	return mdb.UpdateUserFields(ctx, id, map[string]interface{}{"role": role})
}

func (mdb *MongodbRepo) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %v", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
