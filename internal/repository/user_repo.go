package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rojgarsetu/backend/internal/apperrors"
	"github.com/rojgarsetu/backend/internal/models"
)

// UserRepo stores accounts in the users collection. Referrer accounts
// created by the legacy flow live in a separate referrers collection;
// identity lookups consult both so an email is unique across the pair.
type UserRepo struct {
	users     *mongo.Collection
	referrers *mongo.Collection
}

func NewUserRepo(database *mongo.Database) *UserRepo {
	return &UserRepo{
		users:     database.Collection("users"),
		referrers: database.Collection("referrers"),
	}
}

// EnsureIndexes creates the unique email indexes. Concurrent creation
// of the same email races down to these; the loser gets a duplicate
// key error which surfaces as DuplicateEmail.
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.users.Indexes().CreateOne(ctx, model); err != nil {
		return err
	}
	_, err := r.referrers.Indexes().CreateOne(ctx, model)
	return err
}

func (r *UserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = r.referrers.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperrors.NotFound("user not found")
	}
	return user, err
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = r.referrers.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperrors.NotFound("user not found")
	}
	return user, err
}

// EmailExists checks both backing collections in parallel.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	type countResult struct {
		n   int64
		err error
	}
	usersChan := make(chan countResult, 1)
	referrersChan := make(chan countResult, 1)

	go func() {
		n, err := r.users.CountDocuments(ctx, bson.M{"email": email})
		usersChan <- countResult{n, err}
	}()
	go func() {
		n, err := r.referrers.CountDocuments(ctx, bson.M{"email": email})
		referrersChan <- countResult{n, err}
	}()

	usersRes := <-usersChan
	referrersRes := <-referrersChan
	if usersRes.err != nil {
		return false, usersRes.err
	}
	if referrersRes.err != nil {
		return false, referrersRes.err
	}
	return usersRes.n > 0 || referrersRes.n > 0, nil
}

func (r *UserRepo) Insert(ctx context.Context, user models.User) error {
	_, err := r.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.Duplicate("email already in use")
	}
	return err
}

// ApplyPatch applies a set map and an unset field list in a single
// atomic update and returns the resulting document. Like the lookups,
// it falls back to the legacy referrers collection, so a record the
// read path serves is always mutable too.
func (r *UserRepo) ApplyPatch(ctx context.Context, id primitive.ObjectID, set bson.M, unset []string) (models.User, error) {
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		unsetDoc := bson.M{}
		for _, field := range unset {
			unsetDoc[field] = ""
		}
		update["$unset"] = unsetDoc
	}
	if len(update) == 0 {
		return r.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = r.referrers.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperrors.NotFound("user not found")
	}
	return updated, err
}

// Delete removes a record from whichever collection holds it.
func (r *UserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		result, err = r.referrers.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
