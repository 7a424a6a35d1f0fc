package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rojgarsetu/backend/internal/apperrors"
	"github.com/rojgarsetu/backend/internal/models"
)

type ReferralRepo struct {
	codes *mongo.Collection
}

func NewReferralRepo(database *mongo.Database) *ReferralRepo {
	return &ReferralRepo{codes: database.Collection("referral_codes")}
}

func (r *ReferralRepo) Insert(ctx context.Context, code models.ReferralCode) error {
	_, err := r.codes.InsertOne(ctx, code)
	return err
}

func (r *ReferralRepo) FindByCode(ctx context.Context, code string) (models.ReferralCode, error) {
	var referral models.ReferralCode
	err := r.codes.FindOne(ctx, bson.M{"code": code}).Decode(&referral)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ReferralCode{}, apperrors.NotFound("referral code not found")
	}
	return referral, err
}

// MarkUsed flips is_used atomically; it only matches an unused code, so
// two concurrent redemptions cannot both succeed.
func (r *ReferralRepo) MarkUsed(ctx context.Context, code string, usedAt time.Time) (models.ReferralCode, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"is_used": true, "used_at": usedAt}}
	var referral models.ReferralCode
	err := r.codes.FindOneAndUpdate(ctx, bson.M{"code": code, "is_used": false}, update, opts).Decode(&referral)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ReferralCode{}, apperrors.NotFound("referral code not found")
	}
	return referral, err
}

func (r *ReferralRepo) List(ctx context.Context) ([]models.ReferralCode, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.codes.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var codes []models.ReferralCode
	if err := cursor.All(ctx, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}
