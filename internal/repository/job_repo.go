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

type JobRepo struct {
	jobs         *mongo.Collection
	applications *mongo.Collection
}

func NewJobRepo(database *mongo.Database) *JobRepo {
	return &JobRepo{
		jobs:         database.Collection("jobs"),
		applications: database.Collection("applications"),
	}
}

func (r *JobRepo) Insert(ctx context.Context, job models.Job) error {
	_, err := r.jobs.InsertOne(ctx, job)
	return err
}

func (r *JobRepo) FindByID(ctx context.Context, id primitive.ObjectID) (models.Job, error) {
	var job models.Job
	err := r.jobs.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Job{}, apperrors.NotFound("job not found")
	}
	return job, err
}

func (r *JobRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (models.Job, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Job
	err := r.jobs.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Job{}, apperrors.NotFound("job not found")
	}
	return updated, err
}

func (r *JobRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.jobs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("job not found")
	}
	return nil
}

func (r *JobRepo) List(ctx context.Context, filter bson.M) ([]models.Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.jobs.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []models.Job
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *JobRepo) InsertApplication(ctx context.Context, application models.Application) error {
	_, err := r.applications.InsertOne(ctx, application)
	return err
}

func (r *JobRepo) HasApplied(ctx context.Context, jobID, seekerID primitive.ObjectID) (bool, error) {
	n, err := r.applications.CountDocuments(ctx, bson.M{"job_id": jobID, "seeker_id": seekerID})
	return n > 0, err
}

func (r *JobRepo) ListApplications(ctx context.Context, jobID primitive.ObjectID) ([]models.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "applied_at", Value: -1}})
	cursor, err := r.applications.Find(ctx, bson.M{"job_id": jobID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var applications []models.Application
	if err := cursor.All(ctx, &applications); err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *JobRepo) FindApplication(ctx context.Context, id primitive.ObjectID) (models.Application, error) {
	var application models.Application
	err := r.applications.FindOne(ctx, bson.M{"_id": id}).Decode(&application)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Application{}, apperrors.NotFound("application not found")
	}
	return application, err
}

func (r *JobRepo) UpdateApplicationStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	result, err := r.applications.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("application not found")
	}
	return nil
}
