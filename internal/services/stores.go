package services

import (
	"context"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rojgarsetu/backend/internal/models"
)

// UserStore is the identity abstraction over the user and referrer
// collections. Email lookups cover both; a single uniqueness answer
// comes out regardless of which collection holds the record.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, user models.User) error
	ApplyPatch(ctx context.Context, id primitive.ObjectID, set bson.M, unset []string) (models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]models.User, error)
}

type JobStore interface {
	Insert(ctx context.Context, job models.Job) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Job, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (models.Job, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter bson.M) ([]models.Job, error)
	InsertApplication(ctx context.Context, application models.Application) error
	HasApplied(ctx context.Context, jobID, seekerID primitive.ObjectID) (bool, error)
	ListApplications(ctx context.Context, jobID primitive.ObjectID) ([]models.Application, error)
	FindApplication(ctx context.Context, id primitive.ObjectID) (models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

type ReferralStore interface {
	Insert(ctx context.Context, code models.ReferralCode) error
	FindByCode(ctx context.Context, code string) (models.ReferralCode, error)
	MarkUsed(ctx context.Context, code string, usedAt time.Time) (models.ReferralCode, error)
	List(ctx context.Context) ([]models.ReferralCode, error)
}

// ObjectStore is the object-storage surface used for company logos.
type ObjectStore interface {
	Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	Remove(ctx context.Context, objectName string) error
}
