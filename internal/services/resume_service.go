package services

import (
	"context"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.uber.org/zap"

	"github.com/rojgarsetu/backend/internal/apperrors"
	"github.com/rojgarsetu/backend/internal/models"
)

// ResumeService streams seeker resumes in and out of GridFS. The file
// id on the user record is only ever mutated here.
type ResumeService struct {
	bucket *gridfs.Bucket
	users  UserStore
	logger *zap.Logger
}

func NewResumeService(bucket *gridfs.Bucket, users UserStore, logger *zap.Logger) *ResumeService {
	return &ResumeService{bucket: bucket, users: users, logger: logger}
}

// Upload stores a new resume and points the seeker's record at it. A
// previously stored file is deleted best-effort.
func (s *ResumeService) Upload(ctx context.Context, userID primitive.ObjectID, filename string, reader io.Reader) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if user.Role != models.RoleJobSeeker {
		return models.User{}, apperrors.Forbidden("only job seekers can upload a resume")
	}

	if !user.ResumeFileID.IsZero() {
		if err := s.bucket.Delete(user.ResumeFileID); err != nil {
			s.logger.Warn("failed to delete previous resume",
				zap.String("user_id", userID.Hex()),
				zap.Error(err))
		}
	}

	fileID, err := s.bucket.UploadFromStream(filename, reader)
	if err != nil {
		return models.User{}, apperrors.Internal(err)
	}

	updated, err := s.users.ApplyPatch(ctx, userID, bson.M{
		"resume_file_id":  fileID,
		"resume_filename": filename,
		"updated_at":      time.Now(),
	}, nil)
	if err != nil {
		return models.User{}, err
	}
	updated.Password = ""
	return updated, nil
}

// Download streams the stored resume of the given user to w. Only the
// owner or an admin may read it.
func (s *ResumeService) Download(ctx context.Context, requesterID, requesterRole string, userID primitive.ObjectID, w io.Writer) (string, error) {
	if requesterRole != models.RoleAdmin && requesterID != userID.Hex() {
		return "", apperrors.Forbidden("you can only download your own resume")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.ResumeFileID.IsZero() {
		return "", apperrors.NotFound("no resume uploaded")
	}

	if _, err := s.bucket.DownloadToStream(user.ResumeFileID, w); err != nil {
		return "", apperrors.Internal(err)
	}
	return user.ResumeFilename, nil
}
