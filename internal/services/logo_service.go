package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rojgarsetu/backend/internal/apperrors"
	"github.com/rojgarsetu/backend/internal/models"
)

const logoURLExpiry = time.Hour

// LogoService keeps poster company logos in the object store and hands
// out presigned download URLs.
type LogoService struct {
	store  ObjectStore
	users  UserStore
	logger *zap.Logger
}

func NewLogoService(store ObjectStore, users UserStore, logger *zap.Logger) *LogoService {
	return &LogoService{store: store, users: users, logger: logger}
}

// Upload replaces the poster's company logo.
func (s *LogoService) Upload(ctx context.Context, userID primitive.ObjectID, filename, contentType string, size int64, reader io.Reader) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if user.Role != models.RoleJobPoster {
		return models.User{}, apperrors.Forbidden("only job posters can upload a company logo")
	}

	objectName := fmt.Sprintf("%s_%s", userID.Hex(), filename)
	if err := s.store.Put(ctx, objectName, reader, size, contentType); err != nil {
		return models.User{}, apperrors.Internal(err)
	}

	if user.LogoObject != "" && user.LogoObject != objectName {
		if err := s.store.Remove(ctx, user.LogoObject); err != nil {
			s.logger.Warn("failed to delete previous logo",
				zap.String("object", user.LogoObject),
				zap.Error(err))
		}
	}

	updated, err := s.users.ApplyPatch(ctx, userID, bson.M{
		"logo_object": objectName,
		"updated_at":  time.Now(),
	}, nil)
	if err != nil {
		return models.User{}, err
	}
	updated.Password = ""
	return updated, nil
}

// URL returns a presigned download link for a poster's logo.
func (s *LogoService) URL(ctx context.Context, userID primitive.ObjectID) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.LogoObject == "" {
		return "", apperrors.NotFound("no logo uploaded")
	}

	url, err := s.store.PresignedURL(ctx, user.LogoObject, logoURLExpiry)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return url, nil
}
