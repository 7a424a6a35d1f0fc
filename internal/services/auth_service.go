package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rojgarsetu/backend/internal/apperrors"
	"github.com/rojgarsetu/backend/internal/config"
	"github.com/rojgarsetu/backend/internal/models"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type AuthService struct {
	users    UserStore
	secret   string
	tokenTTL time.Duration
	logger   *zap.Logger
}

func NewAuthService(users UserStore, cfg config.JWTConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		secret:   cfg.Secret,
		tokenTTL: time.Duration(cfg.ExpirationHours) * time.Hour,
		logger:   logger,
	}
}

// Login authenticates a user and returns a signed JWT plus the record.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", models.User{}, apperrors.Unauthorized("invalid credentials")
	}
	if !VerifyPassword(password, user.Password) {
		return "", models.User{}, apperrors.Unauthorized("invalid credentials")
	}
	if user.Status == models.StatusInactive {
		return "", models.User{}, apperrors.Forbidden("account is inactive")
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return "", models.User{}, apperrors.Internal(err)
	}

	user.Password = ""
	return token, user, nil
}

// GenerateToken signs a JWT carrying the user id, role and privilege flag.
func (s *AuthService) GenerateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":        user.ID.Hex(),
		"role":           user.Role,
		"is_super_admin": user.IsSuperAdmin,
		"exp":            time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// ChangePassword verifies the current password, stores the new hash and
// clears the first-login flag.
func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !VerifyPassword(currentPassword, user.Password) {
		return apperrors.Unauthorized("current password is incorrect")
	}
	if len(newPassword) < 8 {
		return apperrors.Validation("password must be at least 8 characters long")
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return apperrors.Internal(err)
	}

	_, err = s.users.ApplyPatch(ctx, userID, bson.M{
		"password":    hashed,
		"first_login": false,
		"updated_at":  time.Now(),
	}, nil)
	return err
}
