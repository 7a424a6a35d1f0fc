package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rojgarsetu/backend/internal/apperrors"
	"github.com/rojgarsetu/backend/internal/mailer"
	"github.com/rojgarsetu/backend/internal/middleware"
	"github.com/rojgarsetu/backend/internal/models"
	"github.com/rojgarsetu/backend/internal/services"
)

const testJWTSecret = "handler-test-secret"

// memUserStore is a minimal in-memory services.UserStore for routing tests.
type memUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (m *memUserStore) add(user models.User) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = user
	return user
}

func (m *memUserStore) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return models.User{}, apperrors.NotFound("user not found")
	}
	return user, nil
}

func (m *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, apperrors.NotFound("user not found")
}

func (m *memUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(context.Background(), email)
	return err == nil, nil
}

func (m *memUserStore) Insert(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return apperrors.Duplicate("email already in use")
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUserStore) ApplyPatch(_ context.Context, id primitive.ObjectID, set bson.M, unset []string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return models.User{}, apperrors.NotFound("user not found")
	}

	raw, err := bson.Marshal(user)
	if err != nil {
		return models.User{}, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return models.User{}, err
	}
	for key, value := range set {
		doc[key] = value
	}
	for _, key := range unset {
		delete(doc, key)
	}
	raw, err = bson.Marshal(doc)
	if err != nil {
		return models.User{}, err
	}
	var updated models.User
	if err := bson.Unmarshal(raw, &updated); err != nil {
		return models.User{}, err
	}
	m.users[id] = updated
	return updated, nil
}

func (m *memUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return apperrors.NotFound("user not found")
	}
	delete(m.users, id)
	return nil
}

func (m *memUserStore) List(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	return users, nil
}

type noopSender struct{}

func (noopSender) Send(context.Context, mailer.Email) error { return nil }

// newUserApp wires the user routes the way main.go does, over the
// in-memory store.
func newUserApp(store *memUserStore) *fiber.App {
	userService := services.NewUserService(store, noopSender{}, zap.NewNop(), "Rojgar Setu", "http://localhost/login")
	userHandler := NewUserHandler(userService)

	app := fiber.New()
	protected := middleware.Protected(testJWTSecret)

	users := app.Group("/users", protected, middleware.RequireAdmin())
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	profile := app.Group("/profile", protected)
	profile.Get("/", userHandler.GetProfile)
	profile.Put("/", userHandler.UpdateProfile)

	return app
}

func signToken(t *testing.T, user models.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id":        user.ID.Hex(),
		"role":           user.Role,
		"is_super_admin": user.IsSuperAdmin,
		"exp":            time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func jsonRequest(t *testing.T, method, target, token string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
