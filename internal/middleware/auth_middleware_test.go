package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/rojgarsetu/backend/internal/models"
)

const testSecret = "middleware-test-secret"

func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", Protected(testSecret), func(c *fiber.Ctx) error {
		claims := CurrentClaims(c)
		return c.JSON(fiber.Map{"userId": claims.UserID, "role": claims.Role})
	})
	app.Get("/admin", Protected(testSecret), RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func makeToken(t *testing.T, secret, role string, expiry time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": "user-1",
		"role":    role,
		"exp":     expiry.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func request(target, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func errorOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["error"]
}

func TestProtectedMissingToken(t *testing.T) {
	app := newProtectedApp()

	resp, err := app.Test(request("/me", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Missing token", errorOf(t, resp))
}

func TestProtectedInvalidToken(t *testing.T) {
	app := newProtectedApp()

	cases := map[string]string{
		"garbage":      "not-a-jwt",
		"wrong secret": makeToken(t, "other-secret", models.RoleJobSeeker, time.Now().Add(time.Hour)),
		"expired":      makeToken(t, testSecret, models.RoleJobSeeker, time.Now().Add(-time.Hour)),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := app.Test(request("/me", token))
			require.NoError(t, err)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.Equal(t, "Invalid token", errorOf(t, resp))
		})
	}
}

func TestProtectedStoresClaims(t *testing.T) {
	app := newProtectedApp()
	token := makeToken(t, testSecret, models.RoleJobPoster, time.Now().Add(time.Hour))

	resp, err := app.Test(request("/me", token))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "user-1", body["userId"])
	require.Equal(t, models.RoleJobPoster, body["role"])
}

func TestRequireAdminBlocksOtherRoles(t *testing.T) {
	app := newProtectedApp()

	resp, err := app.Test(request("/admin", makeToken(t, testSecret, models.RoleJobSeeker, time.Now().Add(time.Hour))))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(request("/admin", makeToken(t, testSecret, models.RoleAdmin, time.Now().Add(time.Hour))))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
