//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-account-portal/internal/config"
	"go-account-portal/internal/database"
	"go-account-portal/internal/handler"
	"go-account-portal/internal/middleware"
	"go-account-portal/internal/repository"
	"go-account-portal/internal/router"
	"go-account-portal/internal/service"
	"go-account-portal/internal/session"
	"go-account-portal/internal/token"
)

// newTestServer builds the full stack against the database named by
// TEST_DATABASE_URL. Tests are skipped when it is unset.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, databaseURL, database.PoolSettings{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))

	cfg := &config.Config{
		Environment:      "test",
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		DatabaseURL:      databaseURL,
		JWTSecret:        "integration-test-secret",
		TokenTTL:         24 * time.Hour,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}

	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	sessions := session.NewCarrier(false, codec.TTL())
	guard := middleware.NewRouteGuard(sessions, codec)

	userRepo := repository.NewUserRepository(db.Pool)
	authService := service.NewAuthService(userRepo, codec)

	pageHandler, err := handler.NewPageHandler()
	require.NoError(t, err)

	server := httptest.NewServer(router.New(cfg, guard, router.Handlers{
		Auth:   handler.NewAuthHandler(authService, sessions),
		User:   handler.NewUserHandler(authService, service.NewAvatarService(), sessions, codec),
		Page:   pageHandler,
		Health: handler.NewHealthHandler(db),
	}))
	t.Cleanup(server.Close)

	return server
}

// noRedirectClient lets tests assert on the guard's redirects directly.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func uniqueUsername(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("user%d", time.Now().UnixNano())
}

func registerPayload(username string) []byte {
	payload, _ := json.Marshal(map[string]string{
		"firstName":     "Jane",
		"lastName":      "Doe",
		"username":      username,
		"password":      "Password123!",
		"favoriteColor": "#3366FF",
		"nickname":      "JD",
		"birthday":      "1990-04-15",
	})
	return payload
}

func postJSON(t *testing.T, url string, body []byte) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func registerUser(t *testing.T, server *httptest.Server, username string) {
	t.Helper()

	resp := postJSON(t, server.URL+"/api/register", registerPayload(username))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func loginUser(t *testing.T, server *httptest.Server, username string) *http.Cookie {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"username": username, "password": "Password123!"})
	require.NoError(t, err)

	resp := postJSON(t, server.URL+"/api/login", payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}
	t.Fatal("login did not set the auth cookie")
	return nil
}
