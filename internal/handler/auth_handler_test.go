package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-account-portal/internal/model"
	"go-account-portal/internal/service"
	"go-account-portal/internal/session"
	"go-account-portal/internal/token"
	"go-account-portal/pkg/apierror"
)

type memoryUserStore struct {
	users map[string]model.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: map[string]model.User{}}
}

func (m *memoryUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, apierror.NotFound("user not found", id)
}

func (m *memoryUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	if u, ok := m.users[strings.ToLower(strings.TrimSpace(username))]; ok {
		return u, nil
	}
	return model.User{}, apierror.NotFound("user not found", username)
}

func (m *memoryUserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := m.users[strings.ToLower(strings.TrimSpace(username))]
	return ok, nil
}

func (m *memoryUserStore) Create(_ context.Context, u model.User) error {
	m.users[strings.ToLower(u.Username)] = u
	return nil
}

type handlerFixture struct {
	auth  *AuthHandler
	user  *UserHandler
	store *memoryUserStore
	codec *token.Codec
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	store := newMemoryUserStore()
	codec := token.NewCodec("handler-test-secret", 24*time.Hour)
	sessions := session.NewCarrier(false, codec.TTL())
	authService := service.NewAuthService(store, codec)

	return &handlerFixture{
		auth:  NewAuthHandler(authService, sessions),
		user:  NewUserHandler(authService, service.NewAvatarService(), sessions, codec),
		store: store,
		codec: codec,
	}
}

func registerBody() []byte {
	payload, _ := json.Marshal(map[string]string{
		"firstName":     "Jane",
		"lastName":      "Doe",
		"username":      "jdoe",
		"password":      "Password123!",
		"favoriteColor": "#3366FF",
		"nickname":      "JD",
		"birthday":      "1990-04-15",
	})
	return payload
}

func (f *handlerFixture) doRegister(body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	f.auth.Register(rec, req)
	return rec
}

func (f *handlerFixture) doLogin(username string, password string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	f.auth.Login(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}
	t.Fatal("auth cookie not set")
	return nil
}

func TestRegisterCreated(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.doRegister(registerBody())
	assert.Equal(t, http.StatusCreated, rec.Code)

	var parsed struct {
		Success bool `json:"success"`
		Data    struct {
			UserID string `json:"userId"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&parsed))
	assert.True(t, parsed.Success)
	assert.NotEmpty(t, parsed.Data.UserID)
}

func TestRegisterMissingFields(t *testing.T) {
	f := newHandlerFixture(t)

	payload, _ := json.Marshal(map[string]string{"username": "jdoe"})
	rec := f.doRegister(payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterInvalidJSON(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.doRegister([]byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateConflict(t *testing.T) {
	f := newHandlerFixture(t)

	require.Equal(t, http.StatusCreated, f.doRegister(registerBody()).Code)
	assert.Equal(t, http.StatusConflict, f.doRegister(registerBody()).Code)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	f := newHandlerFixture(t)
	require.Equal(t, http.StatusCreated, f.doRegister(registerBody()).Code)

	rec := f.doLogin("jdoe", "Password123!")
	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	_, ok := f.codec.Verify(cookie.Value)
	assert.True(t, ok)
}

func TestLoginBadCredentials(t *testing.T) {
	f := newHandlerFixture(t)
	require.Equal(t, http.StatusCreated, f.doRegister(registerBody()).Code)

	assert.Equal(t, http.StatusUnauthorized, f.doLogin("jdoe", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, f.doLogin("nobody", "Password123!").Code)
}

type brokenUserStore struct {
	*memoryUserStore
}

func (b *brokenUserStore) FindByUsername(context.Context, string) (model.User, error) {
	return model.User{}, errors.New("connection refused")
}

func TestLoginStoreFailureReturnsInternalError(t *testing.T) {
	codec := token.NewCodec("handler-test-secret", 24*time.Hour)
	sessions := session.NewCarrier(false, codec.TTL())
	svc := service.NewAuthService(&brokenUserStore{memoryUserStore: newMemoryUserStore()}, codec)
	auth := NewAuthHandler(svc, sessions)

	payload, _ := json.Marshal(map[string]string{"username": "jdoe", "password": "Password123!"})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	auth.Login(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var parsed struct {
		Error *model.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&parsed))
	require.NotNil(t, parsed.Error)
	// Generic body only; the underlying failure stays in the logs.
	assert.Equal(t, "INTERNAL_ERROR", parsed.Error.Code)
	assert.NotContains(t, parsed.Error.Message, "connection refused")
}

func TestLoginMissingFields(t *testing.T) {
	f := newHandlerFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.doLogin("", "").Code)
}

func TestLogoutClearsCookieAndAlwaysSucceeds(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec := httptest.NewRecorder()
	f.auth.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestProfileRequiresSession(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	rec := httptest.NewRecorder()
	f.user.Profile(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileWithSession(t *testing.T) {
	f := newHandlerFixture(t)
	require.Equal(t, http.StatusCreated, f.doRegister(registerBody()).Code)
	cookie := sessionCookie(t, f.doLogin("jdoe", "Password123!"))

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.user.Profile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var parsed struct {
		Data struct {
			User model.Profile `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&parsed))
	assert.Equal(t, "jdoe", parsed.Data.User.Username)
	assert.Equal(t, "#3366FF", parsed.Data.User.FavoriteColor)
	assert.Equal(t, "1990-04-15", parsed.Data.User.Birthday)
}

func TestProfileMissingBackingRecord(t *testing.T) {
	f := newHandlerFixture(t)

	// Valid token for a user the store has never seen.
	minted, err := f.codec.Mint(model.AuthUser{ID: "ghost", Username: "ghost"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: minted})
	rec := httptest.NewRecorder()
	f.user.Profile(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAvatarServesPNG(t *testing.T) {
	f := newHandlerFixture(t)
	require.Equal(t, http.StatusCreated, f.doRegister(registerBody()).Code)
	cookie := sessionCookie(t, f.doLogin("jdoe", "Password123!"))

	req := httptest.NewRequest(http.MethodGet, "/api/user/avatar", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.user.Avatar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestReplayedTokenAfterLogoutStillVerifies(t *testing.T) {
	// Logout removes the carrier only; it does not revoke the token. A
	// replayed cookie keeps working until expiry. Known limitation.
	f := newHandlerFixture(t)
	require.Equal(t, http.StatusCreated, f.doRegister(registerBody()).Code)
	cookie := sessionCookie(t, f.doLogin("jdoe", "Password123!"))

	logoutRec := httptest.NewRecorder()
	f.auth.Logout(logoutRec, httptest.NewRequest(http.MethodPost, "/api/logout", nil))
	require.Equal(t, http.StatusOK, logoutRec.Code)

	replay := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	replay.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.user.Profile(rec, replay)
	assert.Equal(t, http.StatusOK, rec.Code)
}
