package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeHealthChecker struct {
	err error
}

func (f *fakeHealthChecker) Health(context.Context) error {
	return f.err
}

func TestHealthCheckOK(t *testing.T) {
	h := NewHealthHandler(&fakeHealthChecker{})

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	h := NewHealthHandler(&fakeHealthChecker{err: errors.New("dial tcp: connection refused")})

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAVAILABLE")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
