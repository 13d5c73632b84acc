package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func runRateLimited(t *testing.T, limiter RateLimiter) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RateLimit(limiter, 10, time.Minute)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, handler(c))
	return rec
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	limiter := &MockRateLimiter{}
	limiter.Test(t)
	limiter.On("IsRateLimited", mock.Anything, mock.Anything, 10, time.Minute).Return(false, nil)

	rec := runRateLimited(t, limiter)

	assert.Equal(t, http.StatusOK, rec.Code)
	limiter.AssertExpectations(t)
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	limiter := &MockRateLimiter{}
	limiter.Test(t)
	limiter.On("IsRateLimited", mock.Anything, mock.Anything, 10, time.Minute).Return(true, nil)

	rec := runRateLimited(t, limiter)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
	limiter.AssertExpectations(t)
}

func TestRateLimit_FailsOpenOnCacheError(t *testing.T) {
	limiter := &MockRateLimiter{}
	limiter.Test(t)
	limiter.On("IsRateLimited", mock.Anything, mock.Anything, 10, time.Minute).
		Return(true, errors.New("connection refused"))

	rec := runRateLimited(t, limiter)

	assert.Equal(t, http.StatusOK, rec.Code)
	limiter.AssertExpectations(t)
}
