package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	cases := []struct {
		err  error
		code int
		body string
	}{
		{nil, http.StatusOK, `{"ok":true}`},
		{errBoom, http.StatusServiceUnavailable, `{"ok":false}`},
	}
	for _, tc := range cases {
		err := tc.err
		r := gin.New()
		r.GET("/health", HealthHandler(pingFunc(func(context.Context) error { return err }), quietLogger()))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, tc.code, w.Code)
		assert.JSONEq(t, tc.body, w.Body.String())
	}
}
