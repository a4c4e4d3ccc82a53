package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	ok := HealthCheck{Name: "database", Check: func(context.Context) error { return nil }}
	down := HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("dial tcp: refused") }}

	t.Run("healthy", func(t *testing.T) {
		h := NewHealthHandler(zerolog.Nop(), ok)
		rec := serve(http.MethodGet, "/health", "/health", h.Health, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, map[string]interface{}{"database": "ok"}, body["checks"])
	})

	t.Run("dependency down", func(t *testing.T) {
		h := NewHealthHandler(zerolog.Nop(), ok, down)
		rec := serve(http.MethodGet, "/health", "/health", h.Health, nil)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "unhealthy", body["status"])
		assert.Equal(t, map[string]interface{}{"database": "ok", "redis": "unavailable"}, body["checks"])
		assert.NotContains(t, rec.Body.String(), "refused")
	})
}

func TestPing(t *testing.T) {
	rec := serve(http.MethodGet, "/ping", "/ping", Ping, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"pong"}`, rec.Body.String())
}
