package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/Rrens/ai-debate/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	HealthCheck(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", data["status"])
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name       string
		deps       map[string]Pinger
		wantStatus int
	}{
		{name: "ready", deps: map[string]Pinger{"database": okPinger{}}, wantStatus: http.StatusOK},
		{name: "database down", deps: map[string]Pinger{"database": downPinger{}}, wantStatus: http.StatusServiceUnavailable},
		{name: "nothing to check", deps: nil, wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ReadyCheck(tt.deps)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestListLLMProviders(t *testing.T) {
	router := llm.NewRouter("openrouter")
	rec := httptest.NewRecorder()

	personas := [2]domain.Persona{
		{Key: "pro", DisplayName: "AI 1", Provider: "openrouter", Model: "m1", InstructionTemplate: "secret %s"},
		{Key: "con", DisplayName: "AI 2", Provider: "openrouter", Model: "m2", InstructionTemplate: "secret %s"},
	}

	ListLLMProviders(router, personas)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/llm-providers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")

	var body struct {
		Data struct {
			DefaultProvider string           `json:"default_provider"`
			Personas        []domain.Persona `json:"personas"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "openrouter", body.Data.DefaultProvider)
	require.Len(t, body.Data.Personas, 2)
	assert.Equal(t, "AI 1", body.Data.Personas[0].DisplayName)
	assert.Equal(t, "m2", body.Data.Personas[1].Model)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.InvalidInput("bad"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", domain.ErrNotFound), http.StatusNotFound},
		{domain.ErrSessionActive, http.StatusConflict},
		{domain.ErrModelInvocation, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("dial tcp 10.0.0.1: secret"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestTurnsString(t *testing.T) {
	tests := map[string]string{
		``:       "",
		`null`:   "",
		`3`:      "3",
		`"4"`:    "4",
		`"abc"`:  "abc",
		`2.5`:    "2.5",
		`"  7 "`: "  7 ",
	}
	for raw, want := range tests {
		assert.Equal(t, want, turnsString(json.RawMessage(raw)), raw)
	}
}

func TestOriginChecker(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws/debates/x", nil)
	req.Header.Set("Origin", "https://evil.example")

	assert.True(t, originChecker([]string{"*"})(req))
	assert.True(t, originChecker(nil)(req))
	assert.False(t, originChecker([]string{"https://toy.example"})(req))

	req.Header.Set("Origin", "https://toy.example")
	assert.True(t, originChecker([]string{"https://toy.example"})(req))
}
