package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHealth(t *testing.T) {
	w := httptest.NewRecorder()
	HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok","message":"Backend is running!"}`, w.Body.String())
}

func TestHandleRoot(t *testing.T) {
	w := httptest.NewRecorder()
	HandleRoot(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Welcome to MHK-GPT Agentic Chatbot API"}`, w.Body.String())
}

func TestHandleInfo(t *testing.T) {
	w := httptest.NewRecorder()
	HandleInfo(w, httptest.NewRequest(http.MethodGet, "/v1/info", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var info InfoResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.Equal(t, "2.0.0", info.Version)
	assert.NotEmpty(t, info.Title)
	assert.NotEmpty(t, info.Description)
}
