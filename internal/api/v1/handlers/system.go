package handlers

import (
	"net/http"

	"github.com/mhkgpt/mhk-gpt/internal/config"
	"github.com/mhkgpt/mhk-gpt/pkg/httpext"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type InfoResponse struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// HandleHealth reports that the process is up
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	httpext.JsonResponse(w, HealthResponse{Status: "ok", Message: "Backend is running!"}, http.StatusOK)
}

// HandleRoot greets API clients
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	httpext.JsonResponse(w, MessageResponse{Message: "Welcome to MHK-GPT Agentic Chatbot API"}, http.StatusOK)
}

// HandleInfo describes the running API
func HandleInfo(w http.ResponseWriter, r *http.Request) {
	httpext.JsonResponse(w, InfoResponse{
		Title:       config.AppTitle,
		Version:     config.AppVersion,
		Description: config.AppDescription,
	}, http.StatusOK)
}
