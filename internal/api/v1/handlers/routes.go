package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	v1mware "github.com/mhkgpt/mhk-gpt/internal/api/v1/middleware"
	"github.com/mhkgpt/mhk-gpt/internal/config"
	"github.com/mhkgpt/mhk-gpt/internal/connections"
	"github.com/mhkgpt/mhk-gpt/internal/services"
)

// RegisterRoutes registers the liveness routes and the v1 API
func RegisterRoutes(router *mux.Router, services *services.Services, manager *connections.Manager, cfg *config.Config) {
	router.HandleFunc("/health", HandleHealth).Methods("GET")
	router.HandleFunc("/", HandleRoot).Methods("GET")

	RegisterV1Routes(router, services, manager, cfg)
}

func RegisterV1Routes(router *mux.Router, services *services.Services, manager *connections.Manager, cfg *config.Config) {
	// v1 routes
	v1 := router.PathPrefix("/v1").Subrouter()
	v1.Use(v1mware.RateLimit("global", cfg.GetRateLimitConfig("global")))

	v1.HandleFunc("/info", HandleInfo).Methods("GET")

	// v1 chat routes, POST requests and WebSocket frames share one chat limit
	chatLimiter := v1mware.NewLimiter(cfg.GetRateLimitConfig("chat"))
	v1chatRouter := v1.PathPrefix("/chat").Subrouter()

	v1chatRouter.Handle("", v1mware.RateLimitWith("chat", chatLimiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleChat(services.GetChatService(), w, r)
	}))).Methods("POST")

	v1chatRouter.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		HandleGetHistory(services.GetChatService(), w, r)
	}).Methods("GET")
	v1chatRouter.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		HandleDeleteHistory(services.GetChatService(), w, r)
	}).Methods("DELETE")

	// the chat limit is charged per frame, not on upgrade
	v1chatRouter.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		HandleChatWebSocket(services.GetChatService(), manager, chatLimiter, w, r)
	}).Methods("GET")
}
