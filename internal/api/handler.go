package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/rvachev/artel/internal/catalog"
	"github.com/rvachev/artel/internal/intent"
	"github.com/rvachev/artel/internal/pipeline"
	"github.com/rvachev/artel/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// greetingMessage opens every new conversation.
const greetingMessage = "Hello! I'm here to help you discover the perfect artwork. What style of art do you prefer? (like Landscape, Portrait, or Renaissance)"

// chatRateLimit bounds the only expensive endpoint: each /chat request costs
// one upstream generation call.
const (
	chatRateLimit  = 30
	chatRateWindow = time.Minute
)

// ChatRequest is the wire form of one chat turn: the caller resupplies the
// full transcript every call.
type ChatRequest struct {
	Messages []intent.Message `json:"messages"`
}

// NewRouter assembles the full HTTP surface: the public chat routes at the
// root and the bearer-authenticated admin routes under /admin. The admin
// surface needs its own prefix; chi refuses a second Mount on "/".
func NewRouter(store *catalog.Store, assistant *pipeline.Assistant, log *storage.Store, token string) http.Handler {
	r := chi.NewRouter()
	r.Mount("/", NewHandler(store, assistant))
	r.Mount("/admin", NewAdminHandler(log, token))
	return r
}

// NewHandler returns the public HTTP surface: chat, filters introspection,
// greeting, and health. The browser frontend is served cross-origin, so
// CORS is wide open, matching the original deployment.
func NewHandler(store *catalog.Store, assistant *pipeline.Assistant) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", handleHealth)
	r.Get("/greeting", handleGreeting)
	r.Get("/filters", handleFilters(store))

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(chatRateLimit, chatRateWindow))
		r.Post("/chat", handleChat(assistant))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleGreeting(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": greetingMessage})
}

func handleFilters(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(store.AvailableFilters())
	}
}

func handleChat(assistant *pipeline.Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if len(req.Messages) == 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "messages is required and must not be empty")
			return
		}
		for i, msg := range req.Messages {
			if msg.Role != intent.RoleUser && msg.Role != intent.RoleAssistant {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "messages[%d].role must be user or assistant", i)
				return
			}
		}

		result := assistant.Chat(r.Context(), req.Messages)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
