package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"boardchat/internal/logging"
	"boardchat/internal/server/services"
)

// Handlers holds the services the HTTP surface dispatches into.
type Handlers struct {
	identity *services.IdentityService
	sessions *services.SessionManager
	chat     *services.ChatService
	boards   *services.BoardService
	log      logging.Logger
}

func NewHandlers(identity *services.IdentityService, sessions *services.SessionManager,
	chat *services.ChatService, boards *services.BoardService, log logging.Logger) *Handlers {
	return &Handlers{identity: identity, sessions: sessions, chat: chat, boards: boards, log: log}
}

// Router wires every route. Forum reads are public; everything that writes or
// touches chat requires a session.
func (h *Handlers) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", h.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.requireAuth(h.handleLogout)).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", h.requireAuth(h.handleMe)).Methods(http.MethodGet)
	api.HandleFunc("/auth/password", h.requireAuth(h.handleChangePassword)).Methods(http.MethodPost)

	api.HandleFunc("/users/{id}", h.requireAuth(h.handleGetUser)).Methods(http.MethodGet)

	api.HandleFunc("/boards", h.handleListBoards).Methods(http.MethodGet)
	api.HandleFunc("/boards", h.requireAuth(h.handleCreateBoard)).Methods(http.MethodPost)
	api.HandleFunc("/boards/{name}", h.handleGetBoard).Methods(http.MethodGet)
	api.HandleFunc("/boards/{name}/threads", h.handleListThreads).Methods(http.MethodGet)
	api.HandleFunc("/boards/{name}/threads", h.requireAuth(h.handleCreateThread)).Methods(http.MethodPost)
	api.HandleFunc("/threads/{id}", h.handleGetThread).Methods(http.MethodGet)
	api.HandleFunc("/threads/{id}/posts", h.handleListPosts).Methods(http.MethodGet)
	api.HandleFunc("/threads/{id}/posts", h.requireAuth(h.handleCreatePost)).Methods(http.MethodPost)

	api.HandleFunc("/chats", h.requireAuth(h.handleListChannels)).Methods(http.MethodGet)
	api.HandleFunc("/chats", h.requireAuth(h.handleCreateChannel)).Methods(http.MethodPost)
	api.HandleFunc("/chats/{id}", h.requireAuth(h.handleGetChannel)).Methods(http.MethodGet)
	api.HandleFunc("/chats/{id}/messages", h.requireAuth(h.handleListMessages)).Methods(http.MethodGet)
	api.HandleFunc("/chats/{id}/messages", h.requireAuth(h.handleSendMessage)).Methods(http.MethodPost)
	api.HandleFunc("/chats/{id}/participants", h.requireAuth(h.handleAddParticipant)).Methods(http.MethodPost)
	api.HandleFunc("/chats/{id}/participants/{userID}", h.requireAuth(h.handleRemoveParticipant)).Methods(http.MethodDelete)
	api.HandleFunc("/chats/{id}/lock", h.requireAuth(h.handleLockChannel)).Methods(http.MethodPost)
	api.HandleFunc("/chats/{id}/lock", h.requireAuth(h.handleUnlockChannel)).Methods(http.MethodDelete)

	return h.logRequests(r)
}

func (h *Handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
