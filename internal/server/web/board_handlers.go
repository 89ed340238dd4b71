package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"boardchat/internal/server/services"
)

type createBoardRequest struct {
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	IsNSFW      bool    `json:"is_nsfw,omitempty"`
	IsPrivate   bool    `json:"is_private,omitempty"`
}

func (h *Handlers) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var req createBoardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	board, err := h.boards.CreateBoard(r.Context(), userIDFrom(r), services.CreateBoardRequest{
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
		IsNSFW:      req.IsNSFW,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBoardResponse(board))
}

func (h *Handlers) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.boards.ListBoards(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]boardResponse, 0, len(boards))
	for _, b := range boards {
		out = append(out, toBoardResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.boards.GetBoard(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardResponse(board))
}

type createThreadRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url,omitempty"`
}

func (h *Handlers) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req createThreadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	thread, err := h.boards.CreateThread(r.Context(), mux.Vars(r)["name"], userIDFrom(r),
		services.CreateThreadRequest{Title: req.Title, Content: req.Content, ImageURL: req.ImageURL})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toThreadResponse(thread))
}

func (h *Handlers) handleGetThread(w http.ResponseWriter, r *http.Request) {
	thread, err := h.boards.GetThread(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toThreadResponse(thread))
}

func (h *Handlers) handleListThreads(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	threads, err := h.boards.ListThreads(r.Context(), mux.Vars(r)["name"], limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]threadResponse, 0, len(threads))
	for _, t := range threads {
		out = append(out, toThreadResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

type createPostRequest struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url,omitempty"`
	ReplyTo  *string `json:"reply_to,omitempty"`
}

func (h *Handlers) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.boards.CreatePost(r.Context(), mux.Vars(r)["id"], userIDFrom(r),
		services.CreatePostRequest{Content: req.Content, ImageURL: req.ImageURL, ReplyTo: req.ReplyTo})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

func (h *Handlers) handleListPosts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	posts, err := h.boards.ListPosts(r.Context(), mux.Vars(r)["id"], limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}
