package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"boardchat/internal/apperr"
	"boardchat/internal/server/services"
)

type createChannelRequest struct {
	Name         *string  `json:"name,omitempty"`
	IsGroup      bool     `json:"is_group,omitempty"`
	Participants []string `json:"participants"`
}

// handleCreateChannel creates a channel. A partial invite failure still means
// the channel exists, so it is reported inside a 201 body rather than as an
// error status.
func (h *Handlers) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	var req createChannelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	channel, err := h.chat.CreateChannel(r.Context(), userIDFrom(r), services.CreateChannelRequest{
		Name:         req.Name,
		IsGroup:      req.IsGroup,
		Participants: req.Participants,
	})
	if err != nil {
		var partial *apperr.Partial
		if !errors.As(err, &partial) {
			writeError(w, err)
			return
		}
		resp := toChannelResponse(channel)
		resp.FailedInvites = partial.Failed
		writeJSON(w, http.StatusCreated, resp)
		return
	}
	writeJSON(w, http.StatusCreated, toChannelResponse(channel))
}

func (h *Handlers) handleListChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := h.chat.ListChannels(r.Context(), userIDFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]channelResponse, 0, len(channels))
	for _, c := range channels {
		out = append(out, toChannelResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	channel, err := h.chat.GetChannel(r.Context(), mux.Vars(r)["id"], userIDFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChannelResponse(channel))
}

type sendMessageRequest struct {
	Content string  `json:"content"`
	ReplyTo *string `json:"reply_to,omitempty"`
}

func (h *Handlers) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	message, err := h.chat.SendMessage(r.Context(), mux.Vars(r)["id"], userIDFrom(r),
		services.SendMessageRequest{Content: req.Content, ReplyTo: req.ReplyTo})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMessageResponse(message))
}

func (h *Handlers) handleListMessages(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	messages, err := h.chat.ListMessages(r.Context(), mux.Vars(r)["id"], userIDFrom(r), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, toMessageResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

type participantRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handlers) handleAddParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.chat.AddParticipant(r.Context(), mux.Vars(r)["id"], userIDFrom(r), req.UserID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.chat.RemoveParticipant(r.Context(), vars["id"], userIDFrom(r), vars["userID"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) handleLockChannel(w http.ResponseWriter, r *http.Request) {
	if err := h.chat.SetLocked(r.Context(), mux.Vars(r)["id"], userIDFrom(r), true); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) handleUnlockChannel(w http.ResponseWriter, r *http.Request) {
	if err := h.chat.SetLocked(r.Context(), mux.Vars(r)["id"], userIDFrom(r), false); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pageParams reads limit/offset query parameters; services clamp the values.
func pageParams(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit, _ = strconv.Atoi(q.Get("limit"))
	offset, _ = strconv.Atoi(q.Get("offset"))
	return limit, offset
}
