// Package matrixrelay binds the relay contract to a Matrix homeserver using
// the client-server REST API. Only the three calls the core needs are
// implemented; room state, sync and federation stay on the homeserver side.
package matrixrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"boardchat/internal/apperr"
	"github.com/google/uuid"
)

const apiPrefix = "/_matrix/client/v3"

// Client talks to a single homeserver with a single application access token.
type Client struct {
	homeserverURL string
	accessToken   string
	http          *http.Client
}

// New builds a Client for the given homeserver. The access token belongs to
// the application's relay account, not to end users.
func New(homeserverURL, accessToken string) *Client {
	return &Client{
		homeserverURL: homeserverURL,
		accessToken:   accessToken,
		http:          &http.Client{Timeout: 30 * time.Second},
	}
}

type createRoomRequest struct {
	Name         string       `json:"name,omitempty"`
	Topic        string       `json:"topic,omitempty"`
	Preset       string       `json:"preset,omitempty"`
	InitialState []stateEvent `json:"initial_state,omitempty"`
}

type stateEvent struct {
	Type     string         `json:"type"`
	StateKey string         `json:"state_key"`
	Content  map[string]any `json:"content"`
}

type createRoomResponse struct {
	RoomID string `json:"room_id"`
}

func (c *Client) CreateRoom(ctx context.Context, name, topic string, encrypted bool) (string, error) {
	req := createRoomRequest{Name: name, Topic: topic}
	if name == "" {
		// Direct rooms are private and trusted.
		req.Preset = "trusted_private_chat"
	}
	if encrypted {
		req.InitialState = append(req.InitialState, stateEvent{
			Type:    "m.room.encryption",
			Content: map[string]any{"algorithm": "m.megolm.v1.aes-sha2"},
		})
	}

	var resp createRoomResponse
	if err := c.call(ctx, http.MethodPost, apiPrefix+"/createRoom", req, &resp); err != nil {
		return "", err
	}
	return resp.RoomID, nil
}

type sendMessageRequest struct {
	MsgType string `json:"msgtype"`
	Body    string `json:"body"`
}

type sendMessageResponse struct {
	EventID string `json:"event_id"`
}

func (c *Client) Publish(ctx context.Context, roomID, plaintext string) (string, error) {
	// The transaction id makes retried PUTs idempotent on the homeserver.
	path := fmt.Sprintf("%s/rooms/%s/send/m.room.message/%s",
		apiPrefix, url.PathEscape(roomID), uuid.NewString())

	var resp sendMessageResponse
	err := c.call(ctx, http.MethodPut, path, sendMessageRequest{MsgType: "m.text", Body: plaintext}, &resp)
	if err != nil {
		return "", err
	}
	return resp.EventID, nil
}

type inviteRequest struct {
	UserID string `json:"user_id"`
}

func (c *Client) Invite(ctx context.Context, roomID, externalID string) error {
	path := fmt.Sprintf("%s/rooms/%s/invite", apiPrefix, url.PathEscape(roomID))
	return c.call(ctx, http.MethodPost, path, inviteRequest{UserID: externalID}, nil)
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperr.Internal("encoding relay request", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.homeserverURL+path, bytes.NewReader(payload))
	if err != nil {
		return apperr.Internal("building relay request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Dependency("relay unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return apperr.Dependency(
			fmt.Sprintf("relay rejected %s %s: status %d: %s", method, path, resp.StatusCode, data), nil)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperr.Dependency("decoding relay response", err)
		}
	}
	return nil
}
