// Package redisrelay is a Redis-backed relay binding for local development
// and tests: rooms are hashes, deliveries are stream entries, invites are
// set members. It gives the core a real, inspectable relay without a
// homeserver.
package redisrelay

import (
	"context"
	"fmt"

	"boardchat/internal/apperr"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Relay struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Relay {
	return &Relay{rdb: rdb}
}

func roomKey(roomID string) string    { return "relay:room:" + roomID }
func eventsKey(roomID string) string  { return "relay:room:" + roomID + ":events" }
func membersKey(roomID string) string { return "relay:room:" + roomID + ":members" }

func (r *Relay) CreateRoom(ctx context.Context, name, topic string, encrypted bool) (string, error) {
	roomID := "!" + uuid.NewString()
	err := r.rdb.HSet(ctx, roomKey(roomID),
		"name", name,
		"topic", topic,
		"encrypted", encrypted,
	).Err()
	if err != nil {
		return "", apperr.Dependency("relay create room", err)
	}
	return roomID, nil
}

func (r *Relay) Publish(ctx context.Context, roomID, plaintext string) (string, error) {
	exists, err := r.rdb.Exists(ctx, roomKey(roomID)).Result()
	if err != nil {
		return "", apperr.Dependency("relay publish", err)
	}
	if exists == 0 {
		return "", apperr.Dependency(fmt.Sprintf("relay publish: unknown room %s", roomID), nil)
	}

	ref, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: eventsKey(roomID),
		Values: map[string]any{"body": plaintext},
	}).Result()
	if err != nil {
		return "", apperr.Dependency("relay publish", err)
	}
	return ref, nil
}

func (r *Relay) Invite(ctx context.Context, roomID, externalID string) error {
	exists, err := r.rdb.Exists(ctx, roomKey(roomID)).Result()
	if err != nil {
		return apperr.Dependency("relay invite", err)
	}
	if exists == 0 {
		return apperr.Dependency(fmt.Sprintf("relay invite: unknown room %s", roomID), nil)
	}
	if err := r.rdb.SAdd(ctx, membersKey(roomID), externalID).Err(); err != nil {
		return apperr.Dependency("relay invite", err)
	}
	return nil
}
