// Package relay defines the boundary to the external real-time messaging
// backend. The core depends on exactly three operations; any implementation
// satisfying them is substitutable. The relay handles its own delivery and
// transport encryption; local at-rest encryption is this system's concern,
// not the relay's.
package relay

import "context"

// Relay is the entire contract the core requires from the messaging backend.
// Implementations return dependency-kind errors when the backend is
// unreachable or rejects a call.
type Relay interface {
	// CreateRoom provisions a room and returns its opaque id. Rooms for
	// direct channels pass an empty name and encrypted=true.
	CreateRoom(ctx context.Context, name, topic string, encrypted bool) (string, error)

	// Publish delivers plaintext to a room and returns the relay's opaque
	// reference for the delivered message.
	Publish(ctx context.Context, roomID, plaintext string) (string, error)

	// Invite asks the relay to admit an external identity to a room.
	Invite(ctx context.Context, roomID, externalID string) error
}
