package models

import "time"

// Message is one transcript entry. At rest Content is the ciphertext
// envelope when IsEncrypted is set; service results carry the plaintext.
// A row exists only after the relay accepted the publish; RelayRef is the
// proof.
type Message struct {
	ID          string
	ChannelID   string
	SenderID    string
	Content     string
	RelayRef    string
	ReplyTo     *string
	IsEncrypted bool
	CreatedAt   time.Time
}
