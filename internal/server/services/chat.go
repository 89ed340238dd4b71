package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"boardchat/internal/apperr"
	"boardchat/internal/cryptox"
	"boardchat/internal/logging"
	"boardchat/internal/relay"
	"boardchat/internal/server/models"
	"boardchat/internal/server/repositories/channels"
	"boardchat/internal/server/repositories/messages"
	"boardchat/internal/server/repositories/users"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100

	// decryptPlaceholder replaces message content whose stored envelope can
	// no longer be decrypted. The row itself stays readable so one corrupted
	// envelope never hides the rest of the transcript.
	decryptPlaceholder = "[Encrypted]"
)

// ChatService runs the encrypted channel pipeline: relay first, local store
// second, so a durable row only ever exists for content the relay accepted.
type ChatService struct {
	channels channels.Repository
	messages messages.Repository
	users    users.Repository
	relay    relay.Relay
	cipher   *cryptox.Cipher
	log      logging.Logger
	now      func() time.Time
}

func NewChatService(channelRepo channels.Repository, messageRepo messages.Repository,
	userRepo users.Repository, r relay.Relay, cipher *cryptox.Cipher, log logging.Logger) *ChatService {
	return &ChatService{
		channels: channelRepo,
		messages: messageRepo,
		users:    userRepo,
		relay:    r,
		cipher:   cipher,
		log:      log,
		now:      time.Now,
	}
}

type CreateChannelRequest struct {
	Name         *string
	IsGroup      bool
	Participants []string
}

// CreateChannel provisions a channel end to end: relay room, channel row with
// the creator as admin, then per-participant membership and relay invite.
//
// Direct channels are deduplicated: a second request for the same pair
// returns the existing channel untouched. Invite failures after the channel
// row exists do not roll anything back; they come back as *apperr.Partial
// listing the affected participants, whose memberships remain so they can be
// re-invited.
func (s *ChatService) CreateChannel(ctx context.Context, creatorID string, req CreateChannelRequest) (*models.Channel, error) {
	participants := dedupParticipants(req.Participants, creatorID)

	if !req.IsGroup {
		if len(participants) != 1 {
			return nil, apperr.Validation("direct channel requires exactly one other participant")
		}
		existing, err := s.channels.FindDirectByMembers(ctx, creatorID, participants[0])
		if err == nil {
			return existing, nil
		}
		if !apperr.IsKind(err, apperr.KindNotFound) {
			return nil, err
		}
	}

	roomName := ""
	if req.IsGroup {
		roomName = "Group Chat"
		if req.Name != nil && *req.Name != "" {
			roomName = *req.Name
		}
	}
	roomID, err := s.relay.CreateRoom(ctx, roomName, "", true)
	if err != nil {
		return nil, err
	}

	channel := &models.Channel{
		ID:          uuid.NewString(),
		Name:        req.Name,
		RelayRoomID: roomID,
		IsGroup:     req.IsGroup,
		IsEncrypted: true,
		CreatedAt:   s.now().UTC(),
		CreatedBy:   creatorID,
	}
	if err := s.channels.CreateWithCreator(ctx, channel, creatorID); err != nil {
		return nil, err
	}

	var failed []string
	for _, participantID := range participants {
		if err := s.inviteParticipant(ctx, channel, participantID); err != nil {
			s.log.Warn(ctx, "participant invite failed",
				"channel_id", channel.ID, "user_id", participantID, "err", err)
			failed = append(failed, participantID)
		}
	}
	if len(failed) > 0 {
		return channel, &apperr.Partial{Msg: "channel created", Failed: failed}
	}
	return channel, nil
}

// inviteParticipant persists the membership row first, then asks the relay to
// admit the user. The row survives an invite failure.
func (s *ChatService) inviteParticipant(ctx context.Context, channel *models.Channel, userID string) error {
	m := &models.Membership{ChannelID: channel.ID, UserID: userID}
	if err := s.channels.AddMember(ctx, m); err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.relay.Invite(ctx, channel.RelayRoomID, user.ExternalID)
}

// GetChannel returns the channel if the caller is a member. Non-members get
// the same error whether the channel exists or not.
func (s *ChatService) GetChannel(ctx context.Context, channelID, userID string) (*models.Channel, error) {
	if err := s.requireMember(ctx, channelID, userID); err != nil {
		return nil, err
	}
	return s.channels.GetByID(ctx, channelID)
}

// ListChannels returns every channel the user belongs to.
func (s *ChatService) ListChannels(ctx context.Context, userID string) ([]*models.Channel, error) {
	return s.channels.ListByUser(ctx, userID)
}

type SendMessageRequest struct {
	Content string
	ReplyTo *string
}

// SendMessage publishes plaintext to the relay, then stores the encrypted
// envelope locally. The relay publish comes first: if it fails nothing is
// stored, and if the local insert fails the relay copy is the delivery of
// record while the durable transcript misses the row. The returned message
// carries the original plaintext, never the envelope.
func (s *ChatService) SendMessage(ctx context.Context, channelID, senderID string, req SendMessageRequest) (*models.Message, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperr.Validation("message content is required")
	}
	if err := s.requireMember(ctx, channelID, senderID); err != nil {
		return nil, err
	}
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel.IsLocked {
		return nil, apperr.State("channel is locked")
	}

	ref, err := s.relay.Publish(ctx, channel.RelayRoomID, req.Content)
	if err != nil {
		return nil, err
	}

	stored := req.Content
	if channel.IsEncrypted {
		stored, err = s.cipher.Encrypt(req.Content)
		if err != nil {
			return nil, err
		}
	}

	message := &models.Message{
		ID:          uuid.NewString(),
		ChannelID:   channelID,
		SenderID:    senderID,
		Content:     stored,
		RelayRef:    ref,
		ReplyTo:     req.ReplyTo,
		IsEncrypted: channel.IsEncrypted,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		s.log.Error(ctx, "message published to relay but local insert failed",
			"channel_id", channelID, "relay_ref", ref, "err", err)
		return nil, err
	}

	result := *message
	result.Content = req.Content
	return &result, nil
}

// ListMessages returns a transcript page, newest first, decrypted. An
// envelope that fails to decrypt is replaced by a placeholder and logged; the
// page keeps its size and order.
func (s *ChatService) ListMessages(ctx context.Context, channelID, userID string, limit, offset int) ([]*models.Message, error) {
	if err := s.requireMember(ctx, channelID, userID); err != nil {
		return nil, err
	}

	limit, offset = clampPage(limit, offset)
	rows, err := s.messages.ListByChannel(ctx, channelID, limit, offset)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Message, 0, len(rows))
	for _, row := range rows {
		m := *row
		if m.IsEncrypted {
			plaintext, err := s.cipher.Decrypt(m.Content)
			if err != nil {
				s.log.Warn(ctx, "stored message failed to decrypt",
					"message_id", m.ID, "channel_id", channelID, "err", err)
				plaintext = decryptPlaceholder
			}
			m.Content = plaintext
		}
		result = append(result, &m)
	}
	return result, nil
}

// AddParticipant adds a user to a channel (admin only) and invites them on
// the relay. The membership row stays even if the invite fails.
func (s *ChatService) AddParticipant(ctx context.Context, channelID, actorID, userID string) error {
	if err := s.requireAdmin(ctx, channelID, actorID); err != nil {
		return err
	}
	if _, err := s.channels.GetMember(ctx, channelID, userID); err == nil {
		return apperr.Validation("user is already a member")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return err
	}
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return err
	}
	return s.inviteParticipant(ctx, channel, userID)
}

// RemoveParticipant removes a user's membership (admin only). Only the local
// grant goes away; the relay room keeps its own member list.
func (s *ChatService) RemoveParticipant(ctx context.Context, channelID, actorID, userID string) error {
	if err := s.requireAdmin(ctx, channelID, actorID); err != nil {
		return err
	}
	return s.channels.RemoveMember(ctx, channelID, userID)
}

// SetLocked locks or unlocks a channel (admin only). Locked channels reject
// sends but stay readable.
func (s *ChatService) SetLocked(ctx context.Context, channelID, actorID string, locked bool) error {
	if err := s.requireAdmin(ctx, channelID, actorID); err != nil {
		return err
	}
	return s.channels.SetLocked(ctx, channelID, locked)
}

func (s *ChatService) requireMember(ctx context.Context, channelID, userID string) error {
	if _, err := s.channels.GetMember(ctx, channelID, userID); err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.Authorization("not a member of this channel")
		}
		return err
	}
	return nil
}

func (s *ChatService) requireAdmin(ctx context.Context, channelID, userID string) error {
	m, err := s.channels.GetMember(ctx, channelID, userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.Authorization("not a member of this channel")
		}
		return err
	}
	if !m.IsAdmin {
		return apperr.Authorization("admin privileges required")
	}
	return nil
}

// dedupParticipants drops duplicates and the creator, preserving order.
func dedupParticipants(ids []string, creatorID string) []string {
	seen := map[string]bool{creatorID: true}
	var out []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
