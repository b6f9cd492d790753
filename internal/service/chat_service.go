package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/sirajyamin/blink-graphql/internal/apperr"
	"github.com/sirajyamin/blink-graphql/internal/models"
	"github.com/sirajyamin/blink-graphql/internal/presence"
	"github.com/sirajyamin/blink-graphql/internal/repository"
)

// ConversationKey derives the conversation identifier for a participant
// pair. The ids are sorted so both sides derive the same key, making the
// backfill idempotent and collision-free.
func ConversationKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "-" + b
}

// ChatService presents a per-user inbox view over the flat message
// collection; no conversation entity is ever persisted.
type ChatService struct {
	users    repository.UserRepository
	messages repository.MessageRepository
	tracker  *presence.Tracker
	limit    int64
	log      *zap.SugaredLogger
}

func NewChatService(users repository.UserRepository, messages repository.MessageRepository, tracker *presence.Tracker, messageLimit int64, log *zap.SugaredLogger) *ChatService {
	if messageLimit <= 0 {
		messageLimit = 200
	}
	return &ChatService{users: users, messages: messages, tracker: tracker, limit: messageLimit, log: log}
}

type thread struct {
	id     string
	other  string
	last   *models.Message
	unread int
}

// backfill assigns conversation identifiers to any of the user's messages
// that still lack one. Safe to run on every request.
func (s *ChatService) backfill(ctx context.Context, msgs []*models.Message) error {
	for _, m := range msgs {
		if m.ConversationID != "" {
			continue
		}
		id := ConversationKey(m.Sender, m.Recipient)
		if err := s.messages.SetConversationID(ctx, m.ID, id); err != nil {
			return err
		}
		m.ConversationID = id
	}
	return nil
}

// Conversations groups the user's messages into threads: counterpart,
// most recent message and unread count per thread, newest thread first.
func (s *ChatService) Conversations(ctx context.Context, userID string) (*models.ConversationsResult, error) {
	viewer, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, apperr.NotFound, "User not found")
	}

	msgs, err := s.messages.FindByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.backfill(ctx, msgs); err != nil {
		return nil, err
	}

	byID := map[string]*thread{}
	order := []*thread{}
	for _, m := range msgs {
		t, ok := byID[m.ConversationID]
		if !ok {
			other := m.Sender
			if m.Sender == userID {
				other = m.Recipient
			}
			t = &thread{id: m.ConversationID, other: other}
			byID[m.ConversationID] = t
			order = append(order, t)
		}
		if t.last == nil || !m.CreatedAt.Before(t.last.CreatedAt) {
			t.last = m
		}
		if m.Recipient == userID && m.Status != models.StatusSeen {
			t.unread++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].last.CreatedAt.After(order[j].last.CreatedAt)
	})

	conversations := make([]*models.Conversation, 0, len(order))
	for _, t := range order {
		participant := s.resolveParticipant(ctx, t.other)
		profiles := map[string]*models.User{viewer.ID: viewer.Public()}
		if participant != nil {
			profiles[participant.ID] = participant
		}
		conversations = append(conversations, &models.Conversation{
			ConversationID: t.id,
			Participant:    participant,
			LastMessage:    annotate(t.last, userID, profiles),
			UnreadCount:    t.unread,
		})
	}

	return &models.ConversationsResult{
		Success: true,
		Message: "Conversations retrieved successfully",
		Data:    conversations,
	}, nil
}

// resolveParticipant loads the counterpart's public profile and overlays
// live presence when the tracker has fresher state than the store.
func (s *ChatService) resolveParticipant(ctx context.Context, id string) *models.User {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warnw("participant lookup failed", "id", id, "err", err)
		}
		return nil
	}
	p := u.Public()
	if online, lastSeen, err := s.tracker.Get(ctx, id); err == nil && online {
		p.Online = true
		p.LastSeen = &lastSeen
	}
	return p
}

// Messages lists chat messages for a user and/or conversation, oldest
// first, annotated with direction relative to the filter user. At least
// one filter is required and the result size is capped.
func (s *ChatService) Messages(ctx context.Context, f repository.MessageFilter) (*models.MessagesResult, error) {
	if f.User == "" && f.ConversationID == "" {
		return nil, apperr.New(apperr.Validation, "A user or conversation filter is required")
	}
	if f.Limit <= 0 || f.Limit > s.limit {
		f.Limit = s.limit
	}

	msgs, err := s.messages.Find(ctx, f)
	if err != nil {
		return nil, err
	}

	profiles := map[string]*models.User{}
	lookup := func(id string) *models.User {
		if p, ok := profiles[id]; ok {
			return p
		}
		var p *models.User
		if u, err := s.users.FindByID(ctx, id); err == nil {
			p = u.Public()
		}
		profiles[id] = p
		return p
	}

	out := make([]*models.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		lookup(m.Sender)
		lookup(m.Recipient)
		out = append(out, annotate(m, f.User, profiles))
	}

	message := "Messages retrieved successfully"
	if len(out) == 0 {
		message = "No messages found"
	}
	return &models.MessagesResult{Success: true, Message: message, Data: out}, nil
}

// annotate converts a stored message into the viewer-relative shape.
func annotate(m *models.Message, viewer string, profiles map[string]*models.User) *models.ChatMessage {
	outgoing := viewer != "" && m.Sender == viewer
	direction := models.DirectionIncoming
	if outgoing {
		direction = models.DirectionOutgoing
	}
	return &models.ChatMessage{
		ID:             m.ID,
		Sender:         profiles[m.Sender],
		Recipient:      profiles[m.Recipient],
		Content:        m.Content,
		Offer:          m.Offer,
		Type:           m.Type,
		Status:         m.Status,
		ConversationID: m.ConversationID,
		CreatedAt:      m.CreatedAt,
		Direction:      direction,
		IsCurrentUser:  outgoing,
	}
}
