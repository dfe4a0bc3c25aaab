package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/messaging"
)

type MessagingRepository struct {
	mu            sync.RWMutex
	conversations map[string]messaging.Conversation
	messages      []messaging.Message
}

func NewMessagingRepository() *MessagingRepository {
	return &MessagingRepository{conversations: make(map[string]messaging.Conversation)}
}

func (r *MessagingRepository) CreateConversation(_ context.Context, c messaging.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.conversations {
		if existing.AgencyID == c.AgencyID && existing.AthleteID == c.AthleteID {
			return messaging.ErrConversationExists
		}
	}
	r.conversations[c.ID] = c
	return nil
}

func (r *MessagingRepository) GetConversation(_ context.Context, conversationID string) (messaging.Conversation, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.conversations[conversationID]
	return c, ok, nil
}

func (r *MessagingRepository) GetConversationByPair(_ context.Context, agencyID, athleteID string) (messaging.Conversation, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.conversations {
		if c.AgencyID == agencyID && c.AthleteID == athleteID {
			return c, true, nil
		}
	}
	return messaging.Conversation{}, false, nil
}

func (r *MessagingRepository) ListSummaries(_ context.Context, userID string) ([]messaging.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]messaging.Summary, 0)
	for _, c := range r.conversations {
		if !c.HasParticipant(userID) {
			continue
		}
		summary := messaging.Summary{Conversation: c}
		for idx := range r.messages {
			m := r.messages[idx]
			if m.ConversationID != c.ID {
				continue
			}
			if summary.LastMessage == nil || !m.CreatedAt.Before(summary.LastMessage.CreatedAt) {
				last := m
				summary.LastMessage = &last
			}
			if m.SenderID != userID && m.ReadAt == nil {
				summary.UnreadCount++
			}
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		return activityAt(out[i]).After(activityAt(out[j]))
	})
	return out, nil
}

func (r *MessagingRepository) CreateMessage(_ context.Context, m messaging.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ClientMessageID != "" {
		for _, existing := range r.messages {
			if existing.ConversationID == m.ConversationID && existing.SenderID == m.SenderID && existing.ClientMessageID == m.ClientMessageID {
				return messaging.ErrDuplicateMessage
			}
		}
	}
	r.messages = append(r.messages, m)
	if c, ok := r.conversations[m.ConversationID]; ok {
		at := m.CreatedAt
		c.LastMessageAt = &at
		r.conversations[c.ID] = c
	}
	return nil
}

func (r *MessagingRepository) GetMessageByClientID(_ context.Context, conversationID, senderID, clientMessageID string) (messaging.Message, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.SenderID == senderID && m.ClientMessageID == clientMessageID {
			return m, true, nil
		}
	}
	return messaging.Message{}, false, nil
}

func (r *MessagingRepository) ListMessages(_ context.Context, filter messaging.MessageFilter) ([]messaging.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]messaging.Message, 0)
	for _, m := range r.messages {
		if m.ConversationID != filter.ConversationID {
			continue
		}
		if !filter.After.IsZero() && !m.CreatedAt.After(filter.After) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MessagingRepository) MarkRead(_ context.Context, conversationID, readerID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	for idx := range r.messages {
		m := &r.messages[idx]
		if m.ConversationID == conversationID && m.SenderID != readerID && m.ReadAt == nil {
			m.ReadAt = &at
			updated++
		}
	}
	return updated, nil
}

func activityAt(s messaging.Summary) time.Time {
	if s.LastMessage != nil {
		return s.LastMessage.CreatedAt
	}
	return s.Conversation.CreatedAt
}
