package messaging

import (
	"errors"
	"time"
)

var (
	ErrConversationExists = errors.New("conversation already exists")
	ErrDuplicateMessage   = errors.New("message already stored")
)

const ActivePollInterval = 3 * time.Second

// Conversation links one agency user with one athlete user.
type Conversation struct {
	ID            string
	AgencyID      string
	AthleteID     string
	CampaignID    string
	LastMessageAt *time.Time
	CreatedAt     time.Time
}

func (c Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.AgencyID == userID || c.AthleteID == userID)
}

// Counterpart returns the other participant.
func (c Conversation) Counterpart(userID string) string {
	if c.AgencyID == userID {
		return c.AthleteID
	}
	return c.AgencyID
}

type Message struct {
	ID              string
	ConversationID  string
	SenderID        string
	Body            string
	ClientMessageID string
	ReadAt          *time.Time
	CreatedAt       time.Time
}

type Summary struct {
	Conversation Conversation
	LastMessage  *Message
	UnreadCount  int
}

type MessageFilter struct {
	ConversationID string
	After          time.Time
	Limit          int
}
