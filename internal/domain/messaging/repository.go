package messaging

import (
	"context"
	"time"
)

type Repository interface {
	CreateConversation(ctx context.Context, c Conversation) error
	GetConversation(ctx context.Context, conversationID string) (Conversation, bool, error)
	GetConversationByPair(ctx context.Context, agencyID, athleteID string) (Conversation, bool, error)
	ListSummaries(ctx context.Context, userID string) ([]Summary, error)
	CreateMessage(ctx context.Context, m Message) error
	GetMessageByClientID(ctx context.Context, conversationID, senderID, clientMessageID string) (Message, bool, error)
	ListMessages(ctx context.Context, filter MessageFilter) ([]Message, error)
	// MarkRead marks messages sent by the other participant as read.
	MarkRead(ctx context.Context, conversationID, readerID string, at time.Time) (int64, error)
}
