package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nil-marketplace/internal/domain/messaging"
	qb "github.com/riskibarqy/nil-marketplace/internal/platform/querybuilder"
)

const (
	conversationColumns = "public_id, agency_id, athlete_id, campaign_public_id, last_message_at, created_at"
	messageColumns      = "public_id, conversation_public_id, sender_id, body, client_message_id, read_at, created_at"

	conversationPairConstraint = "uq_conversations_pair"
	messageClientIDConstraint  = "uq_messages_client_id"
)

type MessagingRepository struct {
	db *sqlx.DB
}

func NewMessagingRepository(db *sqlx.DB) *MessagingRepository {
	return &MessagingRepository{db: db}
}

func (r *MessagingRepository) CreateConversation(ctx context.Context, c messaging.Conversation) error {
	query, args, err := qb.InsertModel("conversations", conversationInsertModel{
		PublicID:   c.ID,
		AgencyID:   c.AgencyID,
		AthleteID:  c.AthleteID,
		CampaignID: nullableString(c.CampaignID),
		CreatedAt:  c.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert conversation query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, conversationPairConstraint) {
			return messaging.ErrConversationExists
		}
		return fmt.Errorf("insert conversation id=%s: %w", c.ID, err)
	}
	return nil
}

func (r *MessagingRepository) GetConversation(ctx context.Context, conversationID string) (messaging.Conversation, bool, error) {
	return r.getConversation(ctx, qb.Eq("public_id", conversationID))
}

func (r *MessagingRepository) GetConversationByPair(ctx context.Context, agencyID, athleteID string) (messaging.Conversation, bool, error) {
	return r.getConversation(ctx, qb.Eq("agency_id", agencyID), qb.Eq("athlete_id", athleteID))
}

func (r *MessagingRepository) getConversation(ctx context.Context, conds ...qb.Condition) (messaging.Conversation, bool, error) {
	query, args, err := qb.Select(conversationColumns).From("conversations").Where(conds...).Limit(1).ToSQL()
	if err != nil {
		return messaging.Conversation{}, false, fmt.Errorf("build select conversation query: %w", err)
	}

	var row conversationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return messaging.Conversation{}, false, nil
		}
		return messaging.Conversation{}, false, fmt.Errorf("select conversation: %w", err)
	}
	return row.toDomain(), true, nil
}

// ListSummaries returns the user's conversations, most recent activity first.
func (r *MessagingRepository) ListSummaries(ctx context.Context, userID string) ([]messaging.Summary, error) {
	const query = `
SELECT
    c.public_id, c.agency_id, c.athlete_id, c.campaign_public_id, c.last_message_at, c.created_at,
    last.public_id AS last_public_id,
    last.sender_id AS last_sender_id,
    last.body AS last_body,
    last.client_message_id AS last_client_message_id,
    last.read_at AS last_read_at,
    last.created_at AS last_created_at,
    (
        SELECT COUNT(*)
        FROM messages u
        WHERE u.conversation_public_id = c.public_id
          AND u.sender_id <> $1
          AND u.read_at IS NULL
    ) AS unread_count
FROM conversations c
LEFT JOIN LATERAL (
    SELECT m.public_id, m.sender_id, m.body, m.client_message_id, m.read_at, m.created_at
    FROM messages m
    WHERE m.conversation_public_id = c.public_id
    ORDER BY m.created_at DESC, m.id DESC
    LIMIT 1
) last ON TRUE
WHERE c.agency_id = $1 OR c.athlete_id = $1
ORDER BY COALESCE(c.last_message_at, c.created_at) DESC, c.id DESC`

	var rows []conversationSummaryRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("select conversation summaries user=%s: %w", userID, err)
	}

	out := make([]messaging.Summary, 0, len(rows))
	for _, row := range rows {
		summary := messaging.Summary{
			Conversation: row.conversationTableModel.toDomain(),
			UnreadCount:  row.UnreadCount,
		}
		if row.LastID.Valid && row.LastCreatedAt != nil {
			summary.LastMessage = &messaging.Message{
				ID:              row.LastID.String,
				ConversationID:  row.PublicID,
				SenderID:        stringOrEmpty(row.LastSenderID),
				Body:            stringOrEmpty(row.LastBody),
				ClientMessageID: stringOrEmpty(row.LastClientID),
				ReadAt:          row.LastReadAt,
				CreatedAt:       *row.LastCreatedAt,
			}
		}
		out = append(out, summary)
	}
	return out, nil
}

// CreateMessage stores the message and bumps the conversation activity in one transaction.
func (r *MessagingRepository) CreateMessage(ctx context.Context, m messaging.Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create message tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("messages", messageInsertModel{
		PublicID:        m.ID,
		ConversationID:  m.ConversationID,
		SenderID:        m.SenderID,
		Body:            m.Body,
		ClientMessageID: nullableString(m.ClientMessageID),
		CreatedAt:       m.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert message query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, messageClientIDConstraint) {
			return messaging.ErrDuplicateMessage
		}
		return fmt.Errorf("insert message id=%s: %w", m.ID, err)
	}

	const touchQuery = `
UPDATE conversations
SET last_message_at = GREATEST(COALESCE(last_message_at, $2), $2)
WHERE public_id = $1`
	if _, err := tx.ExecContext(ctx, touchQuery, m.ConversationID, m.CreatedAt); err != nil {
		return fmt.Errorf("touch conversation id=%s: %w", m.ConversationID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create message tx: %w", err)
	}
	return nil
}

func (r *MessagingRepository) GetMessageByClientID(ctx context.Context, conversationID, senderID, clientMessageID string) (messaging.Message, bool, error) {
	if clientMessageID == "" {
		return messaging.Message{}, false, nil
	}
	query, args, err := qb.Select(messageColumns).
		From("messages").
		Where(
			qb.Eq("conversation_public_id", conversationID),
			qb.Eq("sender_id", senderID),
			qb.Eq("client_message_id", clientMessageID),
		).
		ToSQL()
	if err != nil {
		return messaging.Message{}, false, fmt.Errorf("build select message by client id query: %w", err)
	}

	var row messageTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return messaging.Message{}, false, nil
		}
		return messaging.Message{}, false, fmt.Errorf("select message by client id: %w", err)
	}
	return row.toDomain(), true, nil
}

// ListMessages returns oldest first; After excludes messages created at or before it.
func (r *MessagingRepository) ListMessages(ctx context.Context, filter messaging.MessageFilter) ([]messaging.Message, error) {
	conds := []qb.Condition{qb.Eq("conversation_public_id", filter.ConversationID)}
	if !filter.After.IsZero() {
		conds = append(conds, qb.Gt("created_at", filter.After))
	}
	query, args, err := qb.Select(messageColumns).
		From("messages").
		Where(conds...).
		OrderBy("created_at", "id").
		Limit(filter.Limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select messages query: %w", err)
	}

	var rows []messageTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select messages conversation=%s: %w", filter.ConversationID, err)
	}
	out := make([]messaging.Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MessagingRepository) MarkRead(ctx context.Context, conversationID, readerID string, at time.Time) (int64, error) {
	query, args, err := qb.Update("messages").
		Set("read_at", at).
		Where(
			qb.Eq("conversation_public_id", conversationID),
			qb.Expr("sender_id <> ?", readerID),
			qb.IsNull("read_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build mark messages read query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark messages read conversation=%s: %w", conversationID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read marked message rows: %w", err)
	}
	return affected, nil
}

func (m conversationTableModel) toDomain() messaging.Conversation {
	return messaging.Conversation{
		ID:            m.PublicID,
		AgencyID:      m.AgencyID,
		AthleteID:     m.AthleteID,
		CampaignID:    stringOrEmpty(m.CampaignID),
		LastMessageAt: m.LastMessageAt,
		CreatedAt:     m.CreatedAt,
	}
}

func (m messageTableModel) toDomain() messaging.Message {
	return messaging.Message{
		ID:              m.PublicID,
		ConversationID:  m.ConversationID,
		SenderID:        m.SenderID,
		Body:            m.Body,
		ClientMessageID: stringOrEmpty(m.ClientMessageID),
		ReadAt:          m.ReadAt,
		CreatedAt:       m.CreatedAt,
	}
}
