package postgres

import (
	"database/sql"
	"time"
)

type conversationTableModel struct {
	PublicID      string         `db:"public_id"`
	AgencyID      string         `db:"agency_id"`
	AthleteID     string         `db:"athlete_id"`
	CampaignID    sql.NullString `db:"campaign_public_id"`
	LastMessageAt *time.Time     `db:"last_message_at"`
	CreatedAt     time.Time      `db:"created_at"`
}

type conversationInsertModel struct {
	PublicID   string    `db:"public_id"`
	AgencyID   string    `db:"agency_id"`
	AthleteID  string    `db:"athlete_id"`
	CampaignID *string   `db:"campaign_public_id"`
	CreatedAt  time.Time `db:"created_at"`
}

type messageTableModel struct {
	PublicID        string         `db:"public_id"`
	ConversationID  string         `db:"conversation_public_id"`
	SenderID        string         `db:"sender_id"`
	Body            string         `db:"body"`
	ClientMessageID sql.NullString `db:"client_message_id"`
	ReadAt          *time.Time     `db:"read_at"`
	CreatedAt       time.Time      `db:"created_at"`
}

type messageInsertModel struct {
	PublicID        string    `db:"public_id"`
	ConversationID  string    `db:"conversation_public_id"`
	SenderID        string    `db:"sender_id"`
	Body            string    `db:"body"`
	ClientMessageID *string   `db:"client_message_id"`
	CreatedAt       time.Time `db:"created_at"`
}

type conversationSummaryRow struct {
	conversationTableModel
	LastID        sql.NullString `db:"last_public_id"`
	LastSenderID  sql.NullString `db:"last_sender_id"`
	LastBody      sql.NullString `db:"last_body"`
	LastClientID  sql.NullString `db:"last_client_message_id"`
	LastReadAt    *time.Time     `db:"last_read_at"`
	LastCreatedAt *time.Time     `db:"last_created_at"`
	UnreadCount   int            `db:"unread_count"`
}
