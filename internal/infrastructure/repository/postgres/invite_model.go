package postgres

import (
	"database/sql"
	"time"
)

type inviteTableModel struct {
	PublicID    string         `db:"public_id"`
	AthleteID   string         `db:"athlete_public_id"`
	ParentEmail string         `db:"parent_email"`
	TokenHash   string         `db:"token_hash"`
	ExpiresAt   time.Time      `db:"expires_at"`
	AcceptedAt  *time.Time     `db:"accepted_at"`
	AcceptedBy  sql.NullString `db:"accepted_by"`
	CreatedAt   time.Time      `db:"created_at"`
}

type inviteInsertModel struct {
	PublicID    string    `db:"public_id"`
	AthleteID   string    `db:"athlete_public_id"`
	ParentEmail string    `db:"parent_email"`
	TokenHash   string    `db:"token_hash"`
	ExpiresAt   time.Time `db:"expires_at"`
	CreatedAt   time.Time `db:"created_at"`
}

type parentLinkInsertModel struct {
	ParentID  string    `db:"parent_id"`
	AthleteID string    `db:"athlete_public_id"`
	CreatedAt time.Time `db:"created_at"`
}

type notificationTableModel struct {
	PublicID  string     `db:"public_id"`
	UserID    string     `db:"user_id"`
	Kind      string     `db:"kind"`
	Title     string     `db:"title"`
	Body      string     `db:"body"`
	Link      string     `db:"link"`
	ReadAt    *time.Time `db:"read_at"`
	CreatedAt time.Time  `db:"created_at"`
}
