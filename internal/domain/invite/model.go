package invite

import (
	"errors"
	"time"
)

var ErrAlreadyAccepted = errors.New("invite already accepted")

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusExpired  Status = "expired"
)

// Invite asks a parent to link to an athlete. Only the SHA-256 of the token
// is stored.
type Invite struct {
	ID          string
	AthleteID   string
	ParentEmail string
	TokenHash   string
	ExpiresAt   time.Time
	AcceptedAt  *time.Time
	AcceptedBy  string
	CreatedAt   time.Time
}

func (i Invite) StatusAt(now time.Time) Status {
	if i.AcceptedAt != nil {
		return StatusAccepted
	}
	if !now.Before(i.ExpiresAt) {
		return StatusExpired
	}
	return StatusPending
}

// Link is an accepted parent to athlete relation.
type Link struct {
	ParentID  string
	AthleteID string
	CreatedAt time.Time
}
