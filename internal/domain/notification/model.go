package notification

import (
	"strings"
	"time"
)

type Kind string

const (
	KindMatch          Kind = "match"
	KindDealSubmitted  Kind = "deal_submitted"
	KindDealReviewed   Kind = "deal_reviewed"
	KindInviteAccepted Kind = "invite_accepted"
	KindMessage        Kind = "message"
)

type Visibility string

const (
	VisibilityForeground Visibility = "foreground"
	VisibilityBackground Visibility = "background"
)

const (
	PollForeground = 15 * time.Second
	PollBackground = 60 * time.Second
)

// PollAfter is how long a client should wait before polling again.
func PollAfter(raw string) time.Duration {
	if Visibility(strings.ToLower(strings.TrimSpace(raw))) == VisibilityBackground {
		return PollBackground
	}
	return PollForeground
}

type Notification struct {
	ID        string
	UserID    string
	Kind      Kind
	Title     string
	Body      string
	Link      string
	ReadAt    *time.Time
	CreatedAt time.Time
}

type ListFilter struct {
	UserID     string
	UnreadOnly bool
	// Since returns only rows created strictly after it when non-zero.
	Since time.Time
	Limit int
}
