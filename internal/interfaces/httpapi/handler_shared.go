package httpapi

import (
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/campaign"
	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
	"github.com/riskibarqy/nil-marketplace/internal/domain/matching"
	"github.com/riskibarqy/nil-marketplace/internal/domain/messaging"
	"github.com/riskibarqy/nil-marketplace/internal/domain/notification"
	"github.com/riskibarqy/nil-marketplace/internal/domain/roster"
	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

const dateLayout = "2006-01-02"

type upsertAthleteProfileRequest struct {
	FirstName          string  `json:"first_name" validate:"required,max=80"`
	LastName           string  `json:"last_name" validate:"required,max=80"`
	Email              string  `json:"email" validate:"omitempty,email"`
	Sport              string  `json:"sport" validate:"required,max=40"`
	Position           string  `json:"position" validate:"max=40"`
	School             string  `json:"school" validate:"required,max=160"`
	State              string  `json:"state" validate:"required,len=2"`
	GraduationYear     int     `json:"graduation_year" validate:"required,gte=1900,lte=2100"`
	InstagramFollowers int64   `json:"instagram_followers" validate:"gte=0"`
	TikTokFollowers    int64   `json:"tiktok_followers" validate:"gte=0"`
	TwitterFollowers   int64   `json:"twitter_followers" validate:"gte=0"`
	EngagementRate     float64 `json:"engagement_rate" validate:"gte=0,lte=1"`
	Bio                string  `json:"bio" validate:"max=2000"`
	OpenToDeals        bool    `json:"open_to_deals"`
}

type saveAthleteRequest struct {
	AthleteID string `json:"athlete_id" validate:"required"`
	Note      string `json:"note" validate:"max=500"`
}

type campaignRequest struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Description    string   `json:"description" validate:"max=4000"`
	Sports         []string `json:"sports" validate:"max=20,dive,required"`
	TargetStates   []string `json:"target_states" validate:"max=60,dive,len=2"`
	MinFollowers   int64    `json:"min_followers" validate:"gte=0"`
	MinEngagement  float64  `json:"min_engagement" validate:"gte=0,lte=1"`
	BudgetMinCents int64    `json:"budget_min_cents" validate:"gte=0"`
	BudgetMaxCents int64    `json:"budget_max_cents" validate:"gte=0"`
	Status         string   `json:"status" validate:"omitempty,oneof=draft active closed"`
}

type updateMatchStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=shortlisted contacted dismissed"`
}

type submitDealRequest struct {
	AgencyID          string   `json:"agency_id"`
	BrandName         string   `json:"brand_name" validate:"required,max=160"`
	Description       string   `json:"description" validate:"max=8000"`
	CompensationCents int64    `json:"compensation_cents" validate:"gte=0"`
	Deliverables      []string `json:"deliverables" validate:"max=50,dive,required,max=500"`
	StartDate         string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate           string   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type reviewDealRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject request_changes"`
	Note     string `json:"note" validate:"max=2000"`
}

type analyzeDealRequest struct {
	Text string `json:"text" validate:"required"`
}

type createInviteRequest struct {
	ParentEmail string `json:"parent_email" validate:"required,email"`
}

type acceptInviteRequest struct {
	Token string `json:"token" validate:"required"`
}

type startConversationRequest struct {
	ParticipantID string `json:"participant_id" validate:"required"`
	CampaignID    string `json:"campaign_id"`
}

type sendMessageRequest struct {
	Body            string `json:"body" validate:"required,max=4000"`
	ClientMessageID string `json:"client_message_id" validate:"max=100"`
}

type meDTO struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Role      user.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type athleteDTO struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id,omitempty"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Email              string    `json:"email,omitempty"`
	Sport              string    `json:"sport"`
	Position           string    `json:"position,omitempty"`
	School             string    `json:"school"`
	State              string    `json:"state"`
	GraduationYear     int       `json:"graduation_year"`
	InstagramFollowers int64     `json:"instagram_followers"`
	TikTokFollowers    int64     `json:"tiktok_followers"`
	TwitterFollowers   int64     `json:"twitter_followers"`
	FollowersTotal     int64     `json:"followers_total"`
	EngagementRate     float64   `json:"engagement_rate"`
	Bio                string    `json:"bio,omitempty"`
	OpenToDeals        bool      `json:"open_to_deals"`
	FMVCents           int64     `json:"fmv_cents"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type pageDTO[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

type savedAthleteDTO struct {
	AthleteID string     `json:"athlete_id"`
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	Athlete   athleteDTO `json:"athlete"`
}

type campaignDTO struct {
	ID             string    `json:"id"`
	AgencyID       string    `json:"agency_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Sports         []string  `json:"sports"`
	TargetStates   []string  `json:"target_states"`
	MinFollowers   int64     `json:"min_followers"`
	MinEngagement  float64   `json:"min_engagement"`
	BudgetMinCents int64     `json:"budget_min_cents"`
	BudgetMaxCents int64     `json:"budget_max_cents"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type matchDTO struct {
	CampaignID string             `json:"campaign_id"`
	AthleteID  string             `json:"athlete_id"`
	Score      int                `json:"score"`
	Breakdown  matching.Breakdown `json:"breakdown"`
	Status     string             `json:"status"`
	NotifiedAt *time.Time         `json:"notified_at,omitempty"`
	UpdatedAt  time.Time          `json:"updated_at"`
	Athlete    *athleteDTO        `json:"athlete,omitempty"`
	Campaign   *campaignDTO       `json:"campaign,omitempty"`
}

type dealDTO struct {
	ID                string         `json:"id"`
	AthleteID         string         `json:"athlete_id"`
	AgencyID          string         `json:"agency_id,omitempty"`
	BrandName         string         `json:"brand_name"`
	Description       string         `json:"description,omitempty"`
	CompensationCents int64          `json:"compensation_cents"`
	Deliverables      []string       `json:"deliverables"`
	StartDate         string         `json:"start_date,omitempty"`
	EndDate           string         `json:"end_date,omitempty"`
	Status            string         `json:"status"`
	RedFlags          []deal.RedFlag `json:"red_flags"`
	ComplianceScore   int            `json:"compliance_score"`
	RiskLevel         string         `json:"risk_level"`
	ReviewerID        string         `json:"reviewer_id,omitempty"`
	ReviewNote        string         `json:"review_note,omitempty"`
	ReviewedAt        *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

type actionItemDTO struct {
	Deal        dealDTO  `json:"deal"`
	AthleteName string   `json:"athlete_name"`
	Reasons     []string `json:"reasons"`
	AgeHours    int      `json:"age_hours"`
}

type dealAnalysisDTO struct {
	Source            string         `json:"source"`
	BrandName         string         `json:"brand_name,omitempty"`
	CompensationCents int64          `json:"compensation_cents"`
	Deliverables      []string       `json:"deliverables"`
	TermMonths        int            `json:"term_months"`
	Exclusivity       bool           `json:"exclusivity"`
	RedFlags          []deal.RedFlag `json:"red_flags"`
	Summary           string         `json:"summary,omitempty"`
}

type rosterPreviewDTO struct {
	ImportID      string       `json:"import_id"`
	TotalRows     int          `json:"total_rows"`
	ValidRows     int          `json:"valid_rows"`
	InvalidRows   int          `json:"invalid_rows"`
	WarningsCount int          `json:"warnings_count"`
	Committed     bool         `json:"committed"`
	Rows          []roster.Row `json:"rows"`
	Page          int          `json:"page"`
	PageSize      int          `json:"page_size"`
	TotalPages    int          `json:"total_pages"`
}

type inviteDTO struct {
	ID          string     `json:"id"`
	ParentEmail string     `json:"parent_email"`
	Status      string     `json:"status"`
	ExpiresAt   time.Time  `json:"expires_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type createdInviteDTO struct {
	Invite    inviteDTO `json:"invite"`
	AcceptURL string    `json:"accept_url"`
}

type parentDashboardDTO struct {
	Athletes            []athleteDTO `json:"athletes"`
	PendingDeals        []dealDTO    `json:"pending_deals"`
	RecentApprovedDeals []dealDTO    `json:"recent_approved_deals"`
	UnreadNotifications int          `json:"unread_notifications"`
}

type notificationDTO struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	Link      string     `json:"link,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type notificationListDTO struct {
	Items       []notificationDTO `json:"items"`
	UnreadCount int               `json:"unread_count"`
	PollAfterMS int64             `json:"poll_after_ms"`
}

type conversationDTO struct {
	ID            string      `json:"id"`
	AgencyID      string      `json:"agency_id"`
	AthleteID     string      `json:"athlete_id"`
	CampaignID    string      `json:"campaign_id,omitempty"`
	LastMessageAt *time.Time  `json:"last_message_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	LastMessage   *messageDTO `json:"last_message,omitempty"`
	UnreadCount   *int        `json:"unread_count,omitempty"`
}

type messageDTO struct {
	ID              string     `json:"id"`
	ConversationID  string     `json:"conversation_id"`
	SenderID        string     `json:"sender_id"`
	Body            string     `json:"body"`
	ClientMessageID string     `json:"client_message_id,omitempty"`
	ReadAt          *time.Time `json:"read_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type messagePageDTO struct {
	Items       []messageDTO `json:"items"`
	PollAfterMS int64        `json:"poll_after_ms"`
}

func athleteToDTO(p athlete.Profile, includeEmail bool) athleteDTO {
	dto := athleteDTO{
		ID:                 p.ID,
		UserID:             p.UserID,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Sport:              string(p.Sport),
		Position:           p.Position,
		School:             p.School,
		State:              p.State,
		GraduationYear:     p.GraduationYear,
		InstagramFollowers: p.InstagramFollowers,
		TikTokFollowers:    p.TikTokFollowers,
		TwitterFollowers:   p.TwitterFollowers,
		FollowersTotal:     p.FollowersTotal(),
		EngagementRate:     p.EngagementRate,
		Bio:                p.Bio,
		OpenToDeals:        p.OpenToDeals,
		FMVCents:           p.FMVCents,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if includeEmail {
		dto.Email = p.Email
	}
	return dto
}

func athletesToDTO(items []athlete.Profile) []athleteDTO {
	out := make([]athleteDTO, 0, len(items))
	for _, item := range items {
		out = append(out, athleteToDTO(item, false))
	}
	return out
}

func campaignToDTO(c campaign.Campaign) campaignDTO {
	return campaignDTO{
		ID:             c.ID,
		AgencyID:       c.AgencyID,
		Title:          c.Title,
		Description:    c.Description,
		Sports:         nonNil(c.Sports),
		TargetStates:   nonNil(c.TargetStates),
		MinFollowers:   c.MinFollowers,
		MinEngagement:  c.MinEngagement,
		BudgetMinCents: c.BudgetMinCents,
		BudgetMaxCents: c.BudgetMaxCents,
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func matchToDTO(m matching.Match) matchDTO {
	return matchDTO{
		CampaignID: m.CampaignID,
		AthleteID:  m.AthleteID,
		Score:      m.Score,
		Breakdown:  m.Breakdown,
		Status:     string(m.Status),
		NotifiedAt: m.NotifiedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func dealToDTO(d deal.Deal) dealDTO {
	dto := dealDTO{
		ID:                d.ID,
		AthleteID:         d.AthleteID,
		AgencyID:          d.AgencyID,
		BrandName:         d.BrandName,
		Description:       d.Description,
		CompensationCents: d.CompensationCents,
		Deliverables:      nonNil(d.Deliverables),
		Status:            string(d.Status),
		RedFlags:          nonNil(d.RedFlags),
		ComplianceScore:   d.ComplianceScore,
		RiskLevel:         string(d.RiskLevel),
		ReviewerID:        d.ReviewerID,
		ReviewNote:        d.ReviewNote,
		ReviewedAt:        d.ReviewedAt,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
	if d.StartDate != nil {
		dto.StartDate = d.StartDate.Format(dateLayout)
	}
	if d.EndDate != nil {
		dto.EndDate = d.EndDate.Format(dateLayout)
	}
	return dto
}

func dealsToDTO(items []deal.Deal) []dealDTO {
	out := make([]dealDTO, 0, len(items))
	for _, item := range items {
		out = append(out, dealToDTO(item))
	}
	return out
}

func rosterPreviewToDTO(preview usecase.RosterPreview) rosterPreviewDTO {
	imp := preview.Import
	return rosterPreviewDTO{
		ImportID:      imp.ID,
		TotalRows:     imp.TotalRows,
		ValidRows:     imp.ValidRows,
		InvalidRows:   imp.InvalidRows,
		WarningsCount: imp.WarningsCount,
		Committed:     imp.CommittedAt != nil,
		Rows:          nonNil(preview.Page.Rows),
		Page:          preview.Page.Page,
		PageSize:      preview.Page.PageSize,
		TotalPages:    preview.Page.TotalPages,
	}
}

func inviteToDTO(view usecase.InviteView) inviteDTO {
	return inviteDTO{
		ID:          view.Invite.ID,
		ParentEmail: view.Invite.ParentEmail,
		Status:      string(view.Status),
		ExpiresAt:   view.Invite.ExpiresAt,
		AcceptedAt:  view.Invite.AcceptedAt,
		CreatedAt:   view.Invite.CreatedAt,
	}
}

func notificationToDTO(n notification.Notification) notificationDTO {
	return notificationDTO{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Title:     n.Title,
		Body:      n.Body,
		Link:      n.Link,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func conversationToDTO(c messaging.Conversation) conversationDTO {
	return conversationDTO{
		ID:            c.ID,
		AgencyID:      c.AgencyID,
		AthleteID:     c.AthleteID,
		CampaignID:    c.CampaignID,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
}

func messageToDTO(m messaging.Message) messageDTO {
	return messageDTO{
		ID:              m.ID,
		ConversationID:  m.ConversationID,
		SenderID:        m.SenderID,
		Body:            m.Body,
		ClientMessageID: m.ClientMessageID,
		ReadAt:          m.ReadAt,
		CreatedAt:       m.CreatedAt,
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
