package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/riskibarqy/nil-marketplace/internal/domain/campaign"
	"github.com/riskibarqy/nil-marketplace/internal/domain/messaging"
	"github.com/riskibarqy/nil-marketplace/internal/domain/notification"
	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
	idgen "github.com/riskibarqy/nil-marketplace/internal/platform/id"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 200
	maxMessageRunes     = 4000
)

type StartConversationInput struct {
	Principal     user.Principal
	ParticipantID string
	CampaignID    string
}

type SendMessageInput struct {
	Principal       user.Principal
	ConversationID  string
	Body            string
	ClientMessageID string
}

type ListMessagesInput struct {
	Principal      user.Principal
	ConversationID string
	After          time.Time
	Limit          int
}

type MessagePage struct {
	Items     []messaging.Message
	PollAfter time.Duration
}

type MessagingService struct {
	repo         messaging.Repository
	userRepo     user.Repository
	campaignRepo campaign.Repository
	notifier     *NotificationService
	idGen        idgen.Generator
	now          func() time.Time
}

func NewMessagingService(
	repo messaging.Repository,
	userRepo user.Repository,
	campaignRepo campaign.Repository,
	notifier *NotificationService,
	idGen idgen.Generator,
) *MessagingService {
	return &MessagingService{
		repo:         repo,
		userRepo:     userRepo,
		campaignRepo: campaignRepo,
		notifier:     notifier,
		idGen:        idGen,
		now:          time.Now,
	}
}

// StartConversation returns the existing conversation for the pair or creates
// one. The bool reports whether a new conversation was created.
func (s *MessagingService) StartConversation(ctx context.Context, input StartConversationInput) (messaging.Conversation, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MessagingService.StartConversation")
	defer span.End()

	participantID := strings.TrimSpace(input.ParticipantID)
	campaignID := strings.TrimSpace(input.CampaignID)
	if participantID == "" {
		return messaging.Conversation{}, false, fmt.Errorf("%w: participant_id is required", ErrInvalidInput)
	}
	if participantID == input.Principal.UserID {
		return messaging.Conversation{}, false, fmt.Errorf("%w: cannot start a conversation with yourself", ErrInvalidInput)
	}

	var counterpartRole user.Role
	switch input.Principal.Role {
	case user.RoleAgency:
		counterpartRole = user.RoleAthlete
	case user.RoleAthlete:
		counterpartRole = user.RoleAgency
	default:
		return messaging.Conversation{}, false, fmt.Errorf("%w: only agencies and athletes can message", ErrForbidden)
	}

	participant, exists, err := s.userRepo.GetByID(ctx, participantID)
	if err != nil {
		return messaging.Conversation{}, false, fmt.Errorf("get participant: %w", err)
	}
	if !exists || participant.Role != counterpartRole {
		return messaging.Conversation{}, false, fmt.Errorf("%w: participant not found", ErrNotFound)
	}

	agencyID, athleteID := input.Principal.UserID, participantID
	if input.Principal.Role == user.RoleAthlete {
		agencyID, athleteID = participantID, input.Principal.UserID
	}

	if campaignID != "" {
		c, exists, err := s.campaignRepo.GetByID(ctx, campaignID)
		if err != nil {
			return messaging.Conversation{}, false, fmt.Errorf("get campaign: %w", err)
		}
		if !exists || c.AgencyID != agencyID {
			return messaging.Conversation{}, false, fmt.Errorf("%w: campaign not found", ErrNotFound)
		}
	}

	existing, exists, err := s.repo.GetConversationByPair(ctx, agencyID, athleteID)
	if err != nil {
		return messaging.Conversation{}, false, fmt.Errorf("get conversation: %w", err)
	}
	if exists {
		return existing, false, nil
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return messaging.Conversation{}, false, fmt.Errorf("generate conversation id: %w", err)
	}
	conv := messaging.Conversation{
		ID:         id,
		AgencyID:   agencyID,
		AthleteID:  athleteID,
		CampaignID: campaignID,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		if !errors.Is(err, messaging.ErrConversationExists) {
			recordSpanError(span, err)
			return messaging.Conversation{}, false, fmt.Errorf("create conversation: %w", err)
		}
		existing, exists, getErr := s.repo.GetConversationByPair(ctx, agencyID, athleteID)
		if getErr != nil {
			return messaging.Conversation{}, false, fmt.Errorf("get conversation: %w", getErr)
		}
		if !exists {
			return messaging.Conversation{}, false, fmt.Errorf("%w: conversation vanished after conflict", ErrConflict)
		}
		return existing, false, nil
	}
	return conv, true, nil
}

func (s *MessagingService) ListConversations(ctx context.Context, userID string) ([]messaging.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MessagingService.ListConversations")
	defer span.End()

	items, err := s.repo.ListSummaries(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return items, nil
}

// Send stores a message. Replaying a client_message_id returns the stored
// message with created=false.
func (s *MessagingService) Send(ctx context.Context, input SendMessageInput) (messaging.Message, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MessagingService.Send")
	defer span.End()

	body := strings.TrimSpace(input.Body)
	clientID := strings.TrimSpace(input.ClientMessageID)
	if body == "" {
		return messaging.Message{}, false, fmt.Errorf("%w: body is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(body) > maxMessageRunes {
		return messaging.Message{}, false, fmt.Errorf("%w: body exceeds %d characters", ErrInvalidInput, maxMessageRunes)
	}

	conv, err := s.participantConversation(ctx, input.Principal.UserID, input.ConversationID)
	if err != nil {
		return messaging.Message{}, false, err
	}

	if clientID != "" {
		stored, exists, err := s.repo.GetMessageByClientID(ctx, conv.ID, input.Principal.UserID, clientID)
		if err != nil {
			return messaging.Message{}, false, fmt.Errorf("get message by client id: %w", err)
		}
		if exists {
			return stored, false, nil
		}
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return messaging.Message{}, false, fmt.Errorf("generate message id: %w", err)
	}
	msg := messaging.Message{
		ID:              id,
		ConversationID:  conv.ID,
		SenderID:        input.Principal.UserID,
		Body:            body,
		ClientMessageID: clientID,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		if errors.Is(err, messaging.ErrDuplicateMessage) && clientID != "" {
			stored, exists, getErr := s.repo.GetMessageByClientID(ctx, conv.ID, input.Principal.UserID, clientID)
			if getErr == nil && exists {
				return stored, false, nil
			}
		}
		recordSpanError(span, err)
		return messaging.Message{}, false, fmt.Errorf("create message: %w", err)
	}

	s.notifier.NotifyBestEffort(ctx, NotifyInput{
		UserID: conv.Counterpart(input.Principal.UserID),
		Kind:   notification.KindMessage,
		Title:  "New message",
		Body:   previewText(body, 140),
		Link:   "/conversations/" + conv.ID,
	})
	return msg, true, nil
}

func (s *MessagingService) ListMessages(ctx context.Context, input ListMessagesInput) (MessagePage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MessagingService.ListMessages")
	defer span.End()

	conv, err := s.participantConversation(ctx, input.Principal.UserID, input.ConversationID)
	if err != nil {
		return MessagePage{}, err
	}

	items, err := s.repo.ListMessages(ctx, messaging.MessageFilter{
		ConversationID: conv.ID,
		After:          input.After,
		Limit:          clampLimit(input.Limit, defaultMessageLimit, maxMessageLimit),
	})
	if err != nil {
		return MessagePage{}, fmt.Errorf("list messages: %w", err)
	}
	return MessagePage{Items: items, PollAfter: messaging.ActivePollInterval}, nil
}

func (s *MessagingService) MarkRead(ctx context.Context, p user.Principal, conversationID string) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MessagingService.MarkRead")
	defer span.End()

	conv, err := s.participantConversation(ctx, p.UserID, conversationID)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.MarkRead(ctx, conv.ID, p.UserID, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	return n, nil
}

func (s *MessagingService) participantConversation(ctx context.Context, userID, conversationID string) (messaging.Conversation, error) {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return messaging.Conversation{}, fmt.Errorf("%w: conversation id is required", ErrInvalidInput)
	}
	conv, exists, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return messaging.Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	if !exists {
		return messaging.Conversation{}, fmt.Errorf("%w: conversation not found", ErrNotFound)
	}
	if !conv.HasParticipant(userID) {
		return messaging.Conversation{}, fmt.Errorf("%w: not a participant of this conversation", ErrForbidden)
	}
	return conv, nil
}

func previewText(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes-1]) + "…"
}
