package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/messaging"
	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/repository/memory"
)

var (
	agencyPrincipal  = user.Principal{UserID: "agency-1", Role: user.RoleAgency}
	athletePrincipal = user.Principal{UserID: "athlete-1", Role: user.RoleAthlete}
)

type messagingFixture struct {
	svc           *MessagingService
	notifications *memory.NotificationRepository
}

func newMessagingFixture(t *testing.T) messagingFixture {
	t.Helper()

	users := memory.NewUserRepository()
	for _, u := range []user.User{
		{ID: "agency-1", Role: user.RoleAgency},
		{ID: "athlete-1", Role: user.RoleAthlete},
		{ID: "parent-1", Role: user.RoleParent},
	} {
		if err := users.Upsert(t.Context(), u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	notifications := memory.NewNotificationRepository()
	svc := NewMessagingService(
		memory.NewMessagingRepository(),
		users,
		memory.NewCampaignRepository(),
		newTestNotifier(notifications),
		&sequenceIDs{prefix: "msg"},
	)
	svc.now = fixedClock

	return messagingFixture{svc: svc, notifications: notifications}
}

func TestMessagingService_StartConversationIsIdempotent(t *testing.T) {
	f := newMessagingFixture(t)

	conv, created, err := f.svc.StartConversation(t.Context(), StartConversationInput{Principal: agencyPrincipal, ParticipantID: "athlete-1"})
	if err != nil {
		t.Fatalf("start conversation: %v", err)
	}
	if !created || conv.AgencyID != "agency-1" || conv.AthleteID != "athlete-1" {
		t.Fatalf("unexpected conversation: created=%v %+v", created, conv)
	}

	again, created, err := f.svc.StartConversation(t.Context(), StartConversationInput{Principal: athletePrincipal, ParticipantID: "agency-1"})
	if err != nil {
		t.Fatalf("start conversation from athlete: %v", err)
	}
	if created || again.ID != conv.ID {
		t.Fatalf("expected existing conversation, got created=%v id=%s", created, again.ID)
	}

	_, _, err = f.svc.StartConversation(t.Context(), StartConversationInput{Principal: agencyPrincipal, ParticipantID: "parent-1"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a non-athlete participant, got %v", err)
	}
	_, _, err = f.svc.StartConversation(t.Context(), StartConversationInput{
		Principal:     user.Principal{UserID: "parent-1", Role: user.RoleParent},
		ParticipantID: "athlete-1",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for parent, got %v", err)
	}
}

func TestMessagingService_SendDeduplicatesClientMessageID(t *testing.T) {
	f := newMessagingFixture(t)
	conv, _, err := f.svc.StartConversation(t.Context(), StartConversationInput{Principal: agencyPrincipal, ParticipantID: "athlete-1"})
	if err != nil {
		t.Fatalf("start conversation: %v", err)
	}

	first, created, err := f.svc.Send(t.Context(), SendMessageInput{Principal: agencyPrincipal, ConversationID: conv.ID, Body: "Hi there", ClientMessageID: "c-1"})
	if err != nil || !created {
		t.Fatalf("send message: created=%v err=%v", created, err)
	}
	replay, created, err := f.svc.Send(t.Context(), SendMessageInput{Principal: agencyPrincipal, ConversationID: conv.ID, Body: "Hi there", ClientMessageID: "c-1"})
	if err != nil {
		t.Fatalf("replay message: %v", err)
	}
	if created || replay.ID != first.ID {
		t.Fatalf("expected stored message on replay, got created=%v id=%s", created, replay.ID)
	}

	page, err := f.svc.ListMessages(t.Context(), ListMessagesInput{Principal: athletePrincipal, ConversationID: conv.ID})
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(page.Items) != 1 || page.PollAfter != messaging.ActivePollInterval {
		t.Fatalf("unexpected page: %d items, poll=%s", len(page.Items), page.PollAfter)
	}

	unread, _ := f.notifications.CountUnread(t.Context(), "athlete-1")
	if unread != 1 {
		t.Fatalf("expected one message notification, got %d", unread)
	}

	summaries, err := f.svc.ListConversations(t.Context(), "athlete-1")
	if err != nil {
		t.Fatalf("list conversations: %v", err)
	}
	if len(summaries) != 1 || summaries[0].UnreadCount != 1 || summaries[0].LastMessage == nil {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}

	read, err := f.svc.MarkRead(t.Context(), athletePrincipal, conv.ID)
	if err != nil || read != 1 {
		t.Fatalf("mark read: n=%d err=%v", read, err)
	}
}

func TestMessagingService_NonParticipantForbidden(t *testing.T) {
	f := newMessagingFixture(t)
	conv, _, err := f.svc.StartConversation(t.Context(), StartConversationInput{Principal: agencyPrincipal, ParticipantID: "athlete-1"})
	if err != nil {
		t.Fatalf("start conversation: %v", err)
	}

	outsider := user.Principal{UserID: "agency-2", Role: user.RoleAgency}
	if _, _, err := f.svc.Send(t.Context(), SendMessageInput{Principal: outsider, ConversationID: conv.ID, Body: "hello"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on send, got %v", err)
	}
	if _, err := f.svc.ListMessages(t.Context(), ListMessagesInput{Principal: outsider, ConversationID: conv.ID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on list, got %v", err)
	}
	if _, _, err := f.svc.Send(t.Context(), SendMessageInput{Principal: agencyPrincipal, ConversationID: conv.ID, Body: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank body, got %v", err)
	}
}

func TestMessagingService_ListMessagesAfter(t *testing.T) {
	f := newMessagingFixture(t)
	conv, _, err := f.svc.StartConversation(t.Context(), StartConversationInput{Principal: agencyPrincipal, ParticipantID: "athlete-1"})
	if err != nil {
		t.Fatalf("start conversation: %v", err)
	}

	for i, body := range []string{"one", "two", "three"} {
		at := testNow.Add(time.Duration(i) * time.Minute)
		f.svc.now = func() time.Time { return at }
		if _, _, err := f.svc.Send(t.Context(), SendMessageInput{Principal: agencyPrincipal, ConversationID: conv.ID, Body: body}); err != nil {
			t.Fatalf("send %s: %v", body, err)
		}
	}

	page, err := f.svc.ListMessages(t.Context(), ListMessagesInput{Principal: athletePrincipal, ConversationID: conv.ID, After: testNow})
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].Body != "two" || page.Items[1].Body != "three" {
		t.Fatalf("unexpected messages after cursor: %+v", page.Items)
	}
}
