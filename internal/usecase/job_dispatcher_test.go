package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Email
}

func (m *recordingMailer) Send(_ context.Context, email Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return nil
}

type recordingQueue struct {
	paths   []string
	dedupes []string
}

func (q *recordingQueue) Enqueue(_ context.Context, path string, _ any, _ time.Duration, dedupID string) error {
	q.paths = append(q.paths, path)
	q.dedupes = append(q.dedupes, dedupID)
	return nil
}

type stubRecomputer struct {
	campaigns []string
	athletes  []string
}

func (s *stubRecomputer) RecomputeCampaign(_ context.Context, id string) (RecomputeResult, error) {
	s.campaigns = append(s.campaigns, id)
	return RecomputeResult{Scored: 1}, nil
}

func (s *stubRecomputer) RecomputeAthlete(_ context.Context, id string) (RecomputeResult, error) {
	s.athletes = append(s.athletes, id)
	return RecomputeResult{Scored: 2}, nil
}

func TestJobDispatcher_InlineRunsAfterRequestCancel(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewJobDispatcher(nil, mailer, logging.NewNop())

	ctx, cancel := context.WithCancel(t.Context())
	if err := d.EnqueueEmail(ctx, Email{To: "parent@example.com", Subject: "Invite"}); err != nil {
		t.Fatalf("enqueue email: %v", err)
	}
	cancel()
	d.Wait()

	if len(mailer.sent) != 1 || mailer.sent[0].To != "parent@example.com" {
		t.Fatalf("expected inline email delivery, got %+v", mailer.sent)
	}
}

func TestJobDispatcher_QueuePublishesToJobPaths(t *testing.T) {
	queue := &recordingQueue{}
	d := NewJobDispatcher(queue, nil, logging.NewNop())
	d.now = func() time.Time { return time.Date(2026, time.March, 2, 10, 15, 42, 0, time.UTC) }

	if err := d.EnqueueEmail(t.Context(), Email{To: "a@example.com", Subject: "s"}); err != nil {
		t.Fatalf("enqueue email: %v", err)
	}
	if err := d.EnqueueMatchRecompute(t.Context(), MatchRecomputeJob{CampaignID: "cmp-1"}); err != nil {
		t.Fatalf("enqueue recompute: %v", err)
	}
	if err := d.EnqueueMatchRecompute(t.Context(), MatchRecomputeJob{}); err == nil {
		t.Fatalf("expected error for empty recompute job")
	}

	if len(queue.paths) != 2 || queue.paths[0] != JobPathSendEmail || queue.paths[1] != JobPathRecomputeMatches {
		t.Fatalf("unexpected paths: %v", queue.paths)
	}
	if queue.dedupes[1] != "recompute-campaign-cmp-1-20260302T101500Z" {
		t.Fatalf("unexpected dedupe id: %q", queue.dedupes[1])
	}
}

func TestJobDispatcher_RunMatchRecompute(t *testing.T) {
	d := NewJobDispatcher(nil, nil, logging.NewNop())
	if _, err := d.RunMatchRecompute(t.Context(), MatchRecomputeJob{CampaignID: "cmp-1"}); err == nil {
		t.Fatalf("expected error without matcher")
	}

	matcher := &stubRecomputer{}
	d.SetMatcher(matcher)
	got, err := d.RunMatchRecompute(t.Context(), MatchRecomputeJob{AthleteID: "ath-1"})
	if err != nil {
		t.Fatalf("run recompute: %v", err)
	}
	if got.Scored != 2 || len(matcher.athletes) != 1 {
		t.Fatalf("expected athlete recompute, got %+v", got)
	}

	if err := d.RunEmail(t.Context(), Email{To: "a@example.com", Subject: "s"}); err != nil {
		t.Fatalf("disabled mailer should only log: %v", err)
	}
}

func TestDedupKey_UsesQStashSafeFormat(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.February, 25, 4, 25, 42, 0, time.UTC)
	got := dedupKey("recompute", "athlete:ath/1 x", at, 5*time.Minute)

	if strings.Contains(got, ":") {
		t.Fatalf("dedup key must not contain colon, got=%q", got)
	}
	want := "recompute-athlete-ath-1-x-20260225T042500Z"
	if got != want {
		t.Fatalf("unexpected dedup key: got=%q want=%q", got, want)
	}
	if got := sanitizeDedupSegment(" \t "); got != "unknown" {
		t.Fatalf("unexpected sanitize fallback: got=%q", got)
	}
}
