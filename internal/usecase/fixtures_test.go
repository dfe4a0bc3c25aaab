package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
)

var testNow = time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type sequenceIDs struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next), nil
}

type recordingJobs struct {
	mu        sync.Mutex
	emails    []Email
	recompute []MatchRecomputeJob
}

func (j *recordingJobs) EnqueueEmail(_ context.Context, email Email) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.emails = append(j.emails, email)
	return nil
}

func (j *recordingJobs) EnqueueMatchRecompute(_ context.Context, job MatchRecomputeJob) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.recompute = append(j.recompute, job)
	return nil
}

func newTestNotifier(repo *memory.NotificationRepository) *NotificationService {
	svc := NewNotificationService(repo, &sequenceIDs{prefix: "ntf"}, logging.NewNop())
	svc.now = fixedClock
	return svc
}

func sampleProfile(id, userID string) athlete.Profile {
	p := athlete.Profile{
		ID:                 id,
		UserID:             userID,
		FirstName:          "Jalen",
		LastName:           "Brooks",
		Email:              id + "@school.edu",
		Sport:              athlete.SportFootball,
		Position:           "QB",
		School:             "Austin High",
		State:              "TX",
		GraduationYear:     2027,
		InstagramFollowers: 12_000,
		TikTokFollowers:    6_000,
		TwitterFollowers:   2_000,
		EngagementRate:     0.05,
		OpenToDeals:        true,
		CreatedAt:          testNow,
		UpdatedAt:          testNow,
	}
	p.FMVCents = p.ComputeFMV()
	return p
}
