package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
)

const (
	JobPathSendEmail        = "/v1/internal/jobs/send-email"
	JobPathRecomputeMatches = "/v1/internal/jobs/recompute-matches"

	inlineJobTimeout = 2 * time.Minute

	// Repeated edits inside one bucket collapse into a single queued recompute.
	recomputeDedupBucket = time.Minute
)

var dedupUnsafeCharRegex = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// JobQueue publishes a job for asynchronous delivery to one of our internal
// job endpoints.
type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type Email struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

type EmailSender interface {
	Send(ctx context.Context, email Email) error
}

type MatchRecomputeJob struct {
	CampaignID string `json:"campaign_id,omitempty"`
	AthleteID  string `json:"athlete_id,omitempty"`
}

type matchRecomputer interface {
	RecomputeCampaign(ctx context.Context, campaignID string) (RecomputeResult, error)
	RecomputeAthlete(ctx context.Context, athleteID string) (RecomputeResult, error)
}

// JobDispatcher runs background work either through the queue or inline in
// a detached goroutine when no queue is configured.
type JobDispatcher struct {
	queue   JobQueue
	mailer  EmailSender
	matcher matchRecomputer
	logger  *logging.Logger
	inline  sync.WaitGroup
	timeout time.Duration
	now     func() time.Time
}

// NewJobDispatcher accepts a nil queue, in which case jobs run inline.
func NewJobDispatcher(queue JobQueue, mailer EmailSender, logger *logging.Logger) *JobDispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &JobDispatcher{
		queue:   queue,
		mailer:  mailer,
		logger:  logger,
		timeout: inlineJobTimeout,
		now:     time.Now,
	}
}

// SetMatcher breaks the construction cycle between matching and campaigns.
func (d *JobDispatcher) SetMatcher(m matchRecomputer) {
	d.matcher = m
}

func (d *JobDispatcher) EnqueueEmail(ctx context.Context, email Email) error {
	email.To = strings.TrimSpace(email.To)
	if email.To == "" || strings.TrimSpace(email.Subject) == "" {
		return fmt.Errorf("%w: email recipient and subject are required", ErrInvalidInput)
	}

	if d.queue != nil {
		if err := d.queue.Enqueue(ctx, JobPathSendEmail, email, 0, ""); err != nil {
			return fmt.Errorf("enqueue email job: %w", err)
		}
		return nil
	}

	d.runInline(ctx, "send-email", func(ctx context.Context) error {
		return d.RunEmail(ctx, email)
	})
	return nil
}

func (d *JobDispatcher) EnqueueMatchRecompute(ctx context.Context, job MatchRecomputeJob) error {
	if job.CampaignID == "" && job.AthleteID == "" {
		return fmt.Errorf("%w: campaign id or athlete id is required", ErrInvalidInput)
	}

	if d.queue != nil {
		subject := "campaign-" + job.CampaignID
		if job.CampaignID == "" {
			subject = "athlete-" + job.AthleteID
		}
		dedup := dedupKey("recompute", subject, d.now(), recomputeDedupBucket)
		if err := d.queue.Enqueue(ctx, JobPathRecomputeMatches, job, 0, dedup); err != nil {
			return fmt.Errorf("enqueue match recompute job: %w", err)
		}
		return nil
	}

	d.runInline(ctx, "recompute-matches", func(ctx context.Context) error {
		_, err := d.RunMatchRecompute(ctx, job)
		return err
	})
	return nil
}

func (d *JobDispatcher) RunEmail(ctx context.Context, email Email) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobDispatcher.RunEmail")
	defer span.End()

	if d.mailer == nil {
		d.logger.InfoContext(ctx, "mailer disabled, email dropped", "to", email.To, "subject", email.Subject)
		return nil
	}
	if err := d.mailer.Send(ctx, email); err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (d *JobDispatcher) RunMatchRecompute(ctx context.Context, job MatchRecomputeJob) (RecomputeResult, error) {
	if d.matcher == nil {
		return RecomputeResult{}, fmt.Errorf("%w: match recompute is not configured", ErrDependencyUnavailable)
	}
	switch {
	case job.CampaignID != "":
		return d.matcher.RecomputeCampaign(ctx, job.CampaignID)
	case job.AthleteID != "":
		return d.matcher.RecomputeAthlete(ctx, job.AthleteID)
	default:
		return RecomputeResult{}, fmt.Errorf("%w: campaign id or athlete id is required", ErrInvalidInput)
	}
}

// Wait blocks until inline jobs started so far have finished.
func (d *JobDispatcher) Wait() {
	d.inline.Wait()
}

func (d *JobDispatcher) runInline(ctx context.Context, name string, fn func(context.Context) error) {
	detached := context.WithoutCancel(ctx)
	d.inline.Add(1)
	go func() {
		defer d.inline.Done()
		ctx, cancel := context.WithTimeout(detached, d.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			d.logger.ErrorContext(ctx, "inline job failed", "job", name, "error", err)
		}
	}()
}

// dedupKey builds a QStash deduplication id that is stable within one time bucket.
func dedupKey(prefix, subject string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	return sanitizeDedupSegment(prefix) + "-" + sanitizeDedupSegment(subject) + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}
