package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
	"github.com/riskibarqy/nil-marketplace/internal/platform/resilience"
	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

var errTransient = errors.New("mailer transient failure")

type Config struct {
	BaseURL        string
	APIKey         string
	From           string
	Timeout        time.Duration
	Retry          resilience.RetryPolicy
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client sends transactional email through an HTTP email API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	from       string
	retry      resilience.RetryPolicy
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
}

func NewClient(httpClient *http.Client, cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if cfg.Retry.Attempts < 1 {
		cfg.Retry = resilience.RetryPolicy{Attempts: 3, Backoff: 500 * time.Millisecond}
	}

	breaker := resilience.NewCircuitBreaker("mailer", cfg.CircuitBreaker)
	breaker.OnStateChange(func(name string, from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "dependency", name, "from", from, "to", to)
	})

	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") + "/emails",
		apiKey:     strings.TrimSpace(cfg.APIKey),
		from:       strings.TrimSpace(cfg.From),
		retry:      cfg.Retry,
		breaker:    breaker,
		logger:     logger,
	}
}

func (c *Client) Send(ctx context.Context, email usecase.Email) error {
	body, err := jsoniter.Marshal(sendRequest{
		From:    c.from,
		To:      []string{email.To},
		Subject: email.Subject,
		HTML:    email.HTML,
		Text:    email.Text,
	})
	if err != nil {
		return errors.Wrap(err, "marshal email request")
	}

	err = resilience.Retry(ctx, c.retry, isTransient, func(ctx context.Context) error {
		return c.breaker.Do(func() error {
			return c.post(ctx, body)
		}, isTransient)
	})
	switch {
	case err == nil:
		c.logger.InfoContext(ctx, "email sent", "to", email.To, "subject", email.Subject)
		return nil
	case errors.Is(err, resilience.ErrCircuitOpen):
		return fmt.Errorf("%w: mailer circuit open", usecase.ErrDependencyUnavailable)
	case isTransient(err):
		return fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	default:
		return err
	}
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create email request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "send email request"), errTransient)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 == 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	statusErr := errors.Newf("email api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return errors.Mark(statusErr, errTransient)
	}
	return statusErr
}

func isTransient(err error) bool {
	return err != nil && errors.Is(err, errTransient)
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}
