package gotrue

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
	"github.com/riskibarqy/nil-marketplace/internal/platform/cache"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
	"github.com/riskibarqy/nil-marketplace/internal/platform/resilience"
	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

const (
	defaultCacheTTL        = time.Minute
	defaultCacheMaxEntries = 10000
	maxResponseBytes       = 1 << 20
)

var errTransient = errors.New("auth server transient failure")

type Config struct {
	BaseURL         string
	UserPath        string
	APIKey          string
	CacheTTL        time.Duration
	CacheMaxEntries int
	CircuitBreaker  resilience.CircuitBreakerConfig
}

// Client resolves bearer tokens against the auth server's user endpoint.
type Client struct {
	httpClient *http.Client
	userURL    string
	apiKey     string
	principals *cache.Store
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
}

func NewClient(httpClient *http.Client, cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.CacheMaxEntries <= 0 {
		cfg.CacheMaxEntries = defaultCacheMaxEntries
	}

	breaker := resilience.NewCircuitBreaker("gotrue", cfg.CircuitBreaker)
	breaker.OnStateChange(func(name string, from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "dependency", name, "from", from, "to", to)
	})

	return &Client{
		httpClient: httpClient,
		userURL:    buildURL(cfg.BaseURL, cfg.UserPath),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		principals: cache.NewStore(cfg.CacheTTL, cache.WithMaxEntries(cfg.CacheMaxEntries)),
		breaker:    breaker,
		logger:     logger,
	}
}

func (c *Client) VerifyToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	return cache.Load(ctx, c.principals, hashToken(token), func(ctx context.Context) (user.Principal, error) {
		return c.fetchPrincipal(ctx, token)
	})
}

func (c *Client) fetchPrincipal(ctx context.Context, token string) (user.Principal, error) {
	var principal user.Principal
	err := c.breaker.Do(func() error {
		var err error
		principal, err = c.requestUser(ctx, token)
		return err
	}, isCircuitFailure)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return user.Principal{}, fmt.Errorf("%w: auth server circuit open", usecase.ErrDependencyUnavailable)
	}
	if isCircuitFailure(err) {
		c.logger.WarnContext(ctx, "auth server request failed", "error", err)
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}
	return principal, err
}

func (c *Client) requestUser(ctx context.Context, token string) (user.Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userURL, nil)
	if err != nil {
		return user.Principal{}, errors.Wrap(err, "create auth user request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, errors.Mark(errors.Wrap(err, "request auth user"), errTransient)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return user.Principal{}, fmt.Errorf("%w: token rejected", usecase.ErrUnauthorized)
	case resp.StatusCode >= http.StatusInternalServerError:
		return user.Principal{}, errors.Mark(errors.Newf("auth server status %d", resp.StatusCode), errTransient)
	case resp.StatusCode != http.StatusOK:
		c.logger.WarnContext(ctx, "auth server unexpected status", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("%w: auth server status %d", usecase.ErrUnauthorized, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return user.Principal{}, errors.Mark(errors.Wrap(err, "read auth user response"), errTransient)
	}

	var decoded userResponse
	if err := jsoniter.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, errors.Wrap(err, "decode auth user response")
	}
	if strings.TrimSpace(decoded.ID) == "" {
		return user.Principal{}, fmt.Errorf("%w: auth user response has no id", usecase.ErrUnauthorized)
	}

	role, ok := user.ParseRole(decoded.AppMetadata.Role)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown role %q", usecase.ErrForbidden, decoded.AppMetadata.Role)
	}

	return user.Principal{
		UserID:   decoded.ID,
		Email:    strings.ToLower(strings.TrimSpace(decoded.Email)),
		FullName: strings.TrimSpace(decoded.UserMetadata.FullName),
		Role:     role,
	}, nil
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	AppMetadata struct {
		Role string `json:"role"`
	} `json:"app_metadata"`
	UserMetadata struct {
		FullName string `json:"full_name"`
	} `json:"user_metadata"`
}
