package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/hinote/backend/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Defaults for the Groq OpenAI-compatible endpoint
const (
	DefaultBaseURL           = "https://api.groq.com/openai/v1"
	DefaultTimeout           = 10 * time.Second
	DefaultRequestsPerMinute = 30
	DefaultRetryInterval     = 500 * time.Millisecond

	maxResponseBytes = 1 << 20
	maxLoggedBody    = 512
)

// Options configures a Client
type Options struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
	MaxRetries        int
	RetryInterval     time.Duration
	Logger            logrus.FieldLogger
}

// Client talks to an OpenAI-compatible chat-completion endpoint
type Client struct {
	httpClient    *resty.Client
	apiKey        string
	baseURL       string
	rateLimiter   *rate.Limiter
	maxRetries    int
	retryInterval time.Duration
	debug         bool
	log           logrus.FieldLogger
}

// NewClient creates a new chat-completion client
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rpm := opts.RequestsPerMinute
	if rpm == 0 {
		rpm = DefaultRequestsPerMinute
	}

	// negative rpm disables throttling
	limiter := rate.NewLimiter(rate.Inf, 1)
	if rpm > 0 {
		burst := rpm / 10
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60), burst)
	}

	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	retryInterval := opts.RetryInterval
	if retryInterval <= 0 {
		retryInterval = DefaultRetryInterval
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "groq")

	// retries are driven by backoff in Complete, not by resty
	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetLogger(log).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "HiNote/1.0").
		SetAuthToken(opts.APIKey)

	return &Client{
		httpClient:    httpClient,
		apiKey:        opts.APIKey,
		baseURL:       baseURL,
		rateLimiter:   limiter,
		maxRetries:    maxRetries,
		retryInterval: retryInterval,
		log:           log,
	}
}

// SetDebug enables logging of request and response bodies
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Complete sends one chat-completion request and returns the content of
// the first choice. Only transport errors, 429 and 5xx are retried, and only
// when MaxRetries > 0.
func (c *Client) Complete(ctx context.Context, req *domain.ChatCompletionRequest) (string, error) {
	if req == nil {
		return "", domain.ErrInvalidRequest
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	if c.debug {
		c.log.WithField("body", truncate(payload)).Debug("completion request")
	}

	attempt := 0
	var content string
	operation := func() error {
		attempt++

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", domain.ErrRateLimited, err))
		}

		resp, err := c.doRequest(ctx, payload)
		if err != nil {
			c.log.WithError(err).WithField("attempt", attempt).Warn("completion request error")
			return err
		}
		defer resp.RawBody().Close()

		body, err := io.ReadAll(io.LimitReader(resp.RawBody(), maxResponseBytes))
		if err != nil {
			return fmt.Errorf("%w: read body: %v", domain.ErrCompletionFailure, err)
		}

		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			c.log.WithFields(logrus.Fields{
				"attempt": attempt,
				"status":  status,
				"body":    truncate(body),
			}).Warn("completion endpoint returned error status")

			statusErr := fmt.Errorf("%w: status %d", domain.ErrCompletionFailure, status)
			if message := errorMessage(body); message != "" {
				statusErr = fmt.Errorf("%w: status %d: %s", domain.ErrCompletionFailure, status, message)
			}
			if isRetryableStatus(status) {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		if c.debug {
			c.log.WithField("body", truncate(body)).Debug("completion response")
		}

		var parsed domain.ChatCompletionResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: decode response: %v", domain.ErrCompletionFailure, err))
		}

		content = parsed.Content()
		if strings.TrimSpace(content) == "" {
			return backoff.Permanent(domain.ErrEmptyCompletion)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.maxRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return content, nil
}

// doRequest executes the POST. The caller owns and closes the raw body.
func (c *Client) doRequest(ctx context.Context, payload []byte) (*resty.Response, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetDoNotParseResponse(true).
		Post(c.baseURL + "/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCompletionFailure, err)
	}

	return resp, nil
}

// errorMessage reads the OpenAI-style {"error":{"message":...}} body
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return gjson.GetBytes(body, "error.message").String()
}

func (c *Client) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	b.MaxInterval = 4 * c.retryInterval
	b.RandomizationFactor = 0
	b.Multiplier = 2
	return b
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func truncate(body []byte) string {
	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody]) + "..."
	}
	return string(body)
}
