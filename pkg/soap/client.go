package soap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nimeshabuddhika/go-base-project/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 10 << 20

var ErrThrottled = errors.New("soap call throttled")

// FaultError is returned by Call when the service answered with a SOAP fault.
type FaultError struct {
	Fault *Fault
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("soap fault %s: %s", e.Fault.Code, e.Fault.String)
}

// StatusError is returned when the service answered with something other than a SOAP envelope.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("soap endpoint returned status %d", e.StatusCode)
}

// Config holds the client settings. Zero values fall back to defaults.
type Config struct {
	Endpoint        string
	HTTPClient      *http.Client
	Timeout         time.Duration
	RateLimitPerSec int // 0 disables throttling
	Burst           int
	MaxThrottleWait time.Duration // fail fast if a token is further away than this
	MaxRetries      int
	BaseBackoff     time.Duration
	MaxBackoff      time.Duration
	Logger          *zap.Logger
	Handlers        []Handler
}

// Client sends SOAP requests through a handler chain.
type Client struct {
	endpoint        string
	http            *http.Client
	limiter         *rate.Limiter
	maxThrottleWait time.Duration
	maxRetries      int
	baseBackoff     time.Duration
	maxBackoff      time.Duration
	logger          *zap.Logger
	chain           *Chain
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("soap endpoint is required")
	}
	c := &Client{
		endpoint:        cfg.Endpoint,
		http:            cfg.HTTPClient,
		maxThrottleWait: cfg.MaxThrottleWait,
		maxRetries:      cfg.MaxRetries,
		baseBackoff:     cfg.BaseBackoff,
		maxBackoff:      cfg.MaxBackoff,
		logger:          cfg.Logger,
		chain:           NewChain(cfg.Handlers...),
	}
	if c.http == nil {
		c.http = utils.NewHTTPClient(utils.WithClientTimeout(cfg.Timeout))
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if cfg.RateLimitPerSec > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = cfg.RateLimitPerSec
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), burst)
	}
	if c.maxThrottleWait <= 0 {
		c.maxThrottleWait = time.Second
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	if c.baseBackoff <= 0 {
		c.baseBackoff = 200 * time.Millisecond
	}
	if c.maxBackoff <= 0 {
		c.maxBackoff = 2 * time.Second
	}
	return c, nil
}

// Call sends request under the given SOAPAction and decodes the response body into response.
// response may be nil when the caller does not need the body.
func (c *Client) Call(ctx context.Context, action string, request, response any) error {
	env, err := NewEnvelope(request)
	if err != nil {
		return err
	}

	mc := &MessageContext{Outbound: true, Action: action, Endpoint: c.endpoint, Message: env}
	defer c.chain.Close(mc)

	if err = c.chain.Process(mc, false); err != nil {
		return err
	}

	var payload bytes.Buffer
	if _, err = mc.Message.WriteTo(&payload); err != nil {
		return fmt.Errorf("serialize soap request: %w", err)
	}

	if err = c.throttle(ctx); err != nil {
		return err
	}

	respEnv, err := c.exchange(ctx, action, payload.Bytes())
	if err != nil {
		return err
	}

	mc.Outbound = false
	mc.Message = respEnv
	if respEnv.Fault != nil {
		if err = c.chain.Process(mc, true); err != nil {
			return err
		}
		return &FaultError{Fault: respEnv.Fault}
	}
	if err = c.chain.Process(mc, false); err != nil {
		return err
	}
	if response == nil {
		return nil
	}
	return respEnv.UnmarshalBody(response)
}

func (c *Client) throttle(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	waitCtx, cancel := context.WithTimeout(ctx, c.maxThrottleWait)
	defer cancel()
	if err := c.limiter.Wait(waitCtx); err != nil {
		return fmt.Errorf("%w: %v", ErrThrottled, err)
	}
	return nil
}

// exchange posts the payload, retrying transport failures and 5xx answers that carry no envelope.
func (c *Client) exchange(ctx context.Context, action string, payload []byte) (*Envelope, error) {
	var env *Envelope
	operation := func() error {
		resp, retryable, err := c.post(ctx, action, payload)
		if err != nil {
			if !retryable {
				return backoff.Permanent(err)
			}
			return err
		}
		env = resp
		return nil
	}

	attempt := 0
	notify := func(err error, delay time.Duration) {
		attempt++
		c.logger.Warn("soap call failed, retrying",
			zap.String("endpoint", c.endpoint),
			zap.String("action", action),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.maxRetries)), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return nil, err
	}
	return env, nil
}

// jitterBackOff grows the delay exponentially per attempt with +/-12.5% jitter.
type jitterBackOff struct {
	attempt int
	base    time.Duration
	max     time.Duration
}

func (c *Client) newBackOff() *jitterBackOff {
	return &jitterBackOff{base: c.baseBackoff, max: c.maxBackoff}
}

func (b *jitterBackOff) NextBackOff() time.Duration {
	b.attempt++
	return utils.CalculateExponentialBackoffWithJitter(b.attempt, b.base, b.max)
}

func (b *jitterBackOff) Reset() { b.attempt = 0 }

func (c *Client) post(ctx context.Context, action string, payload []byte) (*Envelope, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("SOAPAction", strconv.Quote(action))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, true, err
	}

	env, decodeErr := ReadEnvelope(bytes.NewReader(body))
	if decodeErr == nil {
		return env, false, nil
	}
	if resp.StatusCode >= http.StatusBadRequest {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		return nil, resp.StatusCode >= http.StatusInternalServerError, statusErr
	}
	return nil, false, decodeErr
}
