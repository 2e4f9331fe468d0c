package soap

import (
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// echoServer answers Echo requests; the first failFirst calls get a 503 with a plain body.
func echoServer(t *testing.T, failFirst int32) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		if n <= failFirst {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, `"urn:echo#Echo"`, r.Header.Get("SOAPAction"))
		assert.Equal(t, ContentType, r.Header.Get("Content-Type"))

		env, err := ReadEnvelope(r.Body)
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var req echoRequest
		assert.NoError(t, env.UnmarshalBody(&req))

		var resp *Envelope
		if req.Text == "fail" {
			resp = &Envelope{Fault: &Fault{Code: "soapenv:Server", String: "echo refused"}}
			w.Header().Set("Content-Type", ContentType)
			w.WriteHeader(http.StatusInternalServerError)
		} else {
			resp, err = NewEnvelope(echoResponse{Text: req.Text})
			assert.NoError(t, err)
			w.Header().Set("Content-Type", ContentType)
		}
		_, _ = resp.WriteTo(w)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

type recordingHandler struct {
	name  string
	mu    *sync.Mutex
	calls *[]string
	stop  bool
}

func (h *recordingHandler) record(event string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	*h.calls = append(*h.calls, h.name+":"+event)
}

func (h *recordingHandler) HandleMessage(mc *MessageContext) bool {
	if mc.Outbound {
		h.record("out")
	} else {
		h.record("in")
	}
	return !h.stop
}

func (h *recordingHandler) HandleFault(*MessageContext) bool {
	h.record("fault")
	return true
}

func (h *recordingHandler) Close(*MessageContext) { h.record("close") }

func (h *recordingHandler) Headers() []xml.Name {
	return []xml.Name{{Space: "urn:" + h.name, Local: "Token"}}
}

func newTestClient(t *testing.T, endpoint string, mutate func(*Config)) *Client {
	t.Helper()
	cfg := Config{
		Endpoint:    endpoint,
		Timeout:     2 * time.Second,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  5 * time.Millisecond,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := NewClient(cfg)
	assert.NoError(t, err)
	return c
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestClient_CallDecodesResponse(t *testing.T) {
	srv, hits := echoServer(t, 0)
	c := newTestClient(t, srv.URL, nil)

	var out echoResponse
	err := c.Call(context.Background(), "urn:echo#Echo", echoRequest{Text: "hi"}, &out)

	assert.NoError(t, err)
	assert.Equal(t, "hi", out.Text)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestClient_FaultIsNotRetried(t *testing.T) {
	srv, hits := echoServer(t, 0)
	var calls []string
	mu := &sync.Mutex{}
	c := newTestClient(t, srv.URL, func(cfg *Config) {
		cfg.Handlers = []Handler{&recordingHandler{name: "a", mu: mu, calls: &calls}}
	})

	err := c.Call(context.Background(), "urn:echo#Echo", echoRequest{Text: "fail"}, nil)

	var faultErr *FaultError
	if assert.True(t, errors.As(err, &faultErr)) {
		assert.Equal(t, "soapenv:Server", faultErr.Fault.Code)
		assert.Equal(t, "echo refused", faultErr.Fault.String)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	assert.Equal(t, []string{"a:out", "a:fault", "a:close"}, calls)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	srv, hits := echoServer(t, 1)
	c := newTestClient(t, srv.URL, nil)

	var out echoResponse
	err := c.Call(context.Background(), "urn:echo#Echo", echoRequest{Text: "again"}, &out)

	assert.NoError(t, err)
	assert.Equal(t, "again", out.Text)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	srv, hits := echoServer(t, 10)
	c := newTestClient(t, srv.URL, nil)

	err := c.Call(context.Background(), "urn:echo#Echo", echoRequest{Text: "x"}, nil)

	var statusErr *StatusError
	if assert.True(t, errors.As(err, &statusErr)) {
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
}

func TestClient_ChainOrder(t *testing.T) {
	srv, _ := echoServer(t, 0)
	var calls []string
	mu := &sync.Mutex{}
	c := newTestClient(t, srv.URL, func(cfg *Config) {
		cfg.Handlers = []Handler{
			&recordingHandler{name: "a", mu: mu, calls: &calls},
			&recordingHandler{name: "b", mu: mu, calls: &calls},
		}
	})

	err := c.Call(context.Background(), "urn:echo#Echo", echoRequest{Text: "hi"}, nil)

	assert.NoError(t, err)
	assert.Equal(t, []string{"a:out", "b:out", "b:in", "a:in", "b:close", "a:close"}, calls)
	assert.Len(t, c.chain.Headers(), 2)
}

func TestClient_AbortingHandlerStopsRequest(t *testing.T) {
	srv, hits := echoServer(t, 0)
	var calls []string
	mu := &sync.Mutex{}
	c := newTestClient(t, srv.URL, func(cfg *Config) {
		cfg.Handlers = []Handler{
			&recordingHandler{name: "a", mu: mu, calls: &calls},
			&recordingHandler{name: "b", mu: mu, calls: &calls, stop: true},
		}
	})

	err := c.Call(context.Background(), "urn:echo#Echo", echoRequest{Text: "hi"}, nil)

	assert.ErrorIs(t, err, ErrChainAborted)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
	assert.Equal(t, []string{"a:out", "b:out", "b:close", "a:close"}, calls)
}

func TestClient_ThrottlesBeyondRate(t *testing.T) {
	srv, hits := echoServer(t, 0)
	c := newTestClient(t, srv.URL, func(cfg *Config) {
		cfg.RateLimitPerSec = 1
		cfg.Burst = 1
		cfg.MaxThrottleWait = 10 * time.Millisecond
	})

	assert.NoError(t, c.Call(context.Background(), "urn:echo#Echo", echoRequest{Text: "one"}, nil))
	err := c.Call(context.Background(), "urn:echo#Echo", echoRequest{Text: "two"}, nil)

	assert.ErrorIs(t, err, ErrThrottled)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestJitterBackOff_GrowsAndResets(t *testing.T) {
	b := &jitterBackOff{base: 100 * time.Millisecond, max: time.Second}

	first := b.NextBackOff()
	second := b.NextBackOff()
	assert.Less(t, first, 125*time.Millisecond)
	assert.GreaterOrEqual(t, second, 175*time.Millisecond)

	b.Reset()
	assert.Less(t, b.NextBackOff(), 125*time.Millisecond)
}
