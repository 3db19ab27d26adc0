package backend

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/log"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/metrics"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/queue"
)

const (
	RequestTimeout        = 30 * time.Second
	DrainEntryTimeout     = 15 * time.Second
	HTTPTimeout           = 30 * time.Second
	IdleConnTimeout       = 30 * time.Second
	TLSHandshakeTimeout   = 10 * time.Second
	ResponseHeaderTimeout = 20 * time.Second
	KeepAlive             = 20 * time.Second
	MaxIdleConns          = 32
)

// Endpoint names on the functions API.
const (
	EndpointTaskQueue    = "agent-task-queue"
	EndpointTaskResult   = "agent-task-result"
	EndpointBridgePoll   = "bridge-poll"
	EndpointControl      = "sovereign-agent-control"
	EndpointSpawnRequest = "agent-spawn-request"
)

const (
	headerBridgeKey       = "x-bridge-key"
	headerConnectionToken = "x-connection-token"
)

// Outcome classifies the result of one API call. It is a pure function
// of transport error and HTTP status class: callers branch on it to
// decide retries, queueing, and backoff.
type Outcome string

const (
	// Success is any response below 400.
	Success Outcome = "success"

	// Connectivity is a transport-level failure: the request may never
	// have reached the control plane.
	Connectivity Outcome = "connectivity"

	// ServerError is a 5xx response: delivered, rejected transiently.
	ServerError Outcome = "server_error"

	// ClientError is a 4xx response: delivered, rejected permanently.
	ClientError Outcome = "client_error"
)

func (o Outcome) String() string {
	return string(o)
}

// Options configures a Client.
type Options struct {
	// BackendURL is the control plane base URL.
	BackendURL string

	// AnonKey authenticates the functions gateway (apikey and bearer
	// headers on every call).
	AnonKey string

	// APIKey is sent as x-bridge-key on API operations and queue
	// replays. The worker passes its connection token here; control
	// commands pass the bridge key.
	APIKey string

	// ConnectionToken is sent as x-connection-token on task polls.
	ConnectionToken string

	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// Client is the control plane API client. One call is one HTTP
// request: there are no transport-level retries, so every failure is
// surfaced as an Outcome and retry policy stays with the caller (the
// offline queue and the worker backoff).
type Client struct {
	resty           *resty.Client
	queue           *queue.Queue
	logger          zerolog.Logger
	apiKey          string
	connectionToken string
}

// NewClient creates a client. q may be nil for callers that never use
// the resilient path.
func NewClient(opts Options, q *queue.Queue) *Client {
	ua := opts.UserAgent
	if ua == "" {
		ua = "priority-living-cli"
	}

	r := resty.New()
	r.SetBaseURL(strings.TrimRight(opts.BackendURL, "/"))
	r.SetTimeout(RequestTimeout)
	r.SetTransport(createTransport())
	r.SetHeader("User-Agent", ua)
	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("apikey", opts.AnonKey)
	r.SetHeader("Authorization", "Bearer "+opts.AnonKey)

	return &Client{
		resty:           r,
		queue:           q,
		logger:          log.WithComponent("backend"),
		apiKey:          opts.APIKey,
		connectionToken: opts.ConnectionToken,
	}
}

// RestyClient exposes the underlying resty client (tests hook the
// transport here).
func (c *Client) RestyClient() *resty.Client {
	return c.resty
}

// Call performs one synchronous API call with the bridge-key header.
// The body is returned only on Success.
func (c *Client) Call(ctx context.Context, endpoint string, payload any, method string) (json.RawMessage, Outcome) {
	return c.send(ctx, endpoint, payload, method, headerBridgeKey, c.apiKey)
}

// Resilient performs one API call and falls back to the offline queue:
// a Connectivity or ServerError outcome with a payload is captured for
// replay, a ClientError is dropped. Returns the body on Success and
// nil otherwise.
func (c *Client) Resilient(ctx context.Context, endpoint string, payload any, method string) json.RawMessage {
	body, outcome := c.Call(ctx, endpoint, payload, method)
	if outcome == Success {
		return body
	}
	if payload == nil {
		// Nothing to replay later.
		return nil
	}

	switch outcome {
	case Connectivity, ServerError:
		data, err := json.Marshal(payload)
		if err != nil {
			c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Failed to encode payload for queueing")
			return nil
		}
		if c.queue == nil {
			c.logger.Warn().Str("endpoint", endpoint).Msg("Request failed and no offline queue is attached")
			return nil
		}
		if err := c.queue.Enqueue(endpoint, data, method); err != nil {
			c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Failed to queue request")
		}
	case ClientError:
		// Rejected permanently; replaying the same payload cannot
		// succeed.
	}
	return nil
}

// send is the single call primitive. tokenHeader/token carry the
// per-call credential (bridge key or connection token).
func (c *Client) send(ctx context.Context, endpoint string, payload any, method, tokenHeader, token string) (json.RawMessage, Outcome) {
	timer := metrics.NewTimer()

	req := c.resty.R().SetContext(ctx)
	if token != "" {
		req.SetHeader(tokenHeader, token)
	}
	if payload != nil {
		req.SetBody(payload)
	}

	resp, err := req.Execute(method, "/functions/v1/"+endpoint)
	timer.ObserveDurationVec(metrics.RequestDuration, endpoint)

	outcome := classify(resp, err)
	metrics.RequestsTotal.WithLabelValues(endpoint, outcome.String()).Inc()

	switch outcome {
	case Success:
		return resp.Body(), Success
	case Connectivity:
		c.logger.Debug().Err(err).Str("endpoint", endpoint).Msg("Backend unreachable")
	default:
		c.logger.Warn().
			Int("status", resp.StatusCode()).
			Str("endpoint", endpoint).
			Str("body", snippet(resp.Body(), 200)).
			Msg("API error")
	}
	return nil, outcome
}

// classify maps a transport error and status class to an Outcome.
func classify(resp *resty.Response, err error) Outcome {
	if err != nil {
		return Connectivity
	}
	code := resp.StatusCode()
	switch {
	case code >= 500:
		return ServerError
	case code >= 400:
		return ClientError
	default:
		return Success
	}
}

func snippet(body []byte, limit int) string {
	s := string(body)
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

// createTransport with custom timeouts.
func createTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   HTTPTimeout,
		KeepAlive: KeepAlive,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          MaxIdleConns,
		IdleConnTimeout:       IdleConnTimeout,
		TLSHandshakeTimeout:   TLSHandshakeTimeout,
		ResponseHeaderTimeout: ResponseHeaderTimeout,
		MaxIdleConnsPerHost:   MaxIdleConns,
	}
}
