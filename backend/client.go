package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"stayvia/globals"
	"stayvia/metrics"
	"stayvia/utils"
)

const maxResponseBytes = 1 << 20

// Credentials are the browser's session credentials, forwarded verbatim on
// every backend call.
type Credentials struct {
	Cookie        string
	Authorization string
}

// Client talks JSON to the marketplace REST backend. A Client is safe for
// concurrent use; WithCredentials returns a copy bound to one caller.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	creds   Credentials
}

// NewClient builds a client for baseURL. timeout bounds every call whose
// context carries no deadline of its own.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", baseURL)
	}
	return &Client{
		base:    u,
		http:    &http.Client{},
		timeout: timeout,
	}, nil
}

func (c *Client) WithCredentials(creds Credentials) *Client {
	cp := *c
	cp.creds = creds
	return &cp
}

type call struct {
	op             string
	method         string
	path           []string
	query          url.Values
	body           any
	idempotencyKey string
}

// do sends one request and returns the raw response body of a 2xx reply.
func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	u := c.base.JoinPath(cl.path...)
	if cl.query != nil {
		u.RawQuery = cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", cl.op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := utils.RequestID(ctx); id != "" {
		req.Header.Set(globals.RequestIDHeader, id)
	}
	if c.creds.Cookie != "" {
		req.Header.Set("Cookie", c.creds.Cookie)
	}
	if c.creds.Authorization != "" {
		req.Header.Set("Authorization", c.creds.Authorization)
	}
	if cl.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", cl.idempotencyKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequests.WithLabelValues(cl.op, string(KindNetwork)).Inc()
		utils.Log(ctx).WithError(err).WithField("op", cl.op).Warn("backend unreachable")
		return nil, &Error{Op: cl.op, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.BackendRequests.WithLabelValues(cl.op, string(KindNetwork)).Inc()
		return nil, &Error{Op: cl.op, Kind: KindNetwork, Status: resp.StatusCode, Err: err}
	}

	utils.Log(ctx).WithFields(logrus.Fields{
		"op":       cl.op,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("backend call")

	if resp.StatusCode >= http.StatusBadRequest {
		kind := kindForStatus(resp.StatusCode)
		metrics.BackendRequests.WithLabelValues(cl.op, string(kind)).Inc()
		return nil, &Error{Op: cl.op, Kind: kind, Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	metrics.BackendRequests.WithLabelValues(cl.op, "ok").Inc()
	return raw, nil
}

// errorMessage extracts {error} or {message} from an error body.
func errorMessage(raw []byte) string {
	var body struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	if s, ok := body.Error.(string); ok && s != "" {
		return s
	}
	if m, ok := body.Error.(map[string]any); ok {
		if s, ok := m["message"].(string); ok && s != "" {
			return s
		}
	}
	return body.Message
}

func decode(op string, raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Op: op, Kind: KindServer, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
