// Package gateway talks to the movie booking backend. AuthClient covers the
// unauthenticated account calls; Client covers everything else and owns the
// unauthorized-response handling.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

// DefaultTimeout bounds a single request when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Options configures both clients.
type Options struct {
	Timeout time.Duration
	Logger  *log.Logger
	// HTTPClient replaces the tuned default client, mostly for tests.
	HTTPClient *http.Client
}

type transport struct {
	baseURL *url.URL
	client  *http.Client
	logger  *log.Logger
}

func newTransport(baseURL string, opts Options) (*transport, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse backend url: %q is not absolute", baseURL)
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		client = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
				MaxIdleConnsPerHost:   4,
			},
		}
	}

	return &transport{baseURL: parsed, client: client, logger: opts.Logger}, nil
}

// call describes one backend request.
type call struct {
	op     string
	method string
	// segments are escaped and joined under the base path.
	segments []string
	token    string
	body     any
	out      any
}

func (t *transport) endpoint(segments []string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return t.baseURL.JoinPath(escaped...).String()
}

// do performs c and returns a *domain.Error for any failure. Status codes
// are classified by classify; callers decide what an unauthorized response
// means for them.
func (t *transport) do(ctx context.Context, c call) error {
	var body io.Reader
	if c.body != nil {
		payload, err := json.Marshal(c.body)
		if err != nil {
			return &domain.Error{Op: c.op, Kind: domain.ErrValidation, Message: "encode request", Err: err}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, t.endpoint(c.segments), body)
	if err != nil {
		return &domain.Error{Op: c.op, Kind: domain.ErrNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return &domain.Error{Op: c.op, Kind: domain.ErrNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if c.out == nil || resp.StatusCode == http.StatusNoContent {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(c.out); err != nil && !errors.Is(err, io.EOF) {
			return &domain.Error{Op: c.op, Kind: domain.ErrServer, Status: resp.StatusCode, Message: "decode response", Err: err}
		}
		return nil
	}

	derr := classify(c.op, resp)
	if derr.Kind == domain.ErrServer {
		t.logger.Printf("gateway: %s %s returned %d", c.method, req.URL.Path, resp.StatusCode)
	}
	return derr
}

// errorBody is the backend's error envelope. Some handlers send "error"
// instead of "message".
type errorBody struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func classify(op string, resp *http.Response) *domain.Error {
	derr := &domain.Error{Op: op, Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload errorBody
	if err := json.Unmarshal(raw, &payload); err == nil {
		derr.Message = payload.Message
		if derr.Message == "" {
			derr.Message = payload.Error
		}
		if len(payload.Errors) > 0 {
			derr.Fields = payload.Errors
		}
	} else if text := strings.TrimSpace(string(raw)); text != "" {
		derr.Message = text
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		derr.Kind = domain.ErrValidation
	case http.StatusUnauthorized:
		derr.Kind = domain.ErrUnauthorized
	case http.StatusForbidden:
		derr.Kind = domain.ErrForbidden
	case http.StatusNotFound:
		derr.Kind = domain.ErrNotFound
	case http.StatusConflict:
		derr.Kind = domain.ErrConflict
	default:
		derr.Kind = domain.ErrServer
	}
	return derr
}
