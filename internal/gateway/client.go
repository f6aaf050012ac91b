// Package gateway is a thin client for the hosted backend that owns the
// storefront's tables, object storage and accounts. Table calls go to
// /rest/v1, storage to /storage/v1 and password auth to /auth/v1.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/UTarts/cardiff-healthcare/pkg/httpclient"
	"github.com/UTarts/cardiff-healthcare/pkg/middleware"
)

// upstream names the gateway in mapped errors.
const upstream = "gateway"

// Config locates the gateway and its keys.
type Config struct {
	URL     string
	AnonKey string
	// ServiceKey, when set, is used for calls made without a signed-in user,
	// such as seeding or the notification worker.
	ServiceKey string
}

// Client sends authenticated requests to the gateway.
type Client struct {
	base       *url.URL
	anonKey    string
	serviceKey string
	doer       httpclient.Doer
}

// New validates cfg and returns a client sending through doer.
func New(cfg Config, doer httpclient.Doer) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("gateway url is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid gateway url %q", cfg.URL)
	}
	if cfg.AnonKey == "" {
		return nil, errors.New("gateway anon key is required")
	}
	return &Client{base: base, anonKey: cfg.AnonKey, serviceKey: cfg.ServiceKey, doer: doer}, nil
}

// Request describes one gateway call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// JSON is marshalled as the body when non-nil.
	JSON any
	// Body is sent verbatim when JSON is nil.
	Body        []byte
	ContentType string
	Header      http.Header
}

// URL returns the absolute URL for path and query.
func (c *Client) URL(path string, query url.Values) string {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// bearer picks the caller's own token, then the service key, then the
// public key, so row-level rules on the gateway see the right role.
func (c *Client) bearer(ctx context.Context) string {
	if tok := middleware.AccessTokenFromContext(ctx); tok != "" {
		return tok
	}
	if c.serviceKey != "" {
		return c.serviceKey
	}
	return c.anonKey
}

// Send performs req and decodes a JSON response into out when out is
// non-nil. Non-2xx responses are returned as AppErrors.
func (c *Client) Send(ctx context.Context, req Request, out any) (http.Header, error) {
	body := req.Body
	contentType := req.ContentType
	if req.JSON != nil {
		b, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", req.Method, req.Path, err)
		}
		body = b
		contentType = "application/json"
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.URL(req.Path, req.Query), reader)
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("apikey", c.anonKey)
	httpReq.Header.Set("Authorization", "Bearer "+c.bearer(ctx))
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	resp, err := c.doer.Do(ctx, httpReq)
	if err != nil {
		return nil, httpclient.TransportError(err, upstream)
	}
	if !httpclient.IsSuccess(resp.StatusCode) {
		return nil, httpclient.ParseResponseError(resp, upstream)
	}
	defer func() { _ = resp.Body.Close() }()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode gateway response: %w", err)
		}
	}
	return resp.Header, nil
}

// Ping checks that the gateway answers at all.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Send(ctx, Request{Method: http.MethodGet, Path: "/auth/v1/health"}, nil)
	return err
}
