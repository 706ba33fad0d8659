package api

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
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/cakeplanner/internal/common"
	"github.com/dmitrijs2005/cakeplanner/internal/logging"
)

// maxErrorBody caps how much of an error reply is read for its message.
const maxErrorBody = 4 << 10

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
}

// NewHTTPClient builds a client for the backend at baseURL. A zero timeout
// leaves requests bounded only by ctx.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute", baseURL)
	}
	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

// SetTokenSource wires the provider of the bearer token. The session manager
// registers itself here once constructed.
func (c *HTTPClient) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// HTTP returns the underlying *http.Client for streaming consumers.
func (c *HTTPClient) HTTP() *http.Client {
	return c.http
}

// URL resolves an already-escaped API path against the base URL.
func (c *HTTPClient) URL(path string, query url.Values) string {
	u := *c.baseURL
	u.RawPath = c.baseURL.EscapedPath() + path
	if unescaped, err := url.PathUnescape(u.RawPath); err == nil {
		u.Path = unescaped
	} else {
		u.Path = u.RawPath
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, query), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(common.RequestIDHeader, uuid.NewString())
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
		}
	}
	return req, nil
}

// do sends req and decodes a JSON reply into out (when non-nil).
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// send performs req and converts non-2xx replies into errors. On success the
// caller owns resp.Body.
func (c *HTTPClient) send(req *http.Request) (*http.Response, error) {
	reqID := req.Header.Get(common.RequestIDHeader)
	c.log.Debug(req.Context(), "api request", "method", req.Method, "path", req.URL.Path, "req_id", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := CheckResponse(resp); err != nil {
		c.log.Warn(req.Context(), "api request failed",
			"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "req_id", reqID)
		return nil, err
	}
	return resp, nil
}

// readErrorMessage extracts {"message": "..."} or {"error": "..."} from an
// error body, falling back to the trimmed text.
func readErrorMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(b, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(b))
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, path, nil, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *HTTPClient) getBytes(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// IsAuthError reports whether err is a credential or authorization failure.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}
