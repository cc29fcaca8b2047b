// Package api is the authorized request client: one transport policy for
// every backend call. It attaches the session's bearer token on the way out
// and enforces the global 401 rule on the way back, so no view ever handles
// authentication failure itself.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DekunleJr/Signatures/internal/logger"
	"github.com/DekunleJr/Signatures/internal/session"
)

// Client issues requests against the backend. All resource methods go
// through do, which applies the bearer and unauthorized policies uniformly.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session

	// onUnauthorized navigates the application to the login view. It runs
	// after the session store has been cleared, at most once per failing
	// response.
	onUnauthorized func()
}

// New creates a client for the backend at baseURL. onUnauthorized may be
// nil when no navigation surface exists (plain CLI runs).
func New(baseURL string, sess *session.Session, onUnauthorized func()) *Client {
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		session:        sess,
		onUnauthorized: onUnauthorized,
	}
}

// Session returns the session this client reads tokens from.
func (c *Client) Session() *session.Session {
	return c.session
}

// do performs one request. The token is read at dispatch time; its absence
// is not an error, the server decides whether the call needed one. A 401
// clears the session store before the navigation hook fires; every other
// failure status is decoded and returned to the caller untouched.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("HTTP request failed", logger.F("method", method), logger.F("url", u), logger.F("error", err))
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	logger.Debug("HTTP response",
		logger.F("method", method),
		logger.F("url", u),
		logger.F("status", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized {
		apiErr := decodeError(resp)
		c.handleUnauthorized()
		return apiErr
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// handleUnauthorized is the single named 401 policy: clear the persisted
// session, then redirect to the login view. Store-clear happens-before
// navigation.
func (c *Client) handleUnauthorized() {
	logger.Warn("unauthorized response, clearing session")
	c.session.Logout()
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(body), "application/json", out)
}

func (c *Client) putJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPut, path, nil, bytes.NewReader(body), "application/json", out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", nil)
}

// postURLEncoded submits a form-urlencoded body (the backend's
// password-grant login convention).
func (c *Client) postURLEncoded(ctx context.Context, path string, form url.Values, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", out)
}

// FileUpload is one file part of a multipart submission.
type FileUpload struct {
	Filename string
	Reader   io.Reader
}

// submitForm sends a multipart form: plain fields plus any file parts,
// keyed by form field name. Used for every operation that carries images
// and for the backend's form-encoded profile/user updates.
func (c *Client) submitForm(ctx context.Context, method, path string, fields map[string]string, files map[string][]FileUpload, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to write form field: %w", err)
		}
	}
	for field, uploads := range files {
		for _, f := range uploads {
			part, err := w.CreateFormFile(field, f.Filename)
			if err != nil {
				return fmt.Errorf("failed to create form file: %w", err)
			}
			if _, err := io.Copy(part, f.Reader); err != nil {
				return fmt.Errorf("failed to copy file %s: %w", f.Filename, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	return c.do(ctx, method, path, nil, &buf, w.FormDataContentType(), out)
}

func pageQuery(skip, limit int) url.Values {
	q := url.Values{}
	q.Set("skip", fmt.Sprintf("%d", skip))
	q.Set("limit", fmt.Sprintf("%d", limit))
	return q
}
