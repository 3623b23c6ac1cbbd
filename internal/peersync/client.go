package peersync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mtlprog/reliefsync/internal/domain"
)

// Paths served by every installation for its peers.
const (
	DirectoryPath = "/api/v1/sync/directory"
	MessagesPath  = "/api/v1/sync/messages"
)

// DefaultTimeout bounds a single request to the peer.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response is read into the error.
const maxErrorBody = 512

// Client talks to one peer installation.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the peer at baseURL, authenticating with token.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchDirectory downloads the peer's full user directory.
func (c *Client) FetchDirectory(ctx context.Context) ([]User, error) {
	var dir Directory
	if err := c.do(ctx, http.MethodGet, DirectoryPath, nil, &dir); err != nil {
		return nil, err
	}
	return dir.Users, nil
}

// FetchMessages downloads one page of messages the peer stored after the cursor.
func (c *Client) FetchMessages(ctx context.Context, after int64) (*MessagePage, error) {
	path := MessagesPath
	if after > 0 {
		path += "?" + url.Values{"since": {strconv.FormatInt(after, 10)}}.Encode()
	}

	var page MessagePage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PushMessage hands one message to the peer.
func (c *Client) PushMessage(ctx context.Context, m Message) error {
	return c.do(ctx, http.MethodPost, MessagesPath, m, nil)
}

// do sends a JSON request and decodes a JSON response into out if it is non-nil.
// Transport failures and 5xx responses wrap ErrPeerUnavailable; other
// non-2xx responses wrap ErrPeerRejected.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrPeerUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		sentinel := domain.ErrPeerRejected
		if resp.StatusCode >= http.StatusInternalServerError {
			sentinel = domain.ErrPeerUnavailable
		}
		return fmt.Errorf("%w: %s %s: status %d: %s",
			sentinel, method, path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", domain.ErrPeerRejected, path, err)
	}
	return nil
}
