package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/intake/pkg/adapters/http/storeapi"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/google/uuid"
)

var _ ports.RecordStore = (*Client)(nil)

// Client implements ports.RecordStore against a remote record store API.
// Error codes returned by the server are mapped back to domain errors;
// transport failures and unexpected 5xx answers become domain.ErrStoreUnavailable.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		cl.http.Timeout = d
	}
}

// NewClient creates a client for the store API rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create allocates a record on the remote store.
func (c *Client) Create(ctx context.Context) (string, error) {
	var resp storeapi.Created
	if err := c.do(ctx, http.MethodPost, "/api/application", "", nil, &resp); err != nil {
		return "", err
	}
	if resp.ApplicationId == 0 {
		return "", fmt.Errorf("%w: create response carries no id", domain.ErrStoreUnavailable)
	}
	return strconv.FormatInt(resp.ApplicationId, 10), nil
}

// Get fetches a record.
func (c *Client) Get(ctx context.Context, id string) (domain.Record, error) {
	var resp storeapi.ApplicationRecord
	if err := c.do(ctx, http.MethodGet, "/api/application/"+url.PathEscape(id), id, nil, &resp); err != nil {
		return domain.Record{}, err
	}
	rec, err := fromApplicationRecord(id, resp)
	if err != nil {
		return domain.Record{}, domain.CorruptRecordError(id, err)
	}
	return rec, nil
}

// Patch sends the set fields of patch.
func (c *Client) Patch(ctx context.Context, id string, patch domain.Patch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, "/api/application/"+url.PathEscape(id), id, patchToWire(patch), nil)
}

// List fetches every summary.
func (c *Client) List(ctx context.Context) ([]domain.Summary, error) {
	var resp storeapi.ApplicationList
	if err := c.do(ctx, http.MethodGet, "/api/application", "", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Summary, 0, len(resp.Applications))
	for _, item := range resp.Applications {
		id := strconv.FormatInt(item.ApplicationId, 10)
		step, err := domain.ParseStep(item.CurrentPage)
		if err != nil {
			return nil, domain.CorruptRecordError(id, err)
		}
		out = append(out, domain.Summary{ID: id, CurrentStep: step, Submitted: item.ApplicationSubmitted})
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path, id string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrStoreUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeError(resp, id)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response, id string) error {
	var payload errorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(data, &payload)

	msg := payload.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	cause := errors.New(msg)

	switch {
	case payload.Code == codeNotFound, payload.Code == "" && resp.StatusCode == http.StatusNotFound:
		return domain.ErrRecordNotFound
	case payload.Code == codeCorrupt:
		return domain.CorruptRecordError(id, cause)
	case payload.Code == codeInvalidPatch:
		return fmt.Errorf("%w: %w", domain.ErrInvalidPatch, cause)
	}
	return fmt.Errorf("%w: status %d: %w", domain.ErrStoreUnavailable, resp.StatusCode, cause)
}
