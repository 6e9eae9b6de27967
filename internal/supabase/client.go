// Package supabase is a minimal PostgREST client for the Supabase tables the
// image tools read and rewrite.
package supabase

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

	"github.com/loganlanou/prjimages/internal/updater"
)

const (
	defaultTimeout = 60 * time.Second
	restPath       = "/rest/v1/"
)

var (
	ErrMissingURL = errors.New("supabase url is required")
	ErrMissingKey = errors.New("supabase key is required")
)

// APIError is an error reported by PostgREST for a request it rejected.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("supabase %d (%s): %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("supabase %d: %s", e.Status, msg)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// NewClient returns a client for the project at baseURL authenticated with key.
func NewClient(baseURL, key string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingURL
	}
	if strings.TrimSpace(key) == "" {
		return nil, ErrMissingKey
	}

	c := &Client{
		baseURL: baseURL,
		apiKey:  key,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ updater.Table = (*Client)(nil)

func (c *Client) doRequest(ctx context.Context, method, table string, query url.Values, body io.Reader, prefer string) (*http.Response, error) {
	u := c.baseURL + restPath + url.PathEscape(table)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	return c.httpClient.Do(req)
}

// FetchAll selects id and field from every row of table.
func (c *Client) FetchAll(ctx context.Context, table, field string) ([]updater.Row, error) {
	query := url.Values{}
	query.Set("select", "id,"+field)

	resp, err := c.doRequest(ctx, http.MethodGet, table, query, nil, "")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	rows := make([]updater.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, updater.Row{
			ID:    stringValue(rec["id"]),
			Value: stringValue(rec[field]),
		})
	}
	return rows, nil
}

// UpdateField sets field to value on the row whose id matches.
func (c *Client) UpdateField(ctx context.Context, table, id, field, value string) error {
	body, err := json.Marshal(map[string]string{field: value})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	query := url.Values{}
	query.Set("id", "eq."+id)

	resp, err := c.doRequest(ctx, http.MethodPatch, table, query, bytes.NewReader(body), "return=minimal")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, _ := io.ReadAll(resp.Body)
	if len(body) > 0 {
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
	}
	return apiErr
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
