package tablecrm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"order-desk/internal/core"
)

// DefaultBaseURL is the production TableCRM API root.
const DefaultBaseURL = "https://app.tablecrm.com/api/v1"

// TokenSource supplies the current bearer credential.
type TokenSource interface {
	Token() (string, bool)
}

// Client talks to the TableCRM REST API. It satisfies both
// core.CatalogGateway and core.OrderGateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
}

var (
	_ core.CatalogGateway = (*Client)(nil)
	_ core.OrderGateway   = (*Client)(nil)
)

// NewClient creates a Client. A zero timeout defaults to 10 seconds.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
	}
}

// APIError is a non-2xx answer from TableCRM. It unwraps to
// core.ErrUnauthorized for 401/403 and to core.ErrNetwork otherwise.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("tablecrm %s %s returned status %d: %s", e.Method, e.Path, e.Status, body)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return core.ErrUnauthorized
	}
	return core.ErrNetwork
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// do sends one request with the token attached as a query parameter.
// Without a token no request is made.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	started := time.Now()
	token, ok := c.tokens.Token()
	if !ok {
		observe(path, method, "no_token", started)
		return nil, fmt.Errorf("tablecrm %s %s: %w: no token set", method, path, core.ErrUnauthorized)
	}

	q := url.Values{}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("token", token)
	endpoint := c.baseURL + path + "?" + q.Encode()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observe(path, method, "error", started)
		return nil, fmt.Errorf("tablecrm %s %s: %w: %v", method, path, core.ErrNetwork, redact(err, token))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	observe(path, method, strconv.Itoa(resp.StatusCode), started)
	if err != nil {
		return nil, fmt.Errorf("tablecrm %s %s: %w: reading body: %v", method, path, core.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: string(respBody)}
		if resp.StatusCode == http.StatusUnauthorized {
			log.Printf("tablecrm: %s %s rejected the token", method, path)
		}
		return nil, apiErr
	}
	return respBody, nil
}

// redact keeps the token out of error messages; url.Error embeds the full URL.
func redact(err error, token string) string {
	return strings.ReplaceAll(err.Error(), url.QueryEscape(token), "***")
}
