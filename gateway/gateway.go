// Package gateway is the storefront's only road to the remote data
// platform: resource CRUD over its REST surface, auth endpoints, edge
// functions and file storage. Callers get either a fully decoded payload
// or a typed failure; no retries happen here, retry policy belongs to
// callers that know whether an operation is idempotent.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// TokenSource supplies the bearer credential for resource calls. When it
// returns "", the publishable key is used instead.
type TokenSource interface {
	AccessToken() string
}

// TokenFunc adapts a plain function to a TokenSource.
type TokenFunc func() string

func (f TokenFunc) AccessToken() string { return f() }

// Client talks to the remote platform. Every call attaches the apikey
// header plus a bearer credential.
type Client struct {
	baseURL string
	anonKey string
	httpc   *http.Client
	tokens  TokenSource
}

// Query shapes a resource read: column selection, a filter expression
// such as "id=eq.42", an order expression such as "order=name.asc", and
// an optional row limit.
type Query struct {
	Select string
	Filter string
	Order  string
	Limit  int
}

// RemoteError carries the status code and message of a non-success
// platform response.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("platform error (%d): %s", e.Status, e.Message)
}

// New builds a Client for the platform at baseURL. tokens may be nil, in
// which case all calls go out under the publishable key.
func New(baseURL, anonKey string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
	}
}

func (c *Client) bearer() string {
	if c.tokens != nil {
		if tok := c.tokens.AccessToken(); tok != "" {
			return tok
		}
	}
	return c.anonKey
}

// do runs one HTTP exchange and decodes the response into out (when out
// is non-nil). A non-2xx status becomes a *RemoteError with whatever
// message the platform attached.
func (c *Client) do(ctx context.Context, method, rawURL string, headers map[string]string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach platform: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read platform response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteError{Status: resp.StatusCode, Message: remoteMessage(data, resp.StatusCode)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse platform response: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, rawURL string, payload, out any) error {
	var body io.Reader
	headers := map[string]string{}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		headers["Content-Type"] = "application/json"
	}
	// Mutations want the affected rows back, not a bare 201/204.
	if method == http.MethodPost || method == http.MethodPatch {
		headers["Prefer"] = "return=representation"
	}
	return c.do(ctx, method, rawURL, headers, body, out)
}

// remoteMessage digs the human-readable message out of an error body.
func remoteMessage(data []byte, status int) string {
	var parsed struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		Err              string `json:"error"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil {
		for _, m := range []string{parsed.Message, parsed.Msg, parsed.ErrorDescription, parsed.Err} {
			if m != "" {
				return m
			}
		}
	}
	return "HTTP error " + strconv.Itoa(status)
}

func (c *Client) resourceURL(resource string, q Query) string {
	u := c.baseURL + "/rest/v1/" + resource
	params := url.Values{}
	if q.Select != "" {
		params.Set("select", q.Select)
	}
	if q.Order != "" {
		params.Set("order", q.Order)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	query := params.Encode()
	// Filter expressions are already in key=op.value form; append as-is.
	if q.Filter != "" {
		if query != "" {
			query += "&"
		}
		query += q.Filter
	}
	if query != "" {
		u += "?" + query
	}
	return u
}

// Read fetches rows from a named resource into out.
func (c *Client) Read(ctx context.Context, resource string, q Query, out any) error {
	return c.do(ctx, http.MethodGet, c.resourceURL(resource, q), nil, nil, out)
}

// Create inserts record into a named resource. When out is non-nil the
// created rows are decoded into it.
func (c *Client) Create(ctx context.Context, resource string, record, out any) error {
	return c.doJSON(ctx, http.MethodPost, c.resourceURL(resource, Query{}), record, out)
}

// Update patches the rows matching filter.
func (c *Client) Update(ctx context.Context, resource string, patch any, filter string, out any) error {
	return c.doJSON(ctx, http.MethodPatch, c.resourceURL(resource, Query{Filter: filter}), patch, out)
}

// Delete removes the rows matching filter.
func (c *Client) Delete(ctx context.Context, resource, filter string) error {
	return c.do(ctx, http.MethodDelete, c.resourceURL(resource, Query{Filter: filter}), nil, nil, nil)
}

// Invoke calls a server-side edge function with a JSON payload.
func (c *Client) Invoke(ctx context.Context, function string, payload, out any) error {
	return c.doJSON(ctx, http.MethodPost, c.baseURL+"/functions/v1/"+function, payload, out)
}

// Auth posts to an auth endpoint, e.g. "signup" or
// "token?grant_type=password". Auth endpoints sit outside the resource
// surface but share the header scheme.
func (c *Client) Auth(ctx context.Context, endpoint string, payload, out any) error {
	return c.doJSON(ctx, http.MethodPost, c.baseURL+"/auth/v1/"+endpoint, payload, out)
}

// Upload stores binary content at bucket/path and returns its public URL.
func (c *Client) Upload(ctx context.Context, bucket, path string, content io.Reader, contentType string) (string, error) {
	rawURL := c.baseURL + "/storage/v1/object/" + bucket + "/" + path
	headers := map[string]string{"Content-Type": contentType}
	if err := c.do(ctx, http.MethodPost, rawURL, headers, content, nil); err != nil {
		return "", err
	}
	return c.baseURL + "/storage/v1/object/public/" + bucket + "/" + path, nil
}
