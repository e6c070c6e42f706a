package transports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// HTTPTransport implements LedgerTransport against the REST API.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport returns a transport rooted at baseURL (e.g. http://127.0.0.1:8080).
func NewHTTPTransport(baseURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	ErrorCode string          `json:"errorCode"`
}

// APIError is a failed envelope returned by the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d %s: %s", e.Status, e.Code, e.Message)
}

func (t *HTTPTransport) get(ctx context.Context, path string, q url.Values, out any) error {
	u := t.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if !env.Success {
		return &APIError{Status: resp.StatusCode, Code: env.ErrorCode, Message: env.Message}
	}
	return json.Unmarshal(env.Data, out)
}

// ListIssuances fetches one page from /v1/issuances.
func (t *HTTPTransport) ListIssuances(ctx context.Context, req ListRequest) (Page, error) {
	q := url.Values{}
	if req.Kind != "" {
		q.Set("kind", req.Kind)
	}
	if req.Start != "" {
		q.Set("start", req.Start)
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Reverse {
		q.Set("reverse", "true")
	}
	if req.Filter != "" {
		q.Set("filter", req.Filter)
	}
	var p Page
	err := t.get(ctx, "/v1/issuances", q, &p)
	return p, err
}

// LookupIssuance fetches one entry from /v1/issuances/lookup.
func (t *HTTPTransport) LookupIssuance(ctx context.Context, value string) (Issuance, error) {
	var it Issuance
	err := t.get(ctx, "/v1/issuances/lookup", url.Values{"value": {value}}, &it)
	return it, err
}
