package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxErrorBody = 64 << 10

// JSONClient sends JSON requests to one upstream API and decodes JSON
// replies. Failed HTTP responses become *APIError; failures to reach the
// API become *TransportError.
type JSONClient struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
}

// NewHTTPClient returns a pooled http.Client with the given timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// NewJSONClient creates a client for baseURL. headers are set on every
// request.
func NewJSONClient(baseURL string, httpClient *http.Client, headers map[string]string) (*JSONClient, error) {
	if baseURL == "" {
		return nil, errors.New("[NewJSONClient] baseURL is required")
	}
	if httpClient == nil {
		return nil, errors.New("[NewJSONClient] httpClient is required")
	}
	return &JSONClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		headers:    headers,
	}, nil
}

// Do sends in (if non-nil) as the JSON body and decodes the reply into out.
func (c *JSONClient) Do(ctx context.Context, method, path string, in, out any) error {
	op := fmt.Sprintf("%s %s", method, path)

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewTransportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func statusError(resp *http.Response) *APIError {
	recoverable := RecoverableStatus(resp.StatusCode)

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil && envelope.Error.Code != "" {
		envelope.Error.StatusCode = resp.StatusCode
		envelope.Error.Recoverable = envelope.Error.Recoverable || recoverable
		return envelope.Error
	}

	return &APIError{
		Code:        CodeForStatus(resp.StatusCode),
		Message:     http.StatusText(resp.StatusCode),
		Recoverable: recoverable,
		StatusCode:  resp.StatusCode,
	}
}
