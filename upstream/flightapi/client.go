package flightapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/jrsteele09/go-travel-booking/upstream"
	"github.com/rs/zerolog"
)

var _ upstream.FlightAPI = (*Client)(nil)

const apiKeyHeader = "X-Api-Key"

type ClientOption func(*Client)

// WithHTTPClient replaces the pooled default HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client calls the flight API over HTTP.
type Client struct {
	api        *upstream.JSONClient
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

// New creates a flight API client for baseURL authenticating with apiKey.
func New(baseURL, apiKey string, options ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[flightapi.New] baseURL is required")
	}

	c := &Client{
		timeout: 30 * time.Second,
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = upstream.NewHTTPClient(c.timeout)
	}

	headers := map[string]string{}
	if apiKey != "" {
		headers[apiKeyHeader] = apiKey
	}

	api, err := upstream.NewJSONClient(baseURL, c.httpClient, headers)
	if err != nil {
		return nil, err
	}
	c.api = api
	return c, nil
}

type offerRequest struct {
	CorrelationID string `json:"correlationId"`
	OfferID       string `json:"offerId"`
}

type sellSeatsRequest struct {
	CorrelationID string              `json:"correlationId"`
	OfferID       string              `json:"offerId"`
	Seats         []upstream.SeatSell `json:"seats"`
}

func (c *Client) Reprice(ctx context.Context, correlationID, offerID string) (*upstream.RepriceResponse, error) {
	var resp upstream.RepriceResponse
	if err := c.post(ctx, "/flights/reprice", offerRequest{correlationID, offerID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SeatMap(ctx context.Context, correlationID, offerID string) (*upstream.SeatMapResponse, error) {
	var resp upstream.SeatMapResponse
	path := "/flights/seatmap?" + offerQuery(correlationID, offerID)
	if err := c.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SellSeats(ctx context.Context, correlationID, offerID string, seats []upstream.SeatSell) (*upstream.SellSeatsResponse, error) {
	var resp upstream.SellSeatsResponse
	req := sellSeatsRequest{CorrelationID: correlationID, OfferID: offerID, Seats: seats}
	if err := c.post(ctx, "/flights/seats/sell", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Ancillaries(ctx context.Context, correlationID, offerID string) (*upstream.AncillaryResponse, error) {
	var resp upstream.AncillaryResponse
	path := "/flights/ancillaries?" + offerQuery(correlationID, offerID)
	if err := c.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateBooking(ctx context.Context, req upstream.BookRequest) (*upstream.BookResponse, error) {
	var resp upstream.BookResponse
	if err := c.post(ctx, "/flights/book", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.call(ctx, http.MethodPost, path, in, out)
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	start := time.Now()
	err := c.api.Do(ctx, method, path, in, out)
	event := c.logger.Debug()
	if err != nil {
		event = c.logger.Warn().Err(err)
	}
	event.Str("method", method).Str("path", path).Dur("elapsed", time.Since(start)).Msg("flight api call")
	return err
}

func offerQuery(correlationID, offerID string) string {
	q := url.Values{}
	q.Set("correlationId", correlationID)
	q.Set("offerId", offerID)
	return q.Encode()
}
