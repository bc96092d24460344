package hotelapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jrsteele09/go-travel-booking/upstream"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var _ upstream.HotelAPI = (*Client)(nil)

// Credentials authenticate against the hotel API token endpoint with the
// OAuth2 client credentials grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

type ClientOption func(*Client)

// WithHTTPClient sets the base HTTP client. When credentials are configured
// it is also used to reach the token endpoint.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.baseHTTP = httpClient
	}
}

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

// Client calls the hotel API over HTTP.
type Client struct {
	api      *upstream.JSONClient
	baseHTTP *http.Client
	timeout  time.Duration
	logger   zerolog.Logger
}

// New creates a hotel API client. An empty Credentials.ClientID sends
// requests unauthenticated.
func New(baseURL string, creds Credentials, options ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[hotelapi.New] baseURL is required")
	}

	c := &Client{
		timeout: 30 * time.Second,
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.baseHTTP == nil {
		c.baseHTTP = upstream.NewHTTPClient(c.timeout)
	}

	httpClient := c.baseHTTP
	if creds.ClientID != "" {
		if creds.TokenURL == "" {
			return nil, errors.New("[hotelapi.New] token URL is required with client credentials")
		}
		cc := &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     creds.TokenURL,
			Scopes:       creds.Scopes,
		}
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, c.baseHTTP)
		httpClient = cc.Client(tokenCtx)
		httpClient.Timeout = c.timeout
	}

	api, err := upstream.NewJSONClient(baseURL, httpClient, nil)
	if err != nil {
		return nil, err
	}
	c.api = api
	return c, nil
}

type preBookRequest struct {
	BookingCode string `json:"bookingCode"`
	PaymentMode string `json:"paymentMode"`
}

func (c *Client) PreBook(ctx context.Context, offerID, paymentMode string) (*upstream.PreBookResponse, error) {
	var resp upstream.PreBookResponse
	if err := c.call(ctx, "/hotels/prebook", preBookRequest{BookingCode: offerID, PaymentMode: paymentMode}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Book(ctx context.Context, req upstream.HotelBookRequest) (*upstream.HotelBookResponse, error) {
	var resp upstream.HotelBookResponse
	if err := c.call(ctx, "/hotels/book", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) call(ctx context.Context, path string, in, out any) error {
	start := time.Now()
	err := c.api.Do(ctx, http.MethodPost, path, in, out)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Dur("elapsed", time.Since(start)).Msg("hotel api call failed")
		return err
	}
	c.logger.Debug().Str("path", path).Dur("elapsed", time.Since(start)).Msg("hotel api call")
	return nil
}
