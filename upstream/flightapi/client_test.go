package flightapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-travel-booking/internal/errors"
	"github.com/jrsteele09/go-travel-booking/upstream"
	"github.com/jrsteele09/go-travel-booking/upstream/flightapi"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := flightapi.New("", "key")
	require.Error(t, err)
}

func TestReprice_SendsKeyAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/flights/reprice", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("X-Api-Key"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "trace-1", body["correlationId"])
		require.Equal(t, "offer-1", body["offerId"])

		_, _ = w.Write([]byte(`{"result":{"offeredFare":5500,"currency":"USD","isPriceChanged":true}}`))
	}))
	defer srv.Close()

	client, err := flightapi.New(srv.URL, "secret")
	require.NoError(t, err)

	resp, err := client.Reprice(context.Background(), "trace-1", "offer-1")
	require.NoError(t, err)
	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
	require.Equal(t, 5500.0, resp.Result.OfferedFare)
	require.True(t, resp.Result.IsPriceChanged)
}

func TestSeatMap_UsesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "trace-1", r.URL.Query().Get("correlationId"))
		require.Equal(t, "offer-1", r.URL.Query().Get("offerId"))
		_, _ = w.Write([]byte(`{"seats":[{"segmentIndex":0,"rowNo":"12","seatNo":"A","code":"12A","availabilityType":1,"position":1,"compartment":1,"price":15}]}`))
	}))
	defer srv.Close()

	client, err := flightapi.New(srv.URL, "")
	require.NoError(t, err)

	resp, err := client.SeatMap(context.Background(), "trace-1", "offer-1")
	require.NoError(t, err)
	require.Len(t, resp.Seats, 1)
	require.Equal(t, "12A", resp.Seats[0].Code)
}

func TestStructuredErrorInBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":"INVALID_TRACEID","message":"Trace id is not valid"}}`))
	}))
	defer srv.Close()

	client, err := flightapi.New(srv.URL, "")
	require.NoError(t, err)

	resp, err := client.Reprice(context.Background(), "bad", "offer-1")
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	require.Equal(t, "INVALID_TRACEID", resp.Error.Code)
}

func TestHTTPFailureBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := flightapi.New(srv.URL, "")
	require.NoError(t, err)

	_, err = client.CreateBooking(context.Background(), upstream.BookRequest{OfferID: "offer-1"})
	var apiErr *upstream.APIError
	require.True(t, apperrors.As(err, &apiErr))
	require.Equal(t, upstream.CodeBadGateway, apiErr.Code)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.True(t, apiErr.IsRecoverable())
}

func TestHTTPFailureKeepsBodyCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"BOOKING_FAILED","message":"Fare no longer bookable"}}`))
	}))
	defer srv.Close()

	client, err := flightapi.New(srv.URL, "")
	require.NoError(t, err)

	_, err = client.CreateBooking(context.Background(), upstream.BookRequest{OfferID: "offer-1"})
	var apiErr *upstream.APIError
	require.True(t, apperrors.As(err, &apiErr))
	require.Equal(t, "BOOKING_FAILED", apiErr.Code)
	require.False(t, apiErr.IsRecoverable())
}

func TestTimeoutBecomesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client, err := flightapi.New(srv.URL, "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Ancillaries(ctx, "trace-1", "offer-1")
	var transportErr *upstream.TransportError
	require.True(t, apperrors.As(err, &transportErr))
	require.True(t, transportErr.IsRecoverable())
	require.Contains(t, err.Error(), "timeout")
}
