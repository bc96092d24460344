package pricing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jrsteele09/go-travel-booking/booking"
	"github.com/jrsteele09/go-travel-booking/pricing"
	"github.com/jrsteele09/go-travel-booking/upstream"
	"github.com/jrsteele09/go-travel-booking/upstream/upstreamfakes"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	flightAPI *upstreamfakes.FakeFlightAPI
	hotelAPI  *upstreamfakes.FakeHotelAPI
	reprice   *pricing.RepricingCoordinator
	prebook   *pricing.PreBookCoordinator
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		flightAPI: upstreamfakes.NewFakeFlightAPI(),
		hotelAPI:  upstreamfakes.NewFakeHotelAPI(),
	}

	var err error
	f.reprice, err = pricing.NewRepricingCoordinator(f.flightAPI, pricing.WithDefaultCurrency("GBP"))
	require.NoError(t, err)
	f.prebook, err = pricing.NewPreBookCoordinator(f.hotelAPI)
	require.NoError(t, err)
	return f
}

func (f *testFixture) repriceReturns(fare float64, changed bool) {
	f.flightAPI.RepriceFunc = func(context.Context, string, string) (*upstream.RepriceResponse, error) {
		return &upstream.RepriceResponse{Result: &upstream.RepriceResult{OfferedFare: fare, IsPriceChanged: changed, Currency: "USD"}}, nil
	}
}

func TestNewCoordinators_RequireAPI(t *testing.T) {
	_, err := pricing.NewRepricingCoordinator(nil)
	require.Error(t, err)
	_, err = pricing.NewPreBookCoordinator(nil)
	require.Error(t, err)
}

func TestReprice_PriceIncrease(t *testing.T) {
	f := setupTestFixture(t)
	f.repriceReturns(5500, true)

	got, err := f.reprice.Validate(context.Background(), "trace-1", "offer-1", 5000)
	require.NoError(t, err)
	require.True(t, got.Available)
	require.True(t, got.PriceChanged)
	require.Equal(t, 500.0, got.PriceIncrease)
	require.Equal(t, 5500.0, got.CurrentPrice)
	require.Equal(t, "USD", got.Currency)
}

func TestReprice_PriceDecreaseIsNegative(t *testing.T) {
	f := setupTestFixture(t)
	f.repriceReturns(4500, true)

	got, err := f.reprice.Validate(context.Background(), "trace-1", "offer-1", 5000)
	require.NoError(t, err)
	require.Equal(t, -500.0, got.PriceIncrease)
}

func TestReprice_PriceChangedComesFromUpstreamFlag(t *testing.T) {
	f := setupTestFixture(t)
	f.repriceReturns(5100, false)

	got, err := f.reprice.Validate(context.Background(), "trace-1", "offer-1", 5000)
	require.NoError(t, err)
	require.False(t, got.PriceChanged)
	require.Equal(t, 100.0, got.PriceIncrease)
}

func TestReprice_NilResultIsSoldOut(t *testing.T) {
	f := setupTestFixture(t)
	f.flightAPI.RepriceFunc = func(context.Context, string, string) (*upstream.RepriceResponse, error) {
		return &upstream.RepriceResponse{}, nil
	}

	got, err := f.reprice.Validate(context.Background(), "trace-1", "offer-1", 5000)
	require.NoError(t, err)
	require.False(t, got.Available)
	require.Zero(t, got.CurrentPrice)
	require.Zero(t, got.PriceIncrease)
	require.True(t, got.PriceChanged)
	require.Equal(t, "GBP", got.Currency)
}

func TestReprice_StructuredErrorIsReturned(t *testing.T) {
	f := setupTestFixture(t)
	f.flightAPI.RepriceFunc = func(context.Context, string, string) (*upstream.RepriceResponse, error) {
		return &upstream.RepriceResponse{Error: &upstream.APIError{Code: "INVALID_TRACEID", Message: "Trace id invalid"}}, nil
	}

	_, err := f.reprice.Validate(context.Background(), "trace-1", "offer-1", 5000)
	require.Error(t, err)

	var apiErr *upstream.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "INVALID_TRACEID", apiErr.Code)
	require.Contains(t, err.Error(), "Trace id invalid")
	require.Contains(t, err.Error(), "INVALID_TRACEID")
}

func TestReprice_ThrownUnavailableIsSoftened(t *testing.T) {
	for _, msg := range []string{"Flight Unavailable", "fare SOLD OUT", "offer is no longer available"} {
		f := setupTestFixture(t)
		f.flightAPI.RepriceFunc = func(context.Context, string, string) (*upstream.RepriceResponse, error) {
			return nil, errors.New(msg)
		}

		got, err := f.reprice.Validate(context.Background(), "trace-1", "offer-1", 5000)
		require.NoError(t, err, msg)
		require.False(t, got.Available, msg)
		require.True(t, got.PriceChanged, msg)
	}
}

func TestReprice_OtherThrownErrorsPropagate(t *testing.T) {
	f := setupTestFixture(t)
	thrown := errors.New("network error")
	f.flightAPI.RepriceFunc = func(context.Context, string, string) (*upstream.RepriceResponse, error) {
		return nil, thrown
	}

	_, err := f.reprice.Validate(context.Background(), "trace-1", "offer-1", 5000)
	require.ErrorIs(t, err, thrown)
}

func TestReprice_ServerUnavailableIsNotSoldOut(t *testing.T) {
	f := setupTestFixture(t)
	f.flightAPI.RepriceFunc = func(context.Context, string, string) (*upstream.RepriceResponse, error) {
		return nil, &upstream.APIError{Code: upstream.CodeServiceUnavailable, Message: "Service Unavailable", StatusCode: 503}
	}

	_, err := f.reprice.Validate(context.Background(), "trace-1", "offer-1", 5000)
	require.Error(t, err)
}

func TestPreBook_PriceAndPolicyChange(t *testing.T) {
	f := setupTestFixture(t)
	f.hotelAPI.PreBookFunc = func(_ context.Context, offerID, mode string) (*upstream.PreBookResponse, error) {
		require.Equal(t, "room-1", offerID)
		require.Equal(t, string(booking.PaymentLimit), mode)
		return &upstream.PreBookResponse{Hotel: &upstream.PreBookResult{
			TotalFare:                 180,
			Currency:                  "EUR",
			PriceChanged:              true,
			CancellationPolicyChanged: true,
			CancelPolicies:            []booking.CancellationPolicy{{FromDate: "2025-06-01", ChargeType: "fixed", Charge: 50}},
		}}, nil
	}

	got, err := f.prebook.Validate(context.Background(), "trace-1", "room-1", 200)
	require.NoError(t, err)
	require.True(t, got.Available)
	require.Equal(t, -20.0, got.PriceIncrease)
	require.True(t, got.CancellationPolicyChanged)
	require.Len(t, got.CancellationPolicy, 1)
}

func TestPreBook_NilHotelIsSoldOut(t *testing.T) {
	f := setupTestFixture(t)
	f.hotelAPI.PreBookFunc = func(context.Context, string, string) (*upstream.PreBookResponse, error) {
		return &upstream.PreBookResponse{}, nil
	}

	got, err := f.prebook.Validate(context.Background(), "trace-1", "room-1", 200)
	require.NoError(t, err)
	require.False(t, got.Available)
	require.Equal(t, "USD", got.Currency)
}

func TestPreBook_StructuredError(t *testing.T) {
	f := setupTestFixture(t)
	f.hotelAPI.PreBookFunc = func(context.Context, string, string) (*upstream.PreBookResponse, error) {
		return &upstream.PreBookResponse{Error: &upstream.APIError{Code: "INVALID_BOOKING_CODE"}}, nil
	}

	_, err := f.prebook.ValidateWithPayment(context.Background(), "trace-1", "room-1", 200, booking.PaymentCard)
	var apiErr *upstream.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "INVALID_BOOKING_CODE", apiErr.Code)
}
