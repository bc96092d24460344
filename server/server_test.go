package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-travel-booking/booking"
	"github.com/jrsteele09/go-travel-booking/internal/config"
	"github.com/jrsteele09/go-travel-booking/recovery"
	"github.com/jrsteele09/go-travel-booking/server"
	"github.com/jrsteele09/go-travel-booking/server/workspaces"
	"github.com/jrsteele09/go-travel-booking/sessions/repofakes"
	"github.com/jrsteele09/go-travel-booking/upstream"
	"github.com/jrsteele09/go-travel-booking/upstream/upstreamfakes"
	"github.com/stretchr/testify/require"
)

const clientCookie = "booking_client"

type testFixture struct {
	now     time.Time
	flights *upstreamfakes.FakeFlightAPI
	hotels  *upstreamfakes.FakeHotelAPI
	catalog *recordingCatalog
	repo    *workspaces.InMemoryRepo
	server  *server.Server
	cookie  *http.Cookie
}

type recordingCatalog struct {
	flights []booking.FlightOffer
	hotels  []booking.HotelOffer
}

func (c *recordingCatalog) RememberFlightOffer(offer booking.FlightOffer) {
	c.flights = append(c.flights, offer)
}

func (c *recordingCatalog) RememberHotelOffer(offer booking.HotelOffer) {
	c.hotels = append(c.hotels, offer)
}

type errorResponse struct {
	Error struct {
		Code     string `json:"code"`
		Message  string `json:"message"`
		Recovery struct {
			Type       string `json:"type"`
			FromStep   string `json:"fromStep"`
			AllowRetry bool   `json:"allowRetry"`
			Delay      int64  `json:"delay"`
		} `json:"recovery"`
	} `json:"error"`
	Partial *booking.TripConfirmation `json:"partial"`
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		now:     time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		flights: upstreamfakes.NewFakeFlightAPI(),
		hotels:  upstreamfakes.NewFakeHotelAPI(),
		catalog: &recordingCatalog{},
	}
	nowTime := func() time.Time { return f.now }

	repo, err := workspaces.NewInMemoryRepo(workspaces.Dependencies{
		Store:     repofakes.NewFakeKVStore(),
		FlightAPI: f.flights,
		HotelAPI:  f.hotels,
		NowTime:   nowTime,
	})
	require.NoError(t, err)
	f.repo = repo

	cfg := config.EnvVars{Env: "TEST", AppName: "booking-test", DefaultCurrency: "USD", ClientTokenSecret: "secret"}
	s, err := server.New(cfg, repo,
		server.WithNowTime(nowTime),
		server.WithOfferCatalog(f.catalog),
	)
	require.NoError(t, err)
	f.server = s
	return f
}

// do sends a request with the fixture's client cookie, keeping any new one.
func (f *testFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if f.cookie != nil {
		req.AddCookie(f.cookie)
	}

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == clientCookie {
			f.cookie = c
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func flightOffer() booking.FlightOffer {
	return booking.FlightOffer{OfferID: "OB1", Price: 500, Currency: "USD"}
}

func hotelOffer() booking.HotelOffer {
	return booking.HotelOffer{OfferID: "HC1", HotelName: "Harbour View", Price: 200, Currency: "USD"}
}

func passengers() []booking.Passenger {
	return []booking.Passenger{{
		Title:       "Mr",
		FirstName:   "Sam",
		LastName:    "Lee",
		Type:        booking.PassengerAdult,
		DateOfBirth: time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
		Email:       "sam@example.com",
	}}
}

func guests() []booking.Guest {
	return []booking.Guest{{Title: "Ms", FirstName: "Ana", LastName: "Ruiz", Type: booking.PassengerAdult}}
}

func TestNew_Validation(t *testing.T) {
	repo, err := workspaces.NewInMemoryRepo(workspaces.Dependencies{
		Store:     repofakes.NewFakeKVStore(),
		FlightAPI: upstreamfakes.NewFakeFlightAPI(),
		HotelAPI:  upstreamfakes.NewFakeHotelAPI(),
	})
	require.NoError(t, err)

	_, err = server.New(nil, repo)
	require.Error(t, err)
	_, err = server.New(config.EnvVars{ClientTokenSecret: "secret"}, nil)
	require.Error(t, err)
	_, err = server.New(config.EnvVars{}, repo)
	require.Error(t, err)
}

func TestNew_DefaultTokenSecretOnlyInDev(t *testing.T) {
	repo, err := workspaces.NewInMemoryRepo(workspaces.Dependencies{
		Store:     repofakes.NewFakeKVStore(),
		FlightAPI: upstreamfakes.NewFakeFlightAPI(),
		HotelAPI:  upstreamfakes.NewFakeHotelAPI(),
	})
	require.NoError(t, err)

	_, err = server.New(config.EnvVars{Env: "prod", ClientTokenSecret: config.DefaultClientTokenSecret}, repo)
	require.Error(t, err)
	_, err = server.New(config.EnvVars{Env: "dev", ClientTokenSecret: config.DefaultClientTokenSecret}, repo)
	require.NoError(t, err)
	_, err = server.New(config.EnvVars{ClientTokenSecret: config.DefaultClientTokenSecret}, repo)
	require.NoError(t, err)
	_, err = server.New(config.EnvVars{Env: "prod", ClientTokenSecret: "a-real-secret"}, repo)
	require.NoError(t, err)
}

func TestHealth(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, server.RouteHealth, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	require.Equal(t, "ok", body["status"])
	require.Nil(t, f.cookie)
}

func TestWorkspaceCookie_IssuedOnceAndReused(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, server.RouteFlightSession, map[string]interface{}{"offer": flightOffer()})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, f.cookie)
	issued := f.cookie.Value
	require.True(t, f.cookie.HttpOnly)

	rec = f.do(t, http.MethodGet, server.RouteFlightSession, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Result().Cookies())
	require.Equal(t, issued, f.cookie.Value)

	session := decode[map[string]interface{}](t, rec)
	data := session["data"].(map[string]interface{})
	require.Equal(t, string(booking.FlightRepricing), data["status"])
}

func TestWorkspaceCookie_InvalidTokenGetsFreshWorkspace(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, server.RouteFlightSession, map[string]interface{}{"offer": flightOffer()})
	require.Equal(t, http.StatusCreated, rec.Code)

	f.cookie = &http.Cookie{Name: clientCookie, Value: "not-a-token"}
	rec = f.do(t, http.MethodGet, server.RouteFlightSession, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.NotEqual(t, "not-a-token", f.cookie.Value)
}

func TestWorkspaces_AreIsolatedBetweenClients(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, server.RouteFlightSession, map[string]interface{}{"offer": flightOffer()})
	require.Equal(t, http.StatusCreated, rec.Code)

	f.cookie = nil
	rec = f.do(t, http.MethodGet, server.RouteFlightSession, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestWorkspaces_IdleOnesAreEvicted(t *testing.T) {
	f := setupTestFixture(t)

	for i := 0; i < 25; i++ {
		f.cookie = nil
		rec := f.do(t, http.MethodGet, server.RouteFlightSession, nil)
		require.Equal(t, http.StatusConflict, rec.Code)
	}
	require.Equal(t, 25, f.repo.Len())

	f.now = f.now.Add(48 * time.Hour)
	f.cookie = nil
	f.do(t, http.MethodGet, server.RouteFlightSession, nil)
	require.Equal(t, 1, f.repo.Len())
}

func TestNoSession_RestartsFromSearch(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, server.RouteFlightReprice, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	body := decode[errorResponse](t, rec)
	require.Equal(t, recovery.CodeNoActiveSession, body.Error.Code)
	require.Equal(t, string(recovery.ActionRestart), body.Error.Recovery.Type)
	require.Equal(t, recovery.StepSearch, body.Error.Recovery.FromStep)
	require.NotEmpty(t, body.Error.Message)
}

func TestStartFlight_RemembersOfferAndDefaultsCurrency(t *testing.T) {
	f := setupTestFixture(t)

	offer := flightOffer()
	offer.Currency = ""
	rec := f.do(t, http.MethodPost, server.RouteFlightSession, map[string]interface{}{
		"offer":         offer,
		"correlationId": "trace-9",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, f.catalog.flights, 1)
	require.Equal(t, "USD", f.catalog.flights[0].Currency)

	session := decode[map[string]interface{}](t, rec)
	require.Equal(t, "trace-9", session["correlationId"])
}

func TestStartFlight_MalformedBody(t *testing.T) {
	f := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodPost, server.RouteFlightSession, bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorResponse](t, rec)
	require.Equal(t, recovery.CodeValidation, body.Error.Code)
	require.Equal(t, string(recovery.ActionPreserve), body.Error.Recovery.Type)
}

func TestCancelFlight(t *testing.T) {
	f := setupTestFixture(t)

	f.do(t, http.MethodPost, server.RouteFlightSession, map[string]interface{}{"offer": flightOffer()})
	rec := f.do(t, http.MethodDelete, server.RouteFlightSession, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, server.RouteFlightSession, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCompleteFlight_Succeeds(t *testing.T) {
	f := setupTestFixture(t)

	f.do(t, http.MethodPost, server.RouteFlightSession, map[string]interface{}{"offer": flightOffer()})
	rec := f.do(t, http.MethodPost, server.RouteFlightComplete, map[string]interface{}{
		"passengers": passengers(),
		"payment":    booking.Payment{Method: booking.PaymentCard, Amount: 500, Currency: "USD"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	confirmation := decode[booking.FlightConfirmation](t, rec)
	require.Equal(t, "ABC123", confirmation.PNR)
	require.Equal(t, 500.0, confirmation.TotalPrice)
	require.Equal(t, 1, f.flights.Calls(upstreamfakes.MethodCreateBooking))

	rec = f.do(t, http.MethodGet, server.RouteFlightSession, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCompleteFlight_BookingFailurePreservesSession(t *testing.T) {
	f := setupTestFixture(t)
	f.flights.CreateBookingFunc = func(context.Context, upstream.BookRequest) (*upstream.BookResponse, error) {
		return &upstream.BookResponse{Error: &upstream.APIError{Code: recovery.CodeBookingFailed}}, nil
	}

	f.do(t, http.MethodPost, server.RouteFlightSession, map[string]interface{}{"offer": flightOffer()})
	rec := f.do(t, http.MethodPost, server.RouteFlightComplete, map[string]interface{}{
		"passengers": passengers(),
		"payment":    booking.Payment{Method: booking.PaymentCard},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorResponse](t, rec)
	require.Equal(t, recovery.CodeBookingFailed, body.Error.Code)
	require.True(t, body.Error.Recovery.AllowRetry)

	rec = f.do(t, http.MethodGet, server.RouteFlightSession, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	session := decode[map[string]interface{}](t, rec)
	data := session["data"].(map[string]interface{})
	require.Equal(t, string(booking.FlightPayment), data["status"])
}

func TestCompleteFlight_PaymentFailureIs402(t *testing.T) {
	f := setupTestFixture(t)
	f.flights.CreateBookingFunc = func(context.Context, upstream.BookRequest) (*upstream.BookResponse, error) {
		return &upstream.BookResponse{Error: &upstream.APIError{Code: recovery.CodePaymentFailed}}, nil
	}

	f.do(t, http.MethodPost, server.RouteFlightSession, map[string]interface{}{"offer": flightOffer()})
	rec := f.do(t, http.MethodPost, server.RouteFlightComplete, map[string]interface{}{
		"passengers": passengers(),
		"payment":    booking.Payment{Method: booking.PaymentCard},
	})
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
}

func TestCompleteFlight_NetworkFailureIsRetryable(t *testing.T) {
	f := setupTestFixture(t)
	f.flights.CreateBookingFunc = func(context.Context, upstream.BookRequest) (*upstream.BookResponse, error) {
		return nil, upstream.NewTransportError("CreateBooking", errors.New("dial tcp: connection refused"))
	}

	f.do(t, http.MethodPost, server.RouteFlightSession, map[string]interface{}{"offer": flightOffer()})
	rec := f.do(t, http.MethodPost, server.RouteFlightComplete, map[string]interface{}{
		"passengers": passengers(),
		"payment":    booking.Payment{Method: booking.PaymentCard},
	})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[errorResponse](t, rec)
	require.Equal(t, string(recovery.ActionRetry), body.Error.Recovery.Type)
	require.Equal(t, recovery.DefaultRetryDelay.Milliseconds(), body.Error.Recovery.Delay)
}

func TestCompleteFlight_InvalidPassengersNeverReachUpstream(t *testing.T) {
	f := setupTestFixture(t)

	f.do(t, http.MethodPost, server.RouteFlightSession, map[string]interface{}{"offer": flightOffer()})
	rec := f.do(t, http.MethodPost, server.RouteFlightComplete, map[string]interface{}{
		"passengers": []booking.Passenger{},
		"payment":    booking.Payment{Method: booking.PaymentCard},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, f.flights.Calls(upstreamfakes.MethodCreateBooking))
}

func TestHotelFlow(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, server.RouteHotelSession, map[string]interface{}{"offer": hotelOffer()})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, f.catalog.hotels, 1)

	rec = f.do(t, http.MethodPost, server.RouteHotelGuests, map[string]interface{}{"guests": guests()})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, server.RouteHotelComplete, map[string]interface{}{
		"payment": booking.Payment{Method: booking.PaymentCard},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	confirmation := decode[booking.HotelConfirmation](t, rec)
	require.Equal(t, "CONF-1", confirmation.ConfirmationNumber)

	requests := f.hotels.BookRequests()
	require.Len(t, requests, 1)
	require.Equal(t, "HC1", requests[0].BookingCode)
}

func TestTripTotal(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, server.RouteTripTotal, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 0.0, decode[map[string]interface{}](t, rec)["total"])

	flight, hotel := flightOffer(), hotelOffer()
	rec = f.do(t, http.MethodPost, server.RouteTripSession, map[string]interface{}{"flight": flight, "hotel": hotel})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, server.RouteTripTotal, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 700.0, decode[map[string]interface{}](t, rec)["total"])
}

func TestStartTrip_EmptyIsRejected(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, server.RouteTripSession, map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteTrip_HotelFailureReportsBookedFlight(t *testing.T) {
	f := setupTestFixture(t)
	f.hotels.BookFunc = func(context.Context, upstream.HotelBookRequest) (*upstream.HotelBookResponse, error) {
		return &upstream.HotelBookResponse{Error: &upstream.APIError{Code: recovery.CodeHotelBookingFailed}}, nil
	}

	rec := f.do(t, http.MethodPost, server.RouteTripSession, map[string]interface{}{"flight": flightOffer(), "hotel": hotelOffer()})
	require.Equal(t, http.StatusCreated, rec.Code)

	complete := map[string]interface{}{
		"passengers": passengers(),
		"guests":     guests(),
		"payment":    booking.Payment{Method: booking.PaymentCard},
	}
	rec = f.do(t, http.MethodPost, server.RouteTripComplete, complete)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorResponse](t, rec)
	require.Equal(t, recovery.CodeHotelBookingFailed, body.Error.Code)
	require.NotNil(t, body.Partial)
	require.NotNil(t, body.Partial.Flight)
	require.Equal(t, "ABC123", body.Partial.Flight.PNR)

	f.hotels.BookFunc = nil
	rec = f.do(t, http.MethodPost, server.RouteTripComplete, complete)
	require.Equal(t, http.StatusOK, rec.Code)
	confirmation := decode[booking.TripConfirmation](t, rec)
	require.NotNil(t, confirmation.Hotel)
	require.Equal(t, 700.0, confirmation.TotalPrice)
	require.Equal(t, 1, f.flights.Calls(upstreamfakes.MethodCreateBooking))
}

func TestCorsPreflight(t *testing.T) {
	repo, err := workspaces.NewInMemoryRepo(workspaces.Dependencies{
		Store:     repofakes.NewFakeKVStore(),
		FlightAPI: upstreamfakes.NewFakeFlightAPI(),
		HotelAPI:  upstreamfakes.NewFakeHotelAPI(),
	})
	require.NoError(t, err)
	s, err := server.New(config.EnvVars{ClientTokenSecret: "secret", Origins: []string{"https://app.example.com"}}, repo)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, server.RouteHealth, nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
