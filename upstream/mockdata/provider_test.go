package mockdata_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jrsteele09/go-travel-booking/booking"
	"github.com/jrsteele09/go-travel-booking/upstream"
	"github.com/jrsteele09/go-travel-booking/upstream/mockdata"
	"github.com/stretchr/testify/require"
)

func TestReprice_KnownOfferKeepsQuotedPrice(t *testing.T) {
	p := mockdata.New("USD")
	p.RememberFlightOffer(booking.FlightOffer{OfferID: "offer-1", Price: 500, Currency: "USD"})

	resp, err := p.Reprice(context.Background(), "trace-1", "offer-1")
	require.NoError(t, err)
	require.Equal(t, 500.0, resp.Result.OfferedFare)
	require.False(t, resp.Result.IsPriceChanged)
}

func TestRememberFlightOffer_ForgetsOldestPastLimit(t *testing.T) {
	p := mockdata.New("USD", mockdata.WithCatalogLimit(2))
	derived, err := p.Reprice(context.Background(), "trace-1", "offer-1")
	require.NoError(t, err)

	p.RememberFlightOffer(booking.FlightOffer{OfferID: "offer-1", Price: 1001, Currency: "USD"})
	p.RememberFlightOffer(booking.FlightOffer{OfferID: "offer-2", Price: 1002, Currency: "USD"})
	p.RememberFlightOffer(booking.FlightOffer{OfferID: "offer-2", Price: 1012, Currency: "USD"})
	p.RememberFlightOffer(booking.FlightOffer{OfferID: "offer-3", Price: 1003, Currency: "USD"})
	for i := 0; i < 100; i++ {
		p.RememberHotelOffer(booking.HotelOffer{OfferID: fmt.Sprintf("hotel-%d", i), Price: 200})
	}

	flights, hotels := p.Remembered()
	require.Equal(t, 2, flights)
	require.Equal(t, 2, hotels)

	resp, err := p.Reprice(context.Background(), "trace-1", "offer-1")
	require.NoError(t, err)
	require.Equal(t, derived.Result.OfferedFare, resp.Result.OfferedFare)

	resp, err = p.Reprice(context.Background(), "trace-1", "offer-2")
	require.NoError(t, err)
	require.Equal(t, 1012.0, resp.Result.OfferedFare)

	resp, err = p.Reprice(context.Background(), "trace-1", "offer-3")
	require.NoError(t, err)
	require.Equal(t, 1003.0, resp.Result.OfferedFare)
}

func TestReprice_UnknownOfferIsDeterministic(t *testing.T) {
	p := mockdata.New("")

	first, err := p.Reprice(context.Background(), "trace-1", "offer-x")
	require.NoError(t, err)
	second, err := p.Reprice(context.Background(), "trace-2", "offer-x")
	require.NoError(t, err)

	require.Equal(t, first.Result.OfferedFare, second.Result.OfferedFare)
	require.Equal(t, "USD", first.Result.Currency)
}

func TestSeatMap_ShapeAndDeterminism(t *testing.T) {
	p := mockdata.New("USD")

	a, err := p.SeatMap(context.Background(), "trace-1", "offer-1")
	require.NoError(t, err)
	b, err := p.SeatMap(context.Background(), "trace-1", "offer-1")
	require.NoError(t, err)

	require.Len(t, a.Seats, 60)
	require.Equal(t, a.Seats, b.Seats)

	for _, s := range a.Seats {
		if s.Compartment == upstream.CompartmentBusiness {
			require.Zero(t, s.Price)
		}
	}
}

func TestCreateBooking_OneTicketPerPassenger(t *testing.T) {
	p := mockdata.New("USD")

	resp, err := p.CreateBooking(context.Background(), upstream.BookRequest{
		CorrelationID: "trace-1",
		OfferID:       "offer-1",
		Passengers:    []upstream.WirePassenger{{FirstName: "A"}, {FirstName: "B"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.TicketNumbers, 2)
	require.Len(t, resp.PNR, 6)
	require.Contains(t, resp.BookingID, "MOCK-")
}

func TestPreBook_KnownOffer(t *testing.T) {
	p := mockdata.New("EUR")
	p.RememberHotelOffer(booking.HotelOffer{OfferID: "room-1", Price: 200, Currency: "EUR", CheckIn: "2025-06-01"})

	resp, err := p.PreBook(context.Background(), "room-1", "limit")
	require.NoError(t, err)
	require.Equal(t, 200.0, resp.Hotel.TotalFare)
	require.Len(t, resp.Hotel.CancelPolicies, 1)
	require.Equal(t, "2025-06-01", resp.Hotel.CancelPolicies[0].FromDate)
}
