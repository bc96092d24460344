package upstreamfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-travel-booking/upstream"
)

var _ upstream.FlightAPI = (*FakeFlightAPI)(nil)

// Method names recorded by the fakes.
const (
	MethodReprice       = "Reprice"
	MethodSeatMap       = "SeatMap"
	MethodSellSeats     = "SellSeats"
	MethodAncillaries   = "Ancillaries"
	MethodCreateBooking = "CreateBooking"
	MethodPreBook       = "PreBook"
	MethodBook          = "Book"
)

// FakeFlightAPI is a spy FlightAPI. Set the Func fields to script replies;
// unset ones return an empty successful response.
type FakeFlightAPI struct {
	RepriceFunc       func(ctx context.Context, correlationID, offerID string) (*upstream.RepriceResponse, error)
	SeatMapFunc       func(ctx context.Context, correlationID, offerID string) (*upstream.SeatMapResponse, error)
	SellSeatsFunc     func(ctx context.Context, correlationID, offerID string, seats []upstream.SeatSell) (*upstream.SellSeatsResponse, error)
	AncillariesFunc   func(ctx context.Context, correlationID, offerID string) (*upstream.AncillaryResponse, error)
	CreateBookingFunc func(ctx context.Context, req upstream.BookRequest) (*upstream.BookResponse, error)

	calls        map[string]int
	soldSeats    [][]upstream.SeatSell
	bookRequests []upstream.BookRequest
	lock         sync.Mutex
}

func NewFakeFlightAPI() *FakeFlightAPI {
	return &FakeFlightAPI{calls: make(map[string]int)}
}

func (f *FakeFlightAPI) record(method string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls[method]++
}

// Calls returns how many times method was called.
func (f *FakeFlightAPI) Calls(method string) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (f *FakeFlightAPI) TotalCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// BookRequests returns every CreateBooking request received.
func (f *FakeFlightAPI) BookRequests() []upstream.BookRequest {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]upstream.BookRequest(nil), f.bookRequests...)
}

// SoldSeats returns the seats of every SellSeats call.
func (f *FakeFlightAPI) SoldSeats() [][]upstream.SeatSell {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([][]upstream.SeatSell(nil), f.soldSeats...)
}

func (f *FakeFlightAPI) Reprice(ctx context.Context, correlationID, offerID string) (*upstream.RepriceResponse, error) {
	f.record(MethodReprice)
	if f.RepriceFunc != nil {
		return f.RepriceFunc(ctx, correlationID, offerID)
	}
	return &upstream.RepriceResponse{Result: &upstream.RepriceResult{}}, nil
}

func (f *FakeFlightAPI) SeatMap(ctx context.Context, correlationID, offerID string) (*upstream.SeatMapResponse, error) {
	f.record(MethodSeatMap)
	if f.SeatMapFunc != nil {
		return f.SeatMapFunc(ctx, correlationID, offerID)
	}
	return &upstream.SeatMapResponse{}, nil
}

func (f *FakeFlightAPI) SellSeats(ctx context.Context, correlationID, offerID string, seats []upstream.SeatSell) (*upstream.SellSeatsResponse, error) {
	f.record(MethodSellSeats)
	f.lock.Lock()
	f.soldSeats = append(f.soldSeats, seats)
	f.lock.Unlock()

	if f.SellSeatsFunc != nil {
		return f.SellSeatsFunc(ctx, correlationID, offerID, seats)
	}
	return &upstream.SellSeatsResponse{Success: true}, nil
}

func (f *FakeFlightAPI) Ancillaries(ctx context.Context, correlationID, offerID string) (*upstream.AncillaryResponse, error) {
	f.record(MethodAncillaries)
	if f.AncillariesFunc != nil {
		return f.AncillariesFunc(ctx, correlationID, offerID)
	}
	return &upstream.AncillaryResponse{}, nil
}

func (f *FakeFlightAPI) CreateBooking(ctx context.Context, req upstream.BookRequest) (*upstream.BookResponse, error) {
	f.record(MethodCreateBooking)
	f.lock.Lock()
	f.bookRequests = append(f.bookRequests, req)
	f.lock.Unlock()

	if f.CreateBookingFunc != nil {
		return f.CreateBookingFunc(ctx, req)
	}
	return &upstream.BookResponse{BookingID: "BK-1", PNR: "ABC123", TicketNumbers: []string{"0001"}}, nil
}
