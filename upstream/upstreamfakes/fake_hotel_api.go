package upstreamfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-travel-booking/upstream"
)

var _ upstream.HotelAPI = (*FakeHotelAPI)(nil)

// FakeHotelAPI is a spy HotelAPI. Unset Func fields return an empty
// successful response.
type FakeHotelAPI struct {
	PreBookFunc func(ctx context.Context, offerID, paymentMode string) (*upstream.PreBookResponse, error)
	BookFunc    func(ctx context.Context, req upstream.HotelBookRequest) (*upstream.HotelBookResponse, error)

	calls        map[string]int
	bookRequests []upstream.HotelBookRequest
	lock         sync.Mutex
}

func NewFakeHotelAPI() *FakeHotelAPI {
	return &FakeHotelAPI{calls: make(map[string]int)}
}

func (f *FakeHotelAPI) record(method string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls[method]++
}

// Calls returns how many times method was called.
func (f *FakeHotelAPI) Calls(method string) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls[method]
}

// BookRequests returns every Book request received.
func (f *FakeHotelAPI) BookRequests() []upstream.HotelBookRequest {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]upstream.HotelBookRequest(nil), f.bookRequests...)
}

func (f *FakeHotelAPI) PreBook(ctx context.Context, offerID, paymentMode string) (*upstream.PreBookResponse, error) {
	f.record(MethodPreBook)
	if f.PreBookFunc != nil {
		return f.PreBookFunc(ctx, offerID, paymentMode)
	}
	return &upstream.PreBookResponse{Hotel: &upstream.PreBookResult{}}, nil
}

func (f *FakeHotelAPI) Book(ctx context.Context, req upstream.HotelBookRequest) (*upstream.HotelBookResponse, error) {
	f.record(MethodBook)
	f.lock.Lock()
	f.bookRequests = append(f.bookRequests, req)
	f.lock.Unlock()

	if f.BookFunc != nil {
		return f.BookFunc(ctx, req)
	}
	return &upstream.HotelBookResponse{ConfirmationNumber: "CONF-1", BookingReferenceID: "HB-1", VoucherID: "V-1"}, nil
}
