// Package fallback wraps upstream clients so read calls failing with a
// server-side error are answered from mock data instead. Calls that commit
// anything upstream (selling seats, creating bookings) always go to the real
// API.
package fallback

import (
	"context"
	"errors"

	"github.com/jrsteele09/go-travel-booking/recovery"
	"github.com/jrsteele09/go-travel-booking/upstream"
	"github.com/rs/zerolog"
)

var (
	_ upstream.FlightAPI = (*FlightAPI)(nil)
	_ upstream.HotelAPI  = (*HotelAPI)(nil)
)

type Option func(*settings)

type settings struct {
	logger     zerolog.Logger
	classifier *recovery.Classifier
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithClassifier replaces the classifier deciding when to fall back.
func WithClassifier(c *recovery.Classifier) Option {
	return func(s *settings) {
		s.classifier = c
	}
}

func newSettings(options []Option) settings {
	s := settings{logger: zerolog.Nop(), classifier: recovery.NewClassifier()}
	for _, opt := range options {
		opt(&s)
	}
	return s
}

// call runs primary and swaps in mock when the failure, thrown or carried
// in the response, classifies as a fallback.
func call[R any](s settings, op string, primary func() (R, error), structured func(R) *upstream.APIError, mock func() (R, error)) (R, error) {
	resp, err := primary()

	cause := err
	if cause == nil {
		if apiErr := structured(resp); apiErr != nil {
			cause = apiErr
		}
	}
	if cause == nil || !s.classifier.Classify(cause).RecoveryAction.UseMockData {
		return resp, err
	}

	s.logger.Warn().Err(cause).Str("op", op).Msg("upstream unavailable, serving mock data")
	return mock()
}

// FlightAPI is a FlightAPI with mock fallback on reads.
type FlightAPI struct {
	primary  upstream.FlightAPI
	mock     upstream.FlightAPI
	settings settings
}

func NewFlightAPI(primary, mock upstream.FlightAPI, options ...Option) (*FlightAPI, error) {
	if primary == nil {
		return nil, errors.New("[fallback.NewFlightAPI] primary is required")
	}
	if mock == nil {
		return nil, errors.New("[fallback.NewFlightAPI] mock is required")
	}
	return &FlightAPI{primary: primary, mock: mock, settings: newSettings(options)}, nil
}

func (f *FlightAPI) Reprice(ctx context.Context, correlationID, offerID string) (*upstream.RepriceResponse, error) {
	return call(f.settings, "reprice",
		func() (*upstream.RepriceResponse, error) { return f.primary.Reprice(ctx, correlationID, offerID) },
		func(r *upstream.RepriceResponse) *upstream.APIError {
			if r == nil {
				return nil
			}
			return r.Error
		},
		func() (*upstream.RepriceResponse, error) { return f.mock.Reprice(ctx, correlationID, offerID) },
	)
}

func (f *FlightAPI) SeatMap(ctx context.Context, correlationID, offerID string) (*upstream.SeatMapResponse, error) {
	return call(f.settings, "seatmap",
		func() (*upstream.SeatMapResponse, error) { return f.primary.SeatMap(ctx, correlationID, offerID) },
		func(r *upstream.SeatMapResponse) *upstream.APIError {
			if r == nil {
				return nil
			}
			return r.Error
		},
		func() (*upstream.SeatMapResponse, error) { return f.mock.SeatMap(ctx, correlationID, offerID) },
	)
}

func (f *FlightAPI) Ancillaries(ctx context.Context, correlationID, offerID string) (*upstream.AncillaryResponse, error) {
	return call(f.settings, "ancillaries",
		func() (*upstream.AncillaryResponse, error) { return f.primary.Ancillaries(ctx, correlationID, offerID) },
		func(r *upstream.AncillaryResponse) *upstream.APIError {
			if r == nil {
				return nil
			}
			return r.Error
		},
		func() (*upstream.AncillaryResponse, error) { return f.mock.Ancillaries(ctx, correlationID, offerID) },
	)
}

func (f *FlightAPI) SellSeats(ctx context.Context, correlationID, offerID string, seats []upstream.SeatSell) (*upstream.SellSeatsResponse, error) {
	return f.primary.SellSeats(ctx, correlationID, offerID, seats)
}

func (f *FlightAPI) CreateBooking(ctx context.Context, req upstream.BookRequest) (*upstream.BookResponse, error) {
	return f.primary.CreateBooking(ctx, req)
}

// HotelAPI is a HotelAPI with mock fallback on pre-booking.
type HotelAPI struct {
	primary  upstream.HotelAPI
	mock     upstream.HotelAPI
	settings settings
}

func NewHotelAPI(primary, mock upstream.HotelAPI, options ...Option) (*HotelAPI, error) {
	if primary == nil {
		return nil, errors.New("[fallback.NewHotelAPI] primary is required")
	}
	if mock == nil {
		return nil, errors.New("[fallback.NewHotelAPI] mock is required")
	}
	return &HotelAPI{primary: primary, mock: mock, settings: newSettings(options)}, nil
}

func (h *HotelAPI) PreBook(ctx context.Context, offerID, paymentMode string) (*upstream.PreBookResponse, error) {
	return call(h.settings, "prebook",
		func() (*upstream.PreBookResponse, error) { return h.primary.PreBook(ctx, offerID, paymentMode) },
		func(r *upstream.PreBookResponse) *upstream.APIError {
			if r == nil {
				return nil
			}
			return r.Error
		},
		func() (*upstream.PreBookResponse, error) { return h.mock.PreBook(ctx, offerID, paymentMode) },
	)
}

func (h *HotelAPI) Book(ctx context.Context, req upstream.HotelBookRequest) (*upstream.HotelBookResponse, error) {
	return h.primary.Book(ctx, req)
}
