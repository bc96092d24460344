// Package seats fetches seat maps and reserves seats on a flight offer.
package seats

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jrsteele09/go-travel-booking/booking"
	apperrors "github.com/jrsteele09/go-travel-booking/internal/errors"
	"github.com/jrsteele09/go-travel-booking/upstream"
	"github.com/rs/zerolog"
)

// Validation failures, checked in this order before any upstream call.
var (
	ErrNoSeatsSelected       = apperrors.NewValidation("at least one seat must be selected")
	ErrDuplicateSeat         = apperrors.NewValidation("a seat is selected more than once")
	ErrInvalidPassengerIndex = apperrors.NewValidation("passenger index must not be negative")
	ErrInvalidSegmentIndex   = apperrors.NewValidation("segment index must not be negative")
	ErrMissingSeatID         = apperrors.NewValidation("seat id is required")
)

// Reservation is the outcome of a successful seat sell.
type Reservation struct {
	Success       bool                    `json:"success"`
	ReservedSeats []booking.SeatSelection `json:"reservedSeats"`
	TotalCost     float64                 `json:"totalCost"`
	PriceChanged  bool                    `json:"priceChanged"`
}

type Option func(*Coordinator)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// Coordinator is the seat selection coordinator. It remembers the prices of
// the last seat map it fetched so a reservation on the same offer can be
// costed.
type Coordinator struct {
	api    upstream.FlightAPI
	logger zerolog.Logger

	lock       sync.Mutex
	pricedKey  string
	seatPrices map[seatKey]float64
}

func NewCoordinator(api upstream.FlightAPI, options ...Option) (*Coordinator, error) {
	if api == nil {
		return nil, errors.New("[seats.NewCoordinator] flight API is required")
	}
	c := &Coordinator{api: api, logger: zerolog.Nop()}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

func offerKey(correlationID, offerID string) string {
	return correlationID + "|" + offerID
}

// SeatMap fetches and groups the seat map of offerID.
func (c *Coordinator) SeatMap(ctx context.Context, correlationID, offerID string) (SeatMap, error) {
	resp, err := c.api.SeatMap(ctx, correlationID, offerID)
	if err != nil {
		return SeatMap{}, err
	}
	if resp == nil {
		return buildSeatMap(correlationID, offerID, nil), nil
	}
	if resp.Error != nil {
		return SeatMap{}, resp.Error
	}

	c.lock.Lock()
	c.pricedKey = offerKey(correlationID, offerID)
	c.seatPrices = priceIndex(resp.Seats)
	c.lock.Unlock()

	return buildSeatMap(correlationID, offerID, resp.Seats), nil
}

// Validate checks selections without calling upstream.
func Validate(selections []booking.SeatSelection) error {
	if len(selections) == 0 {
		return ErrNoSeatsSelected
	}

	seen := make(map[seatKey]struct{}, len(selections))
	for _, s := range selections {
		key := seatKey{segment: s.SegmentIndex, id: s.SeatID}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: seat %s on segment %d", ErrDuplicateSeat, s.SeatID, s.SegmentIndex)
		}
		seen[key] = struct{}{}
	}
	for _, s := range selections {
		if s.PassengerIndex < 0 {
			return ErrInvalidPassengerIndex
		}
	}
	for _, s := range selections {
		if s.SegmentIndex < 0 {
			return ErrInvalidSegmentIndex
		}
	}
	for _, s := range selections {
		if s.SeatID == "" {
			return ErrMissingSeatID
		}
	}
	return nil
}

// Reserve validates selections and sells them upstream. TotalCost sums the
// seat prices from the last seat map fetched for the same offer and is 0
// when none was fetched.
func (c *Coordinator) Reserve(ctx context.Context, correlationID, offerID string, selections []booking.SeatSelection) (Reservation, error) {
	if err := Validate(selections); err != nil {
		return Reservation{}, err
	}

	sells := make([]upstream.SeatSell, 0, len(selections))
	for _, s := range selections {
		sells = append(sells, upstream.SeatSell{PassengerIndex: s.PassengerIndex, SegmentIndex: s.SegmentIndex, Code: s.SeatID})
	}

	resp, err := c.api.SellSeats(ctx, correlationID, offerID, sells)
	if err != nil {
		return Reservation{}, err
	}
	if resp != nil && resp.Error != nil {
		return Reservation{}, resp.Error
	}
	if resp == nil || !resp.Success {
		return Reservation{}, &upstream.APIError{Code: "SEAT_UNAVAILABLE", Message: "seat sale was not confirmed"}
	}

	total := c.cost(correlationID, offerID, selections)
	c.logger.Info().
		Str("correlation_id", correlationID).
		Str("offer_id", offerID).
		Int("seats", len(selections)).
		Float64("total_cost", total).
		Msg("seats reserved")

	return Reservation{
		Success:       true,
		ReservedSeats: append([]booking.SeatSelection(nil), selections...),
		TotalCost:     total,
	}, nil
}

func (c *Coordinator) cost(correlationID, offerID string, selections []booking.SeatSelection) float64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.pricedKey != offerKey(correlationID, offerID) {
		return 0
	}
	total := 0.0
	for _, s := range selections {
		total += c.seatPrices[seatKey{segment: s.SegmentIndex, id: s.SeatID}]
	}
	return total
}
