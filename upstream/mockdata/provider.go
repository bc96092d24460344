// Package mockdata provides deterministic stand-in responses for the
// upstream flight and hotel APIs. The same inputs always produce the same
// output so a fallback session behaves consistently across calls.
package mockdata

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-travel-booking/booking"
	"github.com/jrsteele09/go-travel-booking/upstream"
)

var (
	_ upstream.FlightAPI = (*Provider)(nil)
	_ upstream.HotelAPI  = (*Provider)(nil)
)

var namespace = uuid.MustParse("6f1b4d52-8c43-4f0e-9a57-2d8e7c1b9a30")

// DefaultCatalogLimit caps how many offers of each kind a Provider remembers.
const DefaultCatalogLimit = 1024

// Provider answers upstream calls with generated data. Offers it has been
// told about keep their quoted price; unknown offers get a stable price
// derived from the offer id. Only the most recent offers are remembered,
// older ones fall back to the derived price.
type Provider struct {
	currency string
	flights  *catalog[booking.FlightOffer]
	hotels   *catalog[booking.HotelOffer]
	lock     sync.RWMutex
}

type Option func(*Provider)

// WithCatalogLimit sets how many offers of each kind are remembered.
func WithCatalogLimit(limit int) Option {
	return func(p *Provider) {
		if limit > 0 {
			p.flights.limit = limit
			p.hotels.limit = limit
		}
	}
}

// New creates a provider quoting in currency.
func New(currency string, options ...Option) *Provider {
	if currency == "" {
		currency = "USD"
	}
	p := &Provider{
		currency: currency,
		flights:  newCatalog[booking.FlightOffer](DefaultCatalogLimit),
		hotels:   newCatalog[booking.HotelOffer](DefaultCatalogLimit),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// catalog is a map that forgets its oldest key once it holds limit entries.
type catalog[T any] struct {
	offers map[string]T
	order  []string
	limit  int
}

func newCatalog[T any](limit int) *catalog[T] {
	return &catalog[T]{offers: make(map[string]T), limit: limit}
}

func (c *catalog[T]) put(id string, offer T) {
	if _, ok := c.offers[id]; !ok {
		for len(c.order) >= c.limit {
			delete(c.offers, c.order[0])
			c.order = c.order[1:]
		}
		c.order = append(c.order, id)
	}
	c.offers[id] = offer
}

func (c *catalog[T]) get(id string) (T, bool) {
	offer, ok := c.offers[id]
	return offer, ok
}

// RememberFlightOffer records an offer so mock repricing echoes its price.
func (p *Provider) RememberFlightOffer(offer booking.FlightOffer) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.flights.put(offer.OfferID, offer)
}

// RememberHotelOffer records an offer so mock pre-booking echoes its price.
func (p *Provider) RememberHotelOffer(offer booking.HotelOffer) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.hotels.put(offer.OfferID, offer)
}

// Remembered returns how many flight and hotel offers are held.
func (p *Provider) Remembered() (flights, hotels int) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return len(p.flights.offers), len(p.hotels.offers)
}

func (p *Provider) flightOffer(offerID string) booking.FlightOffer {
	p.lock.RLock()
	offer, ok := p.flights.get(offerID)
	p.lock.RUnlock()
	if ok {
		return offer
	}
	return booking.FlightOffer{
		OfferID:    offerID,
		Price:      float64(100 + hash(offerID)%900),
		Currency:   p.currency,
		Refundable: hash(offerID, "refundable")%2 == 0,
	}
}

func (p *Provider) hotelOffer(offerID string) booking.HotelOffer {
	p.lock.RLock()
	offer, ok := p.hotels.get(offerID)
	p.lock.RUnlock()
	if ok {
		return offer
	}
	return booking.HotelOffer{
		OfferID:  offerID,
		Price:    float64(80 + hash(offerID)%400),
		Currency: p.currency,
	}
}

func (p *Provider) Reprice(_ context.Context, _, offerID string) (*upstream.RepriceResponse, error) {
	offer := p.flightOffer(offerID)
	return &upstream.RepriceResponse{
		Result: &upstream.RepriceResult{
			OfferedFare: offer.Price,
			Currency:    currencyOr(offer.Currency, p.currency),
			Offer:       &offer,
			FareRules: &booking.FareRules{
				Refundable:       offer.Refundable,
				ChangeFee:        50,
				BaggageAllowance: "23kg",
			},
		},
	}, nil
}

var seatLetters = []string{"A", "B", "C", "D", "E", "F"}

func seatPosition(letter string) int {
	switch letter {
	case "A", "F":
		return upstream.SeatPositionWindow
	case "C", "D":
		return upstream.SeatPositionAisle
	default:
		return upstream.SeatPositionMiddle
	}
}

func (p *Provider) SeatMap(_ context.Context, _, offerID string) (*upstream.SeatMapResponse, error) {
	offer := p.flightOffer(offerID)
	segments := len(offer.Segments)
	if segments == 0 {
		segments = 1
	}

	var seats []upstream.SeatRecord
	for seg := 0; seg < segments; seg++ {
		origin, destination := "", ""
		if seg < len(offer.Segments) {
			origin, destination = offer.Segments[seg].Origin, offer.Segments[seg].Destination
		}
		for row := 1; row <= 10; row++ {
			compartment := upstream.CompartmentEconomy
			if row <= 2 {
				compartment = upstream.CompartmentBusiness
			}
			for _, letter := range seatLetters {
				code := fmt.Sprintf("%d%s", row, letter)
				availability := upstream.SeatAvailableCode
				if hash(offerID, fmt.Sprint(seg), code)%4 == 0 {
					availability = 3
				}
				position := seatPosition(letter)
				seats = append(seats, upstream.SeatRecord{
					SegmentIndex:     seg,
					Origin:           origin,
					Destination:      destination,
					RowNo:            fmt.Sprint(row),
					SeatNo:           letter,
					Code:             code,
					AvailabilityType: availability,
					Position:         position,
					Compartment:      compartment,
					Price:            seatPrice(compartment, position),
					Currency:         p.currency,
				})
			}
		}
	}
	return &upstream.SeatMapResponse{Seats: seats}, nil
}

func seatPrice(compartment, position int) float64 {
	if compartment != upstream.CompartmentEconomy {
		return 0
	}
	switch position {
	case upstream.SeatPositionWindow:
		return 15
	case upstream.SeatPositionAisle:
		return 12
	}
	return 0
}

func (p *Provider) SellSeats(_ context.Context, _, _ string, _ []upstream.SeatSell) (*upstream.SellSeatsResponse, error) {
	return &upstream.SellSeatsResponse{Success: true}, nil
}

func (p *Provider) Ancillaries(_ context.Context, _, _ string) (*upstream.AncillaryResponse, error) {
	return &upstream.AncillaryResponse{
		Baggage: []upstream.BaggageOption{
			{Code: "XBAG15", Description: "15 kg checked bag", Weight: 15, Price: 25, Currency: p.currency},
			{Code: "XBAG23", Description: "23 kg checked bag", Weight: 23, Price: 40, Currency: p.currency},
			{Code: "XBAG50LB", Description: "50 lbs checked bag", Weight: 50, Price: 45, Currency: p.currency},
		},
		Meals: []upstream.MealOption{
			{Code: "VGML", Description: "Vegetarian meal - Hindu style", AirlineDescription: "Vegetarian", Price: 12, Currency: p.currency},
			{Code: "MOML", Description: "Muslim meal - halal chicken", AirlineDescription: "Halal", Price: 12, Currency: p.currency},
			{Code: "KSML", Description: "Kosher meal - sealed", AirlineDescription: "Kosher", Price: 15, Currency: p.currency},
			{Code: "GFML", Description: "Gluten free meal - grilled fish", AirlineDescription: "Gluten-free", Price: 14, Currency: p.currency},
			{Code: "NVML", Description: "Chicken curry - rice", AirlineDescription: "Non-vegetarian", Price: 10, Currency: p.currency},
		},
	}, nil
}

func (p *Provider) CreateBooking(_ context.Context, req upstream.BookRequest) (*upstream.BookResponse, error) {
	key := req.CorrelationID + "/" + req.OfferID
	tickets := make([]string, 0, len(req.Passengers))
	for i := range req.Passengers {
		tickets = append(tickets, fmt.Sprintf("%013d", hash(key, fmt.Sprint(i))%10_000_000_000_000))
	}
	return &upstream.BookResponse{
		BookingID:     "MOCK-" + uuid.NewSHA1(namespace, []byte(key)).String(),
		PNR:           locator(key),
		TicketNumbers: tickets,
	}, nil
}

func (p *Provider) PreBook(_ context.Context, offerID, _ string) (*upstream.PreBookResponse, error) {
	offer := p.hotelOffer(offerID)
	policies := offer.CancellationPolicy
	if len(policies) == 0 {
		policies = []booking.CancellationPolicy{{FromDate: offer.CheckIn, ChargeType: "percentage", Charge: 100}}
	}
	return &upstream.PreBookResponse{
		Hotel: &upstream.PreBookResult{
			TotalFare:      offer.Price,
			Currency:       currencyOr(offer.Currency, p.currency),
			CancelPolicies: policies,
			Offer:          &offer,
		},
	}, nil
}

func (p *Provider) Book(_ context.Context, req upstream.HotelBookRequest) (*upstream.HotelBookResponse, error) {
	key := req.ClientRef + "/" + req.BookingCode
	return &upstream.HotelBookResponse{
		ConfirmationNumber: locator(key),
		BookingReferenceID: "MOCK-" + uuid.NewSHA1(namespace, []byte(key)).String(),
		VoucherID:          fmt.Sprintf("V%08d", hash(key, "voucher")%100_000_000),
	}, nil
}

// locator builds a six character record locator.
func locator(key string) string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	h := hash(key, "locator")
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteByte(alphabet[h%uint64(len(alphabet))])
		h /= uint64(len(alphabet))
	}
	return b.String()
}

func hash(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

func currencyOr(currency, fallback string) string {
	if currency == "" {
		return fallback
	}
	return currency
}
