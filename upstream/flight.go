package upstream

import (
	"context"

	"github.com/jrsteele09/go-travel-booking/booking"
)

// FlightAPI is the upstream flight API. Every call echoes the correlation id
// issued by the search that produced the offer.
type FlightAPI interface {
	Reprice(ctx context.Context, correlationID, offerID string) (*RepriceResponse, error)
	SeatMap(ctx context.Context, correlationID, offerID string) (*SeatMapResponse, error)
	SellSeats(ctx context.Context, correlationID, offerID string, seats []SeatSell) (*SellSeatsResponse, error)
	Ancillaries(ctx context.Context, correlationID, offerID string) (*AncillaryResponse, error)
	CreateBooking(ctx context.Context, req BookRequest) (*BookResponse, error)
}

// Seat map codes used by the flight API.
const (
	// SeatAvailableCode is the AvailabilityType of a seat that can be sold.
	SeatAvailableCode = 1

	SeatPositionWindow = 1
	SeatPositionAisle  = 2
	SeatPositionMiddle = 3

	CompartmentEconomy        = 1
	CompartmentPremiumEconomy = 2
	CompartmentBusiness       = 3
	CompartmentFirst          = 4
)

// Passenger type codes on the wire.
const (
	PaxTypeAdult  = 1
	PaxTypeChild  = 2
	PaxTypeInfant = 3
)

// Gender codes on the wire.
const (
	GenderUnspecified = 0
	GenderMale        = 1
	GenderFemale      = 2
)

type RepriceResponse struct {
	Error  *APIError      `json:"error,omitempty"`
	Result *RepriceResult `json:"result,omitempty"`
}

type RepriceResult struct {
	OfferedFare    float64              `json:"offeredFare"`
	Currency       string               `json:"currency"`
	IsPriceChanged bool                 `json:"isPriceChanged"`
	IsTimeChanged  bool                 `json:"isTimeChanged"`
	Offer          *booking.FlightOffer `json:"offer,omitempty"`
	FareRules      *booking.FareRules   `json:"fareRules,omitempty"`
}

type SeatMapResponse struct {
	Error *APIError    `json:"error,omitempty"`
	Seats []SeatRecord `json:"seats"`
}

// SeatRecord is one seat in the flat seat list returned by the API.
type SeatRecord struct {
	SegmentIndex     int     `json:"segmentIndex"`
	Origin           string  `json:"origin"`
	Destination      string  `json:"destination"`
	RowNo            string  `json:"rowNo"`
	SeatNo           string  `json:"seatNo"`
	Code             string  `json:"code"`
	AvailabilityType int     `json:"availabilityType"`
	Position         int     `json:"position"`
	Compartment      int     `json:"compartment"`
	Price            float64 `json:"price"`
	Currency         string  `json:"currency"`
}

// SeatSell is one seat to sell, keyed by the seat code from the seat map.
type SeatSell struct {
	PassengerIndex int    `json:"passengerIndex"`
	SegmentIndex   int    `json:"segmentIndex"`
	Code           string `json:"code"`
}

type SellSeatsResponse struct {
	Error   *APIError `json:"error,omitempty"`
	Success bool      `json:"success"`
}

type AncillaryResponse struct {
	Error   *APIError       `json:"error,omitempty"`
	Baggage []BaggageOption `json:"baggage"`
	Meals   []MealOption    `json:"meals"`
}

type BaggageOption struct {
	Code         string  `json:"code"`
	Description  string  `json:"description"`
	Weight       float64 `json:"weight"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	SegmentIndex int     `json:"segmentIndex"`
}

type MealOption struct {
	Code               string  `json:"code"`
	Description        string  `json:"description"`
	AirlineDescription string  `json:"airlineDescription,omitempty"`
	Price              float64 `json:"price"`
	Currency           string  `json:"currency"`
	SegmentIndex       int     `json:"segmentIndex"`
}

// BookRequest creates a booking for the given offer.
type BookRequest struct {
	CorrelationID string          `json:"correlationId"`
	OfferID       string          `json:"offerId"`
	Passengers    []WirePassenger `json:"passengers"`
}

// WirePassenger is a passenger in the upstream booking format.
type WirePassenger struct {
	Title          string   `json:"title"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	PaxType        int      `json:"paxType"`
	Gender         int      `json:"gender"`
	DateOfBirth    string   `json:"dateOfBirth"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Nationality    string   `json:"nationality,omitempty"`
	PassportNo     string   `json:"passportNo,omitempty"`
	PassportExpiry string   `json:"passportExpiry,omitempty"`
	IsLeadPax      bool     `json:"isLeadPax"`
	SeatCodes      []string `json:"seatCodes,omitempty"`
	BaggageCodes   []string `json:"baggageCodes,omitempty"`
	MealCodes      []string `json:"mealCodes,omitempty"`
}

type BookResponse struct {
	Error         *APIError `json:"error,omitempty"`
	BookingID     string    `json:"bookingId"`
	PNR           string    `json:"pnr"`
	TicketNumbers []string  `json:"ticketNumbers,omitempty"`
}
