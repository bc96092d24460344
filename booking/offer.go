package booking

import "time"

// FlightSegment is one leg of a flight offer.
type FlightSegment struct {
	Airline       string    `json:"airline"`
	FlightNumber  string    `json:"flightNumber"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
	CabinClass    string    `json:"cabinClass,omitempty"`
}

// FlightOffer is a priced flight result returned by a search. OfferID is the
// upstream result index that must be echoed on every follow-up call.
type FlightOffer struct {
	OfferID    string          `json:"offerId"`
	Price      float64         `json:"price"`
	Currency   string          `json:"currency"`
	Segments   []FlightSegment `json:"segments"`
	Refundable bool            `json:"refundable"`
	IsLCC      bool            `json:"isLcc,omitempty"`
}

// HotelRoom describes a room included in a hotel offer.
type HotelRoom struct {
	Name       string  `json:"name"`
	MealPlan   string  `json:"mealPlan,omitempty"`
	Adults     int     `json:"adults"`
	Children   int     `json:"children,omitempty"`
	TotalFare  float64 `json:"totalFare"`
	Refundable bool    `json:"refundable"`
}

// CancellationPolicy is one charge window of a hotel cancellation policy.
type CancellationPolicy struct {
	FromDate   string  `json:"fromDate"`
	ChargeType string  `json:"chargeType"`
	Charge     float64 `json:"charge"`
}

// HotelOffer is a priced hotel result. OfferID is the upstream booking code.
type HotelOffer struct {
	OfferID            string               `json:"offerId"`
	HotelCode          string               `json:"hotelCode"`
	HotelName          string               `json:"hotelName"`
	CheckIn            string               `json:"checkIn"`
	CheckOut           string               `json:"checkOut"`
	Price              float64              `json:"price"`
	Currency           string               `json:"currency"`
	Rooms              []HotelRoom          `json:"rooms,omitempty"`
	CancellationPolicy []CancellationPolicy `json:"cancellationPolicy,omitempty"`
}
