package booking

// FlightStatus is a stage of the flight booking workflow, in order.
type FlightStatus string

const (
	FlightRepricing FlightStatus = "repricing"
	FlightSeats     FlightStatus = "seats"
	FlightAncillary FlightStatus = "ancillary"
	FlightPassenger FlightStatus = "passenger"
	FlightPayment   FlightStatus = "payment"
	FlightConfirmed FlightStatus = "confirmed"
)

// HotelStatus is a stage of the hotel booking workflow, in order.
type HotelStatus string

const (
	HotelDetails      HotelStatus = "details"
	HotelGuestDetails HotelStatus = "guest_details"
	HotelPayment      HotelStatus = "payment"
	HotelConfirmed    HotelStatus = "confirmed"
)

// TripStatus is the outer stage of a combined flight + hotel booking.
type TripStatus string

const (
	TripFlightRepricing  TripStatus = "flight_repricing"
	TripHotelPreBook     TripStatus = "hotel_prebook"
	TripPassengerDetails TripStatus = "passenger_details"
	TripPayment          TripStatus = "payment"
	TripConfirmed        TripStatus = "confirmed"
)

// FareRules is a snapshot of the fare conditions returned while repricing.
type FareRules struct {
	Refundable       bool    `json:"refundable"`
	CancellationFee  float64 `json:"cancellationFee,omitempty"`
	ChangeFee        float64 `json:"changeFee,omitempty"`
	BaggageAllowance string  `json:"baggageAllowance,omitempty"`
}

// FlightState is the progressive payload of a flight booking session.
type FlightState struct {
	Status        FlightStatus         `json:"status"`
	Offer         FlightOffer          `json:"offer"`
	RepricedOffer *FlightOffer         `json:"repricedOffer,omitempty"`
	Seats         []SeatSelection      `json:"seats,omitempty"`
	SeatCost      float64              `json:"seatCost,omitempty"`
	Ancillaries   []AncillarySelection `json:"ancillaries,omitempty"`
	AncillaryCost float64              `json:"ancillaryCost,omitempty"`
	FareRules     *FareRules           `json:"fareRules,omitempty"`
}

// BookableOffer is the repriced offer when present, else the original.
func (s FlightState) BookableOffer() FlightOffer {
	if s.RepricedOffer != nil {
		return *s.RepricedOffer
	}
	return s.Offer
}

// HotelState is the progressive payload of a hotel booking session.
type HotelState struct {
	Status             HotelStatus          `json:"status"`
	Offer              HotelOffer           `json:"offer"`
	PreBookedOffer     *HotelOffer          `json:"preBookedOffer,omitempty"`
	Guests             []Guest              `json:"guests,omitempty"`
	CancellationPolicy []CancellationPolicy `json:"cancellationPolicy,omitempty"`
}

// BookableOffer is the pre-booked offer when present, else the original.
func (s HotelState) BookableOffer() HotelOffer {
	if s.PreBookedOffer != nil {
		return *s.PreBookedOffer
	}
	return s.Offer
}

// TripState tracks a combined booking. The sub-sessions live in their own
// orchestrators; this only records which legs exist and the outer status.
type TripState struct {
	Status          TripStatus `json:"status"`
	HasFlight       bool       `json:"hasFlight"`
	HasHotel        bool       `json:"hasHotel"`
	FlightSessionID string     `json:"flightSessionId,omitempty"`
	HotelSessionID  string     `json:"hotelSessionId,omitempty"`

	// FlightQuote is the flight price quoted when the trip started.
	FlightQuote float64 `json:"flightQuote,omitempty"`

	// FlightBooked holds the flight confirmation once that leg is booked,
	// so a retry after a hotel failure only books the hotel.
	FlightBooked *FlightConfirmation `json:"flightBooked,omitempty"`
}
