package booking

import "time"

// FlightConfirmation is the immutable record of a completed flight booking.
type FlightConfirmation struct {
	BookingReference string               `json:"bookingReference"`
	PNR              string               `json:"pnr"`
	TicketNumbers    []string             `json:"ticketNumbers,omitempty"`
	SessionID        string               `json:"sessionId"`
	CorrelationID    string               `json:"correlationId"`
	Offer            FlightOffer          `json:"offer"`
	TotalPrice       float64              `json:"totalPrice"`
	Currency         string               `json:"currency"`
	BookedAt         time.Time            `json:"bookedAt"`
	Passengers       []Passenger          `json:"passengers"`
	Seats            []SeatSelection      `json:"seats,omitempty"`
	Ancillaries      []AncillarySelection `json:"ancillaries,omitempty"`
}

// HotelConfirmation is the immutable record of a completed hotel booking.
type HotelConfirmation struct {
	BookingReference   string     `json:"bookingReference"`
	ConfirmationNumber string     `json:"confirmationNumber"`
	VoucherID          string     `json:"voucherId,omitempty"`
	SessionID          string     `json:"sessionId"`
	CorrelationID      string     `json:"correlationId"`
	Offer              HotelOffer `json:"offer"`
	TotalPrice         float64    `json:"totalPrice"`
	Currency           string     `json:"currency"`
	BookedAt           time.Time  `json:"bookedAt"`
	Guests             []Guest    `json:"guests"`
}

// TripConfirmation groups the legs of a combined booking. A leg that was
// not part of the trip is nil.
type TripConfirmation struct {
	Flight     *FlightConfirmation `json:"flight,omitempty"`
	Hotel      *HotelConfirmation  `json:"hotel,omitempty"`
	TotalPrice float64             `json:"totalPrice"`
}
