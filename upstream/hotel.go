package upstream

import (
	"context"

	"github.com/jrsteele09/go-travel-booking/booking"
)

// HotelAPI is the upstream hotel inventory API. It has its own sessioning
// and does not take the flight correlation id.
type HotelAPI interface {
	PreBook(ctx context.Context, offerID, paymentMode string) (*PreBookResponse, error)
	Book(ctx context.Context, req HotelBookRequest) (*HotelBookResponse, error)
}

type PreBookResponse struct {
	Error *APIError      `json:"error,omitempty"`
	Hotel *PreBookResult `json:"hotel,omitempty"`
}

type PreBookResult struct {
	TotalFare                 float64                      `json:"totalFare"`
	Currency                  string                       `json:"currency"`
	PriceChanged              bool                         `json:"priceChanged"`
	CancellationPolicyChanged bool                         `json:"cancellationPolicyChanged"`
	CancelPolicies            []booking.CancellationPolicy `json:"cancelPolicies,omitempty"`
	Offer                     *booking.HotelOffer          `json:"offer,omitempty"`
}

// HotelBookRequest books a pre-booked hotel offer.
type HotelBookRequest struct {
	BookingCode   string      `json:"bookingCode"`
	ClientRef     string      `json:"clientReferenceId"`
	PaymentMode   string      `json:"paymentMode"`
	NetAmount     float64     `json:"netAmount"`
	Currency      string      `json:"currency"`
	Guests        []WireGuest `json:"guests"`
	PaymentToken  string      `json:"paymentToken,omitempty"`
	GuestNational string      `json:"guestNationality,omitempty"`
}

// WireGuest is a hotel guest in the upstream booking format.
type WireGuest struct {
	Title     string `json:"title"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	PaxType   int    `json:"paxType"`
	Age       int    `json:"age,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	LeadGuest bool   `json:"leadGuest"`
	RoomIndex int    `json:"roomIndex"`
}

type HotelBookResponse struct {
	Error              *APIError `json:"error,omitempty"`
	ConfirmationNumber string    `json:"confirmationNumber"`
	BookingReferenceID string    `json:"bookingReferenceId"`
	VoucherID          string    `json:"voucherId,omitempty"`
}
