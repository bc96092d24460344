package booking

import "time"

// PassengerType is the age category of a flight passenger.
type PassengerType string

const (
	PassengerAdult  PassengerType = "adult"
	PassengerChild  PassengerType = "child"
	PassengerInfant PassengerType = "infant"
)

// Passenger holds the traveller details collected for a flight booking.
type Passenger struct {
	Title          string        `json:"title"`
	FirstName      string        `json:"firstName"`
	LastName       string        `json:"lastName"`
	Type           PassengerType `json:"type"`
	DateOfBirth    time.Time     `json:"dateOfBirth"`
	Email          string        `json:"email,omitempty"`
	Phone          string        `json:"phone,omitempty"`
	Nationality    string        `json:"nationality,omitempty"`
	PassportNumber string        `json:"passportNumber,omitempty"`
	PassportExpiry *time.Time    `json:"passportExpiry,omitempty"`
}

// Guest holds the traveller details collected for a hotel booking.
type Guest struct {
	Title     string        `json:"title"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Type      PassengerType `json:"type"`
	Age       int           `json:"age,omitempty"`
	Email     string        `json:"email,omitempty"`
	Phone     string        `json:"phone,omitempty"`
	RoomIndex int           `json:"roomIndex"`
}

// PaymentMethod is how the traveller pays.
type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "card"
	PaymentLimit        PaymentMethod = "limit"
	PaymentPayAtHotel   PaymentMethod = "pay_at_hotel"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// Payment carries the payment choice made at the payment step. Gateway
// integration happens outside this module; only a token is carried.
type Payment struct {
	Method   PaymentMethod `json:"method"`
	Amount   float64       `json:"amount"`
	Currency string        `json:"currency"`
	Token    string        `json:"token,omitempty"`
}
