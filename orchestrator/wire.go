package orchestrator

import (
	"strings"

	"github.com/jrsteele09/go-travel-booking/booking"
	"github.com/jrsteele09/go-travel-booking/upstream"
)

const wireDateLayout = "2006-01-02"

func paxTypeCode(t booking.PassengerType) int {
	switch t {
	case booking.PassengerChild:
		return upstream.PaxTypeChild
	case booking.PassengerInfant:
		return upstream.PaxTypeInfant
	default:
		return upstream.PaxTypeAdult
	}
}

// genderFromTitle infers the wire gender from a salutation such as "Mr" or
// "Mrs.". Unknown titles are sent as unspecified.
func genderFromTitle(title string) int {
	switch strings.ToLower(strings.TrimSuffix(strings.TrimSpace(title), ".")) {
	case "mr", "mstr":
		return upstream.GenderMale
	case "mrs", "ms", "miss":
		return upstream.GenderFemale
	default:
		return upstream.GenderUnspecified
	}
}

func validatePassengers(passengers []booking.Passenger) error {
	if len(passengers) == 0 {
		return ErrNoPassengers
	}
	for _, p := range passengers {
		if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
			return ErrPassengerName
		}
	}
	return nil
}

func validateGuests(guests []booking.Guest) error {
	if len(guests) == 0 {
		return ErrNoGuests
	}
	for _, g := range guests {
		if strings.TrimSpace(g.FirstName) == "" || strings.TrimSpace(g.LastName) == "" {
			return ErrGuestName
		}
	}
	return nil
}

// wirePassengers converts passengers to the booking payload. The first
// passenger is the lead; seats and ancillaries are attached by passenger
// index.
func wirePassengers(passengers []booking.Passenger, seats []booking.SeatSelection, extras []booking.AncillarySelection) []upstream.WirePassenger {
	out := make([]upstream.WirePassenger, len(passengers))
	for i, p := range passengers {
		w := upstream.WirePassenger{
			Title:       p.Title,
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			PaxType:     paxTypeCode(p.Type),
			Gender:      genderFromTitle(p.Title),
			Email:       p.Email,
			Phone:       p.Phone,
			Nationality: p.Nationality,
			PassportNo:  p.PassportNumber,
			IsLeadPax:   i == 0,
		}
		if !p.DateOfBirth.IsZero() {
			w.DateOfBirth = p.DateOfBirth.Format(wireDateLayout)
		}
		if p.PassportExpiry != nil {
			w.PassportExpiry = p.PassportExpiry.Format(wireDateLayout)
		}
		out[i] = w
	}

	for _, s := range seats {
		if s.PassengerIndex >= 0 && s.PassengerIndex < len(out) {
			out[s.PassengerIndex].SeatCodes = append(out[s.PassengerIndex].SeatCodes, s.SeatID)
		}
	}
	for _, a := range extras {
		if a.PassengerIndex < 0 || a.PassengerIndex >= len(out) {
			continue
		}
		switch a.Kind {
		case booking.AncillaryBaggage:
			out[a.PassengerIndex].BaggageCodes = append(out[a.PassengerIndex].BaggageCodes, a.Code)
		case booking.AncillaryMeal:
			out[a.PassengerIndex].MealCodes = append(out[a.PassengerIndex].MealCodes, a.Code)
		}
	}
	return out
}

func wireGuests(guests []booking.Guest) []upstream.WireGuest {
	out := make([]upstream.WireGuest, len(guests))
	for i, g := range guests {
		out[i] = upstream.WireGuest{
			Title:     g.Title,
			FirstName: g.FirstName,
			LastName:  g.LastName,
			PaxType:   paxTypeCode(g.Type),
			Age:       g.Age,
			Email:     g.Email,
			Phone:     g.Phone,
			LeadGuest: i == 0,
			RoomIndex: g.RoomIndex,
		}
	}
	return out
}
