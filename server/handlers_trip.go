package server

import (
	"net/http"

	"github.com/jrsteele09/go-travel-booking/booking"
	apperrors "github.com/jrsteele09/go-travel-booking/internal/errors"
)

type startTripRequest struct {
	Flight        *booking.FlightOffer `json:"flight,omitempty"`
	Hotel         *booking.HotelOffer  `json:"hotel,omitempty"`
	CorrelationID string               `json:"correlationId,omitempty"`
}

type completeTripRequest struct {
	Passengers []booking.Passenger `json:"passengers,omitempty"`
	Guests     []booking.Guest     `json:"guests,omitempty"`
	Payment    booking.Payment     `json:"payment"`
}

type tripTotalResponse struct {
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

func (s *Server) StartTripHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startTripRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		if req.Flight != nil {
			if req.Flight.Currency == "" {
				req.Flight.Currency = s.config.GetDefaultCurrency()
			}
			if s.catalog != nil {
				s.catalog.RememberFlightOffer(*req.Flight)
			}
		}
		if req.Hotel != nil {
			if req.Hotel.Currency == "" {
				req.Hotel.Currency = s.config.GetDefaultCurrency()
			}
			if s.catalog != nil {
				s.catalog.RememberHotelOffer(*req.Hotel)
			}
		}

		trip, err := workspaceFrom(r).Trips.Start(r.Context(), req.Flight, req.Hotel, correlationID(r, req.CorrelationID))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, trip)
	}
}

func (s *Server) CurrentTripHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trip, ok := workspaceFrom(r).Trips.Current(r.Context())
		if !ok {
			s.writeError(w, r, apperrors.ErrNoActiveSession)
			return
		}
		writeJSON(w, http.StatusOK, trip)
	}
}

func (s *Server) CancelTripHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceFrom(r).Trips.Cancel(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) RepriceTripFlightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := workspaceFrom(r).Trips.RepriceFlight(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) PreBookTripHotelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := workspaceFrom(r).Trips.PreBookHotel(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// TripTotalHandler returns the summed quoted price; 0 without a trip.
func (s *Server) TripTotalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tripTotalResponse{
			Total:    workspaceFrom(r).Trips.CalculateTotalCost(r.Context()),
			Currency: s.config.GetDefaultCurrency(),
		})
	}
}

func (s *Server) CompleteTripHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req completeTripRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		confirmation, err := workspaceFrom(r).Trips.Complete(r.Context(), req.Passengers, req.Guests, req.Payment)
		if err != nil {
			// A booked flight is reported even when the hotel leg failed.
			if confirmation.Flight != nil {
				s.writeErrorWithPartial(w, r, err, confirmation)
				return
			}
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, confirmation)
	}
}
