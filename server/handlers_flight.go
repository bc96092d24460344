package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-travel-booking/booking"
	apperrors "github.com/jrsteele09/go-travel-booking/internal/errors"
)

const correlationHeader = "X-Correlation-ID"

type startFlightRequest struct {
	Offer         booking.FlightOffer `json:"offer"`
	CorrelationID string              `json:"correlationId,omitempty"`
}

type selectSeatsRequest struct {
	Seats []booking.SeatSelection `json:"seats"`
}

type addAncillariesRequest struct {
	Ancillaries []booking.AncillarySelection `json:"ancillaries"`
}

type completeFlightRequest struct {
	Passengers []booking.Passenger `json:"passengers"`
	Payment    booking.Payment     `json:"payment"`
}

// correlationID picks the trace id of a new session: the body, then the
// request header, then a fresh one.
func correlationID(r *http.Request, fromBody string) string {
	if id := strings.TrimSpace(fromBody); id != "" {
		return id
	}
	if id := strings.TrimSpace(r.Header.Get(correlationHeader)); id != "" {
		return id
	}
	return uuid.New().String()
}

func (s *Server) StartFlightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startFlightRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		if req.Offer.OfferID == "" {
			s.writeError(w, r, apperrors.NewValidation("offer id is required"))
			return
		}
		if req.Offer.Currency == "" {
			req.Offer.Currency = s.config.GetDefaultCurrency()
		}
		if s.catalog != nil {
			s.catalog.RememberFlightOffer(req.Offer)
		}

		session := workspaceFrom(r).Flights.Start(r.Context(), req.Offer, correlationID(r, req.CorrelationID))
		writeJSON(w, http.StatusCreated, session)
	}
}

func (s *Server) CurrentFlightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := workspaceFrom(r).Flights.Current(r.Context())
		if !ok {
			s.writeError(w, r, apperrors.ErrNoActiveSession)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

func (s *Server) CancelFlightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceFrom(r).Flights.Cancel(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) RepriceFlightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := workspaceFrom(r).Flights.Reprice(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) SeatMapHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seatMap, err := workspaceFrom(r).Flights.SeatMap(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, seatMap)
	}
}

func (s *Server) SelectSeatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req selectSeatsRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		reservation, err := workspaceFrom(r).Flights.SelectSeats(r.Context(), req.Seats)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, reservation)
	}
}

func (s *Server) AncillariesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		options, err := workspaceFrom(r).Flights.Ancillaries(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, options)
	}
}

func (s *Server) AddAncillariesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addAncillariesRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		addition, err := workspaceFrom(r).Flights.AddAncillaries(r.Context(), req.Ancillaries)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, addition)
	}
}

func (s *Server) CompleteFlightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req completeFlightRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		confirmation, err := workspaceFrom(r).Flights.Complete(r.Context(), req.Passengers, req.Payment)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, confirmation)
	}
}
