package server

import (
	"net/http"

	"github.com/jrsteele09/go-travel-booking/booking"
	apperrors "github.com/jrsteele09/go-travel-booking/internal/errors"
)

type startHotelRequest struct {
	Offer         booking.HotelOffer `json:"offer"`
	CorrelationID string             `json:"correlationId,omitempty"`
}

type hotelGuestsRequest struct {
	Guests []booking.Guest `json:"guests"`
}

type completeHotelRequest struct {
	Guests  []booking.Guest `json:"guests,omitempty"`
	Payment booking.Payment `json:"payment"`
}

func (s *Server) StartHotelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startHotelRequest
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
			s.catalog.RememberHotelOffer(req.Offer)
		}

		session := workspaceFrom(r).Hotels.Start(r.Context(), req.Offer, correlationID(r, req.CorrelationID))
		writeJSON(w, http.StatusCreated, session)
	}
}

func (s *Server) CurrentHotelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := workspaceFrom(r).Hotels.Current(r.Context())
		if !ok {
			s.writeError(w, r, apperrors.ErrNoActiveSession)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

func (s *Server) CancelHotelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceFrom(r).Hotels.Cancel(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) PreBookHotelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := workspaceFrom(r).Hotels.PreBook(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) HotelGuestsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req hotelGuestsRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		session, err := workspaceFrom(r).Hotels.SetGuestDetails(r.Context(), req.Guests)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

func (s *Server) CompleteHotelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req completeHotelRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		confirmation, err := workspaceFrom(r).Hotels.Complete(r.Context(), req.Guests, req.Payment)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, confirmation)
	}
}
