package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	// FLIGHTS
	s.RegisterRouteHandler("POST "+RouteFlightSession, ChainMiddleware(s.StartFlightHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteFlightSession, ChainMiddleware(s.CurrentFlightHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteFlightSession, ChainMiddleware(s.CancelFlightHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteFlightReprice, ChainMiddleware(s.RepriceFlightHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteFlightSeatMap, ChainMiddleware(s.SeatMapHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteFlightSeats, ChainMiddleware(s.SelectSeatsHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteFlightAncillaries, ChainMiddleware(s.AncillariesHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteFlightAncillaries, ChainMiddleware(s.AddAncillariesHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteFlightComplete, ChainMiddleware(s.CompleteFlightHandler(), s.BookingMiddleware()...))

	// HOTELS
	s.RegisterRouteHandler("POST "+RouteHotelSession, ChainMiddleware(s.StartHotelHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteHotelSession, ChainMiddleware(s.CurrentHotelHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteHotelSession, ChainMiddleware(s.CancelHotelHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteHotelPreBook, ChainMiddleware(s.PreBookHotelHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteHotelGuests, ChainMiddleware(s.HotelGuestsHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteHotelComplete, ChainMiddleware(s.CompleteHotelHandler(), s.BookingMiddleware()...))

	// TRIPS
	s.RegisterRouteHandler("POST "+RouteTripSession, ChainMiddleware(s.StartTripHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteTripSession, ChainMiddleware(s.CurrentTripHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteTripSession, ChainMiddleware(s.CancelTripHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteTripReprice, ChainMiddleware(s.RepriceTripFlightHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteTripPreBook, ChainMiddleware(s.PreBookTripHotelHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteTripTotal, ChainMiddleware(s.TripTotalHandler(), s.BookingMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteTripComplete, ChainMiddleware(s.CompleteTripHandler(), s.BookingMiddleware()...))
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"app":    s.config.GetAppName(),
		})
	}
}
