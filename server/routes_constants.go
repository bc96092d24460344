package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHealth = "/health"

	// Flight Routes
	RouteFlightSession     = "/api/flights/session"
	RouteFlightReprice     = "/api/flights/session/reprice"
	RouteFlightSeatMap     = "/api/flights/session/seatmap"
	RouteFlightSeats       = "/api/flights/session/seats"
	RouteFlightAncillaries = "/api/flights/session/ancillaries"
	RouteFlightComplete    = "/api/flights/session/complete"

	// Hotel Routes
	RouteHotelSession  = "/api/hotels/session"
	RouteHotelPreBook  = "/api/hotels/session/prebook"
	RouteHotelGuests   = "/api/hotels/session/guests"
	RouteHotelComplete = "/api/hotels/session/complete"

	// Trip Routes (flight + hotel)
	RouteTripSession  = "/api/trips/session"
	RouteTripReprice  = "/api/trips/session/reprice"
	RouteTripPreBook  = "/api/trips/session/prebook"
	RouteTripTotal    = "/api/trips/session/total"
	RouteTripComplete = "/api/trips/session/complete"
)
