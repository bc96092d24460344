package recovery

// Normalised error codes.
const (
	CodeInvalidTraceID     = "INVALID_TRACEID"
	CodeTraceIDExpired     = "TRACEID_EXPIRED"
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodeInvalidSession     = "INVALID_SESSION"
	CodeNoActiveSession    = "NO_ACTIVE_SESSION"
	CodeInvalidBookingCode = "INVALID_BOOKING_CODE"

	CodeFlightUnavailable  = "FLIGHT_UNAVAILABLE"
	CodeFlightSoldOut      = "FLIGHT_SOLD_OUT"
	CodeSeatUnavailable    = "SEAT_UNAVAILABLE"
	CodeInvalidResultIndex = "INVALID_RESULT_INDEX"

	CodeHotelUnavailable = "HOTEL_UNAVAILABLE"
	CodeRoomSoldOut      = "ROOM_SOLD_OUT"
	CodeRoomUnavailable  = "ROOM_UNAVAILABLE"
	CodeInvalidHotelCode = "INVALID_HOTEL_CODE"

	CodeBookingFailed        = "BOOKING_FAILED"
	CodeTicketingFailed      = "TICKETING_FAILED"
	CodePaymentFailed        = "PAYMENT_FAILED"
	CodeInvalidPassengerData = "INVALID_PASSENGER_DATA"
	CodeHotelBookingFailed   = "HOTEL_BOOKING_FAILED"
	CodeHotelPaymentFailed   = "HOTEL_PAYMENT_FAILED"
	CodeInvalidGuestData     = "INVALID_GUEST_DATA"
	CodeValidation           = "VALIDATION_ERROR"
	CodePersistence          = "PERSISTENCE_ERROR"

	CodeNetworkError      = "NETWORK_ERROR"
	CodeTimeout           = "TIMEOUT"
	CodeConnectionRefused = "CONNECTION_REFUSED"

	CodeBadRequest          = "BAD_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
	CodeBadGateway          = "BAD_GATEWAY"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	CodeGatewayTimeout      = "GATEWAY_TIMEOUT"

	CodeUnknown = "UNKNOWN_ERROR"
)

// DefaultMessage is shown for codes without an entry in the table.
const DefaultMessage = "An unexpected error occurred. Please try again or contact support."

// Messages must stay free of transport detail: no status numbers, hosts or
// exception text.
var userMessages = map[string]string{
	CodeInvalidTraceID:     "Your search results are no longer valid. Please search again.",
	CodeTraceIDExpired:     "Your search has expired. Please start a new search.",
	CodeSessionExpired:     "Your booking session has expired. Please start again from search.",
	CodeInvalidSession:     "Your booking session is no longer valid. Please start a new search.",
	CodeNoActiveSession:    "There is no booking in progress. Please select an offer to begin.",
	CodeInvalidBookingCode: "This hotel offer can no longer be booked. Please search again.",

	CodeFlightUnavailable:  "This flight is no longer available. Please choose a different flight.",
	CodeFlightSoldOut:      "This flight is sold out. Please choose a different flight.",
	CodeSeatUnavailable:    "One or more selected seats are no longer available. Please choose different seats.",
	CodeInvalidResultIndex: "The selected flight could not be found. Please search again.",

	CodeHotelUnavailable: "This hotel is no longer available for your dates. Please choose another hotel.",
	CodeRoomSoldOut:      "This room is sold out. Please choose a different room.",
	CodeRoomUnavailable:  "This room is no longer available. Please choose a different room.",
	CodeInvalidHotelCode: "The selected hotel could not be found. Please search again.",

	CodeBookingFailed:        "We could not complete your booking. Your details have been kept so you can try again.",
	CodeTicketingFailed:      "Ticketing did not complete. Please try again or contact support.",
	CodePaymentFailed:        "Your payment could not be processed. Please check your payment details and try again.",
	CodeInvalidPassengerData: "Some passenger details are invalid. Please review them and try again.",
	CodeHotelBookingFailed:   "We could not complete your hotel booking. Your details have been kept so you can try again.",
	CodeHotelPaymentFailed:   "Your hotel payment could not be processed. Please check your payment details and try again.",
	CodeInvalidGuestData:     "Some guest details are invalid. Please review them and try again.",
	CodeValidation:           "Some of the information provided is invalid. Please review it and try again.",
	CodePersistence:          "Your booking progress could not be saved. Please try again.",

	CodeNetworkError:      "We are having trouble connecting. Retrying shortly.",
	CodeTimeout:           "The request took too long to complete. Retrying shortly.",
	CodeConnectionRefused: "The booking service is temporarily unreachable. Retrying shortly.",

	CodeBadRequest:          "The request could not be processed. Please check your details and try again.",
	CodeUnauthorized:        "Access to the booking service could not be verified. Please try again later.",
	CodeForbidden:           "You do not have permission to perform this action.",
	CodeNotFound:            "The requested item could not be found.",
	CodeTooManyRequests:     "Too many requests right now. Please wait a moment and try again.",
	CodeInternalServerError: "The booking service is having problems. Showing sample data for now.",
	CodeBadGateway:          "The booking service is temporarily unavailable. Showing sample data for now.",
	CodeServiceUnavailable:  "The booking service is temporarily unavailable. Showing sample data for now.",
	CodeGatewayTimeout:      "The booking service did not respond in time. Showing sample data for now.",

	CodeUnknown: "Something went wrong. Please try again.",
}

// UserMessage returns the user-facing text for code.
func UserMessage(code string) string {
	if msg, ok := userMessages[code]; ok {
		return msg
	}
	return DefaultMessage
}

// KnownCodes lists every code with a dedicated message.
func KnownCodes() []string {
	codes := make([]string, 0, len(userMessages))
	for code := range userMessages {
		codes = append(codes, code)
	}
	return codes
}
