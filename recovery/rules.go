package recovery

import "strings"

// messageRule maps a message to code when it contains every substring.
type messageRule struct {
	all  []string
	code string
}

// Rules are checked in order; the first match wins. Session and trace id
// problems come first so an expired search is never reported as a missing
// offer.
var messageRules = []messageRule{
	{[]string{"trace", "expired"}, CodeTraceIDExpired},
	{[]string{"correlation", "expired"}, CodeTraceIDExpired},
	{[]string{"trace", "invalid"}, CodeInvalidTraceID},
	{[]string{"correlation", "invalid"}, CodeInvalidTraceID},
	{[]string{"session", "expired"}, CodeSessionExpired},
	{[]string{"no active", "session"}, CodeNoActiveSession},
	{[]string{"invalid session"}, CodeInvalidSession},
	{[]string{"booking code", "invalid"}, CodeInvalidBookingCode},
	{[]string{"invalid booking code"}, CodeInvalidBookingCode},

	{[]string{"flight", "sold out"}, CodeFlightSoldOut},
	{[]string{"flight", "no longer available"}, CodeFlightUnavailable},
	{[]string{"flight", "unavailable"}, CodeFlightUnavailable},
	{[]string{"fare", "no longer available"}, CodeFlightUnavailable},
	{[]string{"offer", "no longer available"}, CodeFlightUnavailable},

	{[]string{"seat", "unavailable"}, CodeSeatUnavailable},
	{[]string{"seat", "already taken"}, CodeSeatUnavailable},
	{[]string{"seat", "not available"}, CodeSeatUnavailable},
	{[]string{"room", "sold out"}, CodeRoomSoldOut},
	{[]string{"room", "unavailable"}, CodeRoomUnavailable},
	{[]string{"room", "no longer available"}, CodeRoomUnavailable},
	{[]string{"hotel", "unavailable"}, CodeHotelUnavailable},
	{[]string{"hotel", "no longer available"}, CodeHotelUnavailable},
	{[]string{"result index", "invalid"}, CodeInvalidResultIndex},
	{[]string{"invalid result index"}, CodeInvalidResultIndex},
	{[]string{"hotel code", "invalid"}, CodeInvalidHotelCode},
	{[]string{"invalid hotel code"}, CodeInvalidHotelCode},
	{[]string{"sold out"}, CodeFlightSoldOut},

	{[]string{"hotel", "payment", "failed"}, CodeHotelPaymentFailed},
	{[]string{"payment", "failed"}, CodePaymentFailed},
	{[]string{"payment", "declined"}, CodePaymentFailed},
	{[]string{"ticketing", "failed"}, CodeTicketingFailed},
	{[]string{"hotel", "booking", "failed"}, CodeHotelBookingFailed},
	{[]string{"booking", "failed"}, CodeBookingFailed},
	{[]string{"invalid passenger"}, CodeInvalidPassengerData},
	{[]string{"passenger", "invalid"}, CodeInvalidPassengerData},
	{[]string{"invalid guest"}, CodeInvalidGuestData},
	{[]string{"guest", "invalid"}, CodeInvalidGuestData},

	{[]string{"gateway timeout"}, CodeGatewayTimeout},
	{[]string{"bad gateway"}, CodeBadGateway},
	{[]string{"service unavailable"}, CodeServiceUnavailable},
	{[]string{"internal server error"}, CodeInternalServerError},

	{[]string{"connection refused"}, CodeConnectionRefused},
	{[]string{"econnrefused"}, CodeConnectionRefused},
	{[]string{"timeout"}, CodeTimeout},
	{[]string{"timed out"}, CodeTimeout},
	{[]string{"deadline exceeded"}, CodeTimeout},
	{[]string{"network"}, CodeNetworkError},
	{[]string{"connection reset"}, CodeNetworkError},
	{[]string{"no such host"}, CodeNetworkError},
}

// CodeFromMessage infers an error code from free text. It returns "" when
// nothing matches.
func CodeFromMessage(msg string) string {
	lower := strings.ToLower(msg)
	for _, rule := range messageRules {
		if containsAll(lower, rule.all) {
			return rule.code
		}
	}
	return ""
}

func containsAll(s string, parts []string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
