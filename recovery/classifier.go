package recovery

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-travel-booking/internal/errors"
	"github.com/jrsteele09/go-travel-booking/upstream"
)

// ActionType is what the caller should do after a failure.
type ActionType string

const (
	ActionRestart  ActionType = "restart"
	ActionNotify   ActionType = "notify"
	ActionPreserve ActionType = "preserve"
	ActionRetry    ActionType = "retry"
	ActionFallback ActionType = "fallback"
)

// StepSearch is where a restarted workflow begins.
const StepSearch = "search"

// DefaultRetryDelay is how long a caller waits before retrying a
// recoverable network failure.
const DefaultRetryDelay = 2 * time.Second

// RecoveryAction is a tagged variant; only the fields of Type are set.
type RecoveryAction struct {
	Type        ActionType    `json:"type"`
	FromStep    string        `json:"fromStep,omitempty"`
	Message     string        `json:"message,omitempty"`
	AllowRetry  bool          `json:"allowRetry,omitempty"`
	Delay       time.Duration `json:"-"`
	UseMockData bool          `json:"useMockData,omitempty"`
}

// MarshalJSON writes Delay in milliseconds.
func (a RecoveryAction) MarshalJSON() ([]byte, error) {
	type plain RecoveryAction
	return json.Marshal(struct {
		plain
		Delay int64 `json:"delay,omitempty"`
	}{plain(a), a.Delay.Milliseconds()})
}

// Classification is the caller-facing reading of an error.
type Classification struct {
	UserMessage    string         `json:"userMessage"`
	RecoveryAction RecoveryAction `json:"recoveryAction"`
	ErrorCode      string         `json:"errorCode"`
}

// recoverable is implemented by errors that know whether a retry can help.
type recoverable interface {
	IsRecoverable() bool
}

type inputKind int

const (
	kindUnknown inputKind = iota
	kindStructured
	kindSentinel
	kindGeneric
)

// input is the normalised form of an error before the decision table runs.
type input struct {
	kind        inputKind
	code        string
	recoverable bool
}

type Option func(*Classifier)

// WithRetryDelay overrides DefaultRetryDelay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Classifier) {
		c.retryDelay = d
	}
}

// Classifier maps errors to a code, a user message and a recovery action.
// It is stateless and safe for concurrent use.
type Classifier struct {
	retryDelay time.Duration
}

func NewClassifier(options ...Option) *Classifier {
	c := &Classifier{retryDelay: DefaultRetryDelay}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Classify reads err. A nil error classifies as UNKNOWN_ERROR.
func (c *Classifier) Classify(err error) Classification {
	norm := normalise(err)
	return Classification{
		UserMessage:    UserMessage(norm.code),
		RecoveryAction: c.decide(norm),
		ErrorCode:      norm.code,
	}
}

var sentinelCodes = []struct {
	err  error
	code string
}{
	{apperrors.ErrNoActiveSession, CodeNoActiveSession},
	{apperrors.ErrSessionExpired, CodeSessionExpired},
	{apperrors.ErrValidation, CodeValidation},
	{apperrors.ErrPersistence, CodePersistence},
}

func normalise(err error) input {
	if err == nil {
		return input{kind: kindUnknown, code: CodeUnknown}
	}

	var rec recoverable
	isRecoverable := apperrors.As(err, &rec) && rec.IsRecoverable()

	var apiErr *upstream.APIError
	if apperrors.As(err, &apiErr) {
		if apiErr.Code != "" {
			return input{kind: kindStructured, code: strings.ToUpper(apiErr.Code), recoverable: apiErr.Recoverable}
		}
		if code := CodeFromMessage(apiErr.Message); code != "" {
			return input{kind: kindStructured, code: code, recoverable: apiErr.Recoverable}
		}
	}

	for _, s := range sentinelCodes {
		if apperrors.Is(err, s.err) {
			return input{kind: kindSentinel, code: s.code, recoverable: isRecoverable}
		}
	}

	// Transport failures are read on their own text, without the context
	// prefixes added by callers further up.
	msg := err.Error()
	var transportErr *upstream.TransportError
	if apperrors.As(err, &transportErr) {
		msg = transportErr.Error()
	}
	if code := CodeFromMessage(msg); code != "" {
		return input{kind: kindGeneric, code: code, recoverable: isRecoverable}
	}

	return input{kind: kindUnknown, code: CodeUnknown, recoverable: isRecoverable}
}

var (
	restartCodes = codeSet(CodeInvalidTraceID, CodeTraceIDExpired, CodeSessionExpired,
		CodeInvalidSession, CodeNoActiveSession, CodeInvalidBookingCode)
	unavailableCodes = codeSet(CodeFlightUnavailable, CodeFlightSoldOut, CodeSeatUnavailable,
		CodeHotelUnavailable, CodeRoomSoldOut, CodeRoomUnavailable, CodeInvalidResultIndex, CodeInvalidHotelCode)
	preserveCodes = codeSet(CodeBookingFailed, CodeTicketingFailed, CodePaymentFailed, CodeInvalidPassengerData,
		CodeHotelBookingFailed, CodeHotelPaymentFailed, CodeInvalidGuestData, CodeValidation)
	networkCodes  = codeSet(CodeNetworkError, CodeTimeout, CodeConnectionRefused)
	serverCodes   = codeSet(CodeInternalServerError, CodeBadGateway, CodeServiceUnavailable, CodeGatewayTimeout)
	paymentCodes  = codeSet(CodePaymentFailed, CodeHotelPaymentFailed)
)

func codeSet(codes ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

func in(set map[string]struct{}, code string) bool {
	_, ok := set[code]
	return ok
}

func (c *Classifier) decide(i input) RecoveryAction {
	switch {
	case in(restartCodes, i.code):
		return RecoveryAction{Type: ActionRestart, FromStep: StepSearch}
	case in(unavailableCodes, i.code):
		return RecoveryAction{Type: ActionNotify, Message: UserMessage(i.code)}
	case in(preserveCodes, i.code):
		return RecoveryAction{Type: ActionPreserve, AllowRetry: true}
	case in(networkCodes, i.code) && i.recoverable:
		return RecoveryAction{Type: ActionRetry, Delay: c.retryDelay}
	case in(serverCodes, i.code):
		return RecoveryAction{Type: ActionFallback, UseMockData: true}
	}
	return RecoveryAction{Type: ActionNotify, Message: UserMessage(i.code)}
}

// IsPaymentCode reports whether code is a payment failure.
func IsPaymentCode(code string) bool {
	return in(paymentCodes, code)
}

// IsUnavailableCode reports whether code means the offer or resource is gone.
func IsUnavailableCode(code string) bool {
	return in(unavailableCodes, code)
}
