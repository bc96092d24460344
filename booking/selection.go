package booking

// SeatSelection assigns one seat on one segment to one passenger.
type SeatSelection struct {
	PassengerIndex int    `json:"passengerIndex"`
	SegmentIndex   int    `json:"segmentIndex"`
	SeatID         string `json:"seatId"`
}

// AncillaryKind is the type of add-on service.
type AncillaryKind string

const (
	AncillaryBaggage AncillaryKind = "baggage"
	AncillaryMeal    AncillaryKind = "meal"
)

// Valid reports whether the kind is one the booking flow supports.
func (k AncillaryKind) Valid() bool {
	return k == AncillaryBaggage || k == AncillaryMeal
}

// AncillarySelection adds one service to one passenger. SegmentIndex is
// optional; nil applies the service to the whole journey.
type AncillarySelection struct {
	PassengerIndex int           `json:"passengerIndex"`
	Kind           AncillaryKind `json:"kind"`
	Code           string        `json:"code"`
	SegmentIndex   *int          `json:"segmentIndex,omitempty"`
}
