package seats

import (
	"sort"

	"github.com/jrsteele09/go-travel-booking/upstream"
)

// Seat position categories.
const (
	PositionWindow = "window"
	PositionMiddle = "middle"
	PositionAisle  = "aisle"
)

// Cabin categories.
const (
	CabinEconomy        = "economy"
	CabinPremiumEconomy = "premium-economy"
	CabinBusiness       = "business"
	CabinFirst          = "first"
)

// Seat features.
const (
	FeatureLieFlat          = "lie-flat seat"
	FeaturePriorityBoarding = "priority boarding"
	FeatureExtraLegroom     = "extra legroom"
	FeatureFree             = "free"
	FeaturePaid             = "paid"
)

type Seat struct {
	ID        string   `json:"id"`
	Row       string   `json:"row"`
	Letter    string   `json:"letter"`
	Available bool     `json:"available"`
	Position  string   `json:"position"`
	Cabin     string   `json:"cabin"`
	Price     float64  `json:"price"`
	Currency  string   `json:"currency,omitempty"`
	Features  []string `json:"features"`
}

type Row struct {
	Number string `json:"number"`
	Seats  []Seat `json:"seats"`
}

type Segment struct {
	Index       int    `json:"segmentIndex"`
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	Rows        []Row  `json:"rows"`
}

// SeatMap is the seat layout of an offer grouped segment, then row.
type SeatMap struct {
	CorrelationID string    `json:"correlationId"`
	OfferID       string    `json:"offerId"`
	Segments      []Segment `json:"segments"`
}

func positionName(code int) string {
	switch code {
	case upstream.SeatPositionWindow:
		return PositionWindow
	case upstream.SeatPositionAisle:
		return PositionAisle
	}
	return PositionMiddle
}

func cabinName(code int) string {
	switch code {
	case upstream.CompartmentPremiumEconomy:
		return CabinPremiumEconomy
	case upstream.CompartmentBusiness:
		return CabinBusiness
	case upstream.CompartmentFirst:
		return CabinFirst
	}
	return CabinEconomy
}

func features(cabin string, price float64) []string {
	var f []string
	switch cabin {
	case CabinBusiness, CabinFirst:
		f = append(f, FeatureLieFlat, FeaturePriorityBoarding)
	case CabinPremiumEconomy:
		f = append(f, FeatureExtraLegroom)
	}
	if price > 0 {
		return append(f, FeaturePaid)
	}
	return append(f, FeatureFree)
}

// buildSeatMap groups the flat records. Segments are ordered by index; rows
// and seats keep the upstream order.
func buildSeatMap(correlationID, offerID string, records []upstream.SeatRecord) SeatMap {
	sm := SeatMap{CorrelationID: correlationID, OfferID: offerID, Segments: []Segment{}}

	segmentPos := map[int]int{}
	rowPos := map[int]map[string]int{}

	for _, r := range records {
		si, ok := segmentPos[r.SegmentIndex]
		if !ok {
			si = len(sm.Segments)
			segmentPos[r.SegmentIndex] = si
			rowPos[r.SegmentIndex] = map[string]int{}
			sm.Segments = append(sm.Segments, Segment{
				Index:       r.SegmentIndex,
				Origin:      r.Origin,
				Destination: r.Destination,
			})
		}
		seg := &sm.Segments[si]

		ri, ok := rowPos[r.SegmentIndex][r.RowNo]
		if !ok {
			ri = len(seg.Rows)
			rowPos[r.SegmentIndex][r.RowNo] = ri
			seg.Rows = append(seg.Rows, Row{Number: r.RowNo})
		}

		cabin := cabinName(r.Compartment)
		seg.Rows[ri].Seats = append(seg.Rows[ri].Seats, Seat{
			ID:        seatID(r),
			Row:       r.RowNo,
			Letter:    r.SeatNo,
			Available: r.AvailabilityType == upstream.SeatAvailableCode,
			Position:  positionName(r.Position),
			Cabin:     cabin,
			Price:     r.Price,
			Currency:  r.Currency,
			Features:  features(cabin, r.Price),
		})
	}

	sort.SliceStable(sm.Segments, func(i, j int) bool {
		return sm.Segments[i].Index < sm.Segments[j].Index
	})
	return sm
}

func seatID(r upstream.SeatRecord) string {
	if r.Code != "" {
		return r.Code
	}
	return r.RowNo + r.SeatNo
}

type seatKey struct {
	segment int
	id      string
}

func priceIndex(records []upstream.SeatRecord) map[seatKey]float64 {
	prices := make(map[seatKey]float64, len(records))
	for _, r := range records {
		prices[seatKey{segment: r.SegmentIndex, id: seatID(r)}] = r.Price
	}
	return prices
}
