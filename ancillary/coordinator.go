// Package ancillary lists and prices add-on services (baggage and meals)
// for a flight offer. Selections are only submitted upstream as part of the
// final booking request.
package ancillary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jrsteele09/go-travel-booking/booking"
	apperrors "github.com/jrsteele09/go-travel-booking/internal/errors"
	"github.com/jrsteele09/go-travel-booking/upstream"
	"github.com/rs/zerolog"
)

var (
	ErrNoServicesSelected    = apperrors.NewValidation("at least one service must be selected")
	ErrInvalidPassengerIndex = apperrors.NewValidation("passenger index must not be negative")
	ErrInvalidKind           = apperrors.NewValidation("service kind must be baggage or meal")
	ErrMissingCode           = apperrors.NewValidation("service code is required")
)

const (
	UnitKilograms = "kg"
	UnitPounds    = "lbs"
)

type BaggageOption struct {
	Code         string  `json:"code"`
	Description  string  `json:"description"`
	Weight       float64 `json:"weight"`
	Unit         string  `json:"unit"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency,omitempty"`
	SegmentIndex int     `json:"segmentIndex"`
}

type MealOption struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	DietaryTags  []string `json:"dietaryTags"`
	Price        float64  `json:"price"`
	Currency     string   `json:"currency,omitempty"`
	SegmentIndex int      `json:"segmentIndex"`
}

// Options are the add-ons available for an offer.
type Options struct {
	Baggage []BaggageOption `json:"baggage"`
	Meals   []MealOption    `json:"meals"`
}

// Addition is the outcome of adding services.
type Addition struct {
	Success       bool                         `json:"success"`
	AddedServices []booking.AncillarySelection `json:"addedServices"`
	TotalCost     float64                      `json:"totalCost"`
}

type Option func(*Coordinator)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// Coordinator is the ancillary coordinator.
type Coordinator struct {
	api    upstream.FlightAPI
	logger zerolog.Logger
}

func NewCoordinator(api upstream.FlightAPI, options ...Option) (*Coordinator, error) {
	if api == nil {
		return nil, errors.New("[ancillary.NewCoordinator] flight API is required")
	}
	c := &Coordinator{api: api, logger: zerolog.Nop()}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// List fetches the baggage and meal options of offerID.
func (c *Coordinator) List(ctx context.Context, correlationID, offerID string) (Options, error) {
	resp, err := c.api.Ancillaries(ctx, correlationID, offerID)
	if err != nil {
		return Options{}, err
	}
	if resp == nil {
		return Options{Baggage: []BaggageOption{}, Meals: []MealOption{}}, nil
	}
	if resp.Error != nil {
		return Options{}, resp.Error
	}

	opts := Options{
		Baggage: make([]BaggageOption, 0, len(resp.Baggage)),
		Meals:   make([]MealOption, 0, len(resp.Meals)),
	}
	for _, b := range resp.Baggage {
		opts.Baggage = append(opts.Baggage, BaggageOption{
			Code:         b.Code,
			Description:  b.Description,
			Weight:       b.Weight,
			Unit:         weightUnit(b.Description),
			Price:        b.Price,
			Currency:     b.Currency,
			SegmentIndex: b.SegmentIndex,
		})
	}
	for _, m := range resp.Meals {
		opts.Meals = append(opts.Meals, MealOption{
			Code:         m.Code,
			Name:         mealName(m.Description),
			Description:  m.Description,
			DietaryTags:  DietaryTags(m.Description + " " + m.AirlineDescription),
			Price:        m.Price,
			Currency:     m.Currency,
			SegmentIndex: m.SegmentIndex,
		})
	}
	return opts, nil
}

// Validate checks selections without calling upstream.
func Validate(selections []booking.AncillarySelection) error {
	if len(selections) == 0 {
		return ErrNoServicesSelected
	}
	for _, s := range selections {
		if s.PassengerIndex < 0 {
			return ErrInvalidPassengerIndex
		}
		if !s.Kind.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidKind, s.Kind)
		}
		if s.Code == "" {
			return ErrMissingCode
		}
	}
	return nil
}

// Add validates selections and prices them against a fresh option list.
// A code that is not offered contributes nothing to the total.
func (c *Coordinator) Add(ctx context.Context, correlationID, offerID string, selections []booking.AncillarySelection) (Addition, error) {
	if err := Validate(selections); err != nil {
		return Addition{}, err
	}

	opts, err := c.List(ctx, correlationID, offerID)
	if err != nil {
		return Addition{}, err
	}

	baggage := make(map[string]float64, len(opts.Baggage))
	for _, b := range opts.Baggage {
		baggage[b.Code] = b.Price
	}
	meals := make(map[string]float64, len(opts.Meals))
	for _, m := range opts.Meals {
		meals[m.Code] = m.Price
	}

	total := 0.0
	for _, s := range selections {
		prices := baggage
		if s.Kind == booking.AncillaryMeal {
			prices = meals
		}
		price, ok := prices[s.Code]
		if !ok {
			c.logger.Debug().Str("offer_id", offerID).Str("code", s.Code).Msg("ancillary code not offered, priced at zero")
		}
		total += price
	}

	return Addition{
		Success:       true,
		AddedServices: append([]booking.AncillarySelection(nil), selections...),
		TotalCost:     total,
	}, nil
}

func weightUnit(description string) string {
	if strings.Contains(strings.ToLower(description), "lb") {
		return UnitPounds
	}
	return UnitKilograms
}

// mealName is the description up to the first hyphen.
func mealName(description string) string {
	name, _, _ := strings.Cut(description, "-")
	return strings.TrimSpace(name)
}
