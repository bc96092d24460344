// Package postgres keeps a ledger of booking confirmations in Postgres.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/go-travel-booking/booking"
	apperrors "github.com/jrsteele09/go-travel-booking/internal/errors"
	"github.com/jrsteele09/go-travel-booking/itinerary"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ itinerary.Recorder = (*Store)(nil)

// Record kinds.
const (
	KindFlight = "flight"
	KindHotel  = "hotel"
)

// BookingRecord is one confirmed booking.
type BookingRecord struct {
	ID               uint      `gorm:"primaryKey"`
	Kind             string    `gorm:"type:varchar(10);not null;index"`
	BookingReference string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Locator          string    `gorm:"type:varchar(50);not null"`
	SessionID        string    `gorm:"type:varchar(64);not null"`
	CorrelationID    string    `gorm:"type:varchar(255);index"`
	TotalPrice       float64   `gorm:"type:decimal(12,2);not null"`
	Currency         string    `gorm:"type:varchar(3);not null"`
	BookedAt         time.Time `gorm:"not null"`
	Payload          string    `gorm:"type:jsonb;not null"`
	CreatedAt        time.Time
}

func (BookingRecord) TableName() string {
	return "itinerary_bookings"
}

// Store is an itinerary.Recorder backed by GORM.
type Store struct {
	db *gorm.DB
}

// Open connects to databaseURL and migrates the ledger table.
func Open(databaseURL string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&BookingRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return New(db)
}

func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("[postgres.New] db is required")
	}
	return &Store{db: db}, nil
}

// FlightRecord converts a flight confirmation to a ledger row.
func FlightRecord(c booking.FlightConfirmation) (BookingRecord, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return BookingRecord{}, err
	}
	return BookingRecord{
		Kind:             KindFlight,
		BookingReference: c.BookingReference,
		Locator:          c.PNR,
		SessionID:        c.SessionID,
		CorrelationID:    c.CorrelationID,
		TotalPrice:       c.TotalPrice,
		Currency:         c.Currency,
		BookedAt:         c.BookedAt,
		Payload:          string(payload),
	}, nil
}

// HotelRecord converts a hotel confirmation to a ledger row.
func HotelRecord(c booking.HotelConfirmation) (BookingRecord, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return BookingRecord{}, err
	}
	return BookingRecord{
		Kind:             KindHotel,
		BookingReference: c.BookingReference,
		Locator:          c.ConfirmationNumber,
		SessionID:        c.SessionID,
		CorrelationID:    c.CorrelationID,
		TotalPrice:       c.TotalPrice,
		Currency:         c.Currency,
		BookedAt:         c.BookedAt,
		Payload:          string(payload),
	}, nil
}

func (s *Store) RecordFlightBooking(ctx context.Context, c booking.FlightConfirmation) error {
	record, err := FlightRecord(c)
	if err != nil {
		return fmt.Errorf("failed to encode flight confirmation: %w", err)
	}
	return s.insert(ctx, record)
}

func (s *Store) RecordHotelBooking(ctx context.Context, c booking.HotelConfirmation) error {
	record, err := HotelRecord(c)
	if err != nil {
		return fmt.Errorf("failed to encode hotel confirmation: %w", err)
	}
	return s.insert(ctx, record)
}

// insert ignores a repeated booking reference so a replayed confirmation
// is recorded once.
func (s *Store) insert(ctx context.Context, record BookingRecord) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "booking_reference"}}, DoNothing: true}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to record %s booking: %w", record.Kind, err)
	}
	return nil
}

// FindByReference returns the ledger row for a booking reference.
func (s *Store) FindByReference(ctx context.Context, reference string) (*BookingRecord, error) {
	var record BookingRecord
	err := s.db.WithContext(ctx).Where("booking_reference = ?", reference).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &record, nil
}
