package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
)

// ReceiptService handles receipt generation for completed trips.
type ReceiptService struct {
	routes RouteProvider
	fares  *FareCalculator
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(routes RouteProvider, fares *FareCalculator) *ReceiptService {
	return &ReceiptService{
		routes: routes,
		fares:  fares,
	}
}

// GenerateReceipt builds the fare breakdown document for a completed trip.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, trip *domain.Trip, paymentStatus domain.TransactionStatus) (*domain.Receipt, error) {
	if trip == nil {
		return nil, ErrInvalidTripID
	}

	route, err := s.routes.DistanceAndDuration(trip.Pickup, trip.Destination)
	if err != nil {
		return nil, err
	}

	cfg := s.fares.Config()
	multiplier := s.fares.Multiplier(trip.Type)

	baseFare := cfg.BaseFare
	distanceCharge := route.DistanceKm * cfg.PerKmRate
	durationCharge := route.DurationMin * cfg.PerMinRate
	if trip.Type == domain.TripTypeHourly {
		// Flat hourly pricing carries no route charges.
		baseFare = cfg.HourlyRate
		distanceCharge = 0
		durationCharge = 0
	}
	surgeAmount := (baseFare + distanceCharge + durationCharge) * (multiplier - 1)

	return &domain.Receipt{
		ID:              uuid.New().String(),
		TripID:          trip.ID,
		Pickup:          trip.Pickup,
		Destination:     trip.Destination,
		BaseFare:        baseFare,
		DistanceCharge:  distanceCharge,
		DurationCharge:  durationCharge,
		SurgeMultiplier: multiplier,
		SurgeAmount:     surgeAmount,
		TotalFare:       trip.Fare,
		DistanceKm:      route.DistanceKm,
		DurationMin:     route.DurationMin,
		PaymentKind:     trip.PaymentKind,
		PaymentStatus:   paymentStatus,
		CreatedAt:       time.Now(),
	}, nil
}

// FormatReceipt formats the receipt as a string (for email/print).
func (s *ReceiptService) FormatReceipt(receipt *domain.Receipt) string {
	return `
=====================================
        TRIP RECEIPT
=====================================
Receipt ID: ` + receipt.ID + `
Trip ID: ` + receipt.TripID + `
Date: ` + receipt.CreatedAt.Format("Jan 02, 2006 3:04 PM") + `

TRIP DETAILS
-------------------------------------
Pickup:      ` + receipt.Pickup.Address + `
Destination: ` + receipt.Destination.Address + `
Distance:    ` + formatAmount(receipt.DistanceKm) + ` km
Duration:    ` + fmt.Sprintf("%.0f min", receipt.DurationMin) + `

FARE BREAKDOWN
-------------------------------------
Base Fare:        ` + formatAmount(receipt.BaseFare) + ` CFA
Distance:         ` + formatAmount(receipt.DistanceCharge) + ` CFA
Time:             ` + formatAmount(receipt.DurationCharge) + ` CFA
Surge (` + fmt.Sprintf("%.2fx", receipt.SurgeMultiplier) + `):    ` + formatAmount(receipt.SurgeAmount) + ` CFA
-------------------------------------
TOTAL:            ` + formatAmount(receipt.TotalFare) + ` CFA

PAYMENT
-------------------------------------
Method: ` + string(receipt.PaymentKind) + `
Status: ` + string(receipt.PaymentStatus) + `

=====================================
     Thank you for riding with us!
=====================================
`
}

func formatAmount(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
