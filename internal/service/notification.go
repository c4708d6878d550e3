package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationTripRequested  NotificationType = "TRIP_REQUESTED"
	NotificationDriverMatched  NotificationType = "DRIVER_MATCHED"
	NotificationTripStarted    NotificationType = "TRIP_STARTED"
	NotificationTripCompleted  NotificationType = "TRIP_COMPLETED"
	NotificationTripCancelled  NotificationType = "TRIP_CANCELLED"
	NotificationPaymentSuccess NotificationType = "PAYMENT_SUCCESS"
	NotificationPaymentFailed  NotificationType = "PAYMENT_FAILED"
	NotificationTopUpSuccess   NotificationType = "TOPUP_SUCCESS"
	NotificationTopUpFailed    NotificationType = "TOPUP_FAILED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type      NotificationType
	Title     string
	Message   string
	Data      map[string]interface{}
	CreatedAt time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real system, this would have:
	// - Push notification client (FCM, APNS)
	// - SMS client
	// - WebSocket connections for real-time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyTripRequested confirms a new ride request to the rider.
func (s *NotificationService) NotifyTripRequested(ctx context.Context, trip *domain.Trip) error {
	return s.send(ctx, Notification{
		Type:    NotificationTripRequested,
		Title:   "Looking for a driver",
		Message: fmt.Sprintf("Your ride to %s has been requested. Quoted fare: %.0f CFA", trip.Destination.Address, trip.Fare),
		Data: map[string]interface{}{
			"trip_id": trip.ID,
			"fare":    trip.Fare,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyDriverMatched tells the rider a driver has been found.
func (s *NotificationService) NotifyDriverMatched(ctx context.Context, trip *domain.Trip) error {
	if trip.Driver == nil {
		return nil
	}
	return s.send(ctx, Notification{
		Type:    NotificationDriverMatched,
		Title:   "Driver Found",
		Message: fmt.Sprintf("%s (%.1f) is on the way", trip.Driver.Name, trip.Driver.Rating),
		Data: map[string]interface{}{
			"trip_id":       trip.ID,
			"driver_name":   trip.Driver.Name,
			"driver_rating": trip.Driver.Rating,
			"driver_phone":  trip.Driver.Phone,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyTripStarted tells the rider the trip is underway.
func (s *NotificationService) NotifyTripStarted(ctx context.Context, trip *domain.Trip) error {
	return s.send(ctx, Notification{
		Type:      NotificationTripStarted,
		Title:     "Trip Started",
		Message:   "Your trip has started. Enjoy your ride!",
		Data:      map[string]interface{}{"trip_id": trip.ID},
		CreatedAt: time.Now(),
	})
}

// NotifyTripCompleted tells the rider the trip has ended.
func (s *NotificationService) NotifyTripCompleted(ctx context.Context, trip *domain.Trip) error {
	return s.send(ctx, Notification{
		Type:    NotificationTripCompleted,
		Title:   "Trip Completed",
		Message: fmt.Sprintf("Your trip has ended. Total fare: %.0f CFA", trip.Fare),
		Data: map[string]interface{}{
			"trip_id": trip.ID,
			"fare":    trip.Fare,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyTripCancelled confirms a cancellation.
func (s *NotificationService) NotifyTripCancelled(ctx context.Context, trip *domain.Trip) error {
	return s.send(ctx, Notification{
		Type:    NotificationTripCancelled,
		Title:   "Trip Cancelled",
		Message: "Your trip has been cancelled.",
		Data: map[string]interface{}{
			"trip_id": trip.ID,
			"reason":  trip.CancelReason,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentSuccess reports a settled fare debit.
func (s *NotificationService) NotifyPaymentSuccess(ctx context.Context, txn *domain.Transaction) error {
	return s.send(ctx, Notification{
		Type:    NotificationPaymentSuccess,
		Title:   "Payment Successful",
		Message: fmt.Sprintf("Payment of %.0f CFA was successful", txn.Amount),
		Data: map[string]interface{}{
			"transaction_id": txn.ID,
			"amount":         txn.Amount,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentFailed reports a failed fare settlement.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, amount float64, reference string) error {
	return s.send(ctx, Notification{
		Type:    NotificationPaymentFailed,
		Title:   "Payment Failed",
		Message: fmt.Sprintf("Payment of %.0f CFA failed. Please top up your wallet.", amount),
		Data: map[string]interface{}{
			"amount":    amount,
			"reference": reference,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyTopUpCompleted reports a successful wallet top-up.
func (s *NotificationService) NotifyTopUpCompleted(ctx context.Context, txn *domain.Transaction) error {
	return s.send(ctx, Notification{
		Type:    NotificationTopUpSuccess,
		Title:   "Top-up Successful",
		Message: fmt.Sprintf("%.0f CFA added to your wallet", txn.Amount),
		Data: map[string]interface{}{
			"transaction_id": txn.ID,
			"amount":         txn.Amount,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyTopUpFailed reports a declined top-up.
func (s *NotificationService) NotifyTopUpFailed(ctx context.Context, amount float64, kind domain.PaymentKind) error {
	return s.send(ctx, Notification{
		Type:    NotificationTopUpFailed,
		Title:   "Top-up Failed",
		Message: fmt.Sprintf("Top-up of %.0f CFA via %s failed. Please try again.", amount, kind),
		Data: map[string]interface{}{
			"amount": amount,
			"method": string(kind),
		},
		CreatedAt: time.Now(),
	})
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	// In a real implementation, this would push via FCM/APNS, SMS, or a
	// WebSocket channel.
	log.Printf("[NOTIFICATION] Type=%s, Title=%s, Message=%s",
		notification.Type, notification.Title, notification.Message)

	return nil
}
