package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"carshare/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationRentalCreated    NotificationType = "RENTAL_CREATED"
	NotificationRentalReturned   NotificationType = "RENTAL_RETURNED"
	NotificationPaymentSuccess   NotificationType = "PAYMENT_SUCCESS"
	NotificationPaymentCancelled NotificationType = "PAYMENT_CANCELLED"
	NotificationStatusDigest     NotificationType = "STATUS_DIGEST"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type      NotificationType
	To        Recipient
	Title     string
	Message   string
	CreatedAt time.Time
}

// NotificationService fans notifications out to the configured senders.
// Delivery is best effort: failures are logged and never propagate to the
// operation that triggered them.
type NotificationService struct {
	senders []Sender
}

// NewNotificationService creates a NotificationService. With no senders it
// falls back to logging only.
func NewNotificationService(senders ...Sender) *NotificationService {
	if len(senders) == 0 {
		senders = []Sender{LogSender{}}
	}
	return &NotificationService{senders: senders}
}

func recipientFor(user *domain.User) Recipient {
	return Recipient{
		Name:  user.FirstName + " " + user.LastName,
		Email: user.Email,
		Phone: user.Phone,
	}
}

// NotifyRentalCreated notifies the customer that their rental is confirmed.
func (s *NotificationService) NotifyRentalCreated(ctx context.Context, rental *domain.Rental, car *domain.Car, user *domain.User) {
	s.send(ctx, Notification{
		Type:  NotificationRentalCreated,
		To:    recipientFor(user),
		Title: "Rental Confirmed",
		Message: fmt.Sprintf("Your rental of %s %s starts %s and is due back %s.",
			car.Brand, car.Model,
			rental.RentalDate.Format("2006-01-02"), rental.ReturnDate.Format("2006-01-02")),
		CreatedAt: time.Now(),
	})
}

// NotifyRentalReturned notifies the customer that their return was recorded.
func (s *NotificationService) NotifyRentalReturned(ctx context.Context, rental *domain.Rental, car *domain.Car, user *domain.User) {
	msg := fmt.Sprintf("Your %s %s was returned. Thanks for riding with us.", car.Brand, car.Model)
	if rental.ActualReturnDate != nil && rental.ActualReturnDate.After(rental.ReturnDate) {
		msg = fmt.Sprintf("Your %s %s was returned after the due date. An overdue fine may apply.",
			car.Brand, car.Model)
	}
	s.send(ctx, Notification{
		Type:      NotificationRentalReturned,
		To:        recipientFor(user),
		Title:     "Rental Returned",
		Message:   msg,
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentSuccess notifies the customer of a settled payment.
func (s *NotificationService) NotifyPaymentSuccess(ctx context.Context, payment *domain.Payment, user *domain.User) {
	s.send(ctx, Notification{
		Type:  NotificationPaymentSuccess,
		To:    recipientFor(user),
		Title: "Payment Successful",
		Message: fmt.Sprintf("Your %s payment of $%.2f was successful.",
			payment.Kind, float64(payment.AmountCents)/100),
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentCancelled notifies the customer of a cancelled checkout.
func (s *NotificationService) NotifyPaymentCancelled(ctx context.Context, payment *domain.Payment, user *domain.User) {
	s.send(ctx, Notification{
		Type:  NotificationPaymentCancelled,
		To:    recipientFor(user),
		Title: "Payment Cancelled",
		Message: fmt.Sprintf("Your %s payment of $%.2f was cancelled. You can retry from your payments page.",
			payment.Kind, float64(payment.AmountCents)/100),
		CreatedAt: time.Now(),
	})
}

// NotifyRentalStatusDigest reports one rental's standing to the operations
// recipient. The daily sweep sends exactly one of these per rental.
func (s *NotificationService) NotifyRentalStatusDigest(ctx context.Context, to Recipient, rental *domain.Rental, overdue bool) {
	standing := "on track"
	switch {
	case overdue:
		standing = "OVERDUE"
	case rental.ActualReturnDate != nil:
		standing = "returned"
	}
	s.send(ctx, Notification{
		Type:  NotificationStatusDigest,
		To:    to,
		Title: "Daily Rental Status",
		Message: fmt.Sprintf("Rental %s (car %s, user %s) is %s, due %s.",
			rental.ID, rental.CarID, rental.UserID, standing,
			rental.ReturnDate.Format("2006-01-02")),
		CreatedAt: time.Now(),
	})
}

func (s *NotificationService) send(ctx context.Context, n Notification) {
	for _, sender := range s.senders {
		if err := sender.Send(ctx, n.To, n.Title, n.Message); err != nil {
			log.Printf("[NOTIFICATION] delivery failed: type=%s recipient=%s err=%v",
				n.Type, n.To.Email, err)
		}
	}
}
