package notification

import (
	"context"

	"github.com/malabro/eshop-backend/internal/models"
)

const (
	KindWelcome         = "welcome"
	KindAdminNewOrder   = "admin_new_order"
	KindAdminPayment    = "admin_payment_started"
	KindCustomerPayment = "customer_payment_started"
)

// Notifier turns domain events into emails scheduled on the dispatcher.
type Notifier struct {
	dispatcher *Dispatcher
	sender     Sender
	adminEmail string
}

func NewNotifier(dispatcher *Dispatcher, sender Sender, adminEmail string) *Notifier {
	return &Notifier{dispatcher: dispatcher, sender: sender, adminEmail: adminEmail}
}

func (n *Notifier) UserRegistered(user models.User) {
	n.schedule(KindWelcome, func() (Message, error) { return WelcomeEmail(user) })
}

func (n *Notifier) OrderCreated(order models.Order) {
	n.schedule(KindAdminNewOrder, func() (Message, error) { return AdminNewOrderEmail(n.adminEmail, order) })
}

func (n *Notifier) PaymentStarted(input models.PaymentStartedInput) {
	n.schedule(KindAdminPayment, func() (Message, error) { return AdminPaymentStartedEmail(n.adminEmail, input) })
	n.schedule(KindCustomerPayment, func() (Message, error) { return CustomerPaymentStartedEmail(input) })
}

// SendTest delivers a message synchronously so the caller sees the outcome.
func (n *Notifier) SendTest(ctx context.Context, to string) error {
	return n.sender.Send(ctx, Message{
		To:      to,
		Subject: "MALABRO - test email",
		Body:    "<p>Email delivery is working.</p>",
		HTML:    true,
	})
}

func (n *Notifier) schedule(kind string, build func() (Message, error)) {
	n.dispatcher.Submit(kind, func(ctx context.Context) error {
		msg, err := build()
		if err != nil {
			return err
		}
		return n.sender.Send(ctx, msg)
	})
}
