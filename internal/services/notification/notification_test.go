package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/malabro/eshop-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *recordingSender) messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

func drain(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))
}

func TestSubmitDoesNotBlockCaller(t *testing.T) {
	d := NewDispatcher(time.Second)
	release := make(chan struct{})

	start := time.Now()
	accepted := d.Submit("slow", func(ctx context.Context) error {
		<-release
		return nil
	})
	assert.True(t, accepted)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	close(release)
	drain(t, d)
}

func TestFailedTaskIsSwallowed(t *testing.T) {
	d := NewDispatcher(time.Second)
	var ran sync.WaitGroup
	ran.Add(1)

	d.Submit("broken", func(ctx context.Context) error {
		defer ran.Done()
		return errors.New("smtp: connection refused")
	})
	ran.Wait()

	assert.True(t, d.Submit("next", func(ctx context.Context) error { return nil }))
	drain(t, d)
}

func TestPanickingTaskIsRecovered(t *testing.T) {
	d := NewDispatcher(time.Second)
	d.Submit("panics", func(ctx context.Context) error { panic("boom") })
	drain(t, d)
}

func TestTaskContextOutlivesCaller(t *testing.T) {
	d := NewDispatcher(time.Second)
	reqCtx, cancel := context.WithCancel(context.Background())

	result := make(chan error, 1)
	d.Submit("detached", func(ctx context.Context) error {
		<-reqCtx.Done()
		result <- ctx.Err()
		return nil
	})
	cancel()

	assert.NoError(t, <-result)
	drain(t, d)
}

func TestShutdownRejectsNewTasks(t *testing.T) {
	d := NewDispatcher(time.Second)
	drain(t, d)

	assert.False(t, d.Submit("late", func(ctx context.Context) error { return nil }))
}

func TestShutdownHonoursDeadline(t *testing.T) {
	d := NewDispatcher(time.Minute)
	release := make(chan struct{})
	defer close(release)
	d.Submit("stuck", func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Shutdown(ctx), context.DeadlineExceeded)
}

func TestNotifierPaymentStartedSendsTwoEmails(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(time.Second)
	n := NewNotifier(d, sender, "admin@malabro.com")

	n.PaymentStarted(models.PaymentStartedInput{
		OrderReference: "MALABRO-ABC123",
		CustomerName:   "Awa",
		CustomerEmail:  "awa@example.com",
		CustomerPhone:  "+221770000000",
		TotalAmount:    12500,
		PaymentMethod:  "wave",
	})
	drain(t, d)

	sent := sender.messages()
	require.Len(t, sent, 2)
	recipients := []string{sent[0].To, sent[1].To}
	assert.ElementsMatch(t, []string{"admin@malabro.com", "awa@example.com"}, recipients)
	for _, msg := range sent {
		assert.True(t, msg.HTML)
		assert.Contains(t, msg.Subject, "MALABRO-ABC123")
		assert.Contains(t, msg.Body, "12500 FCFA")
	}
}

func TestNotifierFailureDoesNotSurface(t *testing.T) {
	sender := &recordingSender{err: errors.New("relay down")}
	d := NewDispatcher(time.Second)
	n := NewNotifier(d, sender, "admin@malabro.com")

	n.UserRegistered(models.User{Email: "new@example.com", FullName: "New User"})
	drain(t, d)

	require.Len(t, sender.messages(), 1)
}

func TestNotifierSendTestIsSynchronous(t *testing.T) {
	sender := &recordingSender{err: ErrNotConfigured}
	n := NewNotifier(NewDispatcher(time.Second), sender, "admin@malabro.com")

	err := n.SendTest(context.Background(), "ops@example.com")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Len(t, sender.messages(), 1)
}

func TestAdminNewOrderEmail(t *testing.T) {
	order := models.Order{
		ID:              primitive.NewObjectID(),
		OrderReference:  "MALABRO-XYZ789",
		CustomerName:    "Moussa <script>",
		CustomerEmail:   "moussa@example.com",
		ShippingAddress: "Rue 10",
		ShippingCity:    "Dakar",
		ShippingCountry: models.DefaultShippingCountry,
		TotalAmount:     4500,
		Items: []models.OrderItem{
			{ProductName: "Tomatoes", Quantity: 3, ProductPrice: 1500, Subtotal: 4500},
		},
	}

	msg, err := AdminNewOrderEmail("admin@malabro.com", order)
	require.NoError(t, err)
	assert.Equal(t, "admin@malabro.com", msg.To)
	assert.Contains(t, msg.Body, "Tomatoes")
	assert.Contains(t, msg.Body, "4500 FCFA")
	assert.NotContains(t, msg.Body, "<script>")
}

func TestSMTPSenderWithoutCredentials(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example", Port: 587})
	err := s.Send(context.Background(), Message{To: "x@example.com"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
