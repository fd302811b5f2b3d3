package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/adapters/repository"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/utils"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.ConfigureJWT("handlers-test-secret", time.Hour)
}

const testUserID = "64b7f0c2a1b2c3d4e5f60718"

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(testUserID, "someone@example.com", role)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doJSON(router *gin.Engine, method, path string, body interface{}, auth string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type fakeNotifier struct {
	mu         sync.Mutex
	registered []models.User
	orders     []models.Order
	payments   []models.PaymentStartedInput
	testTo     []string
	testErr    error
}

func (f *fakeNotifier) UserRegistered(user models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, user)
}

func (f *fakeNotifier) OrderCreated(order models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, order)
}

func (f *fakeNotifier) PaymentStarted(input models.PaymentStartedInput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments = append(f.payments, input)
}

func (f *fakeNotifier) SendTest(_ context.Context, to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.testTo = append(f.testTo, to)
	return f.testErr
}

// Fakes embed the repository interface; calling a method that is not
// overridden panics, which flags unexpected data access in a test.

type fakeUserRepo struct {
	repository.UserRepository
	byEmail map[string]models.User
	created []models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]models.User{}}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user models.User) (models.User, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return models.User{}, repository.ErrDuplicate
	}
	user.ID = primitive.NewObjectID()
	f.byEmail[user.Email] = user
	f.created = append(f.created, user)
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (f *fakeUserRepo) SetUserActive(_ context.Context, id primitive.ObjectID, active bool) (models.User, error) {
	for email, user := range f.byEmail {
		if user.ID == id {
			user.IsActive = active
			f.byEmail[email] = user
			return user, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

type fakeProductRepo struct {
	repository.ProductRepository
	products map[primitive.ObjectID]models.Product
}

func (f *fakeProductRepo) GetProduct(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, repository.ErrNotFound
	}
	return p, nil
}

type fakeOrderRepo struct {
	repository.OrderRepository
	placed   []models.Order
	placeErr error
}

func (f *fakeOrderRepo) PlaceOrder(_ context.Context, order models.Order) (models.Order, error) {
	if f.placeErr != nil {
		return models.Order{}, f.placeErr
	}
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now().UTC()
	f.placed = append(f.placed, order)
	return order, nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus, notes string) (models.Order, error) {
	for _, o := range f.placed {
		if o.ID == id {
			o.Status = status
			o.PaymentNotes = notes
			return o, nil
		}
	}
	return models.Order{}, repository.ErrNotFound
}

func (f *fakeOrderRepo) MarkOrderPaid(_ context.Context, id primitive.ObjectID, paymentID string) (bool, error) {
	for i := range f.placed {
		if f.placed[i].ID == id && f.placed[i].Status == models.StatusPending {
			f.placed[i].Status = models.StatusPaid
			f.placed[i].PaymentID = paymentID
			return true, nil
		}
	}
	return false, nil
}
