package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/adapters/repository"
	"github.com/malabro/eshop-backend/internal/middleware"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func orderFixture() (*fakeProductRepo, primitive.ObjectID) {
	id := primitive.NewObjectID()
	products := &fakeProductRepo{products: map[primitive.ObjectID]models.Product{
		id: {ID: id, Name: "Tomatoes", Price: 1500, StockQuantity: 10, IsActive: true},
	}}
	return products, id
}

func orderRouter(orders *fakeOrderRepo, products *fakeProductRepo, notifier *fakeNotifier) *gin.Engine {
	h := NewOrderHandler(orders, products, notifier)
	router := gin.New()
	router.POST("/orders", middleware.OptionalAuthMiddleware(), h.CreateOrder)
	return router
}

func orderBody(productID primitive.ObjectID, qty int, price float64) gin.H {
	return gin.H{
		"customer_name":    "Moussa Ndiaye",
		"customer_email":   "Moussa@Example.com",
		"customer_phone":   "+221770000000",
		"shipping_address": "12 rue Carnot",
		"shipping_city":    "Dakar",
		"total_amount":     price * float64(qty),
		"items": []gin.H{{
			"product_id":    productID.Hex(),
			"quantity":      qty,
			"product_price": price,
		}},
	}
}

func TestCreateOrderAsGuest(t *testing.T) {
	products, id := orderFixture()
	orders := &fakeOrderRepo{}
	notifier := &fakeNotifier{}
	router := orderRouter(orders, products, notifier)

	w := doJSON(router, http.MethodPost, "/orders", orderBody(id, 3, 1500), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Len(t, orders.placed, 1)
	order := orders.placed[0]
	assert.Nil(t, order.UserID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.DefaultPaymentMethod, order.PaymentMethod)
	assert.Equal(t, models.DefaultShippingCountry, order.ShippingCountry)
	assert.Equal(t, "12 rue Carnot", order.BillingAddress)
	assert.Equal(t, "moussa@example.com", order.CustomerEmail)
	assert.Equal(t, 4500.0, order.TotalAmount)
	assert.Regexp(t, `^`+utils.OrderReferencePrefix+`[A-Z0-9]{6}$`, order.OrderReference)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "Tomatoes", order.Items[0].ProductName)
	assert.Equal(t, 4500.0, order.Items[0].Subtotal)

	require.Len(t, notifier.orders, 1)
	assert.Equal(t, order.OrderReference, notifier.orders[0].OrderReference)
}

func TestCreateOrderAttachesSignedInUser(t *testing.T) {
	products, id := orderFixture()
	orders := &fakeOrderRepo{}
	router := orderRouter(orders, products, &fakeNotifier{})

	w := doJSON(router, http.MethodPost, "/orders", orderBody(id, 1, 1500), bearer(t, utils.RoleCustomer))
	require.Equal(t, http.StatusCreated, w.Code)

	require.NotNil(t, orders.placed[0].UserID)
	assert.Equal(t, testUserID, orders.placed[0].UserID.Hex())
}

func TestCreateOrderRejections(t *testing.T) {
	products, id := orderFixture()

	cases := []struct {
		name   string
		body   gin.H
		status int
	}{
		{"price mismatch", orderBody(id, 1, 1400), http.StatusBadRequest},
		{"insufficient stock", orderBody(id, 11, 1500), http.StatusBadRequest},
		{"unknown product", orderBody(primitive.NewObjectID(), 1, 1500), http.StatusNotFound},
		{"no items", gin.H{"customer_name": "Moussa", "customer_email": "m@example.com", "customer_phone": "770000000",
			"shipping_address": "x", "shipping_city": "Dakar", "total_amount": 10, "items": []gin.H{}}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orders := &fakeOrderRepo{}
			notifier := &fakeNotifier{}
			w := doJSON(orderRouter(orders, products, notifier), http.MethodPost, "/orders", tc.body, "")
			assert.Equal(t, tc.status, w.Code)
			assert.Empty(t, orders.placed)
			assert.Empty(t, notifier.orders)
		})
	}
}

func TestCreateOrderRejectsForgedTotal(t *testing.T) {
	products, id := orderFixture()
	orders := &fakeOrderRepo{}
	notifier := &fakeNotifier{}

	body := orderBody(id, 3, 1500)
	body["total_amount"] = 1

	w := doJSON(orderRouter(orders, products, notifier), http.MethodPost, "/orders", body, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "4500.00")
	assert.Empty(t, orders.placed)
	assert.Empty(t, notifier.orders)
}

func TestCreateOrderStoresCatalogTotal(t *testing.T) {
	products, id := orderFixture()
	orders := &fakeOrderRepo{}

	body := orderBody(id, 3, 1500)
	body["total_amount"] = 4500.004

	w := doJSON(orderRouter(orders, products, &fakeNotifier{}), http.MethodPost, "/orders", body, "")

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 4500.0, orders.placed[0].TotalAmount)
}

func TestCreateOrderLosesStockRace(t *testing.T) {
	products, id := orderFixture()
	orders := &fakeOrderRepo{placeErr: fmt.Errorf("%w for Tomatoes", repository.ErrInsufficientStock)}
	notifier := &fakeNotifier{}

	w := doJSON(orderRouter(orders, products, notifier), http.MethodPost, "/orders", orderBody(id, 2, 1500), "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "Tomatoes")
	assert.Empty(t, notifier.orders)
}
