package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/middleware"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func adminRouter(orders *fakeOrderRepo, users *fakeUserRepo) *gin.Engine {
	h := NewAdminHandler(orders, users)
	router := gin.New()
	admin := router.Group("/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware())
	admin.GET("/orders", h.ListOrders)
	admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
	admin.PUT("/users/:id/active", h.SetUserActive)
	return router
}

func TestUpdateOrderStatus(t *testing.T) {
	id := primitive.NewObjectID()
	orders := &fakeOrderRepo{placed: []models.Order{{ID: id, Status: models.StatusPending}}}
	router := adminRouter(orders, newFakeUserRepo())
	auth := bearer(t, utils.RoleAdmin)

	w := doJSON(router, http.MethodPut, "/admin/orders/"+id.Hex()+"/status", gin.H{"status": "paid", "payment_notes": "Wave ref 123"}, auth)
	require.Equal(t, http.StatusOK, w.Code)
	order := decode(t, w)["data"].(map[string]interface{})["order"].(map[string]interface{})
	assert.Equal(t, "paid", order["status"])

	w = doJSON(router, http.MethodPut, "/admin/orders/"+id.Hex()+"/status", gin.H{"status": "lost"}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPut, "/admin/orders/"+primitive.NewObjectID().Hex()+"/status", gin.H{"status": "shipped"}, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodPut, "/admin/orders/not-an-id/status", gin.H{"status": "shipped"}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListOrdersRejectsUnknownStatus(t *testing.T) {
	router := adminRouter(&fakeOrderRepo{}, newFakeUserRepo())

	w := doJSON(router, http.MethodGet, "/admin/orders?status=lost", nil, bearer(t, utils.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminCannotDeactivateSelf(t *testing.T) {
	router := adminRouter(&fakeOrderRepo{}, newFakeUserRepo())

	w := doJSON(router, http.MethodPut, "/admin/users/"+testUserID+"/active", gin.H{"is_active": false}, bearer(t, utils.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeactivatedAdminLosesAccess(t *testing.T) {
	actor, err := primitive.ObjectIDFromHex(testUserID)
	require.NoError(t, err)
	target := primitive.NewObjectID()
	users := newFakeUserRepo()
	users.byEmail["ada@example.com"] = models.User{ID: actor, Email: "ada@example.com", IsActive: true, IsAdmin: true}
	users.byEmail["bob@example.com"] = models.User{ID: target, Email: "bob@example.com", IsActive: true, IsAdmin: true}

	h := NewAdminHandler(&fakeOrderRepo{}, users)
	router := gin.New()
	admin := router.Group("/admin", middleware.AuthMiddleware(), middleware.ActiveUserMiddleware(users), middleware.AdminMiddleware())
	admin.GET("/whoami", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("userId")) })
	admin.PUT("/users/:id/active", h.SetUserActive)

	bobToken, err := utils.GenerateToken(target.Hex(), "bob@example.com", utils.RoleAdmin)
	require.NoError(t, err)
	bob := "Bearer " + bobToken
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodGet, "/admin/whoami", nil, bob).Code)

	w := doJSON(router, http.MethodPut, "/admin/users/"+target.Hex()+"/active", gin.H{"is_active": false}, bearer(t, utils.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusUnauthorized, doJSON(router, http.MethodGet, "/admin/whoami", nil, bob).Code)
}
