package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func authRouter(users *fakeUserRepo, notifier *fakeNotifier) *gin.Engine {
	h := NewAuthHandler(users, notifier)
	router := gin.New()
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	return router
}

func TestRegisterSchedulesWelcomeEmail(t *testing.T) {
	users := newFakeUserRepo()
	notifier := &fakeNotifier{}
	router := authRouter(users, notifier)

	w := doJSON(router, http.MethodPost, "/register", gin.H{
		"email":     "awa@example.com",
		"full_name": "Awa Diop",
		"password":  "secret1",
	}, "")

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, users.created, 1)
	assert.NotEqual(t, "secret1", users.created[0].HashedPassword)
	require.Len(t, notifier.registered, 1)
	assert.Equal(t, "awa@example.com", notifier.registered[0].Email)
	assert.NotContains(t, w.Body.String(), "hashed")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	users.byEmail["awa@example.com"] = models.User{Email: "awa@example.com"}
	notifier := &fakeNotifier{}
	router := authRouter(users, notifier)

	w := doJSON(router, http.MethodPost, "/register", gin.H{
		"email":     "awa@example.com",
		"full_name": "Awa Diop",
		"password":  "secret1",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", decode(t, w)["error"])
	assert.Empty(t, notifier.registered)
}

func TestRegisterValidation(t *testing.T) {
	router := authRouter(newFakeUserRepo(), &fakeNotifier{})

	w := doJSON(router, http.MethodPost, "/register", gin.H{"email": "not-an-email", "full_name": "A", "password": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	hashed, err := utils.HashPassword("secret1")
	require.NoError(t, err)

	users := newFakeUserRepo()
	users.byEmail["admin@example.com"] = models.User{
		ID:             primitive.NewObjectID(),
		Email:          "admin@example.com",
		HashedPassword: hashed,
		IsActive:       true,
		IsAdmin:        true,
	}
	users.byEmail["gone@example.com"] = models.User{
		ID:             primitive.NewObjectID(),
		Email:          "gone@example.com",
		HashedPassword: hashed,
	}
	router := authRouter(users, &fakeNotifier{})

	t.Run("valid credentials", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/login", gin.H{"email": "admin@example.com", "password": "secret1"}, "")
		require.Equal(t, http.StatusOK, w.Code)

		data := decode(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "bearer", data["token_type"])

		claims, err := utils.VerifyToken(data["access_token"].(string))
		require.NoError(t, err)
		assert.Equal(t, utils.RoleAdmin, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/login", gin.H{"email": "admin@example.com", "password": "nope"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/login", gin.H{"email": "who@example.com", "password": "secret1"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("inactive user", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/login", gin.H{"email": "gone@example.com", "password": "secret1"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
