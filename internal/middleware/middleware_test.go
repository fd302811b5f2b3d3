package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.ConfigureJWT("middleware-test-secret", time.Hour)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString("userId"), "role": c.GetString("role")})
	})
	router.GET("/", handlers...)
	return router
}

func do(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken("64b7f0c2a1b2c3d4e5f60718", "u@example.com", role)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthMiddleware(t *testing.T) {
	router := newRouter(AuthMiddleware())

	assert.Equal(t, http.StatusUnauthorized, do(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(router, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do(router, "Bearer garbage").Code)

	w := do(router, token(t, utils.RoleCustomer))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "64b7f0c2a1b2c3d4e5f60718")
}

func TestAdminMiddleware(t *testing.T) {
	router := newRouter(AuthMiddleware(), AdminMiddleware())

	assert.Equal(t, http.StatusUnauthorized, do(router, "").Code)
	assert.Equal(t, http.StatusForbidden, do(router, token(t, utils.RoleCustomer)).Code)
	assert.Equal(t, http.StatusOK, do(router, token(t, utils.RoleAdmin)).Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	router := newRouter(OptionalAuthMiddleware())

	anonymous := do(router, "")
	assert.Equal(t, http.StatusOK, anonymous.Code)
	assert.Contains(t, anonymous.Body.String(), `"userId":""`)

	assert.Equal(t, http.StatusOK, do(router, "Bearer garbage").Code)
	assert.Contains(t, do(router, token(t, utils.RoleCustomer)).Body.String(), "64b7f0c2a1b2c3d4e5f60718")
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(2, time.Minute)
	router := newRouter(limiter.Middleware())

	assert.Equal(t, http.StatusOK, do(router, "").Code)
	assert.Equal(t, http.StatusOK, do(router, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(router, "").Code)

	assert.True(t, limiter.Allow("10.0.0.9"))
}

type stubUsers map[primitive.ObjectID]models.User

func (s stubUsers) GetUserByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	u, ok := s[id]
	if !ok {
		return models.User{}, errors.New("not found")
	}
	return u, nil
}

func TestActiveUserMiddlewareUsesStoredAccount(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("64b7f0c2a1b2c3d4e5f60718")
	require.NoError(t, err)

	cases := []struct {
		name   string
		user   *models.User
		status int
	}{
		{"active admin", &models.User{ID: id, IsActive: true, IsAdmin: true}, http.StatusOK},
		{"deactivated admin", &models.User{ID: id, IsActive: false, IsAdmin: true}, http.StatusUnauthorized},
		{"demoted admin", &models.User{ID: id, IsActive: true, IsAdmin: false}, http.StatusForbidden},
		{"deleted account", nil, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := stubUsers{}
			if tc.user != nil {
				users[id] = *tc.user
			}
			router := newRouter(AuthMiddleware(), ActiveUserMiddleware(users), AdminMiddleware())

			assert.Equal(t, tc.status, do(router, token(t, utils.RoleAdmin)).Code)
		})
	}
}
