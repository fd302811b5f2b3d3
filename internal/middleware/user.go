package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserLookup interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// ActiveUserMiddleware reloads the token's user and replaces the role claim with
// the stored one. Deactivated or deleted accounts are rejected even while their
// token is still valid. Must run after AuthMiddleware.
func ActiveUserMiddleware(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.GetString("userId"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse("invalid token"))
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := users.GetUserByID(ctx, id)
		if err != nil {
			logrus.WithError(err).WithField("userId", id.Hex()).Warn("Token user could not be loaded")
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse("User not found"))
			c.Abort()
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Inactive user"))
			c.Abort()
			return
		}

		c.Set("email", user.Email)
		c.Set("role", user.Role())
		c.Next()
	}
}
