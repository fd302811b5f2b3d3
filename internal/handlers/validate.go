package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/malabro/eshop-backend/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// bindJSON decodes and validates the body, writing a 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request body"))
		return false
	}
	if err := validate.Struct(dst); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Validation failed: "+err.Error()))
		return false
	}
	return true
}

func objectIDParam(c *gin.Context, name, what string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid "+what+" ID"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentUserID returns the authenticated caller, or nil for anonymous requests.
func currentUserID(c *gin.Context) *primitive.ObjectID {
	raw, ok := c.Get("userId")
	if !ok {
		return nil
	}
	s, _ := raw.(string)
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil
	}
	return &id
}

func isAdmin(c *gin.Context) bool {
	return c.GetString("role") == utils.RoleAdmin
}

// pagination reads skip/limit with the given default and a hard cap.
func pagination(c *gin.Context, defaultLimit, maxLimit int64) (int64, int64) {
	skip, err := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.FormatInt(defaultLimit, 10)), 10, 64)
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit
}
