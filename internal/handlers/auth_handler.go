package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malabro/eshop-backend/internal/adapters/repository"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/utils"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	Users    repository.UserRepository
	Notifier Notifier
}

func NewAuthHandler(users repository.UserRepository, notifier Notifier) *AuthHandler {
	return &AuthHandler{Users: users, Notifier: notifier}
}

// Register creates a customer account and schedules the welcome email.
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to secure password"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	user, err := h.Users.CreateUser(ctx, models.User{
		Email:          input.Email,
		FullName:       input.FullName,
		HashedPassword: hashed,
		IsActive:       true,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Email already registered"))
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to create user")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to create user"))
		return
	}

	h.Notifier.UserRegistered(user)
	c.JSON(http.StatusCreated, utils.SuccessResponse("Registration successful", gin.H{"user": user}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	user, err := h.Users.GetUserByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch user"))
		return
	}
	if err != nil || !utils.CheckPassword(user.HashedPassword, input.Password) {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Incorrect email or password"))
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Inactive user"))
		return
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email, user.Role())
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to issue token"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Login successful", gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	}))
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid or missing token"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	user, err := h.Users.GetUserByID(ctx, *userID)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("User not found"))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("User fetched successfully", gin.H{"user": user}))
}
