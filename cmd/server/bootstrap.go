package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/malabro/eshop-backend/internal/adapters/repository"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/malabro/eshop-backend/utils"
	"github.com/sirupsen/logrus"
)

// ensureSuperuser creates the first administrator account if it does not exist.
func ensureSuperuser(ctx context.Context, users repository.UserRepository, email, password string) error {
	if email == "" || password == "" {
		logrus.Debug("FIRST_SUPERUSER_PASSWORD not set, skipping superuser bootstrap")
		return nil
	}

	_, err := users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("look up superuser: %w", err)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	user, err := users.CreateUser(ctx, models.User{
		Email:          email,
		FullName:       "Administrator",
		HashedPassword: hashed,
		IsActive:       true,
		IsAdmin:        true,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create superuser: %w", err)
	}
	logrus.WithField("email", user.Email).Info("Superuser created")
	return nil
}
