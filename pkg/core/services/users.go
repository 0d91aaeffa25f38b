package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/kitchen-rota/pkg/core/model"
	"github.com/jakechorley/kitchen-rota/pkg/db"
)

// UserStore defines the database operations needed for managing users
type UserStore interface {
	UserReader
	InsertUser(ctx context.Context, user *db.User) error
}

// AddUser creates a user with the given role names
func AddUser(ctx context.Context, database UserStore, logger *zap.Logger, firstName, lastName, phone string, roleNames []string) (*model.User, error) {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return nil, fmt.Errorf("first name is required")
	}

	roles := make([]model.Role, 0, len(roleNames))
	for _, name := range roleNames {
		role, err := model.ParseRole(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	user := model.User{
		ID:          uuid.New().String(),
		FirstName:   firstName,
		LastName:    strings.TrimSpace(lastName),
		PhoneNumber: strings.TrimSpace(phone),
		Roles:       roles,
	}

	record := db.FromModelUser(user)
	if err := database.InsertUser(ctx, &record); err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	logger.Info("User added", zap.String("id", user.ID), zap.String("name", user.DisplayName()))
	return &user, nil
}

// ListUsers returns the roster
func ListUsers(ctx context.Context, database UserReader, logger *zap.Logger) ([]model.User, error) {
	users, err := loadUsers(ctx, database, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("Listed users", zap.Int("count", len(users)))
	return users, nil
}
