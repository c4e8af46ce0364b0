package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jonboulle/clockwork"

	"github.com/mdblp/shape-logs/common"
	"github.com/mdblp/shape-logs/schema"
)

// UsersUseCase manages the profile of the authenticated user
type UsersUseCase struct {
	logger     *log.Logger
	repository UserRepository
	clock      clockwork.Clock
}

func NewUsersUseCase(logger *log.Logger, repository UserRepository, clock clockwork.Clock) *UsersUseCase {
	return &UsersUseCase{
		logger:     logger,
		repository: repository,
		clock:      clock,
	}
}

func notFound(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// GetUser returns the user with its settings
func (u *UsersUseCase) GetUser(ctx context.Context, userID string) (*schema.User, error) {
	user, err := u.repository.GetUser(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

// Provision creates the user on its first visit.
// The boolean is true when the user has been created by this call.
func (u *UsersUseCase) Provision(ctx context.Context, userID string, name string, email string) (*schema.User, bool, error) {
	existing, err := u.repository.GetUser(ctx, userID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}
	now := u.clock.Now().UTC()
	user := &schema.User{
		ID:            userID,
		Name:          name,
		Email:         email,
		ActivityLevel: schema.DefaultActivityLevel,
		Settings:      schema.DefaultSettings(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := u.repository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			// a concurrent first visit won the insert
			existing, err := u.repository.GetUser(ctx, userID)
			if err != nil {
				return nil, false, fmt.Errorf("read provisioned user: %w", err)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	u.logger.Printf("user %s provisioned", userID)
	return user, true, nil
}

// UpdateUser validates the update, then saves the profile and the settings together
func (u *UsersUseCase) UpdateUser(ctx context.Context, userID string, update *schema.ProfileUpdate) (*schema.User, error) {
	if err := validate.StructCtx(ctx, update); err != nil {
		return nil, validationError(err)
	}
	user, err := u.repository.UpdateUser(ctx, userID, update, u.clock.Now().UTC())
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

// DeleteUser removes the user and everything it owns
func (u *UsersUseCase) DeleteUser(ctx context.Context, userID string) error {
	if err := u.repository.DeleteUser(ctx, userID); err != nil {
		return notFound(err)
	}
	u.logger.Printf("user %s deleted", userID)
	return nil
}
