package authentication

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"playlist-courses-backend/models/users"
)

// Identity is what an identity provider tells us about a user. Email must
// have been verified by the provider.
type Identity struct {
	Subject  string
	Email    string
	Name     string
	Picture  string
	Provider string
}

// ProvisionUser returns the user known under the identity's provider and
// subject, else the user with the identity's email, creating it on first
// sign-in.
func ProvisionUser(ctx context.Context, db *gorm.DB, id Identity) (*users.User, error) {
	if id.Email == "" {
		return nil, errors.New("identity without email")
	}
	db = db.WithContext(ctx)

	user, err := findUser(db, id)
	if err != nil || user != nil {
		return user, err
	}

	user = &users.User{
		Email:    id.Email,
		Name:     id.Name,
		Picture:  id.Picture,
		Provider: id.Provider,
		Subject:  id.Subject,
	}
	if err := db.Create(user).Error; err != nil {
		// A concurrent first sign-in may have created the row meanwhile.
		existing, findErr := findUser(db, id)
		if findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("create user %s: %w", id.Email, err)
	}
	log.Printf("[auth] provisioned user %d (%s) via %s", user.ID, user.Email, id.Provider)
	return user, nil
}

// findUser returns nil, nil when no user matches.
func findUser(db *gorm.DB, id Identity) (*users.User, error) {
	var user users.User
	if id.Subject != "" {
		err := db.Where("provider = ? AND subject = ?", id.Provider, id.Subject).First(&user).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find user %s/%s: %w", id.Provider, id.Subject, err)
		}
	}

	err := db.Where("email = ?", id.Email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, fmt.Errorf("find user %s: %w", id.Email, err)
}
