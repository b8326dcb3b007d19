// Package firebase adapts the Firebase Admin SDK to the identity operations
// the account flows need.
package firebase

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/odhiyaty/odhiyaty/internal/domain"
)

// authClient is the part of *auth.Client used here.
type authClient interface {
	GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
}

// Identity manages accounts in Firebase Authentication.
type Identity struct {
	client     authClient
	isNotFound func(error) bool
}

// NewIdentity initialises the Admin SDK with a service account key file.
func NewIdentity(ctx context.Context, projectID string, creds []byte) (*Identity, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}
	return &Identity{client: client, isNotFound: auth.IsUserNotFound}, nil
}

// LookupByEmail returns the account for email. An unknown email is not an error.
func (i *Identity) LookupByEmail(ctx context.Context, email string) (domain.Identity, bool, error) {
	u, err := i.client.GetUserByEmail(ctx, email)
	if err != nil {
		if i.isNotFound(err) {
			return domain.Identity{}, false, nil
		}
		return domain.Identity{}, false, fmt.Errorf("get user by email: %w", err)
	}
	return toIdentity(u), true, nil
}

// Create adds a verified account.
func (i *Identity) Create(ctx context.Context, email, password string) (domain.Identity, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		EmailVerified(true)
	u, err := i.client.CreateUser(ctx, params)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("create user: %w", err)
	}
	return toIdentity(u), nil
}

// UpdatePassword sets a new password for uid.
func (i *Identity) UpdatePassword(ctx context.Context, uid, password string) error {
	if _, err := i.client.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).Password(password)); err != nil {
		return fmt.Errorf("update password %s: %w", uid, err)
	}
	return nil
}

// Delete removes uid. Unknown accounts are not an error.
func (i *Identity) Delete(ctx context.Context, uid string) error {
	if err := i.client.DeleteUser(ctx, uid); err != nil {
		if i.isNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete user %s: %w", uid, err)
	}
	return nil
}

func toIdentity(u *auth.UserRecord) domain.Identity {
	if u == nil || u.UserInfo == nil {
		return domain.Identity{}
	}
	return domain.Identity{UID: u.UID, Email: u.Email, EmailVerified: u.EmailVerified}
}
