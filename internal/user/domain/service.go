package domain

import (
	"context"
	"time"
)

type SignupRequest struct {
	Email     string
	Password  string
	Name      string
	BirthDate *time.Time
}

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (User, error)
	// ResolveByEmail maps an authenticated principal's email to its user record.
	ResolveByEmail(ctx context.Context, email string) (User, error)
	RemoveAccount(ctx context.Context, email string) error
}
