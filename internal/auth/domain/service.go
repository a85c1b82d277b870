package domain

import "context"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type Service interface {
	// Login verifies the credentials and returns a signed bearer token.
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)

	// Authenticate resolves a bearer token back to the principal's email.
	Authenticate(ctx context.Context, token string) (string, error)
}
