package service

import (
	"context"

	"github.com/unusco/unus/internal/auth/domain"
	"github.com/unusco/unus/internal/auth/password"
	"github.com/unusco/unus/internal/auth/token"
	userdomain "github.com/unusco/unus/internal/user/domain"
	"github.com/unusco/unus/pkg/apperr"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Issuer *token.Issuer
	Users  userdomain.Repository
}

type Service struct {
	log    *zap.Logger
	issuer *token.Issuer
	users  userdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:    p.Log.Named("auth.service"),
		issuer: p.Issuer,
		users:  p.Users,
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		// A single message for both cases keeps valid emails unguessable.
		return domain.LoginResponse{}, apperr.IllegalState("Invalid credentials")
	}

	signed, err := s.issuer.Issue(user.Email)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	s.log.Info("user logged in", zap.String("email", user.Email))

	return domain.LoginResponse{Token: signed}, nil
}

func (s *Service) Authenticate(ctx context.Context, raw string) (string, error) {
	email, err := s.issuer.Parse(raw)
	if err != nil {
		return "", err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", token.ErrInvalidToken
	}
	return user.Email, nil
}
