package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/unusco/unus/internal/auth/password"
	"github.com/unusco/unus/internal/user/domain"
	"github.com/unusco/unus/pkg/apperr"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("user.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Signup(ctx context.Context, req domain.SignupRequest) (domain.User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, apperr.IllegalState("A valid email is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.User{}, apperr.IllegalState("Name must not be blank")
	}

	stored, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	if stored != nil {
		return domain.User{}, apperr.AlreadyExists(fmt.Sprintf("Email already present in database: %s", email))
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		BirthDate:    req.BirthDate,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, &user); err != nil {
		return domain.User{}, err
	}

	s.log.Info("user signed up", zap.String("email", email))

	return user, nil
}

func (s *Service) ResolveByEmail(ctx context.Context, email string) (domain.User, error) {
	stored, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	if stored == nil {
		return domain.User{}, apperr.NotFound(fmt.Sprintf("User not found: %s", email))
	}
	return *stored, nil
}

func (s *Service) RemoveAccount(ctx context.Context, email string) error {
	stored, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if stored == nil {
		return apperr.NotFound(fmt.Sprintf("User not found: %s", email))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteCascade(ctx, stored.ID)
	})
	if err != nil {
		return err
	}

	s.log.Info("account removed", zap.String("email", email))

	return nil
}
