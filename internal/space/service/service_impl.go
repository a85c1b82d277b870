package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/unusco/unus/internal/space/domain"
	userdomain "github.com/unusco/unus/internal/user/domain"
	"github.com/unusco/unus/pkg/apperr"
	"github.com/unusco/unus/pkg/codegen"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	codeLength      = 8
	maxCodeAttempts = 32
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Users userdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	users userdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("space.service"),
		genID: p.GenID,
		repo:  p.Repo,
		users: p.Users,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateSpaceRequest, adminEmail string) (domain.Space, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Space{}, apperr.IllegalState("Space name must not be blank")
	}

	admin, err := s.resolveUser(ctx, adminEmail)
	if err != nil {
		return domain.Space{}, err
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return domain.Space{}, err
	}

	space := domain.Space{
		ID:        s.genID.Generate(),
		Code:      code,
		Name:      name,
		IsPublic:  req.IsPublic,
		AdminID:   admin.ID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, &space); err != nil {
		return domain.Space{}, err
	}

	s.log.Info("space created", zap.String("code", code), zap.String("admin", adminEmail))

	return space, nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (domain.Space, error) {
	space, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return domain.Space{}, err
	}
	if space == nil {
		return domain.Space{}, apperr.NotFound(fmt.Sprintf("Space with code %s was not found.", code))
	}
	return *space, nil
}

func (s *Service) Join(ctx context.Context, code, email string) (domain.Space, error) {
	space, err := s.GetByCode(ctx, code)
	if err != nil {
		return domain.Space{}, err
	}
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return domain.Space{}, err
	}

	if space.AdminID == user.ID {
		return domain.Space{}, apperr.IllegalState("User is already the space admin.")
	}

	isMember, err := s.repo.IsMember(ctx, space.ID, user.ID)
	if err != nil {
		return domain.Space{}, err
	}
	if isMember {
		return space, nil
	}

	member := domain.SpaceMember{
		ID:        s.genID.Generate(),
		SpaceID:   space.ID,
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AddMember(ctx, &member); err != nil {
		return domain.Space{}, err
	}

	return space, nil
}

func (s *Service) Leave(ctx context.Context, code, email string) error {
	space, err := s.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return err
	}

	if space.AdminID == user.ID {
		return apperr.IllegalState("The admin can not leave the space, delete it instead")
	}

	isMember, err := s.repo.IsMember(ctx, space.ID, user.ID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperr.IllegalState("Only a member of the space can leave it")
	}

	return s.repo.RemoveMember(ctx, space.ID, user.ID)
}

func (s *Service) Remove(ctx context.Context, code, email string) error {
	space, err := s.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return err
	}

	if space.AdminID != user.ID {
		return apperr.IllegalState("Only the admin can remove the space")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteCascade(ctx, space.ID)
	})
	if err != nil {
		return err
	}

	s.log.Info("space removed", zap.String("code", code))

	return nil
}

func (s *Service) ListMembers(ctx context.Context, code, email string) ([]domain.MemberSummary, error) {
	space, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return nil, err
	}

	if space.AdminID != user.ID {
		isMember, err := s.repo.IsMember(ctx, space.ID, user.ID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, apperr.IllegalState("Only a member can see other space members")
		}
	}

	return s.repo.ListMembers(ctx, space.ID)
}

func (s *Service) IsMember(ctx context.Context, code, email string) (bool, error) {
	space, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return false, err
	}
	if space == nil {
		return false, nil
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return s.repo.IsMember(ctx, space.ID, user.ID)
}

func (s *Service) resolveUser(ctx context.Context, email string) (*userdomain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound(fmt.Sprintf("User not found: %s", email))
	}
	return user, nil
}

// uniqueCode retries generation until the repository reports the candidate
// unused. The attempt budget keeps a saturated code space from looping
// forever.
func (s *Service) uniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := codegen.Generate(codeLength)
		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate an unused space code after %d attempts", maxCodeAttempts)
}
