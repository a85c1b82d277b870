package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/unusco/unus/internal/group/domain"
	spacedomain "github.com/unusco/unus/internal/space/domain"
	userdomain "github.com/unusco/unus/internal/user/domain"
	"github.com/unusco/unus/pkg/apperr"
	"github.com/unusco/unus/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Spaces spacedomain.Repository
	Users  userdomain.Repository
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	spaces spacedomain.Repository
	users  userdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("group.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		spaces: p.Spaces,
		users:  p.Users,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateGroupRequest, email string) (domain.Group, error) {
	space, err := s.spaces.FindByCode(ctx, req.SpaceCode)
	if err != nil {
		return domain.Group{}, err
	}
	if space == nil {
		return domain.Group{}, apperr.NotFound("Space was not found")
	}

	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return domain.Group{}, err
	}

	if space.AdminID != user.ID {
		isMember, err := s.spaces.IsMember(ctx, space.ID, user.ID)
		if err != nil {
			return domain.Group{}, err
		}
		if !isMember {
			return domain.Group{}, apperr.IllegalState("User is not in the space")
		}
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.NameExistsInSpace(ctx, space.ID, name)
	if err != nil {
		return domain.Group{}, err
	}
	if exists {
		return domain.Group{}, apperr.AlreadyExists("Group name already exists in space.")
	}

	group := domain.Group{
		ID:        s.genID.Generate(),
		SpaceID:   space.ID,
		Name:      name,
		IsOpen:    req.IsOpen,
		AdminID:   user.ID,
		CreatedAt: time.Now().UTC(),
	}

	// The unique index on (space_id, name) settles concurrent creates.
	if err := s.repo.Insert(ctx, &group); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Group{}, apperr.AlreadyExists("Group name already exists in space.")
		}
		return domain.Group{}, err
	}

	s.log.Info("group created",
		zap.String("space", req.SpaceCode),
		zap.String("name", name),
		zap.String("admin", email),
	)

	return group, nil
}

func (s *Service) Remove(ctx context.Context, id snowflake.ID, email string) error {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if group == nil {
		return apperr.NotFound("Group was not found")
	}

	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return err
	}

	if group.AdminID != user.ID {
		space, err := s.spaces.FindByID(ctx, group.SpaceID)
		if err != nil {
			return err
		}
		if space == nil || space.AdminID != user.ID {
			return apperr.IllegalState("Only the admin should remove the group")
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteCascade(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("group removed", zap.Int64("group_id", int64(id)))

	return nil
}

func (s *Service) HasGroupInSpace(ctx context.Context, code, email string) (bool, error) {
	space, err := s.spaces.FindByCode(ctx, code)
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
	return s.repo.HasGroupInSpace(ctx, space.ID, user.ID)
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
