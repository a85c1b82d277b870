package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	groupdomain "github.com/unusco/unus/internal/group/domain"
	"github.com/unusco/unus/internal/invitation/domain"
	spacedomain "github.com/unusco/unus/internal/space/domain"
	userdomain "github.com/unusco/unus/internal/user/domain"
	"github.com/unusco/unus/pkg/apperr"
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
	Groups groupdomain.Repository
	Spaces spacedomain.Repository
	Users  userdomain.Repository
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	groups groupdomain.Repository
	spaces spacedomain.Repository
	users  userdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("invitation.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		groups: p.Groups,
		spaces: p.Spaces,
		users:  p.Users,
	}
}

func (s *Service) Invite(ctx context.Context, req domain.InviteRequest, email string) (domain.Invitation, error) {
	if req.SourceEmail != email {
		return domain.Invitation{}, apperr.IllegalState("The source must be the authenticated user")
	}
	if req.SourceEmail == req.TargetEmail {
		return domain.Invitation{}, apperr.IllegalState("The source and target must be different")
	}

	source, err := s.findUser(ctx, req.SourceEmail, "Source user was not found")
	if err != nil {
		return domain.Invitation{}, err
	}
	target, err := s.findUser(ctx, req.TargetEmail, "Target user was not found")
	if err != nil {
		return domain.Invitation{}, err
	}

	group, err := s.groups.FindByID(ctx, req.GroupID)
	if err != nil {
		return domain.Invitation{}, err
	}
	if group == nil {
		return domain.Invitation{}, apperr.NotFound("Group was not found")
	}

	space, err := s.spaces.FindByID(ctx, group.SpaceID)
	if err != nil {
		return domain.Invitation{}, err
	}
	if space == nil {
		return domain.Invitation{}, apperr.NotFound("Space was not found")
	}

	if err := s.requireInSpace(ctx, space, source.ID, "Source is not a member of the space"); err != nil {
		return domain.Invitation{}, err
	}
	if err := s.requireInSpace(ctx, space, target.ID, "Target is not a member of the space"); err != nil {
		return domain.Invitation{}, err
	}

	sourceIsAdmin := group.AdminID == source.ID
	if err := s.checkCombination(ctx, s.groups, group, space, source.ID, target.ID); err != nil {
		return domain.Invitation{}, err
	}

	invitation := domain.Invitation{
		ID:          s.genID.Generate(),
		GroupID:     group.ID,
		SourceID:    source.ID,
		TargetID:    target.ID,
		SentByAdmin: sourceIsAdmin,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, &invitation); err != nil {
		return domain.Invitation{}, err
	}

	s.log.Info("invitation proposed",
		zap.Int64("group_id", int64(group.ID)),
		zap.String("source", req.SourceEmail),
		zap.String("target", req.TargetEmail),
	)

	return invitation, nil
}

func (s *Service) Remove(ctx context.Context, id snowflake.ID, email string) (domain.Invitation, error) {
	invitation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Invitation{}, err
	}
	if invitation == nil {
		return domain.Invitation{}, apperr.NotFound("Invitation was not found")
	}

	user, err := s.findUser(ctx, email, "User was not found")
	if err != nil {
		return domain.Invitation{}, err
	}
	if user.ID != invitation.SourceID && user.ID != invitation.TargetID {
		return domain.Invitation{}, apperr.IllegalState("User should be the source or target of invitation")
	}

	rows, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return domain.Invitation{}, err
	}
	if rows == 0 {
		// A concurrent withdraw or accept got there first.
		return domain.Invitation{}, apperr.NotFound("Invitation was not found")
	}

	s.log.Info("invitation withdrawn", zap.Int64("invitation_id", int64(id)))

	return *invitation, nil
}

func (s *Service) Accept(ctx context.Context, id snowflake.ID, email string) error {
	invitation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if invitation == nil {
		return apperr.NotFound("Invitation was not found")
	}

	user, err := s.findUser(ctx, email, "User was not found")
	if err != nil {
		return err
	}
	if user.ID != invitation.TargetID {
		return apperr.IllegalState("User should be the target of invitation")
	}

	// Either side may have joined or left a group since the proposal, so
	// the combination is validated again on the transaction's snapshot.
	// The group row is locked so accepts against the same group serialize.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		groups := s.groups.WithTx(tx)

		group, err := groups.FindByIDLocked(ctx, invitation.GroupID)
		if err != nil {
			return err
		}
		if group == nil {
			return apperr.NotFound("Group was not found")
		}

		space, err := s.spaces.WithTx(tx).FindByID(ctx, group.SpaceID)
		if err != nil {
			return err
		}
		if space == nil {
			return apperr.NotFound("Space was not found")
		}

		if err := s.checkCombination(ctx, groups, group, space, invitation.SourceID, invitation.TargetID); err != nil {
			return err
		}

		rows, err := s.repo.WithTx(tx).DeleteByID(ctx, id)
		if err != nil {
			return err
		}
		if rows == 0 {
			// The invitation was withdrawn between the initial read and
			// this transaction. Nothing to accept.
			return apperr.NotFound("Invitation was not found")
		}

		joiningID := invitation.TargetID
		if group.AdminID == invitation.TargetID {
			joiningID = invitation.SourceID
		}

		member := groupdomain.GroupMember{
			ID:        s.genID.Generate(),
			GroupID:   group.ID,
			UserID:    joiningID,
			CreatedAt: time.Now().UTC(),
		}
		return groups.AddMember(ctx, &member)
	})
	if err != nil {
		return err
	}

	s.log.Info("invitation accepted", zap.Int64("invitation_id", int64(id)))

	return nil
}

func (s *Service) findUser(ctx context.Context, email, message string) (*userdomain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound(message)
	}
	return user, nil
}

// requireInSpace counts the space admin as belonging to the space.
func (s *Service) requireInSpace(ctx context.Context, space *spacedomain.Space, userID snowflake.ID, message string) error {
	if space.AdminID == userID {
		return nil
	}
	isMember, err := s.spaces.IsMember(ctx, space.ID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperr.IllegalState(message)
	}
	return nil
}

func (s *Service) checkCombination(
	ctx context.Context,
	groups groupdomain.Repository,
	group *groupdomain.Group,
	space *spacedomain.Space,
	sourceID, targetID snowflake.ID,
) error {
	sourceHasGroup, err := groups.HasGroupInSpace(ctx, space.ID, sourceID)
	if err != nil {
		return err
	}
	targetHasGroup, err := groups.HasGroupInSpace(ctx, space.ID, targetID)
	if err != nil {
		return err
	}

	sourceIsAdmin := group.AdminID == sourceID
	targetIsAdmin := group.AdminID == targetID
	if !domain.ValidCombination(sourceIsAdmin, targetIsAdmin, sourceHasGroup, targetHasGroup) {
		return apperr.IllegalState("Either the source is the group admin and the target is outside, or vice-versa")
	}
	return nil
}
