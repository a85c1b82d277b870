package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	groupdomain "github.com/unusco/unus/internal/group/domain"
	grouprepo "github.com/unusco/unus/internal/group/repository"
	"github.com/unusco/unus/internal/invitation/domain"
	"github.com/unusco/unus/internal/invitation/repository"
	spacedomain "github.com/unusco/unus/internal/space/domain"
	spacerepo "github.com/unusco/unus/internal/space/repository"
	userdomain "github.com/unusco/unus/internal/user/domain"
	userrepo "github.com/unusco/unus/internal/user/repository"
	"github.com/unusco/unus/pkg/apperr"
	dbpkg "github.com/unusco/unus/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type invitationFixture struct {
	svc    domain.Service
	conn   *gorm.DB
	node   *snowflake.Node
	users  userdomain.Repository
	spaces spacedomain.Repository
	groups groupdomain.Repository
}

func setupInvitationService(t *testing.T) *invitationFixture {
	t.Helper()

	conn, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&userdomain.User{},
		&spacedomain.Space{},
		&spacedomain.SpaceMember{},
		&groupdomain.Group{},
		&groupdomain.GroupMember{},
		&domain.Invitation{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	users := userrepo.Provide(conn)
	spaces := spacerepo.Provide(conn)
	groups := grouprepo.Provide(conn)
	svc := New(Params{
		DB:     conn,
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   repository.Provide(conn),
		Groups: groups,
		Spaces: spaces,
		Users:  users,
	})
	return &invitationFixture{svc: svc, conn: conn, node: node, users: users, spaces: spaces, groups: groups}
}

func (f *invitationFixture) createUser(t *testing.T, email, name string) userdomain.User {
	t.Helper()
	user := userdomain.User{
		ID:           f.node.Generate(),
		Email:        email,
		PasswordHash: "hash",
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, f.users.Insert(context.Background(), &user))
	return user
}

func (f *invitationFixture) createSpace(t *testing.T, code string, admin userdomain.User) spacedomain.Space {
	t.Helper()
	space := spacedomain.Space{
		ID:        f.node.Generate(),
		Code:      code,
		Name:      "random",
		AdminID:   admin.ID,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.spaces.Insert(context.Background(), &space))
	return space
}

func (f *invitationFixture) addSpaceMember(t *testing.T, space spacedomain.Space, user userdomain.User) {
	t.Helper()
	require.NoError(t, f.spaces.AddMember(context.Background(), &spacedomain.SpaceMember{
		ID:        f.node.Generate(),
		SpaceID:   space.ID,
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	}))
}

func (f *invitationFixture) createGroup(t *testing.T, space spacedomain.Space, admin userdomain.User, name string) groupdomain.Group {
	t.Helper()
	group := groupdomain.Group{
		ID:        f.node.Generate(),
		SpaceID:   space.ID,
		Name:      name,
		AdminID:   admin.ID,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.groups.Insert(context.Background(), &group))
	return group
}

// standard cast: a space admin, a group admin who is a space member, and a
// plain member without any group.
func (f *invitationFixture) standardSetup(t *testing.T) (spacedomain.Space, groupdomain.Group, userdomain.User, userdomain.User) {
	spaceAdmin := f.createUser(t, "admin@admin.com", "admin")
	groupAdmin := f.createUser(t, "group@admin.com", "groupadmin")
	member := f.createUser(t, "member@member.com", "member")
	space := f.createSpace(t, "abcd1234", spaceAdmin)
	f.addSpaceMember(t, space, groupAdmin)
	f.addSpaceMember(t, space, member)
	group := f.createGroup(t, space, groupAdmin, "study")
	return space, group, groupAdmin, member
}

func TestInviteByGroupAdminAndAccept(t *testing.T) {
	f := setupInvitationService(t)
	ctx := context.Background()
	_, group, groupAdmin, member := f.standardSetup(t)

	invitation, err := f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: groupAdmin.Email,
		TargetEmail: member.Email,
		GroupID:     group.ID,
	}, groupAdmin.Email)
	require.NoError(t, err)
	assert.True(t, invitation.SentByAdmin)

	require.NoError(t, f.svc.Accept(ctx, invitation.ID, member.Email))

	isMember, err := f.groups.IsGroupMember(ctx, group.ID, member.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	stored, err := repository.Provide(f.conn).FindByID(ctx, invitation.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestInviteGroupAdminAndAccept(t *testing.T) {
	f := setupInvitationService(t)
	ctx := context.Background()
	_, group, groupAdmin, member := f.standardSetup(t)

	// The member asks the admin to be pulled into the group.
	invitation, err := f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: member.Email,
		TargetEmail: groupAdmin.Email,
		GroupID:     group.ID,
	}, member.Email)
	require.NoError(t, err)
	assert.False(t, invitation.SentByAdmin)

	require.NoError(t, f.svc.Accept(ctx, invitation.ID, groupAdmin.Email))

	// The non-admin party joins, not the admin.
	isMember, err := f.groups.IsGroupMember(ctx, group.ID, member.ID)
	require.NoError(t, err)
	assert.True(t, isMember)
}

func TestInvitePreconditions(t *testing.T) {
	f := setupInvitationService(t)
	ctx := context.Background()
	_, group, groupAdmin, member := f.standardSetup(t)

	_, err := f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: groupAdmin.Email,
		TargetEmail: member.Email,
		GroupID:     group.ID,
	}, member.Email)
	assert.EqualError(t, err, "The source must be the authenticated user")

	_, err = f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: groupAdmin.Email,
		TargetEmail: groupAdmin.Email,
		GroupID:     group.ID,
	}, groupAdmin.Email)
	assert.EqualError(t, err, "The source and target must be different")

	_, err = f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: "ghost@example.com",
		TargetEmail: member.Email,
		GroupID:     group.ID,
	}, "ghost@example.com")
	assert.True(t, apperr.IsNotFound(err))
	assert.EqualError(t, err, "Source user was not found")

	_, err = f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: groupAdmin.Email,
		TargetEmail: "ghost@example.com",
		GroupID:     group.ID,
	}, groupAdmin.Email)
	assert.EqualError(t, err, "Target user was not found")

	_, err = f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: groupAdmin.Email,
		TargetEmail: member.Email,
		GroupID:     f.node.Generate(),
	}, groupAdmin.Email)
	assert.True(t, apperr.IsNotFound(err))
	assert.EqualError(t, err, "Group was not found")
}

func TestInviteRequiresSpaceMembership(t *testing.T) {
	f := setupInvitationService(t)
	ctx := context.Background()
	_, group, groupAdmin, _ := f.standardSetup(t)
	outsider := f.createUser(t, "outsider@outsider.com", "outsider")

	_, err := f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: outsider.Email,
		TargetEmail: groupAdmin.Email,
		GroupID:     group.ID,
	}, outsider.Email)
	assert.EqualError(t, err, "Source is not a member of the space")

	_, err = f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: groupAdmin.Email,
		TargetEmail: outsider.Email,
		GroupID:     group.ID,
	}, groupAdmin.Email)
	assert.EqualError(t, err, "Target is not a member of the space")
}

func TestInviteInvalidCombination(t *testing.T) {
	f := setupInvitationService(t)
	ctx := context.Background()
	space, group, _, member := f.standardSetup(t)
	other := f.createUser(t, "other@member.com", "other")
	f.addSpaceMember(t, space, other)

	// Neither side is the group admin.
	_, err := f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: member.Email,
		TargetEmail: other.Email,
		GroupID:     group.ID,
	}, member.Email)
	require.Error(t, err)
	assert.True(t, apperr.IsIllegalState(err))
	assert.EqualError(t, err, "Either the source is the group admin and the target is outside, or vice-versa")
}

func TestDuplicateProposalsAllowed(t *testing.T) {
	f := setupInvitationService(t)
	ctx := context.Background()
	_, group, groupAdmin, member := f.standardSetup(t)

	req := domain.InviteRequest{
		SourceEmail: groupAdmin.Email,
		TargetEmail: member.Email,
		GroupID:     group.ID,
	}
	first, err := f.svc.Invite(ctx, req, groupAdmin.Email)
	require.NoError(t, err)
	second, err := f.svc.Invite(ctx, req, groupAdmin.Email)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	var invitations int64
	require.NoError(t, f.conn.Model(&domain.Invitation{}).Count(&invitations).Error)
	assert.EqualValues(t, 2, invitations)
}

func TestWithdrawRoundTrip(t *testing.T) {
	f := setupInvitationService(t)
	ctx := context.Background()
	_, group, groupAdmin, member := f.standardSetup(t)

	invitation, err := f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: groupAdmin.Email,
		TargetEmail: member.Email,
		GroupID:     group.ID,
	}, groupAdmin.Email)
	require.NoError(t, err)

	removed, err := f.svc.Remove(ctx, invitation.ID, member.Email)
	require.NoError(t, err)
	assert.Equal(t, invitation.ID, removed.ID)

	var invitations, memberships int64
	require.NoError(t, f.conn.Model(&domain.Invitation{}).Count(&invitations).Error)
	require.NoError(t, f.conn.Model(&groupdomain.GroupMember{}).Count(&memberships).Error)
	assert.Zero(t, invitations)
	assert.Zero(t, memberships)
}

func TestRemoveInvitationGuards(t *testing.T) {
	f := setupInvitationService(t)
	ctx := context.Background()
	space, group, groupAdmin, member := f.standardSetup(t)
	other := f.createUser(t, "other@member.com", "other")
	f.addSpaceMember(t, space, other)

	invitation, err := f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: groupAdmin.Email,
		TargetEmail: member.Email,
		GroupID:     group.ID,
	}, groupAdmin.Email)
	require.NoError(t, err)

	_, err = f.svc.Remove(ctx, invitation.ID, other.Email)
	assert.EqualError(t, err, "User should be the source or target of invitation")

	_, err = f.svc.Remove(ctx, f.node.Generate(), member.Email)
	assert.True(t, apperr.IsNotFound(err))
	assert.EqualError(t, err, "Invitation was not found")
}

func TestAcceptOnlyByTarget(t *testing.T) {
	f := setupInvitationService(t)
	ctx := context.Background()
	_, group, groupAdmin, member := f.standardSetup(t)

	invitation, err := f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: groupAdmin.Email,
		TargetEmail: member.Email,
		GroupID:     group.ID,
	}, groupAdmin.Email)
	require.NoError(t, err)

	err = f.svc.Accept(ctx, invitation.ID, groupAdmin.Email)
	assert.EqualError(t, err, "User should be the target of invitation")
}

// vanishingRepo withdraws the invitation right after handing it out,
// standing in for a concurrent Remove landing between Accept's initial
// read and its transaction.
type vanishingRepo struct {
	domain.Repository
}

func (r *vanishingRepo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Invitation, error) {
	invitation, err := r.Repository.FindByID(ctx, id)
	if err != nil || invitation == nil {
		return invitation, err
	}
	if _, err := r.Repository.DeleteByID(ctx, id); err != nil {
		return nil, err
	}
	return invitation, nil
}

func TestAcceptWithdrawnInvitationAddsNoMember(t *testing.T) {
	f := setupInvitationService(t)
	ctx := context.Background()
	_, group, groupAdmin, member := f.standardSetup(t)

	invitation, err := f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: groupAdmin.Email,
		TargetEmail: member.Email,
		GroupID:     group.ID,
	}, groupAdmin.Email)
	require.NoError(t, err)

	svc := New(Params{
		DB:     f.conn,
		Log:    zap.NewNop(),
		GenID:  f.node,
		Repo:   &vanishingRepo{Repository: repository.Provide(f.conn)},
		Groups: f.groups,
		Spaces: f.spaces,
		Users:  f.users,
	})

	err = svc.Accept(ctx, invitation.ID, member.Email)
	assert.True(t, apperr.IsNotFound(err))
	assert.EqualError(t, err, "Invitation was not found")

	isMember, err := f.groups.IsGroupMember(ctx, group.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, isMember)

	// Withdrawing again reports the invitation gone instead of silently
	// deleting zero rows.
	second, err := f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: groupAdmin.Email,
		TargetEmail: member.Email,
		GroupID:     group.ID,
	}, groupAdmin.Email)
	require.NoError(t, err)

	_, err = svc.Remove(ctx, second.ID, member.Email)
	assert.True(t, apperr.IsNotFound(err))
	assert.EqualError(t, err, "Invitation was not found")
}

func TestAcceptRevalidatesCombination(t *testing.T) {
	f := setupInvitationService(t)
	ctx := context.Background()
	space, group, groupAdmin, member := f.standardSetup(t)

	invitation, err := f.svc.Invite(ctx, domain.InviteRequest{
		SourceEmail: groupAdmin.Email,
		TargetEmail: member.Email,
		GroupID:     group.ID,
	}, groupAdmin.Email)
	require.NoError(t, err)

	// The target founds its own group before accepting, which makes the
	// proposal stale.
	f.createGroup(t, space, member, "other")

	err = f.svc.Accept(ctx, invitation.ID, member.Email)
	require.Error(t, err)
	assert.True(t, apperr.IsIllegalState(err))

	// Nothing moved: the invitation survives and no membership appeared.
	stored, err := repository.Provide(f.conn).FindByID(ctx, invitation.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)

	isMember, err := f.groups.IsGroupMember(ctx, group.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, isMember)
}
