package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Insert(ctx context.Context, group *Group) error
	FindByID(ctx context.Context, id snowflake.ID) (*Group, error)

	// FindByIDLocked reads the group under a row lock. Callers must run
	// inside a transaction.
	FindByIDLocked(ctx context.Context, id snowflake.ID) (*Group, error)

	NameExistsInSpace(ctx context.Context, spaceID snowflake.ID, name string) (bool, error)

	// HasGroupInSpace reports whether the user administers or belongs to
	// any group of the given space.
	HasGroupInSpace(ctx context.Context, spaceID, userID snowflake.ID) (bool, error)

	AddMember(ctx context.Context, member *GroupMember) error
	IsGroupMember(ctx context.Context, groupID, userID snowflake.ID) (bool, error)

	// DeleteCascade removes the group, its members and its pending
	// invitations.
	DeleteCascade(ctx context.Context, groupID snowflake.ID) error
}
