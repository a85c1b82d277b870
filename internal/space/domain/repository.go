package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Insert(ctx context.Context, space *Space) error
	FindByCode(ctx context.Context, code string) (*Space, error)
	FindByID(ctx context.Context, id snowflake.ID) (*Space, error)
	CodeExists(ctx context.Context, code string) (bool, error)

	AddMember(ctx context.Context, member *SpaceMember) error
	RemoveMember(ctx context.Context, spaceID, userID snowflake.ID) error
	IsMember(ctx context.Context, spaceID, userID snowflake.ID) (bool, error)
	ListMembers(ctx context.Context, spaceID snowflake.ID) ([]MemberSummary, error)

	// DeleteCascade removes the space together with its groups, their
	// members and pending invitations, and all space membership rows.
	DeleteCascade(ctx context.Context, spaceID snowflake.ID) error
}
