package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Space is a top-level community container identified by a short code.
// The admin owns the space and is not part of the member set.
type Space struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Code      string       `gorm:"uniqueIndex:ux_spaces_code" json:"code"`
	Name      string       `json:"name"`
	IsPublic  bool         `json:"is_public"`
	AdminID   snowflake.ID `gorm:"index" json:"admin_id"`
	CreatedAt time.Time    `json:"created_at"`
}

func (Space) TableName() string {
	return "spaces"
}

type SpaceMember struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SpaceID   snowflake.ID `gorm:"uniqueIndex:ux_space_members_space_user" json:"space_id"`
	UserID    snowflake.ID `gorm:"uniqueIndex:ux_space_members_space_user" json:"user_id"`
	CreatedAt time.Time    `json:"created_at"`
}

func (SpaceMember) TableName() string {
	return "space_members"
}

// MemberSummary is the projection returned when listing space members.
type MemberSummary struct {
	ID    snowflake.ID `json:"id"`
	Email string       `json:"email"`
	Name  string       `json:"name"`
}
