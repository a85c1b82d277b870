package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Group lives inside a space. Its name is unique within that space and
// its admin is the user who created it.
type Group struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SpaceID   snowflake.ID `gorm:"uniqueIndex:ux_groups_space_name" json:"space_id"`
	Name      string       `gorm:"uniqueIndex:ux_groups_space_name" json:"name"`
	IsOpen    bool         `json:"is_open"`
	AdminID   snowflake.ID `gorm:"index" json:"admin_id"`
	CreatedAt time.Time    `json:"created_at"`
}

func (Group) TableName() string {
	return "groups"
}

type GroupMember struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	GroupID   snowflake.ID `gorm:"uniqueIndex:ux_group_members_group_user" json:"group_id"`
	UserID    snowflake.ID `gorm:"uniqueIndex:ux_group_members_group_user" json:"user_id"`
	CreatedAt time.Time    `json:"created_at"`
}

func (GroupMember) TableName() string {
	return "group_members"
}
