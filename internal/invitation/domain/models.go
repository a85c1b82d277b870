package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Invitation is a proposed group membership. It lives from proposal until
// it is accepted or withdrawn, both of which delete the record.
type Invitation struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	GroupID     snowflake.ID `gorm:"index:ix_invitations_group" json:"group_id"`
	SourceID    snowflake.ID `json:"source_id"`
	TargetID    snowflake.ID `json:"target_id"`
	SentByAdmin bool         `json:"sent_by_admin"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (Invitation) TableName() string {
	return "invitations"
}
