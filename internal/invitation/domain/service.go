package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type InviteRequest struct {
	SourceEmail string       `json:"source_email"`
	TargetEmail string       `json:"target_email"`
	GroupID     snowflake.ID `json:"group_id"`
}

type Service interface {
	// Invite registers an invitation between a group admin and a user
	// without a group in the space, in either direction. The source must
	// be the authenticated requester. Duplicate proposals are allowed.
	Invite(ctx context.Context, req InviteRequest, email string) (Invitation, error)

	// Remove withdraws an invitation. Only its source or target may do
	// so. Returns the removed record.
	Remove(ctx context.Context, id snowflake.ID, email string) (Invitation, error)

	// Accept materializes the membership. Only the target may accept.
	// The combination is re-validated against current state and the
	// non-admin party joins the group, atomically with the deletion.
	Accept(ctx context.Context, id snowflake.ID, email string) error
}
