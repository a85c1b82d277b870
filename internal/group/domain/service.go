package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type CreateGroupRequest struct {
	SpaceCode string `json:"space_code"`
	Name      string `json:"name"`
	IsOpen    bool   `json:"is_open"`
}

type Service interface {
	// Create persists a group with the requester as admin. The requester
	// must be in the owning space and the name must be unique there.
	Create(ctx context.Context, req CreateGroupRequest, email string) (Group, error)

	// Remove deletes the group with its members and pending invitations.
	// Allowed for the group admin and for the owning space's admin.
	Remove(ctx context.Context, id snowflake.ID, email string) error

	// HasGroupInSpace reports whether the user administers or belongs to
	// any group of the space with the given code.
	HasGroupInSpace(ctx context.Context, code, email string) (bool, error)
}
