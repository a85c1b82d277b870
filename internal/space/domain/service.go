package domain

import "context"

type CreateSpaceRequest struct {
	Name     string `json:"name"`
	IsPublic bool   `json:"is_public"`
}

type Service interface {
	// Create generates a collision-free code and persists the space with
	// the requester as admin.
	Create(ctx context.Context, req CreateSpaceRequest, adminEmail string) (Space, error)

	GetByCode(ctx context.Context, code string) (Space, error)

	// Join adds the user to the member set. Joining a space one is
	// already a member of is a no-op.
	Join(ctx context.Context, code, email string) (Space, error)

	Leave(ctx context.Context, code, email string) error

	// Remove deletes the space and everything under it. Admin only.
	Remove(ctx context.Context, code, email string) error

	// ListMembers returns the member set sorted by name ascending.
	// Visible to members and the admin.
	ListMembers(ctx context.Context, code, email string) ([]MemberSummary, error)

	// IsMember reports plain membership. The admin is not counted.
	IsMember(ctx context.Context, code, email string) (bool, error)
}
