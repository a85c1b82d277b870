package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Insert(ctx context.Context, invitation *Invitation) error
	FindByID(ctx context.Context, id snowflake.ID) (*Invitation, error)

	// DeleteByID reports the number of rows removed so callers can tell
	// whether the invitation still existed.
	DeleteByID(ctx context.Context, id snowflake.ID) (int64, error)
}
