package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/unusco/unus/internal/invitation/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) WithTx(tx *gorm.DB) domain.Repository {
	return &repo{db: tx}
}

func (r *repo) Insert(ctx context.Context, invitation *domain.Invitation) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO invitations (id, group_id, source_id, target_id, sent_by_admin, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		invitation.ID,
		invitation.GroupID,
		invitation.SourceID,
		invitation.TargetID,
		invitation.SentByAdmin,
		invitation.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Invitation, error) {
	var invitation domain.Invitation
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, group_id, source_id, target_id, sent_by_admin, created_at
		 FROM invitations WHERE id = ?`,
		id,
	).Scan(&invitation).Error
	if err != nil {
		return nil, err
	}
	if invitation.ID == 0 {
		return nil, nil
	}
	return &invitation, nil
}

func (r *repo) DeleteByID(ctx context.Context, id snowflake.ID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`DELETE FROM invitations WHERE id = ?`,
		id,
	)
	return res.RowsAffected, res.Error
}
