package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/unusco/unus/internal/space/domain"
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

func (r *repo) Insert(ctx context.Context, space *domain.Space) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO spaces (id, code, name, is_public, admin_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		space.ID,
		space.Code,
		space.Name,
		space.IsPublic,
		space.AdminID,
		space.CreatedAt,
	).Error
}

func (r *repo) FindByCode(ctx context.Context, code string) (*domain.Space, error) {
	var space domain.Space
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, code, name, is_public, admin_id, created_at
		 FROM spaces WHERE code = ?`,
		code,
	).Scan(&space).Error
	if err != nil {
		return nil, err
	}
	if space.ID == 0 {
		return nil, nil
	}
	return &space, nil
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Space, error) {
	var space domain.Space
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, code, name, is_public, admin_id, created_at
		 FROM spaces WHERE id = ?`,
		id,
	).Scan(&space).Error
	if err != nil {
		return nil, err
	}
	if space.ID == 0 {
		return nil, nil
	}
	return &space, nil
}

func (r *repo) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM spaces WHERE code = ?`,
		code,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) AddMember(ctx context.Context, member *domain.SpaceMember) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO space_members (id, space_id, user_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		member.ID,
		member.SpaceID,
		member.UserID,
		member.CreatedAt,
	).Error
}

func (r *repo) RemoveMember(ctx context.Context, spaceID, userID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM space_members WHERE space_id = ? AND user_id = ?`,
		spaceID, userID,
	).Error
}

func (r *repo) IsMember(ctx context.Context, spaceID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM space_members WHERE space_id = ? AND user_id = ?`,
		spaceID, userID,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) ListMembers(ctx context.Context, spaceID snowflake.ID) ([]domain.MemberSummary, error) {
	var members []domain.MemberSummary
	err := r.db.WithContext(ctx).Raw(
		`SELECT u.id, u.email, u.name
		 FROM space_members sm
		 JOIN users u ON u.id = sm.user_id
		 WHERE sm.space_id = ?
		 ORDER BY u.name ASC`,
		spaceID,
	).Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repo) DeleteCascade(ctx context.Context, spaceID snowflake.ID) error {
	db := r.db.WithContext(ctx)

	statements := []string{
		`DELETE FROM invitations WHERE group_id IN (SELECT id FROM groups WHERE space_id = ?)`,
		`DELETE FROM group_members WHERE group_id IN (SELECT id FROM groups WHERE space_id = ?)`,
		`DELETE FROM groups WHERE space_id = ?`,
		`DELETE FROM space_members WHERE space_id = ?`,
		`DELETE FROM spaces WHERE id = ?`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt, spaceID).Error; err != nil {
			return err
		}
	}
	return nil
}
