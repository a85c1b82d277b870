package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/unusco/unus/internal/group/domain"
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

func (r *repo) Insert(ctx context.Context, group *domain.Group) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO groups (id, space_id, name, is_open, admin_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		group.ID,
		group.SpaceID,
		group.Name,
		group.IsOpen,
		group.AdminID,
		group.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Group, error) {
	var group domain.Group
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, space_id, name, is_open, admin_id, created_at
		 FROM groups WHERE id = ?`,
		id,
	).Scan(&group).Error
	if err != nil {
		return nil, err
	}
	if group.ID == 0 {
		return nil, nil
	}
	return &group, nil
}

// FindByIDLocked takes FOR UPDATE on the group row where the dialect
// supports it. sqlite serializes writers on its own, so it gets a plain
// read.
func (r *repo) FindByIDLocked(ctx context.Context, id snowflake.ID) (*domain.Group, error) {
	query := `SELECT id, space_id, name, is_open, admin_id, created_at
		 FROM groups WHERE id = ?`
	if name := r.db.Dialector.Name(); name == "postgres" || name == "mysql" {
		query += ` FOR UPDATE`
	}

	var group domain.Group
	err := r.db.WithContext(ctx).Raw(query, id).Scan(&group).Error
	if err != nil {
		return nil, err
	}
	if group.ID == 0 {
		return nil, nil
	}
	return &group, nil
}

func (r *repo) NameExistsInSpace(ctx context.Context, spaceID snowflake.ID, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM groups WHERE space_id = ? AND name = ?`,
		spaceID, name,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) HasGroupInSpace(ctx context.Context, spaceID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM groups g
		 WHERE g.space_id = ?
		   AND (g.admin_id = ? OR EXISTS (
			SELECT 1 FROM group_members gm
			WHERE gm.group_id = g.id AND gm.user_id = ?))`,
		spaceID, userID, userID,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) AddMember(ctx context.Context, member *domain.GroupMember) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO group_members (id, group_id, user_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		member.ID,
		member.GroupID,
		member.UserID,
		member.CreatedAt,
	).Error
}

func (r *repo) IsGroupMember(ctx context.Context, groupID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) DeleteCascade(ctx context.Context, groupID snowflake.ID) error {
	db := r.db.WithContext(ctx)

	statements := []string{
		`DELETE FROM invitations WHERE group_id = ?`,
		`DELETE FROM group_members WHERE group_id = ?`,
		`DELETE FROM groups WHERE id = ?`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt, groupID).Error; err != nil {
			return err
		}
	}
	return nil
}
