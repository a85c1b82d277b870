package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/unusco/unus/internal/user/domain"
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

func (r *repo) Insert(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO users (id, email, password_hash, name, birth_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.BirthDate,
		user.CreatedAt,
	).Error
}

func (r *repo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, email, password_hash, name, birth_date, created_at
		 FROM users WHERE email = ?`,
		email,
	).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, email, password_hash, name, birth_date, created_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

// DeleteCascade detaches the user from every membership before deleting it:
// spaces it administers go away with their groups, groups it administers in
// other spaces go away with their members, and all remaining membership and
// invitation rows referencing the user are removed.
func (r *repo) DeleteCascade(ctx context.Context, id snowflake.ID) error {
	db := r.db.WithContext(ctx)

	statements := []struct {
		query string
		args  []any
	}{
		{`DELETE FROM invitations WHERE group_id IN (
			SELECT id FROM groups WHERE space_id IN (SELECT id FROM spaces WHERE admin_id = ?))`, []any{id}},
		{`DELETE FROM group_members WHERE group_id IN (
			SELECT id FROM groups WHERE space_id IN (SELECT id FROM spaces WHERE admin_id = ?))`, []any{id}},
		{`DELETE FROM groups WHERE space_id IN (SELECT id FROM spaces WHERE admin_id = ?)`, []any{id}},
		{`DELETE FROM space_members WHERE space_id IN (SELECT id FROM spaces WHERE admin_id = ?)`, []any{id}},
		{`DELETE FROM spaces WHERE admin_id = ?`, []any{id}},
		{`DELETE FROM invitations WHERE group_id IN (SELECT id FROM groups WHERE admin_id = ?)`, []any{id}},
		{`DELETE FROM group_members WHERE group_id IN (SELECT id FROM groups WHERE admin_id = ?)`, []any{id}},
		{`DELETE FROM groups WHERE admin_id = ?`, []any{id}},
		{`DELETE FROM invitations WHERE source_id = ? OR target_id = ?`, []any{id, id}},
		{`DELETE FROM group_members WHERE user_id = ?`, []any{id}},
		{`DELETE FROM space_members WHERE user_id = ?`, []any{id}},
		{`DELETE FROM users WHERE id = ?`, []any{id}},
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt.query, stmt.args...).Error; err != nil {
			return err
		}
	}
	return nil
}
