package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unusco/unus/internal/auth/domain"
	"github.com/unusco/unus/internal/auth/password"
	"github.com/unusco/unus/internal/auth/token"
	userdomain "github.com/unusco/unus/internal/user/domain"
	userrepo "github.com/unusco/unus/internal/user/repository"
	"github.com/unusco/unus/pkg/apperr"
	dbpkg "github.com/unusco/unus/pkg/db"
	"go.uber.org/zap"
)

func setupAuthService(t *testing.T) (domain.Service, userdomain.Repository, *snowflake.Node) {
	t.Helper()

	conn, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&userdomain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	users := userrepo.Provide(conn)
	svc := New(Params{
		Log:    zap.NewNop(),
		Issuer: token.NewIssuer("test-secret", time.Hour),
		Users:  users,
	})
	return svc, users, node
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, users, node := setupAuthService(t)
	ctx := context.Background()

	hash, err := password.Hash("123456")
	require.NoError(t, err)
	require.NoError(t, users.Insert(ctx, &userdomain.User{
		ID:           node.Generate(),
		Email:        "alice@example.com",
		PasswordHash: hash,
		Name:         "alice",
		CreatedAt:    time.Now().UTC(),
	}))

	resp, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "123456"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	email, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, users, node := setupAuthService(t)
	ctx := context.Background()

	hash, err := password.Hash("123456")
	require.NoError(t, err)
	require.NoError(t, users.Insert(ctx, &userdomain.User{
		ID:           node.Generate(),
		Email:        "alice@example.com",
		PasswordHash: hash,
		Name:         "alice",
		CreatedAt:    time.Now().UTC(),
	}))

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperr.IsIllegalState(err))

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "ghost@example.com", Password: "123456"})
	require.Error(t, err)
	assert.True(t, apperr.IsIllegalState(err))
}

func TestAuthenticateRejectsDeletedUser(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	issuer := token.NewIssuer("test-secret", time.Hour)
	raw, err := issuer.Issue("ghost@example.com")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), raw)
	require.Error(t, err)
}
