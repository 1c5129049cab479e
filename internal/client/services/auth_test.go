package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/cardsync/internal/client/api"
	"github.com/dmitrijs2005/cardsync/internal/client/models"
	"github.com/stretchr/testify/require"
)

func TestAuthService_LoginPersistsSession(t *testing.T) {
	ctx := context.Background()
	db := setupServiceDB(t, "auth_login")
	fc := &fakeClient{LoginToken: "tok-123", Admins: []string{"bob"}}
	svc := NewAuthService(fc, db, testLogger())

	session, err := svc.Login(ctx, "alice", "secret", "http://srv")
	require.NoError(t, err)
	require.Equal(t, "tok-123", session.Token)
	require.Equal(t, "alice", session.Username)
	require.Equal(t, "http://srv", session.ServerURL)
	require.False(t, session.IsAdmin)

	stored, err := svc.CurrentSession(ctx)
	require.NoError(t, err)
	require.Equal(t, session, stored)
}

func TestAuthService_LoginDetectsAdmin(t *testing.T) {
	ctx := context.Background()
	db := setupServiceDB(t, "auth_admin")
	fc := &fakeClient{LoginToken: "tok", Admins: []string{"alice", "bob"}}
	svc := NewAuthService(fc, db, testLogger())

	session, err := svc.Login(ctx, "alice", "secret", "http://srv")
	require.NoError(t, err)
	require.True(t, session.IsAdmin)
}

func TestAuthService_LoginAdminListUnavailableUsesBootstrap(t *testing.T) {
	ctx := context.Background()
	db := setupServiceDB(t, "auth_bootstrap")
	fc := &fakeClient{LoginToken: "tok", AdminsErr: api.ErrUnavailable}
	svc := NewAuthService(fc, db, testLogger())

	session, err := svc.Login(ctx, "admin", "secret", "http://srv")
	require.NoError(t, err)
	require.True(t, session.IsAdmin, "bootstrap fallback recognizes the built-in admin")

	session, err = svc.Login(ctx, "alice", "secret", "http://srv")
	require.NoError(t, err)
	require.False(t, session.IsAdmin)
}

func TestAuthService_LoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	db := setupServiceDB(t, "auth_badcreds")
	fc := &fakeClient{LoginErr: api.ErrInvalidCredentials}
	svc := NewAuthService(fc, db, testLogger())

	_, err := svc.Login(ctx, "alice", "wrong", "http://srv")
	require.ErrorIs(t, err, api.ErrInvalidCredentials)

	stored, err := svc.CurrentSession(ctx)
	require.NoError(t, err)
	require.Nil(t, stored, "failed login leaves no session behind")
}

func TestAuthService_LoginCachesServerConfig(t *testing.T) {
	ctx := context.Background()
	db := setupServiceDB(t, "auth_srvcfg")
	cfg := &models.ServerConfig{
		ManagedServerURL: "http://managed",
		SharedAPIKeys:    map[string]models.APIKey{"openai": {Key: "sk-1", Model: "gpt-4o"}},
	}
	fc := &fakeClient{LoginToken: "tok", ServerConfig: cfg}
	svc := NewAuthService(fc, db, testLogger())

	_, err := svc.Login(ctx, "alice", "secret", "http://srv")
	require.NoError(t, err)

	cached, err := svc.CachedServerConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, cfg, cached)
}

func TestAuthService_LoginSurvivesConfigFailure(t *testing.T) {
	ctx := context.Background()
	db := setupServiceDB(t, "auth_cfgfail")
	fc := &fakeClient{LoginToken: "tok", ServerConfigErr: api.ErrUnavailable}
	svc := NewAuthService(fc, db, testLogger())

	session, err := svc.Login(ctx, "alice", "secret", "http://srv")
	require.NoError(t, err, "config distribution is best-effort")
	require.True(t, session.Valid())
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	db := setupServiceDB(t, "auth_logout")
	fc := &fakeClient{LoginToken: "tok", ServerConfig: &models.ServerConfig{ManagedServerURL: "http://m"}}
	svc := NewAuthService(fc, db, testLogger())

	_, err := svc.Login(ctx, "alice", "secret", "http://srv")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))

	stored, err := svc.CurrentSession(ctx)
	require.NoError(t, err)
	require.Nil(t, stored)

	cached, err := svc.CachedServerConfig(ctx)
	require.NoError(t, err)
	require.Nil(t, cached)
}

func TestAuthService_InvalidateSessionDropsToken(t *testing.T) {
	ctx := context.Background()
	db := setupServiceDB(t, "auth_invalidate")
	fc := &fakeClient{LoginToken: "tok"}
	svc := NewAuthService(fc, db, testLogger())

	_, err := svc.Login(ctx, "alice", "secret", "http://srv")
	require.NoError(t, err)

	require.NoError(t, svc.InvalidateSession(ctx))

	stored, err := svc.CurrentSession(ctx)
	require.NoError(t, err)
	require.Nil(t, stored)
}

func TestAuthService_RegisterPassesThrough(t *testing.T) {
	ctx := context.Background()
	db := setupServiceDB(t, "auth_register")
	fc := &fakeClient{RegisterErr: api.ErrServerRejected}
	svc := NewAuthService(fc, db, testLogger())

	err := svc.Register(ctx, "alice", "secret")
	require.ErrorIs(t, err, api.ErrServerRejected)
}

func TestAuthService_PushServerConfig(t *testing.T) {
	t.Run("pushes and refreshes the cache", func(t *testing.T) {
		ctx := context.Background()
		db := setupServiceDB(t, "auth_pushcfg")
		fc := &fakeClient{LoginToken: "tok", Admins: []string{"alice"}}
		svc := NewAuthService(fc, db, testLogger())

		_, err := svc.Login(ctx, "alice", "secret", "http://srv")
		require.NoError(t, err)

		cfg := models.ServerConfig{ManagedServerURL: "https://new.example.com"}
		require.NoError(t, svc.PushServerConfig(ctx, cfg))
		require.Len(t, fc.PushedConfigs, 1)
		require.Equal(t, cfg, fc.PushedConfigs[0])

		cached, err := svc.CachedServerConfig(ctx)
		require.NoError(t, err)
		require.Equal(t, "https://new.example.com", cached.ManagedServerURL)
	})

	t.Run("requires a session", func(t *testing.T) {
		ctx := context.Background()
		db := setupServiceDB(t, "auth_pushcfg_nosession")
		fc := &fakeClient{}
		svc := NewAuthService(fc, db, testLogger())

		err := svc.PushServerConfig(ctx, models.ServerConfig{ManagedServerURL: "x"})
		require.ErrorIs(t, err, api.ErrUnauthenticated)
		require.Empty(t, fc.PushedConfigs)
	})

	t.Run("server rejection leaves the cache alone", func(t *testing.T) {
		ctx := context.Background()
		db := setupServiceDB(t, "auth_pushcfg_forbidden")
		fc := &fakeClient{LoginToken: "tok", ServerConfig: &models.ServerConfig{ManagedServerURL: "http://old"}}
		svc := NewAuthService(fc, db, testLogger())

		_, err := svc.Login(ctx, "alice", "secret", "http://srv")
		require.NoError(t, err)

		fc.PushConfigErr = api.ErrForbidden
		err = svc.PushServerConfig(ctx, models.ServerConfig{ManagedServerURL: "http://new"})
		require.ErrorIs(t, err, api.ErrForbidden)

		cached, err := svc.CachedServerConfig(ctx)
		require.NoError(t, err)
		require.Equal(t, "http://old", cached.ManagedServerURL)
	})
}
