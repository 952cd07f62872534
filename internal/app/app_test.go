package app

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"profile-sync/internal/config"
	"profile-sync/internal/database/sqldb"
	"profile-sync/internal/domain/profile"
	"profile-sync/internal/infrastructure/cache"
	"profile-sync/internal/pkg/jwt"
	"profile-sync/internal/repository"
	"profile-sync/internal/usecase/profilesync"
	"profile-sync/internal/ws"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/DATA-DOG/go-sqlmock.v1"
)

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr("8080")
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)

	addr, err = ListenAddr(" :9090 ")
	require.NoError(t, err)
	assert.Equal(t, ":9090", addr)

	_, err = ListenAddr(" ")
	assert.Error(t, err)
}

func TestOpenDB_UnsupportedDriver(t *testing.T) {
	_, err := OpenDB(context.Background(), config.DatabaseConfig{Driver: "mysql"})
	assert.ErrorContains(t, err, "unsupported driver")
}

// testContainer wires the real components over sqlmock and miniredis.
func testContainer(t *testing.T) (*Container, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db := sqldb.Wrap(sqlDB)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	store := cache.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), nil)

	logger := log.New(io.Discard, "", 0)
	reg := prometheus.NewRegistry()
	metrics := profilesync.NewMetrics(reg)
	hub := ws.NewHub(logger)
	bridge := ws.NewViewBridge(hub)
	identity := cache.NewIdentityCache(store, "")

	ctrl := profilesync.New(nil, identity, repository.NewPostgresProfileRepository(db),
		profilesync.WithNavigator(bridge),
		profilesync.WithDialogs(bridge),
		profilesync.WithObserver(bridge),
		profilesync.WithMetrics(metrics),
		profilesync.WithLogger(logger),
	)

	c := &Container{
		Config:   config.Config{App: config.AppConfig{AppName: "profile-sync-test"}},
		Logger:   logger,
		DB:       db,
		Redis:    store,
		Identity: identity,
		Tokens:   jwt.NewHMACService("secret", time.Hour),
		Hub:      hub,
		Bridge:   bridge,
		Registry: reg,
		Sync:     ctrl,
	}
	t.Cleanup(func() { _ = ctrl.Close() })
	return c, mock, mr
}

func bearerRequest(t *testing.T, c *Container, method, target string, as profile.UserID) *http.Request {
	t.Helper()
	token, err := c.Tokens.GenerateAccessToken(as)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func expectCachedProfiles(t *testing.T, c *Container, mock sqlmock.Sqlmock, mr *miniredis.Miniredis) {
	t.Helper()
	require.NoError(t, mr.Set("userId", "u1"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "surname", "user_id"}).
			AddRow("p1", "Ana", "Lee", "u1"))

	require.NoError(t, c.Sync.Start(context.Background()))
	require.Eventually(t, func() bool {
		s, err := c.Sync.Snapshot(context.Background())
		return err == nil && len(s.Profiles) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestApp_CachedIdentityLoadsProfiles(t *testing.T) {
	c, mock, mr := testContainer(t)
	expectCachedProfiles(t, c, mock, mr)
	a := New(c)

	resp, err := a.Fiber.Test(bearerRequest(t, c, http.MethodGet, "/api/v1/profiles", "u1"))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"userId":"u1"`)

	resp, err = a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `profile_sync_loads_total{outcome="ok"} 1`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApp_SessionStoresIdentity(t *testing.T) {
	c, _, mr := testContainer(t)
	require.NoError(t, c.Sync.Start(context.Background()))
	a := New(c)

	token, err := c.Tokens.GenerateAccessToken("u7")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := a.Fiber.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got, err := mr.Get("userId")
	require.NoError(t, err)
	assert.Equal(t, "u7", got)
}

func TestApp_ProfilesUnavailableBeforeStart(t *testing.T) {
	c, _, _ := testContainer(t)
	a := New(c)

	resp, err := a.Fiber.Test(bearerRequest(t, c, http.MethodGet, "/api/v1/profiles", "u1"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestApp_ProfileMutationsRequireOwner(t *testing.T) {
	c, mock, mr := testContainer(t)
	expectCachedProfiles(t, c, mock, mr)
	a := New(c)

	calls := []struct{ method, path string }{
		{http.MethodDelete, "/api/v1/profiles/p1"},
		{http.MethodPost, "/api/v1/profiles/deletion/confirm"},
	}
	for _, call := range calls {
		resp, err := a.Fiber.Test(httptest.NewRequest(call.method, call.path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, call.path)

		resp, err = a.Fiber.Test(bearerRequest(t, c, call.method, call.path, "u2"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, call.path)
	}

	s, err := c.Sync.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, profilesync.StateIdle, s.Mutation)
	assert.Len(t, s.Profiles, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
