package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/blogapp/internal/migrations"
	"github.com/magabrotheeeer/blogapp/internal/models"
	"github.com/magabrotheeeer/blogapp/internal/storage"
)

func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(ctx) })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(s.DB, migrationsPath))
	return s
}

func TestStorage_Integration_UserLifecycle(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	id, err := s.CreateUser(ctx, models.User{Name: "alice", Email: "alice@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
	assert.Equal(t, "alice", byEmail.Name)

	byID, err := s.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	_, err = s.CreateUser(ctx, models.User{Name: "alice2", Email: "alice@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, storage.ErrUserExists)

	_, err = s.GetUserByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	assert.NoError(t, s.Ping(ctx))
}
