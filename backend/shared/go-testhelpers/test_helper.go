package testhelpers

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/katara/mono-repo/backend/shared/go-repositories"
)

// TestHelper encapsulates the components for database-backed integration tests.
type TestHelper struct {
	T   *testing.T
	Ctx context.Context
	DB  *pgxpool.Pool

	// Repositories
	UserRepo    repositories.UserRepository
	OTPRepo     repositories.EmailOTPRepository
	ChatRepo    repositories.ChatRepository
	PointRepo   repositories.PointRepository
	ContactRepo repositories.ContactRepository
	TokenRepo   repositories.TokenRepository
}

// NewTestHelper connects to DB_URL, applies migrations and initialises every
// shared repository. The test is skipped when DB_URL is unset.
func NewTestHelper(t *testing.T) *TestHelper {
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		t.Skip("DB_URL env var is missing; skipping integration test")
	}

	ctx := context.Background()
	require.NoError(t, repositories.RunMigrations(ctx, dbURL), "Failed to run migrations")

	dbPool, err := pgxpool.Connect(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { dbPool.Close() })

	return &TestHelper{
		T:           t,
		Ctx:         ctx,
		DB:          dbPool,
		UserRepo:    repositories.NewUserRepository(dbPool),
		OTPRepo:     repositories.NewEmailOTPRepository(dbPool),
		ChatRepo:    repositories.NewChatRepository(dbPool),
		PointRepo:   repositories.NewPointRepository(dbPool),
		ContactRepo: repositories.NewContactRepository(dbPool),
		TokenRepo:   repositories.NewTokenRepository(dbPool),
	}
}
