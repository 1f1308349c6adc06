//go:build integration
// +build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cppla/qaboard/config"
	"github.com/cppla/qaboard/models"
	"github.com/cppla/qaboard/store"
)

// setupPostgres starts a PostgreSQL container and returns a store over it.
func setupPostgres(t *testing.T) *store.Store {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("qaboard"),
		postgres.WithUsername("qaboard"),
		postgres.WithPassword("qaboard"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := config.Defaults()
	cfg.DBDriver = config.DriverPostgres
	cfg.DatabaseURI = connStr
	cfg.LogLevel = "silent"

	db, err := config.OpenDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store.New(db, 5*time.Second)
}

func TestPostgresStore(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	q, err := s.CreateQuestion(ctx, store.QuestionInput{Title: "Postgres ILIKE?", Description: "d", Category: "Databases"})
	require.NoError(t, err)

	list, err := s.ListQuestions(ctx, store.QuestionFilter{Title: "ilike", Category: "DATA"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, q.ID, list[0].ID)

	t.Run("foreign key violation is not found", func(t *testing.T) {
		_, err := s.CreateAnswer(ctx, q.ID+1000, "orphan")
		assert.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.VoteAnswer(ctx, 999999, models.Upvote)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("vote tallies", func(t *testing.T) {
		a, err := s.CreateAnswer(ctx, q.ID, "answer")
		require.NoError(t, err)

		_, err = s.VoteQuestion(ctx, q.ID, models.Upvote)
		require.NoError(t, err)
		res, err := s.VoteQuestion(ctx, q.ID, models.Upvote)
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.Upvotes)
		assert.Equal(t, int64(0), res.Downvotes)

		ares, err := s.VoteAnswer(ctx, a.ID, models.Downvote)
		require.NoError(t, err)
		assert.Equal(t, int64(1), ares.Downvotes)
	})

	t.Run("delete cascades", func(t *testing.T) {
		require.NoError(t, s.DeleteQuestion(ctx, q.ID))
		stats, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, store.Stats{}, stats)
	})

	require.NoError(t, s.Ping(ctx))
}
