//go:build integration

package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"octofit/models"
)

func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })
	require.NoError(t, client.Ping(connectCtx, nil))

	return client.Database("octofit_test")
}

func TestMongoCollectionUniqueEmail(t *testing.T) {
	ctx := context.Background()
	database := startMongo(t)
	require.NoError(t, EnsureIndexes(ctx, database))

	stores := NewMongoStores(database)

	created, err := stores.Users.Insert(ctx, newUser("X", "x@x.com", 0))
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())

	_, err = stores.Users.Insert(ctx, newUser("Y", "x@x.com", 0))
	var cerr *ConstraintError
	require.True(t, errors.As(err, &cerr), "expected constraint error, got %v", err)
	require.Equal(t, "email", cerr.Field)

	list, err := stores.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got, err := stores.Users.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Email, got.Email)

	require.NoError(t, stores.Users.Delete(ctx, created.ID))
	require.ErrorIs(t, stores.Users.Delete(ctx, created.ID), ErrNotFound)
}

func TestMongoCollectionSwapPublishesAtomically(t *testing.T) {
	ctx := context.Background()
	database := startMongo(t)
	board := NewMongoCollection[models.Leaderboard](database.Collection(models.LeaderboardCollection))

	require.NoError(t, board.InsertMany(ctx, []models.Leaderboard{{Rank: 1, UserEmail: "old@example.com"}}))

	replaced, err := board.Swap(ctx, []models.Leaderboard{
		{Rank: 1, UserEmail: "a@example.com"},
		{Rank: 2, UserEmail: "b@example.com"},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, replaced)

	list, err := board.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "a@example.com", list[0].UserEmail)
}
