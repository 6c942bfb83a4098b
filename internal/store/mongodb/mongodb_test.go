package mongodb

import (
	"context"
	"testing"

	"github.com/moghtech/komodo-core/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestStore_FindGitAccount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		store := New(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+gitAccountsCollection, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "domain", Value: "github.com"},
			{Key: "username", Value: "alice"},
			{Key: "token", Value: "tok_db"},
			{Key: "https", Value: true},
		}))

		account, err := store.FindGitAccount(context.Background(), "github.com", "alice")
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, "tok_db", account.Token)
		assert.True(t, account.HTTPS)
		assert.NotEmpty(t, account.ID)
	})

	mt.Run("not found", func(mt *mtest.T) {
		store := New(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+gitAccountsCollection, mtest.FirstBatch))

		account, err := store.FindGitAccount(context.Background(), "github.com", "nobody")
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	mt.Run("error", func(mt *mtest.T) {
		store := New(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))

		account, err := store.FindGitAccount(context.Background(), "github.com", "alice")
		require.Error(t, err)
		assert.Nil(t, account)
	})
}

func TestStore_FindRegistryAccount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		store := New(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+registryAccountsCollection, mtest.FirstBatch, bson.D{
			{Key: "domain", Value: "ghcr.io"},
			{Key: "username", Value: "alice"},
			{Key: "token", Value: "tok_registry"},
		}))

		account, err := store.FindRegistryAccount(context.Background(), "ghcr.io", "alice")
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, "tok_registry", account.Token)
	})
}

func TestStore_InsertPermission(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		store := New(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := store.InsertPermission(context.Background(), domain.Permission{
			UserTarget:     domain.UserTargetUser("u1"),
			ResourceTarget: domain.ServerTarget("srv1"),
			Level:          domain.PermissionLevelRead,
		})
		require.NoError(t, err)

		_, err = primitive.ObjectIDFromHex(id)
		assert.NoError(t, err, "mongo assigns an ObjectID")
	})

	mt.Run("duplicate", func(mt *mtest.T) {
		store := New(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := store.InsertPermission(context.Background(), domain.Permission{
			UserTarget:     domain.UserTargetUser("u1"),
			ResourceTarget: domain.ServerTarget("srv1"),
			Level:          domain.PermissionLevelRead,
		})
		assert.Error(t, err)
	})
}

func TestStore_GetServer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes with defaults", func(mt *mtest.T) {
		store := New(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+serversCollection, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "server-1"},
			{Key: "config", Value: bson.D{
				{Key: "address", Value: "https://h:8120"},
				{Key: "enabled", Value: true},
			}},
		}))

		server, err := store.GetServer(context.Background(), id.Hex())
		require.NoError(t, err)
		assert.Equal(t, id.Hex(), server.ID)
		assert.Equal(t, "server-1", server.Name)
		assert.True(t, server.Config.Enabled)
		assert.Equal(t, int64(3), server.Config.TimeoutSeconds)
		assert.True(t, server.Config.StatsMonitoring)
	})

	mt.Run("missing", func(mt *mtest.T) {
		store := New(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+serversCollection, mtest.FirstBatch))

		_, err := store.GetServer(context.Background(), "server-2")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStore_ListServers(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("two servers", func(mt *mtest.T) {
		store := New(mt.DB)
		ns := mt.DB.Name() + "." + serversCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "alpha"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "beta"}},
		))

		servers, err := store.ListServers(context.Background())
		require.NoError(t, err)
		require.Len(t, servers, 2)
		assert.Equal(t, "alpha", servers[0].Name)
		assert.Equal(t, "beta", servers[1].Name)
	})

	mt.Run("empty", func(mt *mtest.T) {
		store := New(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+serversCollection, mtest.FirstBatch))

		servers, err := store.ListServers(context.Background())
		require.NoError(t, err)
		assert.Empty(t, servers)
		assert.NotNil(t, servers)
	})
}

func TestStore_UpdateServerConfig(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("partial update", func(mt *mtest.T) {
		store := New(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := store.UpdateServerConfig(context.Background(), primitive.NewObjectID().Hex(), map[string]any{
			"timeout_seconds": 10,
		})
		require.NoError(t, err)

		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		assert.Equal(t, "update", started.CommandName)
		assert.Contains(t, started.Command.String(), "config.timeout_seconds")
	})

	mt.Run("unknown server", func(mt *mtest.T) {
		store := New(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := store.UpdateServerConfig(context.Background(), primitive.NewObjectID().Hex(), map[string]any{
			"enabled": true,
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	mt.Run("invalid id", func(mt *mtest.T) {
		store := New(mt.DB)

		err := store.UpdateServerConfig(context.Background(), "not-an-id", map[string]any{"enabled": true})
		assert.Error(t, err)
	})
}

func TestIdOrFieldFilter(t *testing.T) {
	assert.Equal(t, bson.M{"name": "server-1"}, idOrNameFilter("server-1"))

	id := primitive.NewObjectID()
	assert.Equal(t, bson.M{
		"$or": bson.A{
			bson.M{"_id": id},
			bson.M{"username": id.Hex()},
		},
	}, idOrFieldFilter(id.Hex(), "username"))
}
