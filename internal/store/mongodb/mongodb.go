package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moghtech/komodo-core/internal/config"
	"github.com/moghtech/komodo-core/internal/domain"
	"github.com/moghtech/komodo-core/internal/helpers"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	gitAccountsCollection      = "git_accounts"
	registryAccountsCollection = "registry_accounts"
	permissionsCollection      = "permissions"
	serversCollection          = "servers"
	usersCollection            = "users"
)

// Connect opens a client for the configured database and verifies it with a
// ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.MongoURI()).
		SetAppName(cfg.AppName)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client, client.Database(cfg.DBName), nil
}

// Store implements the core's store interfaces on top of MongoDB
type Store struct {
	database *mongo.Database
}

// New creates a new MongoDB store with the given database
func New(database *mongo.Database) *Store {
	return &Store{
		database: database,
	}
}

// EnsureIndexes creates the uniqueness indexes the core relies on
func (s *Store) EnsureIndexes(ctx context.Context) error {
	accountIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "domain", Value: 1},
			{Key: "username", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	indexes := map[string][]mongo.IndexModel{
		gitAccountsCollection:      {accountIndex},
		registryAccountsCollection: {accountIndex},
		permissionsCollection: {
			{
				Keys: bson.D{
					{Key: "user_target.type", Value: 1},
					{Key: "user_target.id", Value: 1},
					{Key: "resource_target.type", Value: 1},
					{Key: "resource_target.id", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
		serversCollection: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	for collection, models := range indexes {
		if _, err := s.database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
		log.Debug().Str("collection", collection).Int("indexes", len(models)).Msg("Ensured indexes")
	}

	return nil
}

func accountFilter(providerDomain, username string) bson.M {
	return bson.M{
		"domain":   providerDomain,
		"username": username,
	}
}

// FindGitAccount returns nil when no account matches
func (s *Store) FindGitAccount(ctx context.Context, providerDomain, username string) (*domain.GitAccount, error) {
	var account domain.GitAccount
	err := s.database.Collection(gitAccountsCollection).
		FindOne(ctx, accountFilter(providerDomain, username)).
		Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find git account: %w", err)
	}

	return &account, nil
}

// FindRegistryAccount returns nil when no account matches
func (s *Store) FindRegistryAccount(ctx context.Context, providerDomain, username string) (*domain.RegistryAccount, error) {
	var account domain.RegistryAccount
	err := s.database.Collection(registryAccountsCollection).
		FindOne(ctx, accountFilter(providerDomain, username)).
		Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find registry account: %w", err)
	}

	return &account, nil
}

// InsertPermission stores the permission and returns the id mongo assigned
func (s *Store) InsertPermission(ctx context.Context, permission domain.Permission) (string, error) {
	permission.ID = ""
	if permission.Specific == nil {
		permission.Specific = domain.SpecificPermissions{}
	}

	result, err := s.database.Collection(permissionsCollection).InsertOne(ctx, permission)
	if err != nil {
		return "", fmt.Errorf("failed to insert permission: %w", err)
	}

	return insertedID(result.InsertedID), nil
}

// GetServer looks a server up by id or by name
func (s *Store) GetServer(ctx context.Context, idOrName string) (*domain.Server, error) {
	var server domain.Server
	err := s.database.Collection(serversCollection).
		FindOne(ctx, idOrNameFilter(idOrName)).
		Decode(&server)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("server %s: %w", idOrName, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find server: %w", err)
	}

	return &server, nil
}

// ListServers returns every server sorted by name
func (s *Store) ListServers(ctx context.Context) ([]domain.Server, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := s.database.Collection(serversCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	defer cursor.Close(ctx)

	servers := []domain.Server{}
	if err := cursor.All(ctx, &servers); err != nil {
		return nil, fmt.Errorf("failed to decode servers: %w", err)
	}

	return servers, nil
}

// UpdateServerConfig sets only the given config fields, leaving the rest of
// the stored config untouched
func (s *Store) UpdateServerConfig(ctx context.Context, id string, partial map[string]any) error {
	if len(partial) == 0 {
		return nil
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid server id %q: %w", id, err)
	}

	update := bson.M{
		"$set": helpers.FlattenDocument(map[string]any{"config": partial}),
	}

	result, err := s.database.Collection(serversCollection).UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update server config: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("server %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := s.database.Collection(usersCollection).
		FindOne(ctx, idOrFieldFilter(id, "username")).
		Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

func idOrNameFilter(idOrName string) bson.M {
	return idOrFieldFilter(idOrName, "name")
}

// idOrFieldFilter matches the document id when value is an ObjectID hex
// string, and the given field otherwise.
func idOrFieldFilter(value, field string) bson.M {
	objectID, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return bson.M{field: value}
	}

	return bson.M{
		"$or": bson.A{
			bson.M{"_id": objectID},
			bson.M{field: value},
		},
	}
}

func insertedID(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
