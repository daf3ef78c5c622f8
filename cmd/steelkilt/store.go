package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/cory-johannsen/steelkilt/internal/config"
	"github.com/cory-johannsen/steelkilt/internal/game/character"
	"github.com/cory-johannsen/steelkilt/internal/storage/file"
	"github.com/cory-johannsen/steelkilt/internal/storage/postgres"
	rediscache "github.com/cory-johannsen/steelkilt/internal/storage/redis"
)

// snapshotStore is the subset of storage operations the CLI needs. Each
// backend is adapted to it below.
type snapshotStore interface {
	Save(ctx context.Context, c *character.Character) error
	Load(ctx context.Context, name string) (*character.Character, error)
	List(ctx context.Context) ([]string, error)
	Close() error
}

const (
	storeFile     = "file"
	storePostgres = "postgres"
	storeRedis    = "redis"
)

func openStore(ctx context.Context, kind string, cfg config.Config) (snapshotStore, error) {
	switch kind {
	case storeFile:
		s, err := file.NewStore(cfg.Content.CharactersDir())
		if err != nil {
			return nil, err
		}
		return fileStore{s}, nil
	case storePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := pool.SchemaReady(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &pgStore{pool: pool, repo: pool.Characters()}, nil
	case storeRedis:
		cache, err := rediscache.Dial(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redisStore{cache}, nil
	default:
		return nil, fmt.Errorf("unknown store %q: must be one of %s, %s, %s", kind, storeFile, storePostgres, storeRedis)
	}
}

type fileStore struct{ *file.Store }

func (fileStore) Close() error { return nil }

type redisStore struct{ *rediscache.SnapshotCache }

func (s redisStore) Save(ctx context.Context, c *character.Character) error {
	return s.Put(ctx, c)
}

func (s redisStore) Load(ctx context.Context, name string) (*character.Character, error) {
	return s.Get(ctx, name)
}

func (s redisStore) List(ctx context.Context) ([]string, error) {
	return s.Names(ctx)
}

// pgStore keys snapshots by name: saving a name that already exists replaces
// that row and keeps its ID.
type pgStore struct {
	pool *postgres.Pool
	repo *postgres.CharacterRepository
}

func (s *pgStore) Save(ctx context.Context, c *character.Character) error {
	existing, err := s.repo.GetByName(ctx, c.Name)
	switch {
	case errors.Is(err, postgres.ErrCharacterNotFound):
		_, err = s.repo.Create(ctx, c)
		return err
	case err != nil:
		return err
	}
	c.ID = existing.ID
	return s.repo.Update(ctx, c)
}

func (s *pgStore) Load(ctx context.Context, name string) (*character.Character, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *pgStore) List(ctx context.Context) ([]string, error) {
	chars, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(chars))
	for i, c := range chars {
		names[i] = c.Name
	}
	return names, nil
}

func (s *pgStore) Close() error {
	s.pool.Close()
	return nil
}
