// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// Redis keeps each paper as a JSON string under {prefix}:paper:{id} and
// orders them with a sorted set {prefix}:papers scored by creation time.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to the server at addr and verifies it answers.
func NewRedis(ctx context.Context, addr, password string, db int, prefix string) (*Redis, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	if prefix == "" {
		prefix = "paper-genius"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	slog.Info("paper store opened", "driver", DriverRedis, "addr", addr)
	return &Redis{client: client, prefix: prefix}, nil
}

func (s *Redis) paperKey(id string) string { return s.prefix + ":paper:" + id }
func (s *Redis) indexKey() string          { return s.prefix + ":papers" }

func (s *Redis) Get(ctx context.Context, id string) (types.Paper, error) {
	doc, err := s.client.Get(ctx, s.paperKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.Paper{}, ErrNotFound
	}
	if err != nil {
		return types.Paper{}, fmt.Errorf("reading paper %s: %w", id, err)
	}
	return decodePaper(doc)
}

func (s *Redis) List(ctx context.Context) ([]types.Paper, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading paper index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.paperKey(id)
	}
	docs, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("reading papers: %w", err)
	}

	papers := make([]types.Paper, 0, len(docs))
	for i, d := range docs {
		doc, ok := d.(string)
		if !ok {
			slog.Warn("paper index entry has no document", "id", ids[i])
			continue
		}
		p, err := decodePaper([]byte(doc))
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	sortNewest(papers)
	return papers, nil
}

func (s *Redis) Create(ctx context.Context, p types.Paper) (types.Paper, error) {
	p = prepare(p)
	doc, err := json.Marshal(p)
	if err != nil {
		return types.Paper{}, fmt.Errorf("marshaling paper: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.paperKey(p.ID), doc, 0)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(p.GeneratedAt.UnixMicro()), Member: p.ID})
		return nil
	})
	if err != nil {
		return types.Paper{}, fmt.Errorf("saving paper: %w", err)
	}
	return p, nil
}

func (s *Redis) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.paperKey(id))
		pipe.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting paper %s: %w", id, err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the client.
func (s *Redis) Close() error {
	return s.client.Close()
}
