package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix é o prefixo das chaves de sessão no Redis.
// O serviço de sessões grava o JSON da sessão em "pvp:session:<id>".
const sessionKeyPrefix = "pvp:session:"

// RedisStore implementa SessionStore sobre um Redis compartilhado com o
// backend principal do jogo.
type RedisStore struct {
	cli *redis.Client
}

// NewRedisStore conecta no Redis e valida a conexão com um ping.
func NewRedisStore(addr string) (*RedisStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cli := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("erro ao conectar no redis em %s: %w", addr, err)
	}
	return &RedisStore{cli: cli}, nil
}

func (s *RedisStore) GetSession(ctx context.Context, sessionID string) (*GameSession, error) {
	raw, err := s.cli.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao ler sessão %s: %w", sessionID, err)
	}

	var sess GameSession
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("sessão %s com JSON inválido: %w", sessionID, err)
	}
	sess.SessionID = sessionID
	return &sess, nil
}

// Close encerra o pool de conexões.
func (s *RedisStore) Close() error {
	return s.cli.Close()
}
