package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mhkgpt/mhk-gpt/internal/domain/chat/models"
	"github.com/mhkgpt/mhk-gpt/internal/infrastructure/redis"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "chat:history:"

// Store persists conversation history per session
type Store interface {
	Get(ctx context.Context, sessionID string) ([]models.Message, error)
	Append(ctx context.Context, sessionID string, messages ...models.Message) error
	Delete(ctx context.Context, sessionID string) error
}

// NewStore uses Redis when available and memory otherwise. maxStored caps the
// number of messages kept per session and ttl expires idle sessions.
func NewStore(redisService *redis.Service, maxStored int, ttl time.Duration) Store {
	if redisService != nil {
		log.Info().Msg("Using Redis history store")
		return NewRedisStore(redisService, maxStored, ttl)
	}
	log.Info().Msg("Using in-memory history store")
	return NewMemoryStore(maxStored, ttl)
}

type RedisStore struct {
	redisService *redis.Service
	maxStored    int
	ttl          time.Duration
}

func NewRedisStore(redisService *redis.Service, maxStored int, ttl time.Duration) *RedisStore {
	return &RedisStore{redisService: redisService, maxStored: maxStored, ttl: ttl}
}

func (rs *RedisStore) Get(ctx context.Context, sessionID string) ([]models.Message, error) {
	vals, err := rs.redisService.LRange(ctx, keyPrefix+sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	messages := make([]models.Message, 0, len(vals))
	for _, v := range vals {
		var m models.Message
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("Skipping undecodable history entry")
			continue
		}
		if !m.Valid() {
			log.Warn().Str("session_id", sessionID).Str("role", m.Role).Msg("Skipping history entry with unknown role")
			continue
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (rs *RedisStore) Append(ctx context.Context, sessionID string, messages ...models.Message) error {
	if len(messages) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(messages))
	for _, m := range messages {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
		values = append(values, string(data))
	}

	if err := rs.redisService.RPushCapped(ctx, keyPrefix+sessionID, int64(rs.maxStored), rs.ttl, values...); err != nil {
		return fmt.Errorf("failed to store history: %w", err)
	}
	return nil
}

func (rs *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return rs.redisService.Delete(ctx, keyPrefix+sessionID)
}

type conversation struct {
	messages  []models.Message
	expiresAt time.Time
}

type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*conversation
	maxStored     int
	ttl           time.Duration
	now           func() time.Time
}

func NewMemoryStore(maxStored int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]*conversation),
		maxStored:     maxStored,
		ttl:           ttl,
		now:           time.Now,
	}
}

func (ms *MemoryStore) Get(ctx context.Context, sessionID string) ([]models.Message, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	c, exists := ms.conversations[sessionID]
	if !exists || ms.expired(c) {
		return []models.Message{}, nil
	}
	return append([]models.Message(nil), c.messages...), nil
}

func (ms *MemoryStore) Append(ctx context.Context, sessionID string, messages ...models.Message) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	c, exists := ms.conversations[sessionID]
	if !exists || ms.expired(c) {
		c = &conversation{}
		ms.conversations[sessionID] = c
	}

	c.messages = append(c.messages, messages...)
	if ms.maxStored > 0 && len(c.messages) > ms.maxStored {
		c.messages = append([]models.Message(nil), c.messages[len(c.messages)-ms.maxStored:]...)
	}
	if ms.ttl > 0 {
		c.expiresAt = ms.now().Add(ms.ttl)
	}

	ms.evictExpired()
	return nil
}

func (ms *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.conversations, sessionID)
	return nil
}

// Len returns the number of live conversations
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	n := 0
	for _, c := range ms.conversations {
		if !ms.expired(c) {
			n++
		}
	}
	return n
}

func (ms *MemoryStore) expired(c *conversation) bool {
	return !c.expiresAt.IsZero() && ms.now().After(c.expiresAt)
}

// evictExpired drops expired conversations. Callers hold ms.mu for writing.
func (ms *MemoryStore) evictExpired() {
	for id, c := range ms.conversations {
		if ms.expired(c) {
			delete(ms.conversations, id)
		}
	}
}
