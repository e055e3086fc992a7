package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "documind:chat:"

// RedisRepo stores each document's conversation as a Redis list of JSON entries.
type RedisRepo struct {
	client *redis.Client
}

// NewRedisRepo wraps an existing client.
func NewRedisRepo(client *redis.Client) *RedisRepo {
	return &RedisRepo{client: client}
}

// DialRedis connects and pings with a short timeout.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              password,
		DB:                    db,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping addr=%s: %w", addr, err)
	}
	return client, nil
}

type redisMessage struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	CreatedDate time.Time `json:"created_date"`
}

func (r *RedisRepo) Append(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	raw, err := json.Marshal(redisMessage(msg))
	if err != nil {
		return err
	}
	return r.client.RPush(ctx, redisKey(msg.DocumentID), raw).Err()
}

func (r *RedisRepo) ListByDocument(ctx context.Context, documentID string) ([]Message, error) {
	entries, err := r.client.LRange(ctx, redisKey(documentID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Message, 0, len(entries))
	for _, e := range entries {
		var m redisMessage
		if err := json.Unmarshal([]byte(e), &m); err != nil {
			return nil, fmt.Errorf("decode chat entry document=%s: %w", documentID, err)
		}
		out = append(out, Message(m))
	}
	return out, nil
}

func redisKey(documentID string) string {
	return redisKeyPrefix + documentID
}

var _ Repo = (*RedisRepo)(nil)
