package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// cachedAnswer is the stored payload. Entries live in redis for the
// retention TTL but are only served while younger than the serve TTL;
// the stale tail is kept for inspection, not for serving.
type cachedAnswer struct {
	Answer   string    `json:"answer"`
	Stage    string    `json:"stage"`
	Sources  []string  `json:"sources"`
	StoredAt time.Time `json:"stored_at"`
}

type AnswerCache struct {
	client    *redisv9.Client
	serveTTL  time.Duration
	retainTTL time.Duration
}

func NewAnswerCache(client *redisv9.Client, serveTTL, retainTTL time.Duration) *AnswerCache {
	if serveTTL <= 0 {
		serveTTL = 5 * time.Minute
	}
	if retainTTL < serveTTL {
		retainTTL = 2 * serveTTL
	}
	return &AnswerCache{
		client:    client,
		serveTTL:  serveTTL,
		retainTTL: retainTTL,
	}
}

// Get returns the cached answer for (question, documentID) if one exists
// and is still fresh enough to serve.
func (c *AnswerCache) Get(ctx context.Context, question string, documentID uint) (string, string, []string, bool, error) {
	raw, err := c.client.Get(ctx, c.key(question, documentID)).Result()
	if err == redisv9.Nil {
		return "", "", nil, false, nil
	}
	if err != nil {
		return "", "", nil, false, fmt.Errorf("redis get answer failed: %w", err)
	}

	var entry cachedAnswer
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return "", "", nil, false, fmt.Errorf("unmarshal cached answer failed: %w", err)
	}
	if time.Since(entry.StoredAt) > c.serveTTL {
		return "", "", nil, false, nil
	}
	return entry.Answer, entry.Stage, entry.Sources, true, nil
}

func (c *AnswerCache) Set(ctx context.Context, question string, documentID uint, answer, stage string, sources []string) error {
	payload, err := json.Marshal(cachedAnswer{
		Answer:   answer,
		Stage:    stage,
		Sources:  sources,
		StoredAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal answer cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(question, documentID), payload, c.retainTTL).Err(); err != nil {
		return fmt.Errorf("redis set answer failed: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached answer. Called when the document set
// changes, since answers over "all documents" may no longer hold.
func (c *AnswerCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "qa:answer:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis delete answer failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan answers failed: %w", err)
	}
	return nil
}

func (c *AnswerCache) key(question string, documentID uint) string {
	sum := sha256.Sum256([]byte(question))
	return fmt.Sprintf("qa:answer:%d:%s", documentID, hex.EncodeToString(sum[:]))
}
