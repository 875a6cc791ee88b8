package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linzhiyi/taskpilot/internal/model"
)

const (
	historyKeyPrefix = "taskpilot:history:"
	historyTTL       = 24 * time.Hour
)

// historyCache 基于 Redis 的历史读穿缓存
// client 为 nil 时所有操作降级为空操作
type historyCache struct {
	client *redis.Client
}

func newHistoryCache(client *redis.Client) *historyCache {
	return &historyCache{client: client}
}

func historyKey(conversationID string, limit int) string {
	return fmt.Sprintf("%s%s:%d", historyKeyPrefix, conversationID, limit)
}

// load 读取缓存的历史，未命中或出错时返回 false
func (c *historyCache) load(ctx context.Context, conversationID string, limit int) ([]*model.Message, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, historyKey(conversationID, limit)).Bytes()
	if err != nil {
		return nil, false
	}

	var messages []*model.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, false
	}
	return messages, true
}

// save 写入历史缓存
func (c *historyCache) save(ctx context.Context, conversationID string, limit int, messages []*model.Message) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, historyKey(conversationID, limit), data, historyTTL).Err()
}

// invalidate 删除某对话的全部历史缓存键
func (c *historyCache) invalidate(ctx context.Context, conversationID string) error {
	if c.client == nil {
		return nil
	}

	pattern := historyKeyPrefix + conversationID + ":*"
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
