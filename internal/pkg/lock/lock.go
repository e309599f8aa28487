package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// releaseScript 只释放自己持有的锁
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// DocLock 按文档 ID 的 Redis 咨询锁。
// 同一文档的并发分析在 worker 路径上互斥；TTL 防止持有者崩溃后死锁。
type DocLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDocLock(client *redis.Client, ttl time.Duration) *DocLock {
	return &DocLock{client: client, ttl: ttl}
}

func lockKey(documentID int64) string {
	return fmt.Sprintf("doc_analysis_lock:%d", documentID)
}

// Acquire 尝试获取锁。返回释放令牌；锁被他人持有时返回 ok=false。
func (l *DocLock) Acquire(ctx context.Context, documentID int64) (token string, ok bool, err error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", false, err
	}
	token = hex.EncodeToString(buf)

	ok, err = l.client.SetNX(ctx, lockKey(documentID), token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	return token, ok, nil
}

// Release 释放锁。令牌不匹配（锁已过期被他人重新获取）时不做任何事。
func (l *DocLock) Release(ctx context.Context, documentID int64, token string) error {
	err := l.client.Eval(ctx, releaseScript, []string{lockKey(documentID)}, token).Err()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
