package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gavel/adapters/session"
)

// Store 實現了 session.IStore 介面，每個 session 對應一個 Redis hash
type Store struct {
	client  *redis.Client // Redis 客戶端連線
	options StoreOptions  // Store 的配置選項
}

// StoreOptions 定義了 Store 的配置選項
type StoreOptions struct {
	Prefix string
	// TTL 為 0 時 session 不會過期
	TTL time.Duration
}

type StoreOption func(*StoreOptions)

// WithStorePrefix 設定 Store 的 key 前綴
func WithStorePrefix(prefix string) StoreOption {
	return func(o *StoreOptions) {
		o.Prefix = prefix
	}
}

// WithStoreTTL 設定 session 在 Redis 中的存活時間，每次保存都會重新計算
func WithStoreTTL(ttl time.Duration) StoreOption {
	return func(o *StoreOptions) {
		o.TTL = ttl
	}
}

// NewStore 建立一個新的 Store 實例
func NewStore(client *redis.Client, opts ...StoreOption) session.IStore {
	options := &StoreOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return &Store{
		client:  client,
		options: *options,
	}
}

// Load 從 Redis 中載入指定名稱的資料
func (s *Store) Load(ctx context.Context, name string) (map[string]string, error) {
	const op = "redis.Store.Load"
	key := s.options.Prefix + name

	result, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get hash: %w", op, err)
	}

	// key 不存在時 Redis 會回傳空 map
	return result, nil
}

// saveScript 原子性地刪除舊的 hash 並寫入新的欄位
// ARGV[1] 是以秒為單位的 TTL，其餘參數為欄位與值
var saveScript = redis.NewScript(`
local key = KEYS[1]
local ttl = tonumber(ARGV[1])
redis.call('DEL', key)
if #ARGV > 1 then
    redis.call('HSET', key, unpack(ARGV, 2))
    if ttl > 0 then
        redis.call('EXPIRE', key, ttl)
    end
end
return 1
`)

// Save 將資料儲存到 Redis 中
// NOTE: 會先刪除舊的資料，再設定新的資料，這個過程是原子性的；資料為空時等同刪除
func (s *Store) Save(ctx context.Context, name string, data map[string]string) error {
	const op = "redis.Store.Save"
	key := s.options.Prefix + name
	// 準備參數
	args := make([]any, 0, len(data)*2+1)
	args = append(args, int64(s.options.TTL/time.Second))
	for k, v := range data {
		args = append(args, k, v)
	}
	// 執行 Lua 腳本
	if err := saveScript.Run(ctx, s.client, []string{key}, args...).Err(); err != nil {
		return fmt.Errorf("%s: failed to execute save script: %w", op, err)
	}

	return nil
}
