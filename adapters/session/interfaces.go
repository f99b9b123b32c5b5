//go:generate mockgen -package=session -destination=mock.go -source=interfaces.go

package session

import "context"

// IStore 是 session 資料的儲存後端
type IStore interface {
	Load(ctx context.Context, name string) (map[string]string, error)
	Save(ctx context.Context, name string, data map[string]string) error
}

// ISession 是單一請求看到的 session
// 修改只存在於記憶體中，直到呼叫 Save
type ISession interface {
	Load() error
	Get(key string) string
	Set(key, value string)
	Pop(key string) string
	Delete(key string)
	Clear()
	Save() error
}
