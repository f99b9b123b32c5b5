//go:generate mockgen -package=redis -destination=mock.go -source=interfaces.go

package redis

// IProducer 定義了 Producer 的操作介面
type IProducer[T any] interface {
	Start()
	Publish(data T) error
	Close()
}
