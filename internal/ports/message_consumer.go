package ports

import "context"

// MessageConsumer — фоновый потребитель сообщений (запускается и останавливается приложением).
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
