package interfaces

import (
	"context"
)

// KafkaService публикует снимки состояния контроллеров во внешнюю шину.
// Ключом сообщения служит идентификатор сессии.
type KafkaService interface {
	Produce(ctx context.Context, key, value []byte) error
	Close() error
}
