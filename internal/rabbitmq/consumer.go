package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/blogapp/internal/lib/sl"
)

// ErrUnprocessable помечает сообщение, которое бессмысленно возвращать в очередь.
var ErrUnprocessable = errors.New("unprocessable message")

// ConsumeChannel — часть *amqp.Channel, нужная для чтения очереди.
type ConsumeChannel interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// ConsumerMessage читает очередь queueName и передаёт тела сообщений в handler,
// выполняя не больше workers обработчиков одновременно.
// Блокируется до отмены ctx или закрытия канала доставки и дожидается
// завершения уже запущенных обработчиков.
func ConsumerMessage(
	ctx context.Context,
	ch ConsumeChannel,
	queueName string,
	workers int,
	log *slog.Logger,
	handler func([]byte) error,
) error {
	const op = "rabbitmq.ConsumerMessage"
	log = log.With(slog.String("op", op), slog.String("queue", queueName))

	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, max(workers, 1))
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case d, ok := <-delivery:
			if !ok {
				log.Info("delivery channel closed")
				return nil
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				if nackErr := d.Nack(false, true); nackErr != nil {
					log.Error("failed to nack message", sl.Err(nackErr))
				}
				return nil
			}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				handle(log, d, handler)
			}(d)
		case <-ctx.Done():
			return nil
		}
	}
}

func handle(log *slog.Logger, d amqp.Delivery, handler func([]byte) error) {
	err := handler(d.Body)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			log.Error("failed to ack message", sl.Err(ackErr))
		}
		return
	}

	requeue := !errors.Is(err, ErrUnprocessable)
	log.Warn("message handling failed", sl.Err(err), slog.Bool("requeue", requeue))
	if nackErr := d.Nack(false, requeue); nackErr != nil {
		log.Error("failed to nack message", sl.Err(nackErr))
	}
}
