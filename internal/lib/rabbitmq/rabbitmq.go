// Package rabbitmq содержит вспомогательные функции для публикации
// событий биллинга в RabbitMQ.
package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// BillingExchange — exchange для событий биллинга.
const BillingExchange = "billing.events"

// UpgradedRoutingKey — ключ маршрутизации события об апгрейде аккаунта.
const UpgradedRoutingKey = "account.upgraded"

// Connect открывает соединение и канал, объявляет exchange и очередь
// для событий биллинга.
func Connect(addr string) (*amqp.Connection, *amqp.Channel, error) {
	const op = "rabbitmq.Connect"

	conn, err := amqp.Dial(addr)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := SetupQueues(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

// SetupQueues объявляет exchange событий биллинга и привязывает к нему
// очередь для сервиса нотификаций.
func SetupQueues(ch *amqp.Channel) error {
	const op = "rabbitmq.SetupQueues"

	if err := ch.ExchangeDeclare(BillingExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	q, err := ch.QueueDeclare("billing.upgraded", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.QueueBind(q.Name, UpgradedRoutingKey, BillingExchange, false, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
