package billing

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/lib/rabbitmq"
)

// AMQPPublisher публикует события апгрейда в RabbitMQ.
type AMQPPublisher struct {
	ch *amqp.Channel
}

// NewAMQPPublisher создает издателя поверх открытого канала.
func NewAMQPPublisher(ch *amqp.Channel) *AMQPPublisher {
	return &AMQPPublisher{ch: ch}
}

// PublishUpgraded отправляет событие апгрейда в exchange биллинга.
// Сообщение публикуется persistent: потерянное событие — потерянное
// письмо «добро пожаловать в премиум».
func (p *AMQPPublisher) PublishUpgraded(event UpgradedEvent) error {
	const op = "billing.PublishUpgraded"

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		rabbitmq.BillingExchange,
		rabbitmq.UpgradedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
