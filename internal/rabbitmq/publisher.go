package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
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

// Publisher публикует события провижининга в обменник provisioning.
// Реализует интерфейс EventPublisher оркестратора.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishUserCreated публикует событие создания учетной записи.
func (p *Publisher) PublishUserCreated(event any) error {
	return PublishMessage(p.ch, ExchangeName, UserCreatedRoutingKey, event)
}

// PublishUserDeleted публикует событие удаления учетной записи.
func (p *Publisher) PublishUserDeleted(event any) error {
	return PublishMessage(p.ch, ExchangeName, UserDeletedRoutingKey, event)
}
