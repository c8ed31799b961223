package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"docuquery/internal/model"
)

// AnswerPublisher pushes answer records onto a durable queue. Persistence
// happens off the request path so a slow database write never delays the
// answer back to the caller.
type AnswerPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewAnswerPublisher(conn *amqp.Connection, queueName string) *AnswerPublisher {
	return &AnswerPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *AnswerPublisher) Publish(ctx context.Context, record model.AnswerRecord) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("declare answer queue failed: %w", err)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal answer record failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish answer record failed: %w", err)
	}
	return nil
}
