// Package worker holds background consumers that drain RabbitMQ queues
// into MySQL.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"docuquery/internal/model"
	"docuquery/internal/repository"
)

// AnswerPersistWorker consumes published answer records and writes them
// to the audit table. Malformed or unpersistable deliveries are nacked
// without requeue so one poison message cannot wedge the queue.
type AnswerPersistWorker struct {
	conn      *amqp.Connection
	repo      *repository.AnswerRecordRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewAnswerPersistWorker(conn *amqp.Connection, repo *repository.AnswerRecordRepository, queueName string) *AnswerPersistWorker {
	return &AnswerPersistWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *AnswerPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if _, err := ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume answer queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var record model.AnswerRecord
				if err := json.Unmarshal(d.Body, &record); err != nil {
					log.Printf("worker decode answer record failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}
				record.ID = 0

				if err := w.repo.Create(&record); err != nil {
					log.Printf("worker persist answer record failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *AnswerPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
