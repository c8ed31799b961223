// Package bootstrap wires configuration, storage, broker, and background
// workers into one App handed to the transport layer.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"docuquery/internal/config"
	"docuquery/internal/model"
	mysqlClient "docuquery/internal/platform/mysql"
	rabbitmqClient "docuquery/internal/platform/rabbitmq"
	redisClient "docuquery/internal/platform/redis"
	"docuquery/internal/repository"
	"docuquery/internal/worker"
)

type App struct {
	Config       *config.Config
	MySQL        *gorm.DB
	Redis        *redis.Client
	MQConn       *amqp.Connection
	AnswerWorker *worker.AnswerPersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.Document{},
		&model.DocumentContent{},
		&model.Chunk{},
		&model.AnswerRecord{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	recordRepo := repository.NewAnswerRecordRepository(mysqlDB)
	answerWorker := worker.NewAnswerPersistWorker(mqConn, recordRepo, cfg.RabbitMQ.AnswerLogQueue)
	if err := answerWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start answer worker failed: %w", err)
	}

	return &App{
		Config:       cfg,
		MySQL:        mysqlDB,
		Redis:        redisCli,
		MQConn:       mqConn,
		AnswerWorker: answerWorker,
		StartedAt:    time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.AnswerWorker != nil {
		a.AnswerWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
