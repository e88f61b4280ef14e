package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hack-adventure/internal/config"
)

const (
	connectRetries    = 20
	connectRetryDelay = 3 * time.Second
)

// retry повторяет attempt, пока он не выполнится, не кончатся попытки или не отменится ctx.
func retry(ctx context.Context, log *zap.Logger, what string, attempt func(ctx context.Context) error) error {
	var lastErr error
	for i := 1; i <= connectRetries; i++ {
		if lastErr = attempt(ctx); lastErr == nil {
			log.Info("Connected", zap.String("target", what), zap.Int("attempt", i))
			return nil
		}
		log.Warn("Connection failed, retrying...",
			zap.String("target", what),
			zap.Int("attempt", i),
			zap.Int("max_retries", connectRetries),
			zap.Error(lastErr),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", what, ctx.Err())
		case <-time.After(connectRetryDelay):
		}
	}
	return fmt.Errorf("failed to connect to %s after %d attempts: %w", what, connectRetries, lastErr)
}

// setupPostgres создает пул PostgreSQL с повторными попытками.
func setupPostgres(ctx context.Context, cfg *config.Config, log *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("unable to parse postgres config: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MaxConnIdleTime = cfg.DBIdleTimeout

	var pool *pgxpool.Pool
	err = retry(ctx, log, "postgres", func(ctx context.Context) error {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		p, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
		if err != nil {
			return err
		}
		if err := p.Ping(connectCtx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	return pool, err
}

// setupRedis создает клиент Redis и проверяет соединение.
func setupRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	var client *redis.Client
	err := retry(ctx, log, "redis", func(ctx context.Context) error {
		c := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := c.Ping(pingCtx).Err(); err != nil {
			_ = c.Close()
			return err
		}
		client = c
		return nil
	})
	return client, err
}

// connectRabbitMQ подключается к RabbitMQ и логирует неожиданный разрыв соединения.
func connectRabbitMQ(ctx context.Context, rawURL string, log *zap.Logger) (*amqp.Connection, error) {
	log.Info("Attempting to connect to RabbitMQ", zap.String("url", maskURL(rawURL)))
	var conn *amqp.Connection
	err := retry(ctx, log, "rabbitmq", func(context.Context) error {
		c, err := amqp.Dial(rawURL)
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	go func() {
		notifyClose := conn.NotifyClose(make(chan *amqp.Error, 1))
		if err := <-notifyClose; err != nil {
			log.Error("RabbitMQ connection closed unexpectedly", zap.Error(err))
		}
	}()
	return conn, nil
}

// maskURL скрывает пароль в URL для логов.
func maskURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url"
	}
	return u.Redacted()
}
