package config

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router         *chi.Mux
	Redis          *redis.Client
	MongoDB        *mongo.Client
	RabbitMQ       *amqp091.Connection
	Logger         *zap.Logger
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	// MonitorStop if set is called during Shutdown to stop the abandoned-payment monitor
	MonitorStop func()
	// RouterStop if set is called during Shutdown to tear down the deep-link router
	RouterStop func()
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.MonitorStop != nil {
		b.MonitorStop()
		log.Println("Successfully stopped abandoned-payment monitor")
	}

	if b.RouterStop != nil {
		b.RouterStop()
		log.Println("Successfully stopped deep-link router")
	}

	err := b.Redis.Close()
	if err != nil {
		return err
	}
	log.Println("Successfully closing Redis")

	err = b.RabbitMQ.Close()
	if err != nil {
		return err
	}
	log.Println("Successfully closing RabbitMQ")

	err = b.MongoDB.Disconnect(ctx)
	if err != nil {
		return err
	}
	log.Println("Successfully closing MongoDB")

	err = b.Logger.Sync()
	if err != nil {
		return err
	}
	log.Println("Successfully closing Logger")

	return nil
}
