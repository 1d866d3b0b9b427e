package paymentevents

import (
	"context"
	"fmt"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/pkg/constvars"
	"healthcard-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	StatusQueueName     = "payment_status_events_queue"
	DeadLetterQueueName = "payment_status_events_dlq"
)

// Service publishes confirmed payment status changes to RabbitMQ with
// publisher confirms, so the UI/notification layer can consume them with
// at-least-once semantics.
type Service struct {
	ch       *amqp.Channel
	log      *zap.Logger
	confirms chan amqp.Confirmation
	mu       sync.Mutex
}

func NewService(conn *amqp.Connection, log *zap.Logger) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	// Declare standard queue (durable)
	_, err = ch.QueueDeclare(
		StatusQueueName, // name
		true,            // durable
		false,           // autoDelete
		false,           // exclusive
		false,           // noWait
		nil,             // args
	)
	if err != nil {
		return nil, err
	}

	// Declare dead-letter queue (durable)
	_, err = ch.QueueDeclare(
		DeadLetterQueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	// Enable publisher confirms for durability guarantees
	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	svc := &Service{
		ch:       ch,
		log:      log,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}

	return svc, nil
}

func (s *Service) PublishStatusChange(ctx context.Context, event *contracts.StatusChangeEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("paymentEvents.PublishStatusChange called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, event.PaymentID),
		zap.String(constvars.LoggingPaymentStatusKey, string(event.Status)),
	)

	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	return s.publish(ctx, StatusQueueName, body)
}

// PublishToDeadQueue parks an event that repeatedly failed downstream
// processing so it is not lost.
func (s *Service) PublishToDeadQueue(ctx context.Context, event *contracts.StatusChangeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	return s.publish(ctx, DeadLetterQueueName, body)
}

func (s *Service) publish(ctx context.Context, queue string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err := s.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queue)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queue)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queue)
	}
	return nil
}
