package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const (
	handlerAttempts = 3
	handlerBackoff  = 500 * time.Millisecond
)

func dialChannel(url, queueName string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare queue %s: %w", queueName, err)
	}
	return conn, ch, nil
}

type AMQPPublisher struct {
	conn  *amqp.Connection
	queue string
	log   *zap.Logger

	mu sync.Mutex
	ch *amqp.Channel
}

func NewAMQPPublisher(url, queueName string, log *zap.Logger) (*AMQPPublisher, error) {
	conn, ch, err := dialChannel(url, queueName)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AMQPPublisher{conn: conn, ch: ch, queue: queueName, log: log.Named("amqp")}, nil
}

func (p *AMQPPublisher) Dispatch(_ context.Context, applicationID uuid.UUID) error {
	body, err := json.Marshal(AnalysisRequest{ApplicationID: applicationID, RequestedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(
		"",      // default exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish analysis request: %w", err)
	}
	p.log.Debug("analysis request published", zap.String("application_id", applicationID.String()))
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.ch.Close()
	return p.conn.Close()
}

type Consumer struct {
	url     string
	queue   string
	workers int
	timeout time.Duration
	log     *zap.Logger
}

func NewConsumer(url, queueName string, workers int, taskTimeout time.Duration, log *zap.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{url: url, queue: queueName, workers: workers, timeout: taskTimeout, log: log.Named("consumer")}
}

// Run consumes analysis requests until ctx is cancelled or the broker
// connection drops.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	conn, ch, err := dialChannel(c.url, c.queue)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer ch.Close()

	if err := ch.Qos(c.workers, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	c.log.Info("consuming analysis requests", zap.String("queue", c.queue), zap.Int("workers", c.workers))

	var wg sync.WaitGroup
	wg.Add(c.workers)
	for i := 0; i < c.workers; i++ {
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-deliveries:
					if !ok {
						return
					}
					c.handleDelivery(ctx, id, d, handle)
				}
			}
		}(i + 1)
	}

	wg.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("delivery channel closed")
}

func (c *Consumer) handleDelivery(ctx context.Context, workerID int, d amqp.Delivery, handle Handler) {
	req, err := decodeRequest(d.Body)
	if err != nil {
		c.log.Warn("dropping malformed message", zap.Int("worker", workerID), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	log := c.log.With(zap.Int("worker", workerID), zap.String("application_id", req.ApplicationID.String()))
	log.Info("processing analysis request")

	err = retry(ctx, handlerAttempts, handlerBackoff, func() error {
		runCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		return handle(runCtx, req.ApplicationID)
	})
	if err != nil {
		log.Error("analysis failed", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	log.Info("analysis completed")
	_ = d.Ack(false)
}
