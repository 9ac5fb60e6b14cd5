package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fleet-rental-backend/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultDialTimeout = 2 * time.Second
	pendingEvents      = 256
)

var (
	ErrPublisherClosed = errors.New("publisher closed")
	ErrPublishBacklog  = errors.New("publish backlog full")
)

// AMQPPublisher sends events to a durable RabbitMQ queue through the default
// exchange. Publish only queues the event; a background worker owns the
// connection, opens it on first use and reopens it after a failure. While the
// broker is unreachable the worker drops events instead of redialing for each.
type AMQPPublisher struct {
	url         string
	queue       string
	dialTimeout time.Duration

	mu      sync.RWMutex
	closed  bool
	pending chan Event
	done    chan struct{}

	// owned by the worker
	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time
}

// NewAMQPPublisher starts the delivery worker. A non-positive dialTimeout
// means DefaultDialTimeout.
func NewAMQPPublisher(url, queue string, dialTimeout time.Duration) *AMQPPublisher {
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	p := &AMQPPublisher{
		url:         url,
		queue:       queue,
		dialTimeout: dialTimeout,
		pending:     make(chan Event, pendingEvents),
		done:        make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish queues e for delivery. It never waits on the broker.
func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.pending <- e:
		return nil
	default:
		return fmt.Errorf("%w: %d events waiting", ErrPublishBacklog, cap(p.pending))
	}
}

// Close stops accepting events, waits for the queued ones to be delivered or
// dropped, then closes the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.pending)
	}
	p.mu.Unlock()
	<-p.done
	return nil
}

func (p *AMQPPublisher) run() {
	defer close(p.done)
	defer p.reset()

	for e := range p.pending {
		if err := p.deliver(e); err != nil {
			logger.Warn("Event not delivered", "type", e.Type, "eventID", e.ID, "queue", p.queue, "error", err)
		}
	}
}

func (p *AMQPPublisher) deliver(e Event) error {
	body, err := e.Encode()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	logger.ExternalServiceCall("rabbitmq", "publish", "queue", p.queue, "type", e.Type, "eventID", e.ID)
	if err := p.connect(); err != nil {
		logger.ExternalServiceResult("rabbitmq", "publish", err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.dialTimeout)
	defer cancel()
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Type:         string(e.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.reset()
	}
	logger.ExternalServiceResult("rabbitmq", "publish", err)
	return err
}

func (p *AMQPPublisher) connect() error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.reset()
	if now := time.Now(); now.Before(p.retryAt) {
		return fmt.Errorf("broker unavailable, next dial in %s", p.retryAt.Sub(now).Round(time.Millisecond))
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.dialTimeout),
	})
	if err != nil {
		p.retryAt = time.Now().Add(p.dialTimeout)
		return fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare queue %s: %w", p.queue, err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}
