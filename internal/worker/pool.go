// Package worker consumes analysis jobs from RabbitMQ and publishes their results.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/util"
)

const (
	consumerTag     = "resume-analyzer"
	redialBase      = time.Second
	redialLimit     = 30 * time.Second
	defaultWorkers  = 1
	defaultQueue    = "resume-analysis"
	defaultExchange = "resume-analysis-results"
)

var errDeliveriesClosed = errors.New("deliveries channel closed")

// Config describes the broker topology.
type Config struct {
	RabbitMQURL string `mapstructure:"rabbitmq-url"`
	Queue       string `mapstructure:"queue"`
	Exchange    string `mapstructure:"exchange"`
	Workers     int    `mapstructure:"workers"`
}

// Pool runs a fixed number of consumers, each on its own channel.
type Pool struct {
	cfg     Config
	handler *Handler
	logger  *zap.Logger
	dial    func(url string) (*amqp.Connection, error)
}

// New builds a Pool.
func New(cfg Config, handler *Handler, logger *zap.Logger) (*Pool, error) {
	if cfg.RabbitMQURL == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}
	if cfg.Queue == "" {
		cfg.Queue = defaultQueue
	}
	if cfg.Exchange == "" {
		cfg.Exchange = defaultExchange
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{cfg: cfg, handler: handler, logger: logger, dial: amqp.Dial}, nil
}

// Run consumes until ctx is cancelled, redialing with backoff when the
// connection drops.
func (p *Pool) Run(ctx context.Context) error {
	attempt := 0
	for {
		connected, err := p.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			attempt = 0
		}

		delay := util.Backoff(redialBase, redialLimit, attempt)
		attempt++
		p.logger.Warn("rabbitmq session ended", zap.Error(err), zap.Duration("retry_in", delay))
		if err := util.WaitFor(ctx, delay); err != nil {
			return nil
		}
	}
}

func (p *Pool) session(ctx context.Context) (bool, error) {
	conn, err := p.dial(p.cfg.RabbitMQURL)
	if err != nil {
		return false, fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer conn.Close()

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group := startConsumers(ctx, cancel, p.cfg.Workers, func(ctx context.Context, id int, ready func()) error {
		return p.consume(ctx, conn, id, ready)
	})
	p.logger.Info("worker pool started",
		zap.Int("workers", p.cfg.Workers),
		zap.String("queue", p.cfg.Queue),
		zap.String("exchange", p.cfg.Exchange),
	)

	var sessionErr error
	select {
	case <-ctx.Done():
	case amqpErr := <-closed:
		if amqpErr != nil {
			sessionErr = amqpErr
		} else {
			sessionErr = errors.New("connection closed")
		}
	}

	cancel()
	_ = conn.Close()

	connected, consumeErr := group.wait()
	if sessionErr == nil {
		sessionErr = consumeErr
	}
	return connected, sessionErr
}

// consumerGroup tracks the consumers of one connection.
type consumerGroup struct {
	wg    sync.WaitGroup
	ready atomic.Int32
	errs  chan error
}

// startConsumers runs n consumers. The first failing consumer cancels the rest.
func startConsumers(ctx context.Context, cancel context.CancelFunc, n int, run func(ctx context.Context, id int, ready func()) error) *consumerGroup {
	g := &consumerGroup{errs: make(chan error, n)}
	g.wg.Add(n)
	for i := range n {
		go func(id int) {
			defer g.wg.Done()
			if err := run(ctx, id, func() { g.ready.Add(1) }); err != nil {
				g.errs <- err
				cancel()
			}
		}(i)
	}
	return g
}

// wait blocks until every consumer returned. connected is true when at least
// one consumer got as far as receiving deliveries.
func (g *consumerGroup) wait() (connected bool, err error) {
	g.wg.Wait()
	select {
	case err = <-g.errs:
	default:
	}
	return g.ready.Load() > 0, err
}

func (p *Pool) consume(ctx context.Context, conn *amqp.Connection, id int, ready func()) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := declare(ch, p.cfg); err != nil {
		return err
	}

	msgs, err := ch.Consume(
		p.cfg.Queue,
		fmt.Sprintf("%s-%d", consumerTag, id+1),
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", p.cfg.Queue, err)
	}

	ready()

	log := p.logger.With(zap.Int("worker", id+1))
	log.Debug("worker started")
	pub := &channelPublisher{ch: ch, exchange: p.cfg.Exchange}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errDeliveriesClosed
			}
			p.deliver(ctx, log, msg, pub)
		}
	}
}

func (p *Pool) deliver(ctx context.Context, log *zap.Logger, msg amqp.Delivery, pub Publisher) {
	err := p.handler.Handle(ctx, msg.Body, pub)
	switch {
	case err == nil:
		if ackErr := msg.Ack(false); ackErr != nil {
			log.Warn("ack failed", zap.Error(ackErr))
		}
	case errors.Is(err, ErrMalformedJob):
		log.Warn("rejecting malformed job", zap.Error(err))
		if nackErr := msg.Nack(false, false); nackErr != nil {
			log.Warn("nack failed", zap.Error(nackErr))
		}
	default:
		log.Error("job delivery failed", zap.Error(err))
		if nackErr := msg.Nack(false, true); nackErr != nil {
			log.Warn("nack failed", zap.Error(nackErr))
		}
	}
}

func declare(ch *amqp.Channel, cfg Config) error {
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", cfg.Queue, err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	return nil
}

type channelPublisher struct {
	ch       *amqp.Channel
	exchange string
}

func (c *channelPublisher) Publish(_ context.Context, key string, update Update) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}
	return c.ch.Publish(c.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Body:         body,
	})
}
