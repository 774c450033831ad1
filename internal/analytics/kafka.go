package analytics

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"bakery-be/internal/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Client struct {
	Brokers []string
}

func NewClient(brokers []string) *Client {
	out := make([]string, 0, len(brokers))
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return &Client{Brokers: out}
}

func (c *Client) Enabled() bool {
	return len(c.Brokers) > 0
}

func (c *Client) NewWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type message struct {
	Event      Event     `json:"event"`
	Props      Props     `json:"props,omitempty"`
	CustomerID string    `json:"customerId,omitempty"`
	RequestID  string    `json:"requestId,omitempty"`
	At         time.Time `json:"at"`
}

// KafkaTracker publishes events from a background goroutine. Track never
// blocks; events are dropped when the buffer is full.
type KafkaTracker struct {
	writer  messageWriter
	queue   chan kafka.Message
	timeout time.Duration
	wg      sync.WaitGroup
	once    sync.Once
}

func NewKafkaTracker(writer messageWriter, buffer int) *KafkaTracker {
	if buffer <= 0 {
		buffer = 256
	}
	t := &KafkaTracker{
		writer:  writer,
		queue:   make(chan kafka.Message, buffer),
		timeout: 5 * time.Second,
	}

	t.wg.Add(1)
	go t.run()
	return t
}

func (t *KafkaTracker) Track(ctx context.Context, event Event, props Props) {
	customerID := logger.CustomerIDFrom(ctx)
	data, err := json.Marshal(message{
		Event:      event,
		Props:      props,
		CustomerID: customerID,
		RequestID:  logger.RequestIDFrom(ctx),
		At:         time.Now().UTC(),
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("analytics event not encodable", zap.String("event", string(event)), zap.Error(err))
		return
	}

	msg := kafka.Message{Key: []byte(customerID), Value: data}
	select {
	case t.queue <- msg:
	default:
		logger.FromCtx(ctx).Warn("analytics queue full, event dropped", zap.String("event", string(event)))
	}
}

func (t *KafkaTracker) run() {
	defer t.wg.Done()

	for msg := range t.queue {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		if err := t.writer.WriteMessages(ctx, msg); err != nil {
			logger.L().Warn("analytics publish failed",
				zap.String("layer", "analytics"),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Close drains queued events and closes the writer.
func (t *KafkaTracker) Close() error {
	var err error
	t.once.Do(func() {
		close(t.queue)
		t.wg.Wait()
		err = t.writer.Close()
	})
	return err
}
