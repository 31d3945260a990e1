package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Handler processes one decoded event. A non-nil error leaves the message
// pending for redelivery.
type Handler func(ctx context.Context, event Event) error

const (
	defaultReadCount = 10
	defaultBlockTime = 5 * time.Second
)

// Subscriber follows one stream through a consumer group. Messages are acked
// only after the handler succeeds, so projections see every event at least
// once.
type Subscriber struct {
	client   *redis.Client
	group    string
	consumer string
	stream   string
	handler  Handler
	count    int64
	block    time.Duration
}

type SubscriberConfig struct {
	Group string
	// Consumer defaults to "<hostname>:<stream>" so that replicas of the
	// server get distinct consumer names within the group.
	Consumer string
	Stream   string
	Handler  Handler
	Count    int64
	Block    time.Duration
}

func NewSubscriber(client *redis.Client, config SubscriberConfig) *Subscriber {
	if config.Consumer == "" {
		host, err := os.Hostname()
		if err != nil {
			host = "hanabank"
		}
		config.Consumer = host + ":" + config.Stream
	}
	if config.Count == 0 {
		config.Count = defaultReadCount
	}
	if config.Block == 0 {
		config.Block = defaultBlockTime
	}

	return &Subscriber{
		client:   client,
		group:    config.Group,
		consumer: config.Consumer,
		stream:   config.Stream,
		handler:  config.Handler,
		count:    config.Count,
		block:    config.Block,
	}
}

// Start consumes the stream until the context is cancelled. It returns the
// context error on shutdown.
func (s *Subscriber) Start(ctx context.Context) error {
	if err := s.ensureGroup(ctx); err != nil {
		return err
	}
	log.Printf("Following %s as %s in group %s", s.stream, s.consumer, s.group)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Leaving %s", s.stream)
			return ctx.Err()
		default:
		}

		batch, err := s.read(ctx)
		if err != nil {
			log.Printf("Read from %s failed: %v", s.stream, err)
			time.Sleep(time.Second)
			continue
		}
		for _, msg := range batch {
			s.dispatch(ctx, msg)
		}
	}
}

// ensureGroup creates the group from the start of the stream so events
// published before the first boot are still projected.
func (s *Subscriber) ensureGroup(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create group %s on %s: %w", s.group, s.stream, err)
	}
	return nil
}

func (s *Subscriber) read(ctx context.Context) ([]redis.XMessage, error) {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{s.stream, ">"},
		Count:    s.count,
		Block:    s.block,
	}).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var batch []redis.XMessage
	for _, stream := range streams {
		batch = append(batch, stream.Messages...)
	}
	return batch, nil
}

// dispatch decodes, handles and acks one message. Failures are logged and the
// message stays pending.
func (s *Subscriber) dispatch(ctx context.Context, msg redis.XMessage) {
	event, err := decodeMessage(msg)
	if err != nil {
		log.Printf("Dropping undecodable message %s on %s: %v", msg.ID, s.stream, err)
		// Ack anyway: a malformed payload never becomes valid on redelivery.
		if err := s.client.XAck(ctx, s.stream, s.group, msg.ID).Err(); err != nil {
			log.Printf("Failed to ack message %s: %v", msg.ID, err)
		}
		return
	}

	if err := s.handler(ctx, event); err != nil {
		log.Printf("Handler failed for %s event %s on %s: %v", event.Type, msg.ID, s.stream, err)
		return
	}
	if err := s.client.XAck(ctx, s.stream, s.group, msg.ID).Err(); err != nil {
		log.Printf("Failed to ack message %s: %v", msg.ID, err)
	}
}

func decodeMessage(msg redis.XMessage) (Event, error) {
	raw, ok := msg.Values["event"].(string)
	if !ok {
		return Event{}, fmt.Errorf("message has no event payload")
	}
	var event Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return event, nil
}
