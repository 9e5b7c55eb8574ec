package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Handler func(ctx context.Context, event Event) error

// Subscriber drains a stream through a consumer group. An event is ACKed
// only after the handler accepts it; a failed event stays pending in the
// group and is redelivered.
type Subscriber struct {
	client *redis.Client
	config SubscriberConfig
}

type SubscriberConfig struct {
	Group         string
	Consumer      string
	Stream        string
	Handler       Handler
	BatchSize     int64
	BlockDuration time.Duration
}

// NewSubscriber applies defaults sized for the registry and transaction
// streams: small batches, short blocks, so shutdown stays responsive.
func NewSubscriber(client *redis.Client, config SubscriberConfig) *Subscriber {
	if config.BatchSize == 0 {
		config.BatchSize = 20
	}
	if config.BlockDuration == 0 {
		config.BlockDuration = 2 * time.Second
	}
	return &Subscriber{client: client, config: config}
}

// Start blocks, reading batches until ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.config.Stream, s.config.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create group %s on %s: %w", s.config.Group, s.config.Stream, err)
	}

	log.Printf("Consuming %s as %s/%s", s.config.Stream, s.config.Group, s.config.Consumer)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Stopped consuming %s", s.config.Stream)
			return ctx.Err()
		default:
			if err := s.drain(ctx); err != nil {
				log.Printf("Reading %s: %v", s.config.Stream, err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (s *Subscriber) drain(ctx context.Context) error {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.config.Group,
		Consumer: s.config.Consumer,
		Streams:  []string{s.config.Stream, ">"},
		Count:    s.config.BatchSize,
		Block:    s.config.BlockDuration,
	}).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			if err := s.dispatch(ctx, message); err != nil {
				log.Printf("Event %s on %s: %v", message.ID, s.config.Stream, err)
				continue
			}
			if err := s.client.XAck(ctx, s.config.Stream, s.config.Group, message.ID).Err(); err != nil {
				log.Printf("ACK %s on %s: %v", message.ID, s.config.Stream, err)
			}
		}
	}
	return nil
}

func (s *Subscriber) dispatch(ctx context.Context, message redis.XMessage) error {
	payload, ok := message.Values[eventField].(string)
	if !ok {
		return fmt.Errorf("message %s carries no %q field", message.ID, eventField)
	}

	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	return s.config.Handler(ctx, event)
}
