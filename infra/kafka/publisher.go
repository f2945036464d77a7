// Package kafka publishes settlement events for downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"betting-service/domain"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const MessageRoomSettled = "room_settled"

type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Message struct {
	ID        uuid.UUID   `json:"id"`
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

type RoomSettledPayload struct {
	RoomID      uint64   `json:"room_id"`
	DisplayID   uint64   `json:"display_id"`
	Winners     []string `json:"winners"`
	BlockNumber uint64   `json:"block_number"`
	TxHash      string   `json:"tx_hash"`
	LogIndex    uint     `json:"log_index"`
}

type Publisher struct {
	writer MessageWriter
	topic  string
}

func NewPublisher(cfg Config) *Publisher {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
	}
	zap.L().Info("Kafka publisher initialized", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return &Publisher{writer: w, topic: cfg.Topic}
}

// NewPublisherWithWriter is used when the writer is built elsewhere.
func NewPublisherWithWriter(w MessageWriter, topic string) *Publisher {
	return &Publisher{writer: w, topic: topic}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// PublishRoomSettled sends one settlement keyed by room id, so all events for
// a room land on the same partition.
func (p *Publisher) PublishRoomSettled(ctx context.Context, ev domain.RoomSettledEvent) error {
	winners := make([]string, len(ev.Winners))
	for i, w := range ev.Winners {
		winners[i] = w.Hex()
	}
	msg := Message{
		ID:        uuid.New(),
		Type:      MessageRoomSettled,
		Timestamp: time.Now().UTC(),
		Payload: RoomSettledPayload{
			RoomID:      ev.RoomID,
			DisplayID:   ev.RoomID + 1,
			Winners:     winners,
			BlockNumber: ev.BlockNumber,
			TxHash:      ev.TxHash.Hex(),
			LogIndex:    ev.LogIndex,
		},
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msg.Type, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(ev.RoomID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "message-id", Value: []byte(msg.ID.String())},
			{Key: "message-type", Value: []byte(msg.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", msg.Type, p.topic, err)
	}
	return nil
}
