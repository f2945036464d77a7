package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"betting-service/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func TestPublishRoomSettled(t *testing.T) {
	w := &captureWriter{}
	p := NewPublisherWithWriter(w, "betting-events")

	winner := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	err := p.PublishRoomSettled(context.Background(), domain.RoomSettledEvent{
		RoomID:      4,
		Winners:     []common.Address{winner},
		BlockNumber: 100,
		TxHash:      common.HexToHash("0x01"),
		LogIndex:    2,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	require.Equal(t, "4", string(w.msgs[0].Key))

	var msg struct {
		ID      string             `json:"id"`
		Type    string             `json:"type"`
		Payload RoomSettledPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &msg))
	require.Equal(t, MessageRoomSettled, msg.Type)
	require.NotEmpty(t, msg.ID)
	require.Equal(t, uint64(5), msg.Payload.DisplayID)
	require.Equal(t, []string{winner.Hex()}, msg.Payload.Winners)
	require.Equal(t, msg.ID, string(w.msgs[0].Headers[0].Value))
}

func TestPublishError(t *testing.T) {
	p := NewPublisherWithWriter(&captureWriter{err: errors.New("broker down")}, "t")
	err := p.PublishRoomSettled(context.Background(), domain.RoomSettledEvent{RoomID: 1})
	require.ErrorContains(t, err, "broker down")
}
