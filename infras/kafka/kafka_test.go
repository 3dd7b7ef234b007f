package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"rentals/config"
	"rentals/infras/otel/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledIsNoop(t *testing.T) {
	tests := []struct {
		name    string
		enable  bool
		brokers []string
	}{
		{name: "disabled", enable: false, brokers: []string{"localhost:9092"}},
		{name: "enabled without brokers", enable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Kafka.Enable = tt.enable
			cfg.Kafka.Brokers = tt.brokers

			producer := New(cfg, mocks.NewOtel())

			assert.IsType(t, noopProducer{}, producer)
			require.NoError(t, producer.Publish(context.Background(), "rentals.bookings", Message{Key: "k", Value: 1}))
			require.NoError(t, producer.Close())
		})
	}
}

func TestNew_EnabledBuildsWriter(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Enable = true
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Kafka.SASL.Username = "user"
	cfg.Kafka.SASL.Password = "secret"

	producer, ok := New(cfg, mocks.NewOtel()).(*producerImpl)
	require.True(t, ok)
	assert.Equal(t, "localhost:9092", producer.writer.Addr.String())
	assert.True(t, producer.writer.AllowAutoTopicCreation)
}

func TestMessage_toKafkaMessage(t *testing.T) {
	t.Run("json value", func(t *testing.T) {
		msg := Message{Key: "listing-1", Value: map[string]string{"type": "booking.created"}}

		out, err := msg.toKafkaMessage("rentals.bookings")
		require.NoError(t, err)

		assert.Equal(t, "rentals.bookings", out.Topic)
		assert.Equal(t, []byte("listing-1"), out.Key)

		var decoded map[string]string
		require.NoError(t, json.Unmarshal(out.Value, &decoded))
		assert.Equal(t, "booking.created", decoded["type"])
	})

	t.Run("unmarshalable value", func(t *testing.T) {
		msg := Message{Key: "k", Value: make(chan int)}

		_, err := msg.toKafkaMessage("topic")
		require.Error(t, err)
	})
}
