package messaging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromDriver(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		opts    FactoryOptions
		wantErr error
	}{
		{name: "Empty", driver: ""},
		{name: "None", driver: " NONE "},
		{name: "Unknown", driver: "rabbit", wantErr: ErrUnknownDriver},
		{name: "NSQMissingAddr", driver: DriverNSQ, wantErr: ErrNSQProducerAddrRequired},
		{name: "KafkaMissingBrokers", driver: DriverKafka, wantErr: ErrKafkaBrokersRequired},
		{name: "NATSMissingURL", driver: DriverNATS, wantErr: ErrNATSURLRequired},
		{name: "KafkaLazy", driver: DriverKafka, opts: FactoryOptions{Kafka: KafkaConfig{Brokers: []string{"localhost:9092"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewFromDriver(tt.driver, tt.opts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, m.Close())
		})
	}
}

func TestDiscard_Publish(t *testing.T) {
	res, err := Discard{}.Publish(context.Background(), "account.user_registered", OutgoingMessage{Body: []byte(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, "account.user_registered", res.Topic)

	_, err = Discard{}.Publish(context.Background(), "", OutgoingMessage{})
	assert.ErrorIs(t, err, ErrDestinationRequired)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Discard{}.Publish(ctx, "x", OutgoingMessage{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKafka_ClosedRejectsPublish(t *testing.T) {
	k, err := NewKafka(KafkaConfig{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	require.NoError(t, k.Close())
	require.NoError(t, k.Close())

	_, err = k.Publish(context.Background(), "topic", OutgoingMessage{})
	assert.Error(t, err)
}
