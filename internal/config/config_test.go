package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "KAFKA_BROKERS", "LOYALTY_PRIORITY_THRESHOLD", "REVERSE_LOYALTY_ON_CANCEL", "FULFILLMENT_DELAY"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, int64(100), cfg.LoyaltyPriorityThreshold)
	assert.False(t, cfg.ReverseLoyaltyOnCancel)
	assert.Equal(t, 2*time.Second, cfg.FulfillmentDelay)
	assert.Equal(t, 8, cfg.FulfillmentWorkers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092 ")
	t.Setenv("LOYALTY_PRIORITY_THRESHOLD", "250")
	t.Setenv("REVERSE_LOYALTY_ON_CANCEL", "true")
	t.Setenv("FULFILLMENT_DELAY", "150ms")
	t.Setenv("FULFILLMENT_WORKERS", "not-a-number")

	cfg := Load()
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, int64(250), cfg.LoyaltyPriorityThreshold)
	assert.True(t, cfg.ReverseLoyaltyOnCancel)
	assert.Equal(t, 150*time.Millisecond, cfg.FulfillmentDelay)
	assert.Equal(t, 8, cfg.FulfillmentWorkers, "unparsable values fall back")
}
