package config

import "time"

type Kafka struct {
	Enabled   bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	Addresses []string `env:"KAFKA_ADDRESSES" envSeparator:"," envDefault:"localhost:9092"`
	Group     string   `env:"KAFKA_GROUP" envDefault:"store-ledger"`
}

// Relay tunes the outbox relay that publishes ledger events to Kafka.
type Relay struct {
	BatchSize uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100"`
	Interval  time.Duration `env:"RELAY_INTERVAL" envDefault:"1s"`
}
