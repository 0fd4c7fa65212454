package config

import "time"

type Relay struct {
	BatchSize uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100" validate:"gt=0"`
	Interval  time.Duration `env:"RELAY_INTERVAL" envDefault:"1s" validate:"gt=0s"`
	// ProduceTimeout bounds each Kafka produce so one stuck message cannot hold the batch lock.
	ProduceTimeout time.Duration `env:"RELAY_PRODUCE_TIMEOUT" envDefault:"5s" validate:"gt=0s"`
}
