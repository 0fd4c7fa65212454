package mq

import (
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
)

var (
	tracer = otel.Tracer("internal/storage/mq")

	// kTracer is installed as a client hook on both producer and consumer so
	// records carry trace context across the broker.
	kTracer = kotel.NewTracer()
)
