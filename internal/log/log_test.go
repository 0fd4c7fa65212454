package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/stockdesk/internal/config"
	"github.com/tuanvumaihuynh/stockdesk/internal/log"
	"github.com/tuanvumaihuynh/stockdesk/pkg/correlationid"
)

func TestNew(t *testing.T) {
	t.Run("Should enrich JSON records with correlation id", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf, config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo})

		ctx := correlationid.NewContext(context.Background(), "corr-1")
		logger.With(slog.String("service", "test")).InfoContext(ctx, "hello")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "hello", rec["msg"])
		assert.Equal(t, "corr-1", rec["correlation_id"])
		assert.Equal(t, "test", rec["service"])
		assert.NotContains(t, rec, "trace_id")
	})

	t.Run("Should add trace and span id of active span", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf, config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo})

		spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    trace.TraceID{0x0a, 0x0b},
			SpanID:     trace.SpanID{0x01},
			TraceFlags: trace.FlagsSampled,
		})
		logger.InfoContext(trace.ContextWithSpanContext(context.Background(), spanCtx), "traced")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, spanCtx.TraceID().String(), rec["trace_id"])
		assert.Equal(t, spanCtx.SpanID().String(), rec["span_id"])
		assert.NotContains(t, rec, "correlation_id")
	})

	t.Run("Should honour level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf, config.Log{Format: config.LogFormatText, Level: slog.LevelWarn, NoColor: true})

		logger.Info("dropped")
		assert.Empty(t, buf.String())

		logger.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})
}
