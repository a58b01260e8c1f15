package tracing

import (
	"context"
	"encoding/hex"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bitcoin-sv/p2p-wire/pkg/wire"
)

const tracerName = "github.com/bitcoin-sv/p2p-wire"

// StartTracing starts a span on the global tracer provider. The returned span is nil when tracing is disabled.
func StartTracing(ctx context.Context, spanName string, tracingEnabled bool, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	if !tracingEnabled {
		return ctx, nil
	}

	tracer := otel.Tracer(tracerName)

	if len(attributes) > 0 {
		return tracer.Start(ctx, spanName, trace.WithAttributes(attributes...))
	}

	return tracer.Start(ctx, spanName)
}

func EndTracing(span trace.Span, err error) {
	if span != nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// FrameAttributes describes a frame on a span.
func FrameAttributes(msg *wire.Message) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("command", msg.Command),
		attribute.Int("payload.size", len(msg.Payload)),
		attribute.String("checksum", hex.EncodeToString(msg.Checksum[:])),
	}
}
