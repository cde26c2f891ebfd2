package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domainagg "github.com/yungbote/profileforms-backend/internal/domain/aggregates"
)

const tracerName = "profileforms/services"

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan marks span failed when err is non-nil and returns err unchanged.
func endSpan(span trace.Span, err error) error {
	if err == nil {
		return nil
	}
	if code := domainagg.CodeOf(err); code != "" {
		span.SetAttributes(attribute.String("error.code", string(code)))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
