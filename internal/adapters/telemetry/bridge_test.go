package telemetry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/nole/internal/adapters/telemetry"
	"go.trai.ch/nole/internal/core/ports"
	"go.trai.ch/nole/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestLogBridge_OnEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	logger.EXPECT().Debug(gomock.Any()).Do(func(msg string) {
		assert.True(t, strings.HasPrefix(msg, "compile took "), msg)
		assert.Contains(t, msg, "pages=2")
	})

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewLogBridge(logger)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := telemetry.NewOTelTracerFromProvider(tp, "test")
	_, span := tracer.Start(context.Background(), "compile", ports.WithAttribute("pages", 2))
	span.End()
}

func TestLogBridge_OnEndWithError(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "render took")
		assert.Contains(t, msg, "failed: no compiled document")
	})

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewLogBridge(logger)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := telemetry.NewOTelTracerFromProvider(tp, "test")
	_, span := tracer.Start(context.Background(), "render")
	span.RecordError(errors.New("no compiled document"))
	span.End()
}

func TestLogBridge_NilLogger(t *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewLogBridge(nil)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "compile")
	span.End()

	bridge := telemetry.NewLogBridge(nil)
	assert.NoError(t, bridge.ForceFlush(context.Background()))
	assert.NoError(t, bridge.Shutdown(context.Background()))
}
