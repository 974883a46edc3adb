package telemetry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/knowgraph/internal/adapters/telemetry"
	"go.trai.ch/knowgraph/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	return recorder
}

func TestOTelTracer_RecordsAttributesAndErrors(t *testing.T) {
	recorder := installRecorder(t)
	tracer := telemetry.NewOTelTracer(telemetry.InstrumentationName)

	_, span := tracer.Start(context.Background(), "graph.build")
	span.SetAttribute("posts", 3)
	span.SetAttribute("slug", "0001_intro")
	span.SetAttribute("cached", false)
	span.SetAttribute("ratio", 1.5)
	span.SetAttribute("other", struct{ A int }{A: 1})
	span.RecordError(errors.New("template missing"))
	span.RecordError(nil)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	got := ended[0]
	assert.Equal(t, "graph.build", got.Name())
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "template missing", got.Status().Description)
	assert.Contains(t, got.Attributes(), attribute.Int("posts", 3))
	assert.Contains(t, got.Attributes(), attribute.String("slug", "0001_intro"))
	assert.Contains(t, got.Attributes(), attribute.Bool("cached", false))
	assert.Contains(t, got.Attributes(), attribute.Float64("ratio", 1.5))
	assert.Contains(t, got.Attributes(), attribute.String("other", "{1}"))
}

func TestBridge_LogsFinishedSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	var infos, warns []string
	log.EXPECT().Info(gomock.Any()).Do(func(msg string) { infos = append(infos, msg) })
	log.EXPECT().Warn(gomock.Any()).Do(func(msg string) { warns = append(warns, msg) })

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(log)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tracer := tp.Tracer("test")

	_, ok := tracer.Start(context.Background(), "parse.post")
	ok.End()

	_, failed := tracer.Start(context.Background(), "graph.build")
	failed.SetAttributes(attribute.Int("posts", 2))
	failed.SetStatus(codes.Error, "boom")
	failed.End()

	require.Len(t, infos, 1)
	assert.True(t, strings.HasPrefix(infos[0], "span parse.post took "))

	require.Len(t, warns, 1)
	assert.True(t, strings.HasPrefix(warns[0], "span graph.build took "))
	assert.Contains(t, warns[0], "posts=2")
	assert.Contains(t, warns[0], `error="boom"`)
}

func TestBridge_NilLogger(t *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(nil)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	assert.NotPanics(t, func() {
		_, span := tp.Tracer("test").Start(context.Background(), "x")
		span.End()
	})
}

func TestNoOpTracer(t *testing.T) {
	ctx := context.Background()
	got, span := telemetry.NewNoOpTracer().Start(ctx, "x")

	assert.Equal(t, ctx, got)
	assert.NotPanics(t, func() {
		span.SetAttribute("k", "v")
		span.RecordError(errors.New("x"))
		span.End()
	})
}
