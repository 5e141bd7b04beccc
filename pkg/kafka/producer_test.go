package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func header(msg kafka.Message, key string) string {
	return HeaderCarrier{Headers: &msg.Headers}.Get(key)
}

func TestPublish_WritesKeyedMessage(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, discardLogger())

	ev, err := NewEvent("product.created", "prod-1", "product", "skylarbox-api", map[string]string{"name": "Box"})
	require.NoError(t, err)
	ev.WithTracerID("trace-1")

	require.NoError(t, p.Publish(context.Background(), "catalog.events", ev))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "catalog.events", msg.Topic)
	assert.Equal(t, "prod-1", string(msg.Key))
	assert.Equal(t, "product.created", header(msg, "event_type"))
	assert.Equal(t, "skylarbox-api", header(msg, "source"))
	assert.Equal(t, "trace-1", header(msg, "tracer"))

	decoded, err := UnmarshalEvent(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, ev.EventID, decoded.EventID)
	assert.Equal(t, "trace-1", decoded.TracerID)
}

func TestPublish_InjectsTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	w := &fakeWriter{}
	p := newProducer(w, nil, discardLogger())
	ev, err := NewEvent("blog.updated", "b-1", "blog", "skylarbox-api", nil)
	require.NoError(t, err)

	require.NoError(t, p.Publish(ctx, "catalog.events", ev))

	require.Len(t, w.msgs, 1)
	assert.Contains(t, header(w.msgs[0], "traceparent"), span.SpanContext().TraceID().String())
}

func TestPublish_WriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newProducer(w, nil, discardLogger())
	ev, err := NewEvent("partner.deleted", "p-1", "partner", "skylarbox-api", nil)
	require.NoError(t, err)

	err = p.Publish(context.Background(), "catalog.events", ev)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Contains(t, err.Error(), "catalog.events")
}

func TestClose_ClosesWriter(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, discardLogger())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no brokers")
}
