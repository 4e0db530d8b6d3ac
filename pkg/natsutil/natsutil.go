// Package natsutil provides typed NATS publish/subscribe/request helpers
// with OpenTelemetry trace propagation.
package natsutil

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
)

// headerCarrier adapts nats.Msg headers for OTel TextMapCarrier.
type headerCarrier struct {
	msg *nats.Msg
}

func (c headerCarrier) Get(key string) string {
	if c.msg.Header == nil {
		return ""
	}
	return c.msg.Header.Get(key)
}

func (c headerCarrier) Set(key, val string) {
	if c.msg.Header == nil {
		c.msg.Header = make(nats.Header)
	}
	c.msg.Header.Set(key, val)
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.msg.Header))
	for k := range c.msg.Header {
		keys = append(keys, k)
	}
	return keys
}

// Publish serializes v as JSON and publishes to the given subject.
// Trace context from ctx is injected into NATS message headers.
func Publish[T any](ctx context.Context, nc *nats.Conn, subject string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &nats.Msg{Subject: subject, Data: data}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{msg})
	return nc.PublishMsg(msg)
}

// Subscribe registers a handler that deserializes JSON messages of type T.
// Trace context is extracted from NATS message headers and passed to the
// handler. Malformed messages are silently dropped.
func Subscribe[T any](nc *nats.Conn, subject string, handler func(context.Context, T)) (*nats.Subscription, error) {
	return nc.Subscribe(subject, func(msg *nats.Msg) {
		var v T
		if err := json.Unmarshal(msg.Data, &v); err != nil {
			return
		}
		ctx := otel.GetTextMapPropagator().Extract(context.Background(), headerCarrier{msg})
		handler(ctx, v)
	})
}

// Request sends a JSON-encoded request and decodes the response.
// Uses nats.DefaultTimeout.
func Request[Req, Resp any](ctx context.Context, nc *nats.Conn, subject string, req Req) (Resp, error) {
	var zero Resp
	data, err := json.Marshal(req)
	if err != nil {
		return zero, err
	}
	msg := &nats.Msg{Subject: subject, Data: data}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{msg})
	resp, err := nc.RequestMsg(msg, nats.DefaultTimeout)
	if err != nil {
		return zero, err
	}
	var result Resp
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return zero, err
	}
	return result, nil
}

// Serve registers a queue-group request handler: each request of type Req is
// answered with the handler's Resp on the message's reply subject. Malformed
// requests are dropped; a queue group spreads load across worker replicas.
func Serve[Req, Resp any](nc *nats.Conn, subject, queue string, handler func(context.Context, Req) Resp) (*nats.Subscription, error) {
	return nc.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		var req Req
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return
		}
		ctx := otel.GetTextMapPropagator().Extract(context.Background(), headerCarrier{msg})
		resp := handler(ctx, req)
		data, err := json.Marshal(resp)
		if err != nil {
			return
		}
		msg.Respond(data)
	})
}
