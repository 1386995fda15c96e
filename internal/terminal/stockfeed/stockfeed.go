// Package stockfeed consumes the remote stock change feed. An event means
// some other terminal or the back office changed committed stock; the local
// response is always the same wholesale move: throw the catalog snapshot away
// and signal listeners to recompute from fresh reads.
package stockfeed

import (
	"context"
	"fmt"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/camachodev/puntoventa-backend/pkg/logger"
	"github.com/camachodev/puntoventa-backend/pkg/metrics"
	"github.com/camachodev/puntoventa-backend/pkg/pubsub"
)

// TopicStockChanged is fired on the notify hub after each applied event.
const TopicStockChanged = "stock-changed"

// Invalidator discards a cached catalog snapshot.
type Invalidator interface {
	Invalidate()
}

// Notifier fans a topic out to local listeners.
type Notifier interface {
	Notify(topic string)
}

// Handler applies decoded stock events to the terminal's local state.
type Handler struct {
	cache   Invalidator
	hub     Notifier
	metrics *metrics.TerminalMetrics
	logg    *logger.Logger
}

// NewHandler wires the event handler. Metrics may be nil.
func NewHandler(cache Invalidator, hub Notifier, m *metrics.TerminalMetrics, logg *logger.Logger) (*Handler, error) {
	if cache == nil {
		return nil, fmt.Errorf("catalog invalidator required")
	}
	if hub == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Handler{cache: cache, hub: hub, metrics: m, logg: logg}, nil
}

// HandleEvent processes one raw feed payload. Malformed payloads are
// rejected; well-formed ones invalidate the snapshot wholesale — the event's
// count is deliberately not patched into the cache.
func (h *Handler) HandleEvent(ctx context.Context, data []byte) error {
	ev, err := pubsub.DecodeStockEvent(data)
	if err != nil {
		if h.metrics != nil {
			h.metrics.IncStockEvent("rejected")
		}
		return err
	}

	h.cache.Invalidate()
	h.hub.Notify(TopicStockChanged)

	if h.metrics != nil {
		h.metrics.IncStockEvent("applied")
	}
	h.logg.Info(h.logg.WithField(ctx, "product_id", ev.ProductID.String()), "stock event applied")
	return nil
}

// Subscriber pumps the Pub/Sub subscription into the handler.
type Subscriber struct {
	sub     *gcppubsub.Subscriber
	handler *Handler
	logg    *logger.Logger
}

// NewSubscriber binds a subscription to the handler.
func NewSubscriber(sub *gcppubsub.Subscriber, handler *Handler, logg *logger.Logger) (*Subscriber, error) {
	if sub == nil {
		return nil, fmt.Errorf("pubsub subscriber required")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Subscriber{sub: sub, handler: handler, logg: logg}, nil
}

// Run blocks receiving events until ctx is canceled. Malformed messages are
// acked and dropped: redelivery cannot fix a bad payload, and the wholesale
// invalidation model tolerates missed events on the next good one.
func (s *Subscriber) Run(ctx context.Context) error {
	err := s.sub.Receive(ctx, func(msgCtx context.Context, msg *gcppubsub.Message) {
		if handleErr := s.handler.HandleEvent(msgCtx, msg.Data); handleErr != nil {
			s.logg.Warn(msgCtx, "dropping malformed stock event: "+handleErr.Error())
		}
		msg.Ack()
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stock feed receive: %w", err)
	}
	return nil
}
