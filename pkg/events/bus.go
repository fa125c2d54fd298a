package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Emitter publishes events without waiting for subscribers.
type Emitter interface {
	Emit(ctx context.Context, event Event)
}

// Handler processes one delivered event. Payload values arrive JSON-decoded,
// so numbers are float64.
type Handler func(ctx context.Context, event Event) error

// Bus dispatches events in-process, one gochannel topic per event type.
type Bus struct {
	pubSub *gochannel.GoChannel
	logger watermill.LoggerAdapter

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewBus(logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Subscribe runs handler on its own goroutine for every event of eventType
// emitted after the call returns.
func (b *Bus) Subscribe(eventType, name string, handler Handler) error {
	messages, err := b.pubSub.Subscribe(b.ctx, eventType)
	if err != nil {
		return fmt.Errorf("subscribe %s to %s: %w", name, eventType, err)
	}

	fields := watermill.LogFields{"subscriber": name, "event_type": eventType}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for msg := range messages {
			b.deliver(msg, handler, fields)
		}
	}()
	return nil
}

func (b *Bus) deliver(msg *message.Message, handler Handler, fields watermill.LogFields) {
	// Handler failures are logged only; redelivery would block the topic.
	defer msg.Ack()

	var event BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		b.logger.Error("Dropping undecodable event", err, fields)
		return
	}
	if err := handler(msg.Context(), event); err != nil {
		b.logger.Error("Event handler failed", err, fields.Add(watermill.LogFields{"message_uuid": msg.UUID}))
	}
}

// Emit never reports failures to the caller; they are logged.
func (b *Bus) Emit(ctx context.Context, event Event) {
	payload, err := json.Marshal(Envelope(event))
	if err != nil {
		b.logger.Error("Failed to encode event", err, watermill.LogFields{"event_type": event.EventType()})
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubSub.Publish(event.EventType(), msg); err != nil {
		b.logger.Error("Failed to publish event", err, watermill.LogFields{"event_type": event.EventType()})
	}
}

// Close stops every subscriber and waits for in-flight handlers.
func (b *Bus) Close() error {
	b.cancel()
	err := b.pubSub.Close()
	b.wg.Wait()
	return err
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, event Event)

func (f EmitterFunc) Emit(ctx context.Context, event Event) { f(ctx, event) }

// Emitters hands every event to each emitter in order. Synchronous emitters
// listed first have finished before asynchronous ones see the event.
type Emitters []Emitter

func (m Emitters) Emit(ctx context.Context, event Event) {
	for _, e := range m {
		e.Emit(ctx, event)
	}
}

// NopEmitter drops every event.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, Event) {}
