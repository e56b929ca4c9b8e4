package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ritzau/glytrait/pkg/logging"
)

// ErrClosed is returned once the publisher has been closed
var ErrClosed = errors.New("publisher is closed")

// subscriberBuffer bounds how far a slow subscriber may fall behind before
// events are dropped for it
const subscriberBuffer = 64

// TopicConfig configures the history kept for a topic
type TopicConfig struct {
	BufferSize int  // events kept for late subscribers, 0 keeps none
	ReplayAll  bool // replay the whole history instead of only the latest event
}

// SSEPublisher is an in-memory Publisher whose events are written out as
// server-sent events
type SSEPublisher struct {
	mu      sync.Mutex
	subs    map[string]map[*sseSubscription]struct{}
	version map[string]int
	history map[string][]Event
	topics  map[string]TopicConfig
	closed  bool
}

// NewSSEPublisher creates an empty publisher
func NewSSEPublisher() *SSEPublisher {
	return &SSEPublisher{
		subs:    make(map[string]map[*sseSubscription]struct{}),
		version: make(map[string]int),
		history: make(map[string][]Event),
		topics:  make(map[string]TopicConfig),
	}
}

// ConfigureTopic sets the history kept for topic
func (p *SSEPublisher) ConfigureTopic(topic string, cfg TopicConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics[topic] = cfg
}

// Subscribe registers a subscription and replays the topic history into it
func (p *SSEPublisher) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}

	sub := &sseSubscription{topic: topic, events: make(chan Event, subscriberBuffer), publisher: p}
	if p.subs[topic] == nil {
		p.subs[topic] = make(map[*sseSubscription]struct{})
	}
	p.subs[topic][sub] = struct{}{}

	replay := p.history[topic]
	if !p.topics[topic].ReplayAll && len(replay) > 1 {
		replay = replay[len(replay)-1:]
	}
	if len(replay) > subscriberBuffer {
		replay = replay[len(replay)-subscriberBuffer:]
	}
	for _, e := range replay {
		sub.events <- e
	}
	if len(replay) > 0 {
		logging.Debug("Replayed events", "topic", topic, "count", len(replay))
	}

	go func() {
		<-ctx.Done()
		sub.Close()
	}()
	return sub, nil
}

// Publish sends an event to every subscriber of topic. Subscribers whose
// buffer is full miss the event.
func (p *SSEPublisher) Publish(topic string, eventType string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshalling %s event: %w", topic, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	p.version[topic]++
	event := Event{Topic: topic, Type: eventType, Data: raw, Version: p.version[topic]}

	if size := p.topics[topic].BufferSize; size > 0 {
		h := append(p.history[topic], event)
		if len(h) > size {
			h = h[len(h)-size:]
		}
		p.history[topic] = h
	}

	for sub := range p.subs[topic] {
		select {
		case sub.events <- event:
		default:
			logging.Warn("Subscriber too slow, dropping event", "topic", topic, "version", event.Version)
		}
	}
	return nil
}

// Close closes every subscription
func (p *SSEPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	for _, subs := range p.subs {
		for sub := range subs {
			close(sub.events)
		}
	}
	p.subs = nil
	return nil
}

// unsubscribe removes sub and closes its channel unless Close already did
func (p *SSEPublisher) unsubscribe(sub *sseSubscription) {
	p.mu.Lock()
	defer p.mu.Unlock()
	subs, ok := p.subs[sub.topic]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(p.subs, sub.topic)
	}
	close(sub.events)
}

type sseSubscription struct {
	topic     string
	events    chan Event
	publisher *SSEPublisher
	once      sync.Once
}

func (s *sseSubscription) Topic() string { return s.topic }

func (s *sseSubscription) Events() <-chan Event { return s.events }

func (s *sseSubscription) Close() error {
	s.once.Do(func() { s.publisher.unsubscribe(s) })
	return nil
}

// WriteSSE writes event as a server-sent event frame: "event: <type>",
// "id: <version>" and "data: <json>"
func WriteSSE(w io.Writer, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\nid: %d\ndata: %s\n\n", event.Type, event.Version, data)
	return err
}
