// Package notifier pings SSE handlers when site data changes.
package notifier

import "sync"

// Topic names a kind of change.
type Topic string

// Topics published by the site.
const (
	// TopicQuotes fires after a quote request is stored or purged.
	TopicQuotes Topic = "quotes"
	// TopicContent fires after the content file is reloaded.
	TopicContent Topic = "content"
)

// Notifier fans out change pings to subscribers of a topic. A ping
// carries no payload; receivers re-read whatever they render.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]map[Topic]bool
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]map[Topic]bool),
	}
}

// Subscribe returns a channel that receives a ping whenever one of topics
// is published. With no topics the channel receives every ping.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe(topics ...Topic) chan struct{} {
	ch := make(chan struct{}, 1)
	set := make(map[Topic]bool, len(topics))
	for _, t := range topics {
		set[t] = true
	}
	n.mu.Lock()
	n.listeners[ch] = set
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	_, ok := n.listeners[ch]
	delete(n.listeners, ch)
	n.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Publish pings every listener subscribed to topic. It never blocks: a
// listener that already has a ping pending keeps just the one.
func (n *Notifier) Publish(topic Topic) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch, topics := range n.listeners {
		if len(topics) > 0 && !topics[topic] {
			continue
		}
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Listeners returns the number of active subscriptions.
func (n *Notifier) Listeners() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
