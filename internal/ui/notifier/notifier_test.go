package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func received(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

func TestNotifier_Subscribe_Unsubscribe(t *testing.T) {
	n := New()

	ch := n.Subscribe(TopicQuotes)
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Listeners())

	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Listeners())

	_, open := <-ch
	assert.False(t, open, "channel should be closed")

	// A second unsubscribe is harmless.
	n.Unsubscribe(ch)
}

func TestNotifier_PublishByTopic(t *testing.T) {
	n := New()

	quotes := n.Subscribe(TopicQuotes)
	content := n.Subscribe(TopicContent)
	both := n.Subscribe(TopicQuotes, TopicContent)
	all := n.Subscribe()
	defer n.Unsubscribe(quotes)
	defer n.Unsubscribe(content)
	defer n.Unsubscribe(both)
	defer n.Unsubscribe(all)

	n.Publish(TopicQuotes)

	assert.True(t, received(quotes))
	assert.False(t, received(content), "content listener must not see quote pings")
	assert.True(t, received(both))
	assert.True(t, received(all))

	n.Publish(TopicContent)
	assert.False(t, received(quotes))
	assert.True(t, received(content))
}

func TestNotifier_Publish_NonBlocking(t *testing.T) {
	n := New()

	ch := n.Subscribe(TopicQuotes)
	defer n.Unsubscribe(ch)

	ch <- struct{}{}

	done := make(chan bool)
	go func() {
		n.Publish(TopicQuotes)
		n.Publish(TopicQuotes)
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Error("Publish blocked on full channel")
	}

	assert.True(t, received(ch))
	assert.False(t, received(ch), "pending pings coalesce into one")
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe(TopicContent)
			n.Publish(TopicContent)
			n.Unsubscribe(ch)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, n.Listeners())
}
