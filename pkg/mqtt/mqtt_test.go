package mqtt

import (
	"context"
	"sync"
	"testing"
	"time"

	mqttlib "github.com/eclipse/paho.mqtt.golang"
	qt "github.com/frankban/quicktest"
)

type doneToken struct {
	mqttlib.Token
	err error
}

func (t doneToken) Done() <-chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}

func (t doneToken) Error() error { return t.err }

// broker records the published messages.
type broker struct {
	mqttlib.Client

	mu        sync.Mutex
	connected bool
	connects  int
	published []Message
}

func (b *broker) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

func (b *broker) Connect() mqttlib.Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connects++
	b.connected = true
	return doneToken{}
}

func (b *broker) Publish(topic string, qos byte, retained bool, payload interface{}) mqttlib.Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, Message{Topic: topic, Qos: qos, Retained: retained, Payload: payload.([]byte)})
	return doneToken{}
}

func (b *broker) messages() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.published...)
}

func TestPublishWithoutBroker(t *testing.T) {
	c := qt.New(t)

	m := New()
	c.Assert(m.Connect(""), qt.IsNil)
	c.Assert(m.Publish("necir/frame", map[string]int{"address": 0x78}), qt.IsNil)
	c.Assert(m.C, qt.HasLen, 0)
	c.Assert(m.Disconnect(), qt.IsNil)
}

func TestService(t *testing.T) {
	c := qt.New(t)

	b := &broker{}
	m := New()
	m.client = b

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Service(ctx)
		close(done)
	}()

	c.Assert(m.Publish("necir/frame", struct {
		Address int `json:"address"`
	}{0x78}), qt.IsNil)
	c.Assert(m.Publish("", "ignored"), qt.IsNil)

	deadline := time.Now().Add(time.Second)
	for len(b.messages()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	msgs := b.messages()
	c.Assert(msgs, qt.HasLen, 1)
	c.Assert(msgs[0].Topic, qt.Equals, "necir/frame")
	c.Assert(string(msgs[0].Payload), qt.Equals, `{"address":120}`)
	c.Assert(msgs[0].Retained, qt.IsTrue)
	// the broker wasn't connected before the first message
	c.Assert(b.connects, qt.Equals, 1)
}

func TestPublishQueueFull(t *testing.T) {
	c := qt.New(t)

	m := New()
	m.client = &broker{}
	for i := 0; i < queueSize+3; i++ {
		c.Assert(m.Publish("necir/frame", i), qt.IsNil)
	}
	c.Assert(m.C, qt.HasLen, queueSize)

	c.Assert(m.Publish("necir/frame", make(chan int)), qt.IsNotNil)
}
