// Package mqtt publishes messages to a mqtt broker.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	mqttlib "github.com/eclipse/paho.mqtt.golang"
	"github.com/womat/debug"
)

const (
	// quiesce is the number of milliseconds to wait for existing work to be completed.
	quiesce = 250
	// connectTimeout limits the wait for the broker on connect.
	connectTimeout = 5 * time.Second
	// queueSize is the number of messages which are buffered while a message is published.
	queueSize = 16
)

// Handler contains the client of the mqtt broker.
type Handler struct {
	client mqttlib.Client
	// C is the queue of the messages to publish.
	// Service takes the messages from C and publishes them.
	C chan Message
}

// Message contains the properties of the mqtt message.
type Message struct {
	Topic    string
	Payload  []byte
	Qos      byte
	Retained bool
}

// New returns a handler without broker connection. Messages are dropped until Connect is called.
func New() *Handler {
	return &Handler{
		C: make(chan Message, queueSize),
	}
}

// Connect connects to the mqtt broker, e.g. tcp://127.0.0.1:1883.
// If no broker is defined, no mqtt message is sent.
func (m *Handler) Connect(broker string) error {
	if broker == "" {
		return nil
	}

	host, _ := os.Hostname()
	opts := mqttlib.NewClientOptions().
		AddBroker(broker).
		SetClientID(fmt.Sprintf("necir-%s-%d", host, os.Getpid())).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(true)

	m.client = mqttlib.NewClient(opts)
	return m.connect()
}

func (m *Handler) connect() error {
	t := m.client.Connect()
	<-t.Done()
	return t.Error()
}

// Disconnect ends the connection to the broker.
func (m *Handler) Disconnect() error {
	if m.client == nil {
		return nil
	}

	m.client.Disconnect(quiesce)
	return nil
}

// Publish marshals v to json and queues it for topic.
// A message is dropped if the queue is full, the capture loop never waits for the broker.
func (m *Handler) Publish(topic string, v interface{}) error {
	if m.client == nil || topic == "" {
		return nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("can't marshal mqtt message: %w", err)
	}

	select {
	case m.C <- Message{Topic: topic, Payload: b, Qos: 0, Retained: true}:
	default:
		debug.ErrorLog.Printf("mqtt queue is full, message to topic %v dropped", topic)
	}
	return nil
}

// Service publishes the messages of channel C until ctx is cancelled.
// If no client is defined, the messages are ignored.
func (m *Handler) Service(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-m.C:
			m.publish(msg)
		}
	}
}

func (m *Handler) publish(msg Message) {
	if m.client == nil || msg.Topic == "" {
		return
	}

	if !m.client.IsConnected() {
		debug.DebugLog.Printf("mqtt broker isn't connected, reconnect it")

		if err := m.connect(); err != nil {
			debug.ErrorLog.Printf("can't reconnect to mqtt broker %v", err)
			return
		}
	}

	debug.DebugLog.Printf("publishing %v bytes to topic %v", len(msg.Payload), msg.Topic)
	t := m.client.Publish(msg.Topic, msg.Qos, msg.Retained, msg.Payload)

	go func() {
		<-t.Done()
		if err := t.Error(); err != nil {
			debug.ErrorLog.Printf("publishing topic %v: %v", msg.Topic, err)
		}
	}()
}
