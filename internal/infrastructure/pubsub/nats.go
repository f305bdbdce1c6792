package pubsub

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// SubjectUserDelivery carries frames addressed to one user. Every API node
// subscribes and delivers to the sessions it holds.
const SubjectUserDelivery = "convo.user.deliver"

// Envelope is the wire format published on SubjectUserDelivery.
type Envelope struct {
	Username string          `json:"username"`
	Payload  json.RawMessage `json:"payload"`
}

// DeliverFunc hands a frame to local sessions; it reports whether a session took it.
type DeliverFunc func(username string, payload []byte) bool

// NATSBus fans user frames out across API nodes.
type NATSBus struct {
	conn *nats.Conn
	sub  *nats.Subscription
	log  zerolog.Logger
}

// NewNATSBus connects to url.
func NewNATSBus(url string, log zerolog.Logger) (*NATSBus, error) {
	if url == "" {
		return nil, errors.New("nats: url is empty")
	}
	conn, err := nats.Connect(url,
		nats.Name("go-convo"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats: connect: %w", err)
	}
	return &NATSBus{conn: conn, log: log}, nil
}

// Publish sends payload for username to every node.
func (b *NATSBus) Publish(username string, payload []byte) error {
	data, err := EncodeEnvelope(username, payload)
	if err != nil {
		return err
	}
	return b.conn.Publish(SubjectUserDelivery, data)
}

// Subscribe starts delivering envelopes from other nodes to deliver.
func (b *NATSBus) Subscribe(deliver DeliverFunc) error {
	sub, err := b.conn.Subscribe(SubjectUserDelivery, func(msg *nats.Msg) {
		env, err := DecodeEnvelope(msg.Data)
		if err != nil {
			b.log.Warn().Err(err).Msg("dropping malformed delivery envelope")
			return
		}
		deliver(env.Username, env.Payload)
	})
	if err != nil {
		return fmt.Errorf("nats: subscribe: %w", err)
	}
	b.sub = sub
	return nil
}

// Close drains the subscription and closes the connection.
func (b *NATSBus) Close() {
	if b.sub != nil {
		_ = b.sub.Unsubscribe()
	}
	b.conn.Close()
}

// EncodeEnvelope builds the wire form of a user frame.
func EncodeEnvelope(username string, payload []byte) ([]byte, error) {
	if username == "" {
		return nil, errors.New("pubsub: username is required")
	}
	if !json.Valid(payload) {
		return nil, errors.New("pubsub: payload must be JSON")
	}
	return json.Marshal(Envelope{Username: username, Payload: payload})
}

// DecodeEnvelope parses the wire form produced by EncodeEnvelope.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	if env.Username == "" {
		return Envelope{}, errors.New("pubsub: envelope without username")
	}
	return env, nil
}
