package keyval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 5 * time.Second
	setTimeout            = 15 * time.Second // covers a serial handshake
	disconnectQuiesce     = 1000 // milliseconds
	maxQoS                = 2
	setSuffix             = "set"
)

var (
	ErrNotConnected     = errors.New("mqtt: client not connected")
	ErrConnectionFailed = errors.New("mqtt: connection failed")
	ErrPublishFailed    = errors.New("mqtt: publish failed")
	ErrSubscribeFailed  = errors.New("mqtt: subscribe failed")
	ErrInvalidQoS       = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")
)

// MQTTOptions configure the broker connection.
type MQTTOptions struct {
	Broker      string // e.g. tcp://localhost:1883
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
}

// SetHandler is called for every value written to <prefix>/<key>/set.
type SetHandler func(ctx context.Context, key, value string) error

// MQTTPublisher mirrors values as retained messages on <prefix>/<key> and
// accepts writes on <prefix>/<key>/set.
type MQTTPublisher struct {
	client pahomqtt.Client
	prefix string
	qos    byte

	mu      sync.RWMutex
	handler SetHandler
	sets    sync.WaitGroup
}

// DialMQTT connects to the broker. Subscriptions are restored after an
// automatic reconnect.
func DialMQTT(opts MQTTOptions) (*MQTTPublisher, error) {
	if opts.QoS > maxQoS {
		return nil, ErrInvalidQoS
	}

	p := &MQTTPublisher{prefix: strings.TrimSuffix(opts.TopicPrefix, "/"), qos: opts.QoS}

	co := pahomqtt.NewClientOptions()
	co.AddBroker(opts.Broker)
	co.SetClientID(opts.ClientID)
	if opts.Username != "" {
		co.SetUsername(opts.Username)
		co.SetPassword(opts.Password)
	}
	co.SetCleanSession(true)
	co.SetAutoReconnect(true)
	// set handlers run in their own goroutines
	co.SetOrderMatters(false)
	co.SetConnectTimeout(defaultConnectTimeout)
	co.SetOnConnectHandler(func(pahomqtt.Client) {
		if err := p.subscribe(); err != nil {
			log.Warn().Err(err).Msg("Failed to restore MQTT subscription")
		}
	})
	co.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		log.Warn().Err(err).Str("broker", opts.Broker).Msg("MQTT connection lost")
	})

	p.client = pahomqtt.NewClient(co)
	token := p.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	log.Info().Str("broker", opts.Broker).Str("prefix", p.prefix).Msg("Connected to MQTT broker")
	return p, nil
}

// NewMQTTPublisher wraps an already configured client.
func NewMQTTPublisher(client pahomqtt.Client, prefix string, qos byte) *MQTTPublisher {
	return &MQTTPublisher{client: client, prefix: strings.TrimSuffix(prefix, "/"), qos: qos}
}

// Topic returns the state topic of key.
func (p *MQTTPublisher) Topic(key string) string {
	return p.prefix + "/" + key
}

// SetNamedValue implements light.Mirror by publishing a retained message.
func (p *MQTTPublisher) SetNamedValue(_ context.Context, key, value string) error {
	if !p.client.IsConnected() {
		return ErrNotConnected
	}
	token := p.client.Publish(p.Topic(key), p.qos, true, value)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// HandleSets subscribes to <prefix>/+/set and passes every write to h.
func (p *MQTTPublisher) HandleSets(h SetHandler) error {
	p.mu.Lock()
	p.handler = h
	p.mu.Unlock()
	return p.subscribe()
}

func (p *MQTTPublisher) subscribe() error {
	p.mu.RLock()
	h := p.handler
	p.mu.RUnlock()
	if h == nil {
		return nil
	}

	topic := p.prefix + "/+/" + setSuffix
	token := p.client.Subscribe(topic, p.qos, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		key, ok := p.keyOf(msg.Topic())
		if !ok {
			return
		}
		// Applying a value drives lights, which must not stall the
		// client's message delivery.
		p.sets.Add(1)
		go func() {
			defer p.sets.Done()
			p.dispatch(h, key, string(msg.Payload()))
		}()
	})
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}
	return nil
}

func (p *MQTTPublisher) dispatch(h SetHandler, key, payload string) {
	ctx, cancel := context.WithTimeout(context.Background(), setTimeout)
	defer cancel()
	if err := h(ctx, key, strings.TrimSpace(payload)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("MQTT set failed")
	}
}

// keyOf extracts key from <prefix>/<key>/set.
func (p *MQTTPublisher) keyOf(topic string) (string, bool) {
	rest, ok := strings.CutPrefix(topic, p.prefix+"/")
	if !ok {
		return "", false
	}
	key, ok := strings.CutSuffix(rest, "/"+setSuffix)
	if !ok || key == "" || strings.Contains(key, "/") {
		return "", false
	}
	return key, true
}

// Close disconnects from the broker and waits for running set handlers.
func (p *MQTTPublisher) Close() error {
	if p.client != nil {
		p.client.Disconnect(disconnectQuiesce)
	}
	p.sets.Wait()
	return nil
}
