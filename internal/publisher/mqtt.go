package publisher

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"ecogo/internal/logger"
	"ecogo/internal/models"
)

const (
	defaultTopicPrefix = "ecogo"
	defaultClientID    = "ecogo"
	publishQoS         = 1
	disconnectQuiesce  = 250 // ms
)

// Config holds the MQTT broker settings.
type Config struct {
	Enabled        bool          `mapstructure:"enabled"`
	Broker         string        `mapstructure:"broker"` // host:port
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	ClientID       string        `mapstructure:"client_id"`
	TopicPrefix    string        `mapstructure:"topic_prefix"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

// client is the subset of mqtt.Client the publisher needs.
type client interface {
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTT publishes finalized usage records and auto-shutdown alerts so other
// systems (dashboards, home automation) can follow a user's consumption.
type MQTT struct {
	client  client
	prefix  string
	timeout time.Duration
	log     *logger.Logger
}

// New connects to the broker.
func New(cfg Config, log *logger.Logger) (*MQTT, error) {
	if cfg.Broker == "" {
		return nil, errors.New("MQTT broker address is required when enabled")
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = defaultClientID
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}
	return newMQTT(c, cfg, log), nil
}

func newMQTT(c client, cfg Config, log *logger.Logger) *MQTT {
	prefix := strings.Trim(cfg.TopicPrefix, "/")
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MQTT{
		client:  c,
		prefix:  prefix,
		timeout: timeout,
		log:     logger.OrNop(log).Named("mqtt"),
	}
}

// PublishUsage sends a finalized record to <prefix>/<user>/usage.
func (p *MQTT) PublishUsage(userID int, rec models.UsageRecord) error {
	return p.publish(p.topic(userID, "usage"), rec)
}

// PublishAlert sends a persistent alert to <prefix>/<user>/alert.
func (p *MQTT) PublishAlert(userID int, alert models.PersistentAlert) error {
	return p.publish(p.topic(userID, "alert"), alert)
}

func (p *MQTT) topic(userID int, kind string) string {
	return fmt.Sprintf("%s/%d/%s", p.prefix, userID, kind)
}

func (p *MQTT) publish(topic string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	token := p.client.Publish(topic, publishQoS, false, body)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish %s: timed out after %s", topic, p.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	p.log.Debugw("mqtt_published", "topic", topic, "bytes", len(body))
	return nil
}

// Close disconnects from the MQTT broker
func (p *MQTT) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(disconnectQuiesce)
	}
}
