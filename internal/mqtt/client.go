package mqtt

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	logp "github.com/charmbracelet/log"
	paho "github.com/eclipse/paho.mqtt.golang"
)

type BrokerConfig struct {
	Host     string
	Port     int
	ClientID string
	Username string
	Password string
	QOS      int
	Clean    bool
	Prefix   string
}

func (c BrokerConfig) URL() string {
	return fmt.Sprintf("tcp://%s:%d", c.Host, c.Port)
}

// Client is a broker connection that publishes the bridge availability as
// its last will.
type Client struct {
	cfg       BrokerConfig
	topics    *Topics
	client    paho.Client
	log       *logp.Logger
	onConnect func()
}

func NewClient(cfg BrokerConfig, logger *logp.Logger) *Client {
	if logger == nil {
		logger = log
	}
	c := &Client{
		cfg:    cfg,
		topics: NewTopics(cfg.Prefix),
		log:    logger,
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.URL())
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetCleanSession(cfg.Clean)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(func(paho.Client) {
		c.log.Info("connected to broker", "broker", cfg.URL())
		if c.onConnect != nil {
			c.onConnect()
		}
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		c.log.Error("broker connection lost", "err", err)
	})
	opts.SetWill(c.topics.Status(), offlinePayload, byte(cfg.QOS), true)

	c.client = paho.NewClient(opts)
	return c
}

// OnConnect sets fn to run after every (re)connection to the broker. It must
// be set before Connect.
func (c *Client) OnConnect(fn func()) {
	c.onConnect = fn
}

// Connect retries the initial broker connection until it succeeds or ctx
// is done. Later reconnects are handled by paho.
func (c *Client) Connect(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = time.Second * 30
	bo.MaxElapsedTime = 0

	if err := backoff.RetryNotify(func() error {
		token := c.client.Connect()
		token.Wait()
		return token.Error()
	}, backoff.WithContext(bo, ctx), func(err error, d time.Duration) {
		c.log.Warn("could not connect to broker", "broker", c.cfg.URL(), "err", err, "retry", d)
	}); err != nil {
		return fmt.Errorf("could not connect to broker: %w", err)
	}
	return nil
}

func (c *Client) Publish(topic string, payload []byte, retain bool) {
	token := c.client.Publish(topic, byte(c.cfg.QOS), retain, payload)
	if token.Wait() && token.Error() != nil {
		c.log.Error("could not publish", "topic", topic, "err", token.Error())
		return
	}
	c.log.Debug("published", "topic", topic)
}

func (c *Client) Subscribe(topics []string, handler func(topic string, payload []byte)) {
	for _, topic := range topics {
		token := c.client.Subscribe(topic, byte(c.cfg.QOS), func(_ paho.Client, msg paho.Message) {
			handler(msg.Topic(), msg.Payload())
		})
		if token.Wait() && token.Error() != nil {
			c.log.Error("could not subscribe", "topic", topic, "err", token.Error())
			continue
		}
		c.log.Debug("subscribed", "topic", topic)
	}
}

// Close publishes the offline status and disconnects.
func (c *Client) Close() {
	if !c.client.IsConnected() {
		return
	}
	c.Publish(c.topics.Status(), []byte(offlinePayload), true)
	c.client.Disconnect(250)
}
