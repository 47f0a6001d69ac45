package main

import (
	"fmt"
	"os"
	"time"

	crowip "github.com/caarlos0/homekit-crowip"
	"github.com/caarlos0/homekit-crowip/internal/mqtt"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Panel   PanelConfig    `yaml:"panel"`
	MQTT    MQTTConfig     `yaml:"mqtt"`
	Areas   []EntityConfig `yaml:"areas"`
	Zones   []EntityConfig `yaml:"zones"`
	Outputs []EntityConfig `yaml:"outputs"`
	Log     string         `yaml:"log"`
}

type PanelConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Code        string        `yaml:"code"`
	KeepAlive   time.Duration `yaml:"keepalive"`
	Timeout     time.Duration `yaml:"timeout"`
	BypassToken string        `yaml:"bypass_token"`
}

type MQTTConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	QOS      int    `yaml:"qos"`
	Clean    bool   `yaml:"clean"`
	Prefix   string `yaml:"prefix"`
}

type EntityConfig struct {
	Number int    `yaml:"number"`
	Name   string `yaml:"name"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}
	if cfg.Panel.Host == "" {
		return nil, fmt.Errorf("invalid config: panel.host: %w", crowip.ErrEmptyHost)
	}
	for _, e := range append(append(append([]EntityConfig{}, cfg.Areas...), cfg.Zones...), cfg.Outputs...) {
		if e.Number < 1 {
			return nil, fmt.Errorf("invalid config: number must be positive, got %d", e.Number)
		}
	}

	if cfg.Panel.Port == 0 {
		cfg.Panel.Port = crowip.DefaultPort
	}
	if cfg.Panel.KeepAlive == 0 {
		cfg.Panel.KeepAlive = crowip.DefaultKeepAlive
	}
	if cfg.Panel.Timeout == 0 {
		cfg.Panel.Timeout = crowip.DefaultTimeout
	}
	if cfg.MQTT.Host == "" {
		cfg.MQTT.Host = "localhost"
	}
	if cfg.MQTT.Port == 0 {
		cfg.MQTT.Port = 1883
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "crowip2mqtt"
	}
	if cfg.MQTT.Prefix == "" {
		cfg.MQTT.Prefix = "crowip"
	}
	if len(cfg.Areas) == 0 {
		cfg.Areas = []EntityConfig{{Number: 1}, {Number: 2}}
	}
	if cfg.Log == "" {
		cfg.Log = "info"
	}
	return &cfg, nil
}

func (c *Config) clientConfig() crowip.Config {
	return crowip.Config{
		Host:        c.Panel.Host,
		Port:        c.Panel.Port,
		Code:        c.Panel.Code,
		KeepAlive:   c.Panel.KeepAlive,
		Timeout:     c.Panel.Timeout,
		BypassToken: c.Panel.BypassToken,
		Logger:      log.WithPrefix("crowip"),
	}
}

func (c *Config) brokerConfig() mqtt.BrokerConfig {
	return mqtt.BrokerConfig{
		Host:     c.MQTT.Host,
		Port:     c.MQTT.Port,
		ClientID: c.MQTT.ClientID,
		Username: c.MQTT.Username,
		Password: c.MQTT.Password,
		QOS:      c.MQTT.QOS,
		Clean:    c.MQTT.Clean,
		Prefix:   c.MQTT.Prefix,
	}
}

func (c *Config) bridgeOptions() mqtt.Options {
	opts := mqtt.Options{
		Prefix: c.MQTT.Prefix,
		Code:   c.Panel.Code,
		Names: mqtt.Names{
			Areas:   names(c.Areas),
			Zones:   names(c.Zones),
			Outputs: names(c.Outputs),
		},
		Logger: log.WithPrefix("mqtt"),
	}
	for _, a := range c.Areas {
		opts.Areas = append(opts.Areas, a.Number)
	}
	for _, o := range c.Outputs {
		opts.Outputs = append(opts.Outputs, o.Number)
	}
	return opts
}

func names(entities []EntityConfig) map[int]string {
	result := map[int]string{}
	for _, e := range entities {
		result[e.Number] = e.Name
	}
	return result
}
