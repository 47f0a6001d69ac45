package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	crowip "github.com/caarlos0/homekit-crowip"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("panel:\n  host: 10.0.0.5\n"))
	require.NoError(t, err)

	require.Equal(t, "10.0.0.5", cfg.Panel.Host)
	require.Equal(t, 5002, cfg.Panel.Port)
	require.Equal(t, 60*time.Second, cfg.Panel.KeepAlive)
	require.Equal(t, 10*time.Second, cfg.Panel.Timeout)
	require.Equal(t, "localhost", cfg.MQTT.Host)
	require.Equal(t, 1883, cfg.MQTT.Port)
	require.Equal(t, "crowip2mqtt", cfg.MQTT.ClientID)
	require.Equal(t, "crowip", cfg.MQTT.Prefix)
	require.Equal(t, "info", cfg.Log)
	require.Equal(t, []EntityConfig{{Number: 1}, {Number: 2}}, cfg.Areas)

	opts := cfg.bridgeOptions()
	require.Equal(t, []int{1, 2}, opts.Areas)
	require.Empty(t, opts.Outputs)
	require.Equal(t, "area-1", opts.Names.Area(1))
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
panel:
  host: alarm.lan
  port: 5003
  code: "1234"
  keepalive: 30s
  bypass_token: B
mqtt:
  host: broker.lan
  username: user
  password: pass
  qos: 1
  prefix: home/alarm
areas:
  - number: 1
    name: House
zones:
  - number: 5
    name: Front Door
outputs:
  - number: 3
    name: Gate
log: debug
`))
	require.NoError(t, err)

	client := cfg.clientConfig()
	require.Equal(t, "alarm.lan", client.Host)
	require.Equal(t, 5003, client.Port)
	require.Equal(t, "1234", client.Code)
	require.Equal(t, 30*time.Second, client.KeepAlive)
	require.Equal(t, "B", client.BypassToken)

	broker := cfg.brokerConfig()
	require.Equal(t, "tcp://broker.lan:1883", broker.URL())
	require.Equal(t, 1, broker.QOS)
	require.Equal(t, "home/alarm", broker.Prefix)

	opts := cfg.bridgeOptions()
	require.Equal(t, []int{1}, opts.Areas)
	require.Equal(t, []int{3}, opts.Outputs)
	require.Equal(t, "1234", opts.Code)
	require.Equal(t, "house", opts.Names.Area(1))
	require.Equal(t, "front-door", opts.Names.Zone(5))
	require.Equal(t, "gate", opts.Names.Output(3))
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte("mqtt:\n  host: broker\n"))
	require.ErrorIs(t, err, crowip.ErrEmptyHost)

	_, err = ParseConfig([]byte("panel:\n  host: a\nzones:\n  - number: 0\n"))
	require.Error(t, err)

	_, err = ParseConfig([]byte("panel:\n  host: a\n  nope: 1\n"))
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("panel:\n  host: a\n"), 0o600))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "a", cfg.Panel.Host)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
