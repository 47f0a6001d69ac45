package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	crowip "github.com/caarlos0/homekit-crowip"
	"github.com/caarlos0/homekit-crowip/internal/mqtt"
	logp "github.com/charmbracelet/log"
)

var log = logp.NewWithOptions(os.Stderr, logp.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "crowip2mqtt",
})

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configFile := flag.String("config", "config.yml", "path to the configuration file")
	flag.Parse()

	log.Info("crowip2mqtt", "version", version, "commit", commit, "date", date)

	cfg, err := LoadConfig(*configFile)
	if err != nil {
		log.Fatal("could not load config", "err", err)
	}
	level, err := logp.ParseLevel(cfg.Log)
	if err != nil {
		log.Fatal("invalid log level", "level", cfg.Log, "err", err)
	}
	log.SetLevel(level)

	cli, err := crowip.New(cfg.clientConfig())
	if err != nil {
		log.Fatal("could not init client", "err", err)
	}

	broker := mqtt.NewClient(cfg.brokerConfig(), log.WithPrefix("broker"))
	bridge := mqtt.NewBridge(cfg.bridgeOptions(), cli, broker.Publish)

	broker.OnConnect(func() {
		bridge.PublishOnline()
		bridge.PublishConnection(cli.State() == crowip.StateConnected)
		broker.Subscribe(bridge.CommandTopics(), bridge.HandleMessage)
		bridge.PublishSnapshot()
	})

	cli.OnAreaChange(bridge.PublishArea)
	cli.OnZoneChange(bridge.PublishZone)
	cli.OnOutputChange(bridge.PublishOutput)
	cli.OnSystemChange(bridge.PublishSystem)
	cli.OnConnected(func() {
		bridge.PublishConnection(true)
	})
	cli.OnConnectionFailed(func(err error) {
		log.Warn("panel unreachable", "err", err)
		bridge.PublishConnection(false)
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := broker.Connect(ctx); err != nil {
		log.Fatal("could not connect to broker", "err", err)
	}
	cli.Start()

	<-ctx.Done()
	log.Info("shutting down")
	cli.Stop()
	broker.Close()
}
