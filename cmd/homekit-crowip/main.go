package main

import (
	"context"
	_ "embed"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	"github.com/caarlos0/env/v11"
	crowip "github.com/caarlos0/homekit-crowip"
	logp "github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slices"
)

//go:embed index.html
var index string

var indexTpl = template.Must(template.New("index").Parse(index))

var log = logp.NewWithOptions(os.Stderr, logp.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "homekit",
})

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const manufacturer = "Crow"

var systemFlags = []string{"mains", "battery", "tamper", "line", "dialler", "zone battery"}

func main() {
	log.Info(
		"homekit-crowip",
		"version", version,
		"commit", commit,
		"date", date,
		"info", strings.Join([]string{
			"Homekit bridge for Crow/AAP alarm panels with an IP module",
			"© Carlos Alexandro Becker",
			"https://becker.software",
		}, "\n"),
	)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatal(
			"could not parse env",
			"err",
			strings.TrimPrefix(strings.ReplaceAll(err.Error(), "; ", "\n"), "env: ")+"\n",
		)
	}

	level, err := logp.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal("invalid log level", "level", cfg.LogLevel, "err", err)
	}
	log.SetLevel(level)

	log.Info(
		"loading accessories",
		"areas", cfg.Areas,
		"zones", allZoneConfigs(cfg.allZones()).String(),
		"outputs", cfg.Outputs,
	)

	cli, err := crowip.New(cfg.clientConfig())
	if err != nil {
		log.Fatal("could not init client", "err", err)
	}

	macAddr, err := crowip.MacAddress(cfg.Host)
	if err != nil {
		log.Warn(
			"could not get the mac address, needs 'cap_net_raw+ep' capabilities",
			"err", err,
		)
	}
	log.Info("alarm system", "manufacturer", manufacturer, "host", cfg.Host, "mac", macAddr)

	bridge := accessory.NewBridge(accessory.Info{
		Name:         "Alarm Bridge",
		Manufacturer: manufacturer,
		Firmware:     version,
	})

	var alarms []*SecuritySystem
	for _, area := range cfg.Areas {
		alarm := NewSecuritySystem(accessory.Info{
			Name:         cfg.areaName(area),
			SerialNumber: macAddr,
			Manufacturer: manufacturer,
			Model:        "IP module",
		}, area, cfg.areaCode(area), cli)
		alarm.Id = uint64(10 + area)
		alarm.Update(cli.Area(area))
		alarm.UpdateSystem(cli.System())
		alarms = append(alarms, alarm)
	}

	panicBtn := setupPanicButton(cli, cfg.Code)
	panicBtn.Id = 3

	sensors := setupZones(cfg, cli)
	outputs := setupOutputs(cfg, cli)

	cli.OnAreaChange(func(area crowip.Area) {
		for _, alarm := range alarms {
			if alarm.area == area.Number {
				alarm.Update(area)
			}
		}
		panicBtn.Switch.On.SetValue(slices.ContainsFunc(cli.Areas(), crowip.Area.Alarm))
	})
	cli.OnZoneChange(sensors.Update)
	cli.OnOutputChange(outputs.Update)
	cli.OnSystemChange(func(status crowip.SystemState) {
		updateSystemMetrics(status)
		for _, alarm := range alarms {
			alarm.UpdateSystem(status)
		}
	})
	cli.OnConnected(func() {
		connectedGauge.Set(1)
	})
	cli.OnConnectionFailed(func(err error) {
		connectedGauge.Set(0)
		connectionFailureCounter.Inc()
		log.Warn("panel unreachable", "err", err)
	})
	updateSystemMetrics(cli.System())
	cli.Start()

	fs := hap.NewFsStore(cfg.DB)

	server, err := hap.NewServer(
		fs, bridge.A,
		securityAccessories(alarms, sensors, outputs, panicBtn)...,
	)
	if err != nil {
		log.Fatal("fail to create server", "error", err)
	}
	server.Addr = cfg.Address
	server.ServeMux().Handle("/metrics", promhttp.Handler())
	server.ServeMux().Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = indexTpl.Execute(w, buildPage(cli.State(), cli.System(), alarms, sensors, outputs))
	}))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-c
		log.Info("stopping server")
		signal.Stop(c)
		cancel()
	}()

	log.Info("starting server", "addr", server.Addr)
	if err := server.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("failed to close server", "err", err)
	}
	cli.Stop()
}

func securityAccessories(
	alarms []*SecuritySystem,
	sensors ZoneSensors,
	outputs OutputSwitches,
	panicBtn *accessory.Switch,
) []*accessory.A {
	result := []*accessory.A{panicBtn.A}
	for _, c := range alarms {
		result = append(result, c.A)
	}
	for _, c := range sensors {
		result = append(result, c.A)
	}
	for _, c := range outputs {
		result = append(result, c.A)
	}
	return result
}

func updateSystemMetrics(status crowip.SystemState) {
	faults := status.Faults()
	for _, flag := range systemFlags {
		systemGauge.WithLabelValues(flag).Set(boolAs[float64](slices.Contains(faults, flag)))
	}
}

func boolAs[T int | float64](b bool) T {
	if b {
		return 1
	}
	return 0
}
