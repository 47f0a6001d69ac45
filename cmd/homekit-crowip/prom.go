package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var areaStateGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "homekit_crowip",
	Subsystem: "alarm",
	Name:      "state",
	Help:      "HomeKit current state of the area",
}, []string{"area"})

var exitDelayGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "homekit_crowip",
	Subsystem: "alarm",
	Name:      "exit_delay",
	Help:      "",
}, []string{"area"})

var tamperGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "homekit_crowip",
	Subsystem: "alarm",
	Name:      "tamper",
	Help:      "",
}, []string{"name"})

var openGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "homekit_crowip",
	Subsystem: "alarm",
	Name:      "open",
	Help:      "",
}, []string{"name"})

var alarmGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "homekit_crowip",
	Subsystem: "alarm",
	Name:      "zone_alarm",
	Help:      "",
}, []string{"name"})

var outputGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "homekit_crowip",
	Subsystem: "alarm",
	Name:      "output",
	Help:      "",
}, []string{"name"})

var systemGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "homekit_crowip",
	Subsystem: "alarm",
	Name:      "fault",
	Help:      "1 when the health flag reports a problem",
}, []string{"flag"})

var connectedGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "homekit_crowip",
	Subsystem: "client",
	Name:      "connected",
	Help:      "",
})

var connectionFailureCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "homekit_crowip",
	Subsystem: "client",
	Name:      "connection_failures_total",
	Help:      "",
})

var commandCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "homekit_crowip",
	Subsystem: "client",
	Name:      "commands_total",
	Help:      "",
}, []string{"command"})
