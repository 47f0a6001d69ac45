package mqtt

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"time"

	crowip "github.com/caarlos0/homekit-crowip"
	logp "github.com/charmbracelet/log"
)

var log = logp.NewWithOptions(os.Stderr, logp.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "mqtt",
})

const (
	offlinePayload = "offline"
	onlinePayload  = "online"
)

// Panel is what the bridge needs from the panel client.
type Panel interface {
	Disarm(code string)
	ArmAway(code string)
	ArmStay(code string)
	Bypass(code string)
	Panic()
	ToggleOutput(n int)
	SendKeypress(token string)

	Areas() []crowip.Area
	Zones() []crowip.Zone
	Outputs() []crowip.Output
	Output(n int) crowip.Output
	System() crowip.SystemState
}

// PublishFunc sends payload to topic.
type PublishFunc func(topic string, payload []byte, retain bool)

type Options struct {
	Prefix string
	// Code is used by area commands that carry no code of their own.
	Code    string
	Names   Names
	Areas   []int
	Outputs []int
	Logger  *logp.Logger
}

// Bridge turns panel state into retained MQTT messages and MQTT commands
// into panel keypresses.
type Bridge struct {
	topics  *Topics
	names   Names
	code    string
	panel   Panel
	publish PublishFunc
	log     *logp.Logger
	routes  map[string]func(payload string)
}

func NewBridge(opts Options, panel Panel, publish PublishFunc) *Bridge {
	logger := opts.Logger
	if logger == nil {
		logger = log
	}
	b := &Bridge{
		topics:  NewTopics(opts.Prefix),
		names:   opts.Names,
		code:    opts.Code,
		panel:   panel,
		publish: publish,
		log:     logger,
		routes:  map[string]func(string){},
	}
	for _, area := range opts.Areas {
		b.routes[b.topics.AreaCommand(b.names.Area(area))] = func(payload string) {
			b.handleAreaCommand(area, payload)
		}
	}
	for _, output := range opts.Outputs {
		b.routes[b.topics.OutputCommand(b.names.Output(output))] = func(payload string) {
			b.handleOutputCommand(output, payload)
		}
	}
	b.routes[b.topics.Keypress()] = b.handleKeypress
	return b
}

// CommandTopics lists every topic the bridge accepts commands on.
func (b *Bridge) CommandTopics() []string {
	topics := make([]string, 0, len(b.routes))
	for topic := range b.routes {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

func (b *Bridge) HandleMessage(topic string, payload []byte) {
	route, ok := b.routes[topic]
	if !ok {
		b.log.Warn("message on unknown topic", "topic", topic)
		return
	}
	route(strings.TrimSpace(string(payload)))
}

// splitCommand splits "arm_away:1234" into the command and its code.
func splitCommand(payload string) (string, string) {
	cmd, code, _ := strings.Cut(payload, ":")
	return strings.ToLower(strings.TrimSpace(cmd)), strings.TrimSpace(code)
}

// handleAreaCommand runs a keypad sequence. The IP module has a single
// keypad, so the area only selects the topic.
func (b *Bridge) handleAreaCommand(area int, payload string) {
	cmd, code := splitCommand(payload)
	if code == "" {
		code = b.code
	}
	b.log.Info("area command", "area", area, "cmd", cmd)
	switch cmd {
	case "disarm":
		b.panel.Disarm(code)
	case "arm_away", "arm":
		b.panel.ArmAway(code)
	case "arm_stay", "stay", "arm_home":
		b.panel.ArmStay(code)
	case "bypass":
		b.panel.Bypass(code)
	case "panic":
		b.panel.Panic()
	default:
		b.log.Warn("unknown area command", "area", area, "cmd", cmd)
	}
}

func (b *Bridge) handleOutputCommand(output int, payload string) {
	cmd, _ := splitCommand(payload)
	current := b.panel.Output(output).Open
	b.log.Info("output command", "output", output, "cmd", cmd, "on", current)
	switch cmd {
	case "toggle":
		b.panel.ToggleOutput(output)
	case "on":
		if !current {
			b.panel.ToggleOutput(output)
		}
	case "off":
		if current {
			b.panel.ToggleOutput(output)
		}
	default:
		b.log.Warn("unknown output command", "output", output, "cmd", cmd)
	}
}

func (b *Bridge) handleKeypress(payload string) {
	if payload == "" {
		return
	}
	b.log.Info("keypress")
	b.panel.SendKeypress(payload)
}

type areaPayload struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	State     string `json:"state"`
	Armed     bool   `json:"armed"`
	StayArmed bool   `json:"stay_armed"`
	Disarmed  bool   `json:"disarmed"`
	ExitDelay bool   `json:"exit_delay"`
	Alarm     bool   `json:"alarm"`
}

type zonePayload struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Open   bool   `json:"open"`
	Alarm  bool   `json:"alarm"`
	Tamper bool   `json:"tamper"`
}

type outputPayload struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	On     bool   `json:"on"`
}

type systemPayload struct {
	Mains       bool     `json:"mains"`
	Battery     bool     `json:"battery"`
	Tamper      bool     `json:"tamper"`
	Line        bool     `json:"line"`
	Dialler     bool     `json:"dialler"`
	ZoneBattery bool     `json:"zone_battery"`
	BatteryLvl  int      `json:"battery_level"`
	Faults      []string `json:"faults"`
}

func (b *Bridge) PublishArea(area crowip.Area) {
	b.publishJSON(b.topics.Area(b.names.Area(area.Number)), areaPayload{
		Number:    area.Number,
		Name:      nameOr(b.names.Areas, area.Number, "Area"),
		State:     area.State.String(),
		Armed:     area.Armed(),
		StayArmed: area.StayArmed(),
		Disarmed:  area.Disarmed(),
		ExitDelay: area.ExitDelay(),
		Alarm:     area.Alarm(),
	})
}

func (b *Bridge) PublishZone(zone crowip.Zone) {
	b.publishJSON(b.topics.Zone(b.names.Zone(zone.Number)), zonePayload{
		Number: zone.Number,
		Name:   nameOr(b.names.Zones, zone.Number, "Zone"),
		Open:   zone.Open,
		Alarm:  zone.Alarm,
		Tamper: zone.Tamper,
	})
}

func (b *Bridge) PublishOutput(output crowip.Output) {
	b.publishJSON(b.topics.Output(b.names.Output(output.Number)), outputPayload{
		Number: output.Number,
		Name:   nameOr(b.names.Outputs, output.Number, "Output"),
		On:     output.Open,
	})
}

func (b *Bridge) PublishSystem(status crowip.SystemState) {
	faults := status.Faults()
	if faults == nil {
		faults = []string{}
	}
	b.publishJSON(b.topics.System(), systemPayload{
		Mains:       status.Mains,
		Battery:     status.Battery,
		Tamper:      status.Tamper,
		Line:        status.Line,
		Dialler:     status.Dialler,
		ZoneBattery: status.ZoneBattery,
		BatteryLvl:  status.BatteryLevel(),
		Faults:      faults,
	})
}

func (b *Bridge) PublishOnline() {
	b.publish(b.topics.Status(), []byte(onlinePayload), true)
}

func (b *Bridge) PublishConnection(connected bool) {
	payload := "disconnected"
	if connected {
		payload = "connected"
	}
	b.publish(b.topics.Connection(), []byte(payload), true)
}

// PublishSnapshot publishes everything the panel client currently knows.
func (b *Bridge) PublishSnapshot() {
	for _, area := range b.panel.Areas() {
		b.PublishArea(area)
	}
	for _, zone := range b.panel.Zones() {
		b.PublishZone(zone)
	}
	for _, output := range b.panel.Outputs() {
		b.PublishOutput(output)
	}
	b.PublishSystem(b.panel.System())
}

func (b *Bridge) publishJSON(topic string, message any) {
	payload, err := json.Marshal(message)
	if err != nil {
		b.log.Error("could not marshal message", "topic", topic, "err", err)
		return
	}
	b.publish(topic, payload, true)
}
