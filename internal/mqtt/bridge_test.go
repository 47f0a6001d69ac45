package mqtt

import (
	"encoding/json"
	"io"
	"testing"

	crowip "github.com/caarlos0/homekit-crowip"
	logp "github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

type message struct {
	topic   string
	payload string
	retain  bool
}

type fakePanel struct {
	calls   []string
	outputs map[int]bool
}

func (f *fakePanel) Disarm(code string)        { f.calls = append(f.calls, "disarm "+code) }
func (f *fakePanel) ArmAway(code string)       { f.calls = append(f.calls, "away "+code) }
func (f *fakePanel) ArmStay(code string)       { f.calls = append(f.calls, "stay "+code) }
func (f *fakePanel) Bypass(code string)        { f.calls = append(f.calls, "bypass "+code) }
func (f *fakePanel) Panic()                    { f.calls = append(f.calls, "panic") }
func (f *fakePanel) SendKeypress(token string) { f.calls = append(f.calls, "key "+token) }
func (f *fakePanel) ToggleOutput(n int) {
	f.calls = append(f.calls, "toggle")
	f.outputs[n] = !f.outputs[n]
}

func (f *fakePanel) Areas() []crowip.Area {
	return []crowip.Area{{Number: 1}, {Number: 2, State: crowip.AreaArmedAway}}
}

func (f *fakePanel) Zones() []crowip.Zone {
	return []crowip.Zone{{Number: 5, Open: true}}
}

func (f *fakePanel) Outputs() []crowip.Output {
	return []crowip.Output{f.Output(3)}
}

func (f *fakePanel) Output(n int) crowip.Output {
	return crowip.Output{Number: n, Open: f.outputs[n]}
}

func (f *fakePanel) System() crowip.SystemState {
	return crowip.SystemState{Mains: true, Battery: true, Line: true, Dialler: true, ZoneBattery: true}
}

func newTestBridge(t *testing.T) (*Bridge, *fakePanel, *[]message) {
	t.Helper()
	panel := &fakePanel{outputs: map[int]bool{}}
	var published []message
	bridge := NewBridge(Options{
		Prefix: "crowip",
		Code:   "1234",
		Names: Names{
			Areas:   map[int]string{1: "House"},
			Zones:   map[int]string{5: "Front Door"},
			Outputs: map[int]string{3: "Gate"},
		},
		Areas:   []int{1, 2},
		Outputs: []int{3},
		Logger:  logp.New(io.Discard),
	}, panel, func(topic string, payload []byte, retain bool) {
		published = append(published, message{topic, string(payload), retain})
	})
	return bridge, panel, &published
}

func TestCommandTopics(t *testing.T) {
	bridge, _, _ := newTestBridge(t)
	require.Equal(t, []string{
		"crowip/area/area-2/command",
		"crowip/area/house/command",
		"crowip/keypress",
		"crowip/output/gate/command",
	}, bridge.CommandTopics())
}

func TestAreaCommands(t *testing.T) {
	bridge, panel, _ := newTestBridge(t)
	for _, payload := range []string{
		"disarm",
		"arm_away:9999",
		"ARM_STAY",
		"bypass: 4321 ",
		"panic",
		"explode",
	} {
		bridge.HandleMessage("crowip/area/house/command", []byte(payload))
	}
	bridge.HandleMessage("crowip/area/area-2/command", []byte("disarm:1111"))
	bridge.HandleMessage("crowip/area/area-3/command", []byte("disarm"))

	require.Equal(t, []string{
		"disarm 1234",
		"away 9999",
		"stay 1234",
		"bypass 4321",
		"panic",
		"disarm 1111",
	}, panel.calls)
}

func TestOutputCommands(t *testing.T) {
	bridge, panel, _ := newTestBridge(t)
	topic := "crowip/output/gate/command"

	bridge.HandleMessage(topic, []byte("off"))
	require.Empty(t, panel.calls)

	bridge.HandleMessage(topic, []byte("on"))
	require.Equal(t, []string{"toggle"}, panel.calls)
	require.True(t, panel.outputs[3])

	bridge.HandleMessage(topic, []byte("on"))
	require.Len(t, panel.calls, 1)

	bridge.HandleMessage(topic, []byte("toggle"))
	require.Len(t, panel.calls, 2)
	require.False(t, panel.outputs[3])
}

func TestKeypress(t *testing.T) {
	bridge, panel, _ := newTestBridge(t)
	bridge.HandleMessage("crowip/keypress", []byte(" 5678 "))
	bridge.HandleMessage("crowip/keypress", []byte(""))
	require.Equal(t, []string{"key 5678"}, panel.calls)
}

func TestPublishArea(t *testing.T) {
	bridge, _, published := newTestBridge(t)
	bridge.PublishArea(crowip.Area{Number: 1, State: crowip.AreaArmedStay})

	require.Len(t, *published, 1)
	msg := (*published)[0]
	require.Equal(t, "crowip/area/house", msg.topic)
	require.True(t, msg.retain)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg.payload), &payload))
	require.Equal(t, "House", payload["name"])
	require.Equal(t, "armed_stay", payload["state"])
	require.Equal(t, true, payload["stay_armed"])
	require.Equal(t, false, payload["armed"])
	require.Equal(t, false, payload["disarmed"])
}

func TestPublishZoneAndOutput(t *testing.T) {
	bridge, _, published := newTestBridge(t)
	bridge.PublishZone(crowip.Zone{Number: 5, Open: true, Tamper: true})
	bridge.PublishZone(crowip.Zone{Number: 9})
	bridge.PublishOutput(crowip.Output{Number: 3, Open: true})

	require.Equal(t, []message{
		{"crowip/zone/front-door", `{"number":5,"name":"Front Door","open":true,"alarm":false,"tamper":true}`, true},
		{"crowip/zone/zone-9", `{"number":9,"name":"Zone 9","open":false,"alarm":false,"tamper":false}`, true},
		{"crowip/output/gate", `{"number":3,"name":"Gate","on":true}`, true},
	}, *published)
}

func TestPublishSystem(t *testing.T) {
	bridge, _, published := newTestBridge(t)
	bridge.PublishSystem(crowip.SystemState{Battery: true, Line: true, Dialler: true, ZoneBattery: true})

	require.Len(t, *published, 1)
	msg := (*published)[0]
	require.Equal(t, "crowip/system", msg.topic)
	require.JSONEq(t, `{
		"mains": false,
		"battery": true,
		"tamper": false,
		"line": true,
		"dialler": true,
		"zone_battery": true,
		"battery_level": 100,
		"faults": ["mains"]
	}`, msg.payload)
}

func TestPublishSnapshot(t *testing.T) {
	bridge, _, published := newTestBridge(t)
	bridge.PublishOnline()
	bridge.PublishConnection(false)
	bridge.PublishSnapshot()

	var topics []string
	for _, msg := range *published {
		topics = append(topics, msg.topic)
	}
	require.Equal(t, []string{
		"crowip/status",
		"crowip/connection",
		"crowip/area/house",
		"crowip/area/area-2",
		"crowip/zone/front-door",
		"crowip/output/gate",
		"crowip/system",
	}, topics)
	require.Equal(t, "online", (*published)[0].payload)
	require.Equal(t, "disconnected", (*published)[1].payload)
	require.Contains(t, (*published)[6].payload, `"faults":[]`)
}
