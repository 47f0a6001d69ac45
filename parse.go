package crowip

import (
	"regexp"
	"strconv"
	"strings"
)

// Event is a typed state transition read from a panel line.
type Event interface {
	event()
}

// Change is an optional boolean carried by an event.
type Change int8

const (
	Unchanged Change = iota
	SetTrue
	SetFalse
)

func changeTo(b bool) Change {
	if b {
		return SetTrue
	}
	return SetFalse
}

type ZoneEvent struct {
	Number int
	Open   Change
	Alarm  Change
	Tamper Change
}

type OutputEvent struct {
	Number int
	Open   bool
}

// SystemField names a health flag in SystemState.
type SystemField uint8

const (
	SystemMains SystemField = iota + 1
	SystemBattery
	SystemTamper
)

func (f SystemField) String() string {
	switch f {
	case SystemMains:
		return "mains"
	case SystemBattery:
		return "battery"
	case SystemTamper:
		return "tamper"
	default:
		return "unknown"
	}
}

type SystemEvent struct {
	Field SystemField
	Value bool
}

// AreaAction is what a line says happened to an area.
type AreaAction uint8

const (
	ActionArmed AreaAction = iota + 1
	ActionStayArmed
	ActionDisarmed
	ActionExitDelay
	ActionAlarm
	ActionRestore
)

func (a AreaAction) String() string {
	switch a {
	case ActionArmed:
		return "armed"
	case ActionStayArmed:
		return "stay_armed"
	case ActionDisarmed:
		return "disarmed"
	case ActionExitDelay:
		return "exit_delay"
	case ActionAlarm:
		return "alarm"
	case ActionRestore:
		return "restore"
	default:
		return "unknown"
	}
}

type AreaEvent struct {
	Number int
	Action AreaAction
}

func (ZoneEvent) event()   {}
func (OutputEvent) event() {}
func (SystemEvent) event() {}
func (AreaEvent) event()   {}

var digitRun = regexp.MustCompile(`\d+`)

// Parse classifies a single status line. Unknown lines yield no events.
//
// The first digit run of a line is taken as the entity number, so a line
// carrying an area number before the zone number is misread.
func Parse(line string) []Event {
	line = strings.ToUpper(strings.TrimSpace(line))
	if line == "" {
		return nil
	}

	var events []Event
	switch {
	case hasPrefix(line, "ZO", "ZC", "ZA") || strings.Contains(line, "ZONE"):
		if evt, ok := parseZone(line); ok {
			events = append(events, evt)
		}
	case hasPrefix(line, "OO", "OF", "RL"):
		if evt, ok := parseOutput(line); ok {
			events = append(events, evt)
		}
	default:
		if evt, ok := parseSystem(line); ok {
			events = append(events, evt)
		}
	}

	if evt, ok := parseArea(line); ok {
		events = append(events, evt)
	}
	return events
}

func parseZone(line string) (ZoneEvent, bool) {
	n, ok := firstNumber(line)
	if !ok {
		return ZoneEvent{}, false
	}
	evt := ZoneEvent{Number: n}
	if containsAny(line, "ZO", "OPEN", "ALARM") {
		evt.Open = SetTrue
	}
	if containsAny(line, "ZC", "CLOSE", "OK") {
		evt.Open = SetFalse
	}
	if containsAny(line, "ZA", "ALARM") {
		evt.Alarm = SetTrue
		evt.Open = SetTrue
	}
	if strings.Contains(line, "TAMPER") {
		evt.Tamper = changeTo(!isRestore(line))
	}
	return evt, true
}

func parseOutput(line string) (OutputEvent, bool) {
	n, ok := firstNumber(line)
	if !ok {
		return OutputEvent{}, false
	}
	return OutputEvent{
		Number: n,
		Open:   containsAny(line, "OO", "ON"),
	}, true
}

func parseSystem(line string) (SystemEvent, bool) {
	switch {
	case containsAny(line, "MAINS FAIL", "POWER FAIL"):
		return SystemEvent{Field: SystemMains, Value: false}, true
	case strings.Contains(line, "MAINS") && isRestore(line):
		return SystemEvent{Field: SystemMains, Value: true}, true
	case strings.Contains(line, "LOW BATT"):
		return SystemEvent{Field: SystemBattery, Value: false}, true
	case strings.Contains(line, "BATT") && isRestore(line):
		return SystemEvent{Field: SystemBattery, Value: true}, true
	case strings.Contains(line, "TAMPER"):
		return SystemEvent{Field: SystemTamper, Value: !isRestore(line)}, true
	}
	return SystemEvent{}, false
}

func parseArea(line string) (AreaEvent, bool) {
	evt := AreaEvent{Number: 1}
	if containsAny(line, "AREA B", "AREA 2") ||
		strings.HasSuffix(line, " B") ||
		strings.HasSuffix(line, " 2") {
		evt.Number = 2
	}

	word := stripAreaPrefix(line)
	switch {
	case strings.Contains(line, "ARMED") &&
		!strings.Contains(line, "STAY") &&
		!strings.Contains(line, "DISARMED"):
		evt.Action = ActionArmed
	case strings.HasPrefix(word, "AR"):
		evt.Action = ActionArmed
	case strings.Contains(line, "STAY"), strings.HasPrefix(word, "ST"):
		evt.Action = ActionStayArmed
	case strings.Contains(line, "DISARMED"), strings.HasPrefix(word, "DA"):
		evt.Action = ActionDisarmed
	case strings.Contains(line, "EXIT"), strings.HasPrefix(word, "EX"):
		evt.Action = ActionExitDelay
	case strings.Contains(line, "ALARM"):
		evt.Action = ActionAlarm
	case strings.Contains(line, "RESTORE"):
		evt.Action = ActionRestore
	default:
		return AreaEvent{}, false
	}
	return evt, true
}

// stripAreaPrefix drops a leading "AREA <id>" so the short keypad prefixes
// are matched against the status word and not against "AREA" itself.
func stripAreaPrefix(line string) string {
	rest, ok := strings.CutPrefix(line, "AREA ")
	if !ok {
		return line
	}
	_, word, _ := strings.Cut(rest, " ")
	return word
}

func firstNumber(line string) (int, bool) {
	m := digitRun.FindString(line)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func isRestore(line string) bool {
	return containsAny(line, "OK", "RESTORE")
}

func hasPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
