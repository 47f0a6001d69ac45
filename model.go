package crowip

// AreaState is the arming state of an area.
type AreaState uint8

const (
	AreaDisarmed AreaState = iota
	AreaExitDelay
	AreaArmedAway
	AreaArmedStay
	AreaTriggered
)

func (s AreaState) String() string {
	switch s {
	case AreaDisarmed:
		return "disarmed"
	case AreaExitDelay:
		return "exit_delay"
	case AreaArmedAway:
		return "armed_away"
	case AreaArmedStay:
		return "armed_stay"
	case AreaTriggered:
		return "triggered"
	default:
		return "unknown"
	}
}

// Area is an independently armable partition of the panel.
type Area struct {
	Number int
	State  AreaState

	// state to go back to once an alarm is restored.
	resume AreaState
}

// Armed reports armed away, also while an alarm is going off.
func (a Area) Armed() bool {
	return a.State == AreaArmedAway || a.armedUnderAlarm(AreaArmedAway)
}

// StayArmed reports armed stay (home), also while an alarm is going off.
func (a Area) StayArmed() bool {
	return a.State == AreaArmedStay || a.armedUnderAlarm(AreaArmedStay)
}

func (a Area) Disarmed() bool  { return !a.Armed() && !a.StayArmed() }
func (a Area) ExitDelay() bool { return a.State == AreaExitDelay }
func (a Area) Alarm() bool     { return a.State == AreaTriggered }

func (a Area) armedUnderAlarm(s AreaState) bool {
	return a.State == AreaTriggered && a.resume == s
}

// Zone is a monitored input.
type Zone struct {
	Number int
	Open   bool
	Alarm  bool
	Tamper bool
}

// Output is a relay or auxiliary output.
type Output struct {
	Number int
	Open   bool
}

// SystemState holds the panel health flags in raw panel polarity.
type SystemState struct {
	Mains       bool // mains power present
	Battery     bool // battery ok
	Tamper      bool // tamper detected
	Line        bool // phone line ok
	Dialler     bool // dialler ok
	ZoneBattery bool // wireless zone batteries ok
}

func defaultSystemState() SystemState {
	return SystemState{
		Mains:       true,
		Battery:     true,
		Line:        true,
		Dialler:     true,
		ZoneBattery: true,
	}
}
