package crowip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreDefaults(t *testing.T) {
	s := NewStore()
	require.Equal(t, []Area{{Number: 1}, {Number: 2}}, s.Areas())
	require.True(t, s.Area(1).Disarmed())
	require.Empty(t, s.Zones())

	require.Equal(t, Zone{Number: 9}, s.Zone(9))
	require.Len(t, s.Zones(), 1)
	require.Equal(t, Output{Number: 4}, s.Output(4))

	sys := s.System()
	require.True(t, sys.Healthy())
	require.Equal(t, 100, sys.BatteryLevel())
}

func TestStoreZoneChangesOnlyOnce(t *testing.T) {
	s := NewStore()
	snap, changed := s.Apply(ZoneEvent{Number: 5, Open: SetTrue})
	require.True(t, changed)
	require.Equal(t, Zone{Number: 5, Open: true}, snap)

	_, changed = s.Apply(ZoneEvent{Number: 5, Open: SetTrue})
	require.False(t, changed)

	snap, changed = s.Apply(ZoneEvent{Number: 5, Alarm: SetTrue})
	require.True(t, changed)
	require.Equal(t, Zone{Number: 5, Open: true, Alarm: true}, snap)

	snap, changed = s.Apply(ZoneEvent{Number: 5, Open: SetFalse})
	require.True(t, changed)
	require.Equal(t, Zone{Number: 5, Alarm: true}, snap)
}

func TestStoreOutput(t *testing.T) {
	s := NewStore()
	_, changed := s.Apply(OutputEvent{Number: 3, Open: false})
	require.False(t, changed)
	snap, changed := s.Apply(OutputEvent{Number: 3, Open: true})
	require.True(t, changed)
	require.Equal(t, Output{Number: 3, Open: true}, snap)
	require.Equal(t, []Output{{Number: 3, Open: true}}, s.Outputs())
}

func TestStoreSystem(t *testing.T) {
	s := NewStore()
	snap, changed := s.Apply(SystemEvent{Field: SystemMains, Value: false})
	require.True(t, changed)
	sys := snap.(SystemState)
	require.False(t, sys.Mains)
	require.Equal(t, []string{"mains"}, sys.Faults())

	_, changed = s.Apply(SystemEvent{Field: SystemMains, Value: false})
	require.False(t, changed)

	_, changed = s.Apply(SystemEvent{Field: SystemBattery, Value: false})
	require.True(t, changed)
	_, changed = s.Apply(SystemEvent{Field: SystemTamper, Value: true})
	require.True(t, changed)

	sys = s.System()
	require.Equal(t, []string{"mains", "battery", "tamper"}, sys.Faults())
	require.False(t, sys.Healthy())
	require.Equal(t, 20, sys.BatteryLevel())
}

func TestStoreArmExitDisarm(t *testing.T) {
	s := NewStore()

	_, changed := s.Apply(AreaEvent{Number: 1, Action: ActionExitDelay})
	require.True(t, changed)
	require.True(t, s.Area(1).ExitDelay())
	require.True(t, s.Area(1).Disarmed())

	_, changed = s.Apply(AreaEvent{Number: 1, Action: ActionArmed})
	require.True(t, changed)
	area := s.Area(1)
	require.True(t, area.Armed())
	require.False(t, area.StayArmed())
	require.False(t, area.ExitDelay())

	// exit delay while armed is stale
	_, changed = s.Apply(AreaEvent{Number: 1, Action: ActionExitDelay})
	require.False(t, changed)

	_, changed = s.Apply(AreaEvent{Number: 1, Action: ActionDisarmed})
	require.True(t, changed)
	area = s.Area(1)
	require.True(t, area.Disarmed())
	require.False(t, area.Armed())
	require.False(t, area.StayArmed())

	require.True(t, s.Area(2).Disarmed())
}

func TestStoreStayReplacesAway(t *testing.T) {
	s := NewStore()
	s.Apply(AreaEvent{Number: 2, Action: ActionArmed})
	snap, changed := s.Apply(AreaEvent{Number: 2, Action: ActionStayArmed})
	require.True(t, changed)
	area := snap.(Area)
	require.True(t, area.StayArmed())
	require.False(t, area.Armed())
	require.Equal(t, "armed_stay", area.State.String())

	_, changed = s.Apply(AreaEvent{Number: 2, Action: ActionStayArmed})
	require.False(t, changed)
}

func TestStoreAlarmAndRestore(t *testing.T) {
	s := NewStore()
	s.Apply(AreaEvent{Number: 1, Action: ActionArmed})

	_, changed := s.Apply(AreaEvent{Number: 1, Action: ActionAlarm})
	require.True(t, changed)
	area := s.Area(1)
	require.True(t, area.Alarm())
	require.True(t, area.Armed())
	require.Equal(t, AreaTriggered, area.State)

	_, changed = s.Apply(AreaEvent{Number: 1, Action: ActionAlarm})
	require.False(t, changed)

	_, changed = s.Apply(AreaEvent{Number: 1, Action: ActionRestore})
	require.True(t, changed)
	area = s.Area(1)
	require.False(t, area.Alarm())
	require.True(t, area.Armed())
	require.Equal(t, AreaArmedAway, area.State)
}

func TestStoreDisarmClearsAlarm(t *testing.T) {
	s := NewStore()
	s.Apply(AreaEvent{Number: 1, Action: ActionStayArmed})
	s.Apply(AreaEvent{Number: 1, Action: ActionAlarm})
	require.True(t, s.Area(1).StayArmed())

	s.Apply(AreaEvent{Number: 1, Action: ActionDisarmed})
	area := s.Area(1)
	require.True(t, area.Disarmed())
	require.False(t, area.Alarm())

	// a late restore has nothing to go back to.
	_, changed := s.Apply(AreaEvent{Number: 1, Action: ActionRestore})
	require.False(t, changed)
}

func TestStoreApplyParsedLines(t *testing.T) {
	s := NewStore()
	for _, line := range []string{"ZO5", "AREA B ARMED", "MAINS FAIL", "EX"} {
		for _, evt := range Parse(line) {
			s.Apply(evt)
		}
	}
	require.True(t, s.Zone(5).Open)
	require.True(t, s.Area(2).Armed())
	require.False(t, s.System().Mains)
	require.True(t, s.Area(1).ExitDelay())
}
