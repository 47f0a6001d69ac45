package main

import (
	"testing"

	"github.com/brutella/hap/characteristic"
	crowip "github.com/caarlos0/homekit-crowip"
	"github.com/stretchr/testify/require"
)

func TestAllZones(t *testing.T) {
	cfg := Config{
		ContactZones: []int{1, 3, 5, 6, 7},
		MotionZones:  []int{2, 4, 8, 9, 10, 7},
		ZoneNames:    []string{"A", "B", "", "C", "D"},
	}

	zones := cfg.allZones()

	require.Equal(t, []zoneConfig{
		{1, "A", kindContact},
		{2, "B", kindMotion},
		{3, "Zone 3", kindContact},
		{4, "C", kindMotion},
		{5, "D", kindContact},
		{6, "Zone 6", kindContact},
		{7, "Zone 7", kindMotion},
		{8, "Zone 8", kindMotion},
		{9, "Zone 9", kindMotion},
		{10, "Zone 10", kindMotion},
	}, zones)
}

func TestNames(t *testing.T) {
	cfg := Config{
		Areas:       []int{1, 2},
		OutputNames: []string{"Gate", " "},
	}
	require.Equal(t, "Gate", cfg.outputName(1))
	require.Equal(t, "Output 2", cfg.outputName(2))
	require.Equal(t, "Output 3", cfg.outputName(3))
	require.Equal(t, "Alarm A", cfg.areaName(1))
	require.Equal(t, "Alarm B", cfg.areaName(2))
	require.Equal(t, "Alarm", Config{Areas: []int{2}}.areaName(2))
}

func TestAreaCode(t *testing.T) {
	cfg := Config{Code: "1234", AreaCodes: []string{"1111", " "}}
	require.Equal(t, "1111", cfg.areaCode(1))
	require.Equal(t, "1234", cfg.areaCode(2))
	require.Equal(t, "1234", cfg.areaCode(3))
	require.Equal(t, "1234", Config{Code: "1234"}.areaCode(1))
	require.Empty(t, Config{}.areaCode(1))
}

func TestClientConfig(t *testing.T) {
	cfg := Config{
		Host:        "10.0.0.5",
		Port:        5002,
		Code:        "1234",
		BypassToken: "B",
	}.clientConfig()
	require.Equal(t, "10.0.0.5", cfg.Host)
	require.Equal(t, 5002, cfg.Port)
	require.Equal(t, "1234", cfg.Code)
	require.Equal(t, "B", cfg.BypassToken)
	require.NotNil(t, cfg.Logger)
}

func TestAreaStates(t *testing.T) {
	for name, tt := range map[string]struct {
		area    crowip.Area
		current int
		target  int
	}{
		"disarmed": {
			area:    crowip.Area{Number: 1},
			current: characteristic.SecuritySystemCurrentStateDisarmed,
			target:  characteristic.SecuritySystemTargetStateDisarm,
		},
		"away": {
			area:    crowip.Area{Number: 1, State: crowip.AreaArmedAway},
			current: characteristic.SecuritySystemCurrentStateAwayArm,
			target:  characteristic.SecuritySystemTargetStateAwayArm,
		},
		"stay": {
			area:    crowip.Area{Number: 1, State: crowip.AreaArmedStay},
			current: characteristic.SecuritySystemCurrentStateStayArm,
			target:  characteristic.SecuritySystemTargetStateStayArm,
		},
		"exit delay": {
			area:    crowip.Area{Number: 1, State: crowip.AreaExitDelay},
			current: characteristic.SecuritySystemCurrentStateDisarmed,
			target:  -1,
		},
		"triggered": {
			area:    crowip.Area{Number: 1, State: crowip.AreaTriggered},
			current: characteristic.SecuritySystemCurrentStateAlarmTriggered,
			target:  -1,
		},
	} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tt.current, currentState(tt.area))
			require.Equal(t, tt.target, targetState(tt.area))
		})
	}
}

func TestTriggeredFromStore(t *testing.T) {
	store := crowip.NewStore()
	store.Apply(crowip.AreaEvent{Number: 1, Action: crowip.ActionArmed})
	store.Apply(crowip.AreaEvent{Number: 1, Action: crowip.ActionAlarm})
	require.Equal(t, characteristic.SecuritySystemCurrentStateAlarmTriggered, currentState(store.Area(1)))

	store.Apply(crowip.AreaEvent{Number: 1, Action: crowip.ActionRestore})
	require.Equal(t, characteristic.SecuritySystemCurrentStateAwayArm, currentState(store.Area(1)))
}
