package main

import (
	crowip "github.com/caarlos0/homekit-crowip"
)

var stateNames = [5]string{
	"Armed: Stay",
	"Armed: Away",
	"Armed: Night",
	"Disarmed",
	"Alarm Triggered",
}

type PageArea struct {
	Number    int
	Name      string
	State     string
	ExitDelay bool
}

type PageItem struct {
	Number int
	Name   string
	Open   bool
	Tamper bool
	Alarm  bool
}

type Page struct {
	Connection string
	Faults     []string
	Areas      []PageArea
	Zones      []PageItem
	Outputs    []PageItem
}

func buildPage(
	state crowip.ConnState,
	status crowip.SystemState,
	alarms []*SecuritySystem,
	sensors ZoneSensors,
	outputs OutputSwitches,
) Page {
	page := Page{
		Connection: state.String(),
		Faults:     status.Faults(),
	}
	for _, alarm := range alarms {
		current := alarm.SecuritySystem.SecuritySystemCurrentState.Value()
		name := "Unknown"
		if current >= 0 && current < len(stateNames) {
			name = stateNames[current]
		}
		page.Areas = append(page.Areas, PageArea{
			Number:    alarm.area,
			Name:      alarm.Name(),
			State:     name,
			ExitDelay: alarm.exitDelay.Load(),
		})
	}
	for _, sensor := range sensors {
		page.Zones = append(page.Zones, PageItem{
			Number: sensor.Number,
			Name:   sensor.Name(),
			Open:   sensor.Open(),
			Tamper: sensor.Tamper.Value() == 1,
			Alarm:  sensor.alarm.Load(),
		})
	}
	for _, output := range outputs {
		page.Outputs = append(page.Outputs, PageItem{
			Number: output.Number,
			Name:   output.Name(),
			Open:   output.Switch.Switch.On.Value(),
		})
	}
	return page
}
