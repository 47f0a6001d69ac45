package main

import (
	"github.com/brutella/hap/accessory"
	crowip "github.com/caarlos0/homekit-crowip"
)

func setupZones(cfg Config, cli *crowip.Client) ZoneSensors {
	var sensors ZoneSensors
	for _, zone := range cfg.allZones() {
		a := newZoneSensor(accessory.Info{
			Name:         zone.name,
			Manufacturer: manufacturer,
		}, zone)
		a.Id = uint64(100 + zone.number)
		a.Update(cli.Zone(zone.number))
		sensors = append(sensors, a)
	}
	return sensors
}
