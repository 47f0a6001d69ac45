package main

import (
	"sync/atomic"

	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/characteristic"
	"github.com/brutella/hap/service"
	crowip "github.com/caarlos0/homekit-crowip"
)

type ZoneSensor struct {
	*accessory.A
	Number  int
	Kind    zoneKind
	Motion  *service.MotionSensor
	Contact *service.ContactSensor
	Tamper  *characteristic.StatusTampered

	alarm atomic.Bool
}

func newZoneSensor(info accessory.Info, zone zoneConfig) *ZoneSensor {
	a := ZoneSensor{
		Number: zone.number,
		Kind:   zone.kind,
	}
	a.A = accessory.New(info, accessory.TypeSensor)

	a.Tamper = characteristic.NewStatusTampered()

	switch zone.kind {
	case kindContact:
		a.Contact = service.NewContactSensor()
		a.Contact.AddC(a.Tamper.C)
		a.AddS(a.Contact.S)
	case kindMotion:
		a.Motion = service.NewMotionSensor()
		a.Motion.AddC(a.Tamper.C)
		a.AddS(a.Motion.S)
	}

	return &a
}

func (sensor *ZoneSensor) Open() bool {
	if sensor.Motion != nil {
		return sensor.Motion.MotionDetected.Value()
	}
	return sensor.Contact.ContactSensorState.Value() == 1
}

func (sensor *ZoneSensor) Update(zone crowip.Zone) {
	name := sensor.Name()
	openGauge.WithLabelValues(name).Set(boolAs[float64](zone.Open))
	alarmGauge.WithLabelValues(name).Set(boolAs[float64](zone.Alarm))
	tamperGauge.WithLabelValues(name).Set(boolAs[float64](zone.Tamper))
	sensor.alarm.Store(zone.Alarm)

	tamper := boolAs[int](zone.Tamper)
	if sensor.Tamper.Value() != tamper {
		log.Info("tamper", "zone", zone.Number, "status", zone.Tamper)
		_ = sensor.Tamper.SetValue(tamper)
	}

	switch sensor.Kind {
	case kindContact:
		current := boolAs[int](zone.Open)
		if v := sensor.Contact.ContactSensorState.Value(); v == current {
			return
		}
		_ = sensor.Contact.ContactSensorState.SetValue(current)
		log.Info("contact", "zone", zone.Number, "open", zone.Open, "alarm", zone.Alarm)
	case kindMotion:
		if v := sensor.Motion.MotionDetected.Value(); v == zone.Open {
			return
		}
		sensor.Motion.MotionDetected.SetValue(zone.Open)
		log.Info("motion", "zone", zone.Number, "open", zone.Open, "alarm", zone.Alarm)
	}
}

type ZoneSensors []*ZoneSensor

func (sensors ZoneSensors) Update(zone crowip.Zone) {
	for _, sensor := range sensors {
		if sensor.Number == zone.Number {
			sensor.Update(zone)
			return
		}
	}
}
