package main

import (
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/characteristic"
	"github.com/brutella/hap/service"
	crowip "github.com/caarlos0/homekit-crowip"
)

// Commander is the part of the panel client the accessories drive.
type Commander interface {
	Disarm(code string)
	ArmAway(code string)
	ArmStay(code string)
	Panic()
	ToggleOutput(n int)
}

type SecuritySystem struct {
	*accessory.A
	SecuritySystem *service.SecuritySystem
	LowBattery     *characteristic.StatusLowBattery
	BatteryLevel   *characteristic.BatteryLevel
	Tampered       *characteristic.StatusTampered
	Fault          *characteristic.StatusFault

	area      int
	code      string
	cli       Commander
	exitDelay atomic.Bool
}

func NewSecuritySystem(info accessory.Info, area int, code string, cli Commander) *SecuritySystem {
	a := &SecuritySystem{
		area: area,
		code: code,
		cli:  cli,
	}
	a.A = accessory.New(info, accessory.TypeSecuritySystem)

	a.SecuritySystem = service.NewSecuritySystem()
	a.AddS(a.SecuritySystem.S)

	a.Tampered = characteristic.NewStatusTampered()
	a.SecuritySystem.AddC(a.Tampered.C)

	a.LowBattery = characteristic.NewStatusLowBattery()
	a.SecuritySystem.AddC(a.LowBattery.C)

	a.BatteryLevel = characteristic.NewBatteryLevel()
	a.SecuritySystem.AddC(a.BatteryLevel.C)

	a.Fault = characteristic.NewStatusFault()
	a.SecuritySystem.AddC(a.Fault.C)

	_ = a.SecuritySystem.SecuritySystemCurrentState.SetValue(characteristic.SecuritySystemCurrentStateDisarmed)
	_ = a.SecuritySystem.SecuritySystemTargetState.SetValue(characteristic.SecuritySystemTargetStateDisarm)
	a.SecuritySystem.SecuritySystemTargetState.SetValueRequestFunc = a.updateHandler

	return a
}

func (a *SecuritySystem) Update(area crowip.Area) {
	label := strconv.Itoa(a.area)
	areaStateGauge.WithLabelValues(label).Set(float64(currentState(area)))
	exitDelayGauge.WithLabelValues(label).Set(boolAs[float64](area.ExitDelay()))
	a.exitDelay.Store(area.ExitDelay())

	if v := currentState(area); a.SecuritySystem.SecuritySystemCurrentState.Value() != v {
		err := a.SecuritySystem.SecuritySystemCurrentState.SetValue(v)
		log.Info("set current state", "area", a.area, "state", area.State, "err", err)
	}

	// keypad arming shows up here too, keep the target in sync so the
	// home app does not sit on "arming".
	if v := targetState(area); v >= 0 && a.SecuritySystem.SecuritySystemTargetState.Value() != v {
		err := a.SecuritySystem.SecuritySystemTargetState.SetValue(v)
		log.Info("set target state", "area", a.area, "state", area.State, "err", err)
	}
}

func (a *SecuritySystem) UpdateSystem(status crowip.SystemState) {
	if v := boolAs[int](status.Tamper); a.Tampered.Value() != v {
		_ = a.Tampered.SetValue(v)
		log.Info("alarm status", "area", a.area, "tamper", status.Tamper)
	}

	if v := boolAs[int](!status.Battery); a.LowBattery.Value() != v {
		_ = a.LowBattery.SetValue(v)
		log.Info("alarm status", "area", a.area, "low-battery", !status.Battery)
	}

	if v := status.BatteryLevel(); a.BatteryLevel.Value() != v {
		_ = a.BatteryLevel.SetValue(v)
	}

	if v := boolAs[int](!status.Mains); a.Fault.Value() != v {
		_ = a.Fault.SetValue(v)
		log.Info("alarm status", "area", a.area, "mains", status.Mains)
	}
}

func (a *SecuritySystem) updateHandler(
	v interface{},
	_ *http.Request,
) (response interface{}, code int) {
	target, ok := v.(int)
	if !ok {
		return nil, hap.JsonStatusInvalidValueInRequest
	}

	switch target {
	case characteristic.SecuritySystemTargetStateAwayArm:
		log.Info("arm away", "area", a.area)
		commandCounter.WithLabelValues("arm_away").Inc()
		a.cli.ArmAway(a.code)
	case characteristic.SecuritySystemTargetStateStayArm,
		characteristic.SecuritySystemTargetStateNightArm:
		log.Info("arm stay", "area", a.area)
		commandCounter.WithLabelValues("arm_stay").Inc()
		a.cli.ArmStay(a.code)
	case characteristic.SecuritySystemTargetStateDisarm:
		if a.code == "" {
			log.Error("cannot disarm without a code", "area", a.area)
			return nil, hap.JsonStatusResourceBusy
		}
		log.Info("disarm", "area", a.area)
		commandCounter.WithLabelValues("disarm").Inc()
		a.cli.Disarm(a.code)
	default:
		return nil, hap.JsonStatusResourceDoesNotExist
	}
	return nil, hap.JsonStatusSuccess
}
