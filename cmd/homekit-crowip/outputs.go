package main

import (
	"net/http"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	crowip "github.com/caarlos0/homekit-crowip"
)

type OutputSwitch struct {
	*accessory.Switch
	Number int

	cli Commander
}

func newOutputSwitch(info accessory.Info, number int, cli Commander) *OutputSwitch {
	a := &OutputSwitch{
		Switch: accessory.NewSwitch(info),
		Number: number,
		cli:    cli,
	}
	a.Switch.Switch.On.SetValueRequestFunc = a.updateHandler
	return a
}

// updateHandler toggles the output only when the request differs from what
// the panel last reported, the panel has no explicit on/off.
func (a *OutputSwitch) updateHandler(value interface{}, _ *http.Request) (response interface{}, code int) {
	v, ok := value.(bool)
	if !ok {
		return nil, hap.JsonStatusInvalidValueInRequest
	}
	if a.Switch.Switch.On.Value() == v {
		return nil, hap.JsonStatusSuccess
	}
	log.Info("toggle output", "output", a.Number, "on", v)
	commandCounter.WithLabelValues("toggle_output").Inc()
	a.cli.ToggleOutput(a.Number)
	return nil, hap.JsonStatusSuccess
}

func (a *OutputSwitch) Update(output crowip.Output) {
	outputGauge.WithLabelValues(a.Name()).Set(boolAs[float64](output.Open))
	if a.Switch.Switch.On.Value() == output.Open {
		return
	}
	a.Switch.Switch.On.SetValue(output.Open)
	log.Info("output", "output", output.Number, "on", output.Open)
}

type OutputSwitches []*OutputSwitch

func (outputs OutputSwitches) Update(output crowip.Output) {
	for _, o := range outputs {
		if o.Number == output.Number {
			o.Update(output)
			return
		}
	}
}

func setupOutputs(cfg Config, cli *crowip.Client) OutputSwitches {
	var outputs OutputSwitches
	for _, number := range cfg.Outputs {
		a := newOutputSwitch(accessory.Info{
			Name:         cfg.outputName(number),
			Manufacturer: manufacturer,
		}, number, cli)
		a.Id = uint64(300 + number)
		a.Update(cli.Output(number))
		outputs = append(outputs, a)
	}
	return outputs
}
