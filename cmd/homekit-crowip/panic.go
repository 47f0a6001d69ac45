package main

import (
	"net/http"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
)

func setupPanicButton(cli Commander, code string) *accessory.Switch {
	a := accessory.NewSwitch(accessory.Info{
		Name:         "Audible Panic",
		Manufacturer: manufacturer,
	})
	a.Switch.On.SetValueRequestFunc = panicHandler(cli, code)
	return a
}

func panicHandler(cli Commander, code string) func(interface{}, *http.Request) (interface{}, int) {
	return func(value interface{}, _ *http.Request) (response interface{}, status int) {
		v, ok := value.(bool)
		if !ok {
			return nil, hap.JsonStatusInvalidValueInRequest
		}
		if v {
			log.Warn("triggering an audible panic!")
			commandCounter.WithLabelValues("panic").Inc()
			cli.Panic()
			return nil, hap.JsonStatusSuccess
		}
		if code == "" {
			log.Error("cannot disarm a panic without a code")
			return nil, hap.JsonStatusResourceBusy
		}
		commandCounter.WithLabelValues("disarm").Inc()
		cli.Disarm(code)
		return nil, hap.JsonStatusSuccess
	}
}
