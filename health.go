package crowip

// Faults lists the health flags currently reporting a problem.
func (s SystemState) Faults() []string {
	var faults []string
	if !s.Mains {
		faults = append(faults, "mains")
	}
	if !s.Battery {
		faults = append(faults, "battery")
	}
	if s.Tamper {
		faults = append(faults, "tamper")
	}
	if !s.Line {
		faults = append(faults, "line")
	}
	if !s.Dialler {
		faults = append(faults, "dialler")
	}
	if !s.ZoneBattery {
		faults = append(faults, "zone battery")
	}
	return faults
}

func (s SystemState) Healthy() bool {
	return len(s.Faults()) == 0
}

// BatteryLevel is a coarse percentage, the panel only reports ok or low.
func (s SystemState) BatteryLevel() int {
	if s.Battery {
		return 100
	}
	return 20
}
