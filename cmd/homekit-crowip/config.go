package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/brutella/hap/characteristic"
	crowip "github.com/caarlos0/homekit-crowip"
	"golang.org/x/exp/slices"
)

type Config struct {
	Host         string        `env:"HOST,notEmpty"`
	Port         int           `env:"PORT"         envDefault:"5002"`
	Code         string        `env:"CODE"`
	AreaCodes    []string      `env:"AREA_CODES"`
	KeepAlive    time.Duration `env:"KEEPALIVE"    envDefault:"60s"`
	Timeout      time.Duration `env:"TIMEOUT"      envDefault:"10s"`
	BypassToken  string        `env:"BYPASS_TOKEN" envDefault:"BYPASS"`
	Areas        []int         `env:"AREAS"        envDefault:"1"`
	MotionZones  []int         `env:"MOTION"`
	ContactZones []int         `env:"CONTACT"`
	ZoneNames    []string      `env:"ZONE_NAMES"`
	Outputs      []int         `env:"OUTPUTS"`
	OutputNames  []string      `env:"OUTPUT_NAMES"`
	Address      string        `env:"LISTEN"       envDefault:":9009"`
	LogLevel     string        `env:"LOG_LEVEL"    envDefault:"info"`
	DB           string        `env:"DB"           envDefault:"./db"`
}

func (c Config) clientConfig() crowip.Config {
	return crowip.Config{
		Host:        c.Host,
		Port:        c.Port,
		Code:        c.Code,
		KeepAlive:   c.KeepAlive,
		Timeout:     c.Timeout,
		BypassToken: c.BypassToken,
		Logger:      log.WithPrefix("crowip"),
	}
}

// areaCode is the code of area n, falling back to CODE.
func (c Config) areaCode(n int) string {
	if n > 0 && len(c.AreaCodes) > n-1 {
		if code := strings.TrimSpace(c.AreaCodes[n-1]); code != "" {
			return code
		}
	}
	return c.Code
}

type zoneKind uint8

const (
	kindMotion zoneKind = iota + 1
	kindContact
)

func (z zoneKind) String() string {
	switch z {
	case kindMotion:
		return "motion"
	default:
		return "contact"
	}
}

type zoneConfig struct {
	number int
	name   string
	kind   zoneKind
}

func nameAt(names []string, n int, fallback string) string {
	if n > 0 && len(names) > n-1 {
		if name := strings.TrimSpace(names[n-1]); name != "" {
			return name
		}
	}
	return fmt.Sprintf("%s %d", fallback, n)
}

func (c Config) zoneName(n int) string {
	return nameAt(c.ZoneNames, n, "Zone")
}

func (c Config) outputName(n int) string {
	return nameAt(c.OutputNames, n, "Output")
}

func (c Config) areaName(n int) string {
	if len(c.Areas) == 1 {
		return "Alarm"
	}
	return fmt.Sprintf("Alarm %s", string(rune('A'+n-1)))
}

type allZoneConfigs []zoneConfig

func (a allZoneConfigs) String() string {
	var zones []string
	for _, zone := range a {
		zones = append(
			zones,
			fmt.Sprintf("zone %d: %q (%s)", zone.number, zone.name, zone.kind.String()),
		)
	}
	return strings.Join(zones, "\n")
}

// allZones lists the configured zones ordered by number. A zone listed as
// both motion and contact is exposed as motion.
func (c Config) allZones() []zoneConfig {
	var zones []zoneConfig
	for _, z := range c.MotionZones {
		zones = append(zones, zoneConfig{
			number: z,
			name:   c.zoneName(z),
			kind:   kindMotion,
		})
	}
	for _, z := range c.ContactZones {
		if slices.Contains(c.MotionZones, z) {
			continue
		}
		zones = append(zones, zoneConfig{
			number: z,
			name:   c.zoneName(z),
			kind:   kindContact,
		})
	}
	slices.SortFunc(zones, func(a, b zoneConfig) int {
		return a.number - b.number
	})
	return zones
}

func currentState(area crowip.Area) int {
	switch {
	case area.Alarm():
		return characteristic.SecuritySystemCurrentStateAlarmTriggered
	case area.Armed():
		return characteristic.SecuritySystemCurrentStateAwayArm
	case area.StayArmed():
		return characteristic.SecuritySystemCurrentStateStayArm
	default:
		return characteristic.SecuritySystemCurrentStateDisarmed
	}
}

// targetState is the target matching a settled area, or -1 while the panel
// is still in exit delay or sounding an alarm.
func targetState(area crowip.Area) int {
	switch area.State {
	case crowip.AreaArmedAway:
		return characteristic.SecuritySystemTargetStateAwayArm
	case crowip.AreaArmedStay:
		return characteristic.SecuritySystemTargetStateStayArm
	case crowip.AreaDisarmed:
		return characteristic.SecuritySystemTargetStateDisarm
	default:
		return -1
	}
}
