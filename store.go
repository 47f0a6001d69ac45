package crowip

import (
	"sort"
	"sync"
)

// Store is the in-memory model of the panel. It is only mutated by applying
// parsed events; reads of unknown numbers create default records.
type Store struct {
	mu      sync.RWMutex
	areas   map[int]*Area
	zones   map[int]*Zone
	outputs map[int]*Output
	system  SystemState
}

func NewStore() *Store {
	s := &Store{
		areas:   map[int]*Area{},
		zones:   map[int]*Zone{},
		outputs: map[int]*Output{},
		system:  defaultSystemState(),
	}
	s.area(1)
	s.area(2)
	return s
}

// Apply applies evt and reports whether anything observable changed,
// together with a snapshot of the affected entity.
func (s *Store) Apply(evt Event) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := evt.(type) {
	case ZoneEvent:
		zone := s.zone(e.Number)
		before := *zone
		applyChange(&zone.Open, e.Open)
		applyChange(&zone.Alarm, e.Alarm)
		applyChange(&zone.Tamper, e.Tamper)
		return *zone, before != *zone
	case OutputEvent:
		out := s.output(e.Number)
		before := *out
		out.Open = e.Open
		return *out, before != *out
	case SystemEvent:
		before := s.system
		switch e.Field {
		case SystemMains:
			s.system.Mains = e.Value
		case SystemBattery:
			s.system.Battery = e.Value
		case SystemTamper:
			s.system.Tamper = e.Value
		}
		return s.system, before != s.system
	case AreaEvent:
		area := s.area(e.Number)
		before := *area
		*area = transition(*area, e.Action)
		return *area, before != *area
	}
	return nil, false
}

// transition is the area state table. Alarms overlay whatever state they
// interrupt, which is restored on ActionRestore.
func transition(a Area, action AreaAction) Area {
	if a.State == AreaTriggered {
		switch action {
		case ActionArmed:
			a.resume = AreaArmedAway
		case ActionStayArmed:
			a.resume = AreaArmedStay
		case ActionRestore:
			a.State, a.resume = a.resume, AreaDisarmed
		case ActionDisarmed:
			a.State, a.resume = AreaDisarmed, AreaDisarmed
		}
		return a
	}

	switch action {
	case ActionArmed:
		a.State = AreaArmedAway
	case ActionStayArmed:
		a.State = AreaArmedStay
	case ActionDisarmed:
		a.State = AreaDisarmed
	case ActionExitDelay:
		// already armed means the delay has been served.
		if a.State == AreaDisarmed {
			a.State = AreaExitDelay
		}
	case ActionAlarm:
		a.State, a.resume = AreaTriggered, a.State
	}
	return a
}

func applyChange(field *bool, c Change) {
	switch c {
	case SetTrue:
		*field = true
	case SetFalse:
		*field = false
	}
}

func (s *Store) Area(n int) Area {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.area(n)
}

func (s *Store) Zone(n int) Zone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.zone(n)
}

func (s *Store) Output(n int) Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.output(n)
}

func (s *Store) System() SystemState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.system
}

// Areas returns all known areas ordered by number.
func (s *Store) Areas() []Area {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Area, 0, len(s.areas))
	for _, a := range s.areas {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result
}

// Zones returns all known zones ordered by number.
func (s *Store) Zones() []Zone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Zone, 0, len(s.zones))
	for _, z := range s.zones {
		result = append(result, *z)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result
}

// Outputs returns all known outputs ordered by number.
func (s *Store) Outputs() []Output {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Output, 0, len(s.outputs))
	for _, o := range s.outputs {
		result = append(result, *o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result
}

func (s *Store) area(n int) *Area {
	a, ok := s.areas[n]
	if !ok {
		a = &Area{Number: n}
		s.areas[n] = a
	}
	return a
}

func (s *Store) zone(n int) *Zone {
	z, ok := s.zones[n]
	if !ok {
		z = &Zone{Number: n}
		s.zones[n] = z
	}
	return z
}

func (s *Store) output(n int) *Output {
	o, ok := s.outputs[n]
	if !ok {
		o = &Output{Number: n}
		s.outputs[n] = o
	}
	return o
}
