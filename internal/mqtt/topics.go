package mqtt

import "fmt"

type Topics struct {
	prefix string
}

func NewTopics(prefix string) *Topics {
	return &Topics{prefix: prefix}
}

// Status carries the bridge availability, it is also the last will topic.
func (t *Topics) Status() string {
	return fmt.Sprintf("%s/status", t.prefix)
}

// Connection carries whether the bridge is connected to the panel.
func (t *Topics) Connection() string {
	return fmt.Sprintf("%s/connection", t.prefix)
}

func (t *Topics) System() string {
	return fmt.Sprintf("%s/system", t.prefix)
}

func (t *Topics) Area(slug string) string {
	return fmt.Sprintf("%s/area/%s", t.prefix, slug)
}

func (t *Topics) AreaCommand(slug string) string {
	return fmt.Sprintf("%s/area/%s/command", t.prefix, slug)
}

func (t *Topics) Zone(slug string) string {
	return fmt.Sprintf("%s/zone/%s", t.prefix, slug)
}

func (t *Topics) Output(slug string) string {
	return fmt.Sprintf("%s/output/%s", t.prefix, slug)
}

func (t *Topics) OutputCommand(slug string) string {
	return fmt.Sprintf("%s/output/%s/command", t.prefix, slug)
}

func (t *Topics) Keypress() string {
	return fmt.Sprintf("%s/keypress", t.prefix)
}
