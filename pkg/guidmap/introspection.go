package guidmap

import (
	"github.com/aretw0/introspection"
)

// MapState exposes internal state for observability.
type MapState struct {
	Path  string `json:"path"`
	Known int    `json:"known"`
	Used  int    `json:"used"`
}

// State implements introspection.Introspectable.
func (m *Map) State() any {
	return MapState{
		Path:  m.Path,
		Known: len(m.known),
		Used:  len(m.used),
	}
}

// ComponentType implements introspection.Component.
func (m *Map) ComponentType() string {
	return "guid-map"
}

var _ introspection.Introspectable = (*Map)(nil)
var _ introspection.Component = (*Map)(nil)
