package engine

import "fmt"

// ConfigError is a fatal, startup-time error: a cyclic prep graph, a
// missing static table, or a reference to an unknown room. Constructing a
// planner from bad static data should fail loudly and early rather than
// surface as a confusing runtime Stuck.
type ConfigError struct {
	Component string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Component, e.Reason)
}

// NewConfigError builds a ConfigError attributed to component.
func NewConfigError(component, reason string) *ConfigError {
	return &ConfigError{Component: component, Reason: reason}
}

// EngineError wraps a structural failure reported by Execute itself (as
// opposed to a narrated in-fiction failure message). The Reactive Planner
// surfaces this as Status Error.
type EngineError struct {
	Action Action
	Reason string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine error executing %v: %s", e.Action.Verb, e.Reason)
}
