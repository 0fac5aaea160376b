// Package orchestrator wires configuration, renderers and sessions together:
// it renders configured forms through the renderer registry and builds
// sessions whose validator, presenter, debounce and redirect follow the
// configuration.
package orchestrator
