// Package pluginhost hosts the engine's plugin modules behind a capability
// interface modeled on VST3's class-in-a-module shape: one module path can
// expose several classes, each resolved by its subindex and carrying its own
// static Info (ID, name, category). This engine ships only in-process mock
// modules — a real out-of-process VST3 bridge is explicitly out of scope —
// but Track and Session code only ever see the Plugin interface below, so a
// real binding could be dropped in behind Load without touching callers.
package pluginhost

import (
	"github.com/klknn/hibiki/pkg/framework/param"
	"github.com/klknn/hibiki/pkg/framework/process"
)

// Plugin is the capability surface a Track's chain holds for each loaded
// module instance.
type Plugin interface {
	// Parameters returns the registry backing this instance's automatable
	// controls.
	Parameters() *param.Registry

	// IsInstrument reports whether this module generates audio from note
	// events rather than processing an incoming audio stream.
	IsInstrument() bool

	// DisplayName returns the module's human-readable name.
	DisplayName() string

	// Process renders one block. events carries this block's note events,
	// already windowed and sample-offset-adjusted by the Scheduler.
	Process(ctx *process.Context, hostCtx process.HostContext, events []process.NoteEvent)

	// Editor returns the module's GUI handle, or nil if it has none.
	Editor() Editor

	// Deactivate releases any resources held by this instance. After
	// Deactivate returns, the instance must not be Processed again.
	Deactivate() error
}

// Editor is the opaque GUI handle a plugin instance may expose. This host
// never renders plugin UIs itself, and the router's ShowPluginGui handler
// neither opens an Editor nor sends a response.
type Editor interface {
	Title() string
}
