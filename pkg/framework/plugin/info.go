package plugin

// Info describes a loadable plugin module's static metadata.
type Info struct {
	ID       string // unique module identifier (e.g., "com.hibiki.mock.synth")
	Name     string // display name
	Version  string // semantic version
	Vendor   string // company/developer name
	Category string // e.g. "Instrument", "Fx"
}

// IsInstrument reports whether this module generates audio from note events
// rather than processing an incoming audio stream.
func (i Info) IsInstrument() bool {
	return i.Category == "Instrument"
}
