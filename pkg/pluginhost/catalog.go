package pluginhost

import "fmt"

// ClassInfo is the static metadata the catalog exposes for `--list` and for
// LoadPlugin's validation, without instantiating anything.
type ClassInfo struct {
	Path     string // module path, e.g. "mock.synth"
	Subindex int32  // class index within the module; all mock modules ship one class at subindex 0
	Name     string
	Vendor   string
	Category string // "Instrument|Synth", "Fx", "Fx|Filter", "Fx|Dynamics"
}

type factory func(sampleRate float64) Plugin

type module struct {
	info    ClassInfo
	factory factory
}

// catalog is the fixed set of modules this engine hosts. A real VST3 bridge
// would instead resolve Path against installed .vst3 bundles; the catalog
// keeps that resolution behind the same Path/Subindex addressing scheme so
// the rest of the engine doesn't need to change to gain one.
var catalog = []module{
	{
		info: ClassInfo{
			Path: "mock.synth", Subindex: 0,
			Name: "Mock Synth", Vendor: "Hibiki", Category: "Instrument|Synth",
		},
		factory: func(sampleRate float64) Plugin { return newMockSynth(sampleRate) },
	},
	{
		info: ClassInfo{
			Path: "mock.gain", Subindex: 0,
			Name: "Mock Gain", Vendor: "Hibiki", Category: "Fx",
		},
		factory: func(sampleRate float64) Plugin { return newMockGain(sampleRate) },
	},
	{
		info: ClassInfo{
			Path: "mock.filter", Subindex: 0,
			Name: "Mock Filter", Vendor: "Hibiki", Category: "Fx|Filter",
		},
		factory: func(sampleRate float64) Plugin { return newMockFilter(sampleRate) },
	},
	{
		info: ClassInfo{
			Path: "mock.compressor", Subindex: 0,
			Name: "Mock Compressor", Vendor: "Hibiki", Category: "Fx|Dynamics",
		},
		factory: func(sampleRate float64) Plugin { return newMockCompressor(sampleRate) },
	},
	{
		info: ClassInfo{
			Path: "mock.reverb", Subindex: 0,
			Name: "Mock Reverb", Vendor: "Hibiki", Category: "Fx|Reverb",
		},
		factory: func(sampleRate float64) Plugin { return newMockReverb(sampleRate) },
	},
	{
		info: ClassInfo{
			Path: "mock.delay", Subindex: 0,
			Name: "Mock Delay", Vendor: "Hibiki", Category: "Fx|Delay",
		},
		factory: func(sampleRate float64) Plugin { return newMockDelay(sampleRate) },
	},
}

// List returns the static metadata for every class this host can load,
// independent of sample rate. Used to serve --list.
func List() []ClassInfo {
	infos := make([]ClassInfo, len(catalog))
	for i, m := range catalog {
		infos[i] = m.info
	}
	return infos
}

// Load instantiates the class at path/subindex against sampleRate. Unknown
// path/subindex pairs are a router-level LoadPlugin failure, not a panic.
func Load(path string, subindex int32, sampleRate float64) (Plugin, error) {
	for _, m := range catalog {
		if m.info.Path == path && m.info.Subindex == subindex {
			return m.factory(sampleRate), nil
		}
	}
	return nil, fmt.Errorf("pluginhost: no class at path %q subindex %d", path, subindex)
}
