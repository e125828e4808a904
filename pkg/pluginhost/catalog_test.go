package pluginhost

import "testing"

func TestListReturnsAllMockClasses(t *testing.T) {
	infos := List()
	want := map[string]bool{
		"mock.synth": false, "mock.gain": false, "mock.filter": false,
		"mock.compressor": false, "mock.reverb": false, "mock.delay": false,
	}
	for _, info := range infos {
		if _, ok := want[info.Path]; !ok {
			t.Errorf("unexpected class %q in List()", info.Path)
		}
		want[info.Path] = true
	}
	for path, seen := range want {
		if !seen {
			t.Errorf("List() missing class %q", path)
		}
	}
}

func TestLoadUnknownPath(t *testing.T) {
	if _, err := Load("mock.nonexistent", 0, 48000); err == nil {
		t.Fatal("expected error loading unknown path")
	}
}

func TestLoadEachCatalogEntry(t *testing.T) {
	for _, info := range List() {
		p, err := Load(info.Path, info.Subindex, 48000)
		if err != nil {
			t.Fatalf("Load(%q): %v", info.Path, err)
		}
		if p.DisplayName() == "" {
			t.Errorf("Load(%q).DisplayName() is empty", info.Path)
		}
		if err := p.Deactivate(); err != nil {
			t.Errorf("Load(%q).Deactivate(): %v", info.Path, err)
		}
	}
}

func TestMockSynthIsInstrument(t *testing.T) {
	p, err := Load("mock.synth", 0, 48000)
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsInstrument() {
		t.Error("mock.synth should be an instrument")
	}
}

func TestMockEffectsAreNotInstruments(t *testing.T) {
	for _, path := range []string{"mock.gain", "mock.filter", "mock.compressor", "mock.reverb", "mock.delay"} {
		p, err := Load(path, 0, 48000)
		if err != nil {
			t.Fatal(err)
		}
		if p.IsInstrument() {
			t.Errorf("%s should not be an instrument", path)
		}
	}
}
