package enginelog

import (
	"bytes"
	"strings"
	"testing"
)

func TestErrorfFormatsAndWrites(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug")

	l.Errorf("failed to load plugin: %s", "bad.vst3")

	if !strings.Contains(buf.String(), "failed to load plugin: bad.vst3") {
		t.Errorf("output = %q, want it to contain the formatted message", buf.String())
	}
}

func TestForPrefixesSubsystem(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info")
	sub := l.For("router")

	sub.Infof("starting up")

	if !strings.Contains(buf.String(), "router") {
		t.Errorf("output = %q, want it to contain the router prefix", buf.String())
	}
}

func TestUnrecognizedLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "not-a-real-level")

	l.Debugf("should be suppressed")
	l.Infof("should appear")

	out := buf.String()
	if strings.Contains(out, "should be suppressed") {
		t.Errorf("debug line leaked through at the default info level: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("info line missing: %q", out)
	}
}
