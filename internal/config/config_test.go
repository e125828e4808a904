package config

import (
	"bytes"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	var out bytes.Buffer
	cfg, err := Parse(nil, &out)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("SampleRate = %v, want 44100", cfg.SampleRate)
	}
	if cfg.LatencyMs != 50 {
		t.Errorf("LatencyMs = %v, want 50", cfg.LatencyMs)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.NullSink {
		t.Error("NullSink = true, want false by default")
	}
}

func TestParseOverridesEveryFlag(t *testing.T) {
	var out bytes.Buffer
	cfg, err := Parse([]string{
		"--sample-rate", "48000",
		"--latency-ms", "20",
		"--log-level", "debug",
		"--null-sink",
	}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SampleRate != 48000 || cfg.LatencyMs != 20 || cfg.LogLevel != "debug" || !cfg.NullSink {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParseListModule(t *testing.T) {
	var out bytes.Buffer
	cfg, err := Parse([]string{"--list", "mock.synth"}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListModule != "mock.synth" {
		t.Errorf("ListModule = %q, want mock.synth", cfg.ListModule)
	}
}

func TestParseRejectsNonPositiveSampleRate(t *testing.T) {
	var out bytes.Buffer
	if _, err := Parse([]string{"--sample-rate", "0"}, &out); err == nil {
		t.Fatal("expected an error for --sample-rate 0")
	}
}

func TestParseHelpSkipsValidation(t *testing.T) {
	var out bytes.Buffer
	cfg, err := Parse([]string{"--help"}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Help {
		t.Error("Help = false after --help")
	}
	if out.Len() == 0 {
		t.Error("expected usage text to be written")
	}
}
