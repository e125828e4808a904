// Package config parses the engine's process arguments, the one ambient
// concern spec.md itself never specifies.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

// Config is the fully parsed command line, ready for cmd/hibiki-engine to
// act on.
type Config struct {
	// ListModule, if non-empty, puts the engine in introspection mode:
	// print every audio-effect class in this module and exit.
	ListModule string

	SampleRate float64
	LatencyMs  float64
	LogLevel   string
	NullSink   bool

	// Help is true when -h/--help was passed; Parse has already written
	// the usage text, and the caller exits 0 without doing anything else.
	Help bool
}

// Parse parses args (normally os.Args[1:]) into a Config. usageOut receives
// the generated usage text on --help or on a parse error.
func Parse(args []string, usageOut io.Writer) (Config, error) {
	fs := pflag.NewFlagSet("hibiki-engine", pflag.ContinueOnError)
	fs.SetOutput(usageOut)

	listModule := fs.String("list", "", "print index:name for every audio-effect class in the given plugin module, then exit")
	sampleRate := fs.Float64("sample-rate", 44100, "sample rate requested from the audio sink, in Hz")
	latencyMs := fs.Float64("latency-ms", 50, "target sink latency in milliseconds")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, or error")
	nullSink := fs.Bool("null-sink", false, "use the null sink instead of opening a real audio device")
	help := fs.BoolP("help", "h", false, "display this help text")

	fs.Usage = func() {
		fmt.Fprintf(usageOut, "Usage: hibiki-engine [OPTIONS]\n\n")
		fmt.Fprintf(usageOut, "With no options, reads commands from standard input and runs until Quit/EOF.\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		ListModule: *listModule,
		SampleRate: *sampleRate,
		LatencyMs:  *latencyMs,
		LogLevel:   *logLevel,
		NullSink:   *nullSink,
		Help:       *help,
	}

	if cfg.Help {
		fs.Usage()
		return cfg, nil
	}
	if cfg.SampleRate <= 0 {
		return Config{}, fmt.Errorf("config: --sample-rate must be positive, got %v", cfg.SampleRate)
	}
	if cfg.LatencyMs <= 0 {
		return Config{}, fmt.Errorf("config: --latency-ms must be positive, got %v", cfg.LatencyMs)
	}
	return cfg, nil
}

// ParseArgs is a convenience wrapper over Parse using os.Stderr for usage
// output, matching the teacher's cmd/* entrypoints.
func ParseArgs(args []string) (Config, error) {
	return Parse(args, os.Stderr)
}
