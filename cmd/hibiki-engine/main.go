// Command hibiki-engine is the engine process: it speaks the framed
// request/response protocol over stdin/stdout, logs to stderr, and exits on
// Quit or EOF. Run with --list to print a plugin module's classes instead.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/klknn/hibiki/internal/config"
	"github.com/klknn/hibiki/internal/enginelog"
	"github.com/klknn/hibiki/internal/router"
	"github.com/klknn/hibiki/internal/scheduler"
	"github.com/klknn/hibiki/internal/session"
	"github.com/klknn/hibiki/internal/sink"
	"github.com/klknn/hibiki/internal/wire"
	"github.com/klknn/hibiki/pkg/pluginhost"
)

func main() {
	cfg, err := config.ParseArgs(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if cfg.Help {
		return
	}
	if cfg.ListModule != "" {
		listModule(cfg.ListModule)
		return
	}
	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// listModule serves --list: one "subindex:name" line per audio-effect
// catalog class (Category without "Instrument") whose module path matches,
// in catalog order.
func listModule(path string) {
	for _, info := range pluginhost.List() {
		if info.Path == path && !strings.Contains(info.Category, "Instrument") {
			fmt.Printf("%d:%s\n", info.Subindex, info.Name)
		}
	}
}

func run(cfg config.Config) error {
	log := enginelog.New(os.Stderr, cfg.LogLevel)

	var snk sink.Sink
	if cfg.NullSink {
		snk = sink.NewNullSink(cfg.SampleRate)
	} else {
		pa, err := sink.New(cfg.SampleRate, scheduler.OutChannels, cfg.LatencyMs)
		if err != nil {
			log.For("sink").Errorf("failed to open audio device, falling back to null sink: %v", err)
			snk = sink.NewNullSink(cfg.SampleRate)
		} else {
			defer pa.Close()
			snk = pa
		}
	}

	sess := session.New(snk.SampleRate())
	out := wire.NewWriter(os.Stdout)
	routerLog := log.For("router")
	rt := router.New(sess, out, routerLog)
	notifier := router.NewLevelsNotifier(out, log.For("scheduler"))
	sched := scheduler.New(sess, snk, notifier)

	schedDone := make(chan error, 1)
	go func() { schedDone <- sched.Run() }()

	serveErr := rt.Serve(os.Stdin)
	sess.RequestQuit()
	<-schedDone

	return serveErr
}
