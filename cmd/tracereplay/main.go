// Command tracereplay replays one or more recorded trace files through a
// profiler sink, merging them in timestamp order.
package main

import (
	"flag"
	"fmt"
	"os"

	"tracewire/internal/config"
	"tracewire/internal/logging"
	"tracewire/internal/playback"
	"tracewire/internal/sink"
	"tracewire/internal/trace"
	"tracewire/internal/wire"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("tracereplay", flag.ContinueOnError)
	diagnostics := fs.Bool("trace", false, "log per-event diagnostics while replaying")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	paths := fs.Args()
	if len(paths) == 0 {
		if cfg, err := config.Load(); err == nil {
			paths = []string{cfg.TraceDir}
		}
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: tracereplay [-trace] <path>...")
		return 1
	}

	log := logging.L()

	files, err := trace.Discover(paths)
	if err != nil {
		log.Error("discovering trace files failed", logging.Error(err))
		return 1
	}
	if len(files) == 0 {
		log.Warn("no trace files found", logging.Strings("paths", paths))
		return 0
	}

	s := sink.NewLoggingSink(log)
	coordinator := playback.NewCoordinator(s, playback.WallClock{}, log)
	defer coordinator.Close()

	var opened []*os.File
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()

	for _, path := range files {
		f, err := trace.OpenTraceFile(path)
		if err != nil {
			log.Error("failed to open trace file", logging.String("path", path), logging.Error(err))
			return 1
		}
		opened = append(opened, f)

		reader := wire.NewReader(f)
		if err := coordinator.AddStream(reader, path); err != nil {
			log.Error("failed to add stream", logging.String("path", path), logging.Error(err))
			return 1
		}
	}

	if err := coordinator.Play(*diagnostics); err != nil {
		log.Error("replay aborted", logging.Error(err))
		return 1
	}

	return 0
}
