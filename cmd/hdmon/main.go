package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/hdmon/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override preferences path (optional)")
	replay := flag.String("replay", "", "read a recorded nrsc5 log instead of stdin")
	tail := flag.Int("tail", 0, "replay only the last N lines (optional)")
	headless := flag.Bool("headless", false, "run without the dashboard and exit when input ends")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:  *configPath,
		PrefsPath:   *prefsPath,
		Replay:      *replay,
		ReplayLines: *tail,
		Headless:    *headless,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "hdmon: %v\n", err)
		return 1
	}
	return 0
}
