//go:build !baremetal

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"kcons/app"
	"kcons/console"
	"kcons/hal"
	"kcons/hal/host"
)

func main() {
	var cfg host.Config
	var headless, noEcho bool
	appCfg := app.DefaultConfig()
	flag.BoolVar(&headless, "headless", false, "Run without a window; COM1 is the terminal.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Machine loop rate.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N iterations in headless mode (0 = run forever).")
	flag.BoolVar(&cfg.Mono, "mono", false, "Fit a monochrome adapter only.")
	flag.BoolVar(&cfg.NoSerial, "no-serial", false, "Leave COM1 unpopulated.")
	flag.BoolVar(&cfg.TraceIO, "trace-io", false, "Log every port access to stderr.")
	flag.IntVar(&appCfg.Console.Baud, "baud", console.DefaultConfig().Baud, "COM1 line rate.")
	flag.BoolVar(&noEcho, "no-echo", false, "Do not run the line monitor.")
	flag.Parse()
	appCfg.Echo = !noEcho

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, appCfg)
	}

	if headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := host.RunHeadless(ctx, newApp, cfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := host.RunWindow(newApp, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
