//go:build !baremetal

package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"kcons/hal"
)

// errDone stops the input pump once the machine loop has finished.
var errDone = errors.New("host: run finished")

// RunHeadless runs the guest without a window. COM1 is wired to cfg.In and
// cfg.Out; the parallel port is discarded. It returns nil after cfg.Ticks
// iterations or when the operator detaches, and ctx.Err() on cancellation.
func RunHeadless(ctx context.Context, newApp func(hal.HAL) func() error, cfg Config) error {
	cfg = cfg.withDefaults()
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	raw, restore, err := rawTerminal(cfg.In)
	if err != nil {
		return err
	}
	defer restore()
	if raw {
		cfg.Out = crlfWriter{w: cfg.Out}
		cfg.Log = crlfWriter{w: cfg.Log}
	}

	s := newSession(cfg, newApp, io.Discard)
	input := make(chan []byte, 16)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pumpInput(gctx, readInput(cfg.In), input)
	})
	g.Go(func() error {
		if err := loop(gctx, s, d, input); err != nil {
			return err
		}
		return errDone
	})

	err = g.Wait()
	if errors.Is(err, errDone) || errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func loop(ctx context.Context, s *session, d time.Duration, input <-chan []byte) error {
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p := <-input:
			s.m.SerialInput(p)
		case <-t.C:
			if err := s.tick(); err != nil {
				return err
			}
			tick++
			if s.cfg.Ticks > 0 && tick >= s.cfg.Ticks {
				return nil
			}
		}
	}
}
