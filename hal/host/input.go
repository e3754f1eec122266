//go:build !baremetal

package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// detachKey (ctrl+]) ends the session from a raw terminal.
const detachKey = 0x1D

// rawTerminal switches f to raw mode if it is a terminal. The returned
// restore func is never nil.
func rawTerminal(r io.Reader) (raw bool, restore func(), err error) {
	f, ok := r.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, func() {}, nil
	}
	fd := int(f.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return false, func() {}, fmt.Errorf("host: raw terminal: %w", err)
	}
	return true, func() { _ = term.Restore(fd, old) }, nil
}

type chunk struct {
	p   []byte
	err error
}

// readInput reads r on its own goroutine. A blocking read on a terminal
// cannot be interrupted, so the reader is abandoned on shutdown.
func readInput(r io.Reader) <-chan chunk {
	ch := make(chan chunk, 1)
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := r.Read(buf)
			ch <- chunk{p: append([]byte(nil), buf[:n]...), err: err}
			if err != nil {
				return
			}
		}
	}()
	return ch
}

// pumpInput forwards reads to out until EOF, cancellation or the detach key.
func pumpInput(ctx context.Context, in <-chan chunk, out chan<- []byte) error {
	for {
		var c chunk
		select {
		case <-ctx.Done():
			return nil
		case c = <-in:
		}

		p, quit := c.p, false
		if i := bytes.IndexByte(p, detachKey); i >= 0 {
			p, quit = p[:i], true
		}
		if len(p) > 0 {
			select {
			case out <- p:
			case <-ctx.Done():
				return nil
			}
		}
		if quit {
			return errQuit
		}
		if c.err != nil {
			if errors.Is(c.err, io.EOF) || errors.Is(c.err, os.ErrClosed) {
				return nil
			}
			return fmt.Errorf("host: read serial input: %w", c.err)
		}
	}
}
