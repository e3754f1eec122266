package app

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"kcons/hal"
)

var errHalted = errors.New("kernel halted")

// reportPanic writes the panic value and stack to the log and a short
// notice to the console.
func reportPanic(l hal.Logger, out io.Writer, v any) {
	stack := debug.Stack()
	if l != nil {
		l.WriteLineString(fmt.Sprintf("kernel panic: %v", v))
		for _, line := range strings.Split(string(stack), "\n") {
			if line == "" {
				continue
			}
			l.WriteLineString(line)
		}
	}
	if out != nil {
		fmt.Fprintf(out, "\nkernel panic: %v\nsystem halted.\n", v)
	}
}
