// Command scancode runs set-1 scan codes through the keyboard decoder and
// prints what each one produced.
//
//	scancode 2a 1e aa 9e
//	echo "e0 1d 38 e0 53" | scancode
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"kcons/drivers/kbd"
	"kcons/hal"
)

func main() {
	noColor := flag.Bool("no-color", false, "Disable colored output.")
	flag.Parse()
	if *noColor {
		color.NoColor = true
	}

	if err := run(flag.Args(), os.Stdin, os.Stdout); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "scancode: %v\n", err)
		os.Exit(2)
	}
}

// nullPorts swallows the reset command and reports an empty controller.
type nullPorts struct{}

func (nullPorts) In8(uint16) uint8      { return 0 }
func (nullPorts) Out8(uint16, uint8)    {}
func (nullPorts) In16(uint16) uint16    { return 0 }
func (nullPorts) Out16(uint16, uint16)  {}
func (nullPorts) InsL(uint16, []uint32) {}

var _ hal.Ports = nullPorts{}

var (
	charColor  = color.New(color.FgGreen, color.Bold)
	resetColor = color.New(color.FgRed, color.Bold)
	faintColor = color.New(color.Faint)
)

// run decodes args, or whitespace separated codes from in when args is
// empty.
func run(args []string, in io.Reader, out io.Writer) error {
	reset := false
	d := kbd.New(nullPorts{}, nil, func() { reset = true })

	decode := func(tok string) error {
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(tok), "0x"), 16, 8)
		if err != nil {
			return fmt.Errorf("bad scan code %q", tok)
		}
		reset = false
		c := d.Decode(byte(v))
		fmt.Fprintf(out, "%02x  ", v)
		switch {
		case c != 0:
			charColor.Fprintf(out, "%-6s", quote(c))
		default:
			faintColor.Fprintf(out, "%-6s", "-")
		}
		fmt.Fprintf(out, "  %s", d.Modifiers())
		if reset {
			resetColor.Fprint(out, "  reset")
		}
		fmt.Fprintln(out)
		return nil
	}

	if len(args) > 0 {
		for _, a := range args {
			if err := decode(a); err != nil {
				return err
			}
		}
		return nil
	}

	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		if err := decode(sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}

func quote(c byte) string {
	switch {
	case c == '\b':
		return `'\b'`
	case c >= 0x20 && c < 0x7F:
		return strconv.QuoteRune(rune(c))
	default:
		return fmt.Sprintf("%#02x", c)
	}
}
