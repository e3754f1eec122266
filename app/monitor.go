package app

import (
	"strings"

	"github.com/google/shlex"

	"kcons/internal/buildinfo"
)

const (
	promptText = "K> "
	maxLine    = 128
)

type command struct {
	name string
	desc string
	run  func(m *monitor, args []string)
}

var commands []command

func init() {
	commands = []command{
		{name: "help", desc: "Display this list of commands.", run: (*monitor).help},
		{name: "kerninfo", desc: "Display information about the console.", run: (*monitor).kerninfo},
		{name: "mods", desc: "Display keyboard modifier state.", run: (*monitor).mods},
		{name: "echo", desc: "Print the arguments.", run: (*monitor).echo},
	}
}

// monitor is a line editor over console input with a handful of commands.
type monitor struct {
	s    *system
	line []byte
}

func newMonitor(s *system) *monitor {
	return &monitor{s: s, line: make([]byte, 0, maxLine)}
}

func (m *monitor) prompt() { m.s.con.Printf("%s", promptText) }

func (m *monitor) input(c int) {
	con := m.s.con
	switch {
	case c == '\b':
		if len(m.line) > 0 {
			m.line = m.line[:len(m.line)-1]
			con.PutChar('\b')
		}
	case c == '\n' || c == '\r':
		con.PutChar('\n')
		m.exec(string(m.line))
		m.line = m.line[:0]
		m.prompt()
	case c >= ' ' && c < 0x7F:
		if len(m.line) < maxLine-1 {
			m.line = append(m.line, byte(c))
			con.PutChar(c)
		}
	}
}

func (m *monitor) exec(line string) {
	args, err := shlex.Split(line)
	if err != nil {
		m.s.con.Printf("%v\n", err)
		return
	}
	if len(args) == 0 {
		return
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			cmd.run(m, args[1:])
			return
		}
	}
	m.s.con.Printf("Unknown command '%s'\n", args[0])
}

func (m *monitor) help([]string) {
	for _, cmd := range commands {
		m.s.con.Printf("%s - %s\n", cmd.name, cmd.desc)
	}
}

func (m *monitor) kerninfo([]string) {
	con := m.s.con
	adapter := "color"
	if con.Display().Mono() {
		adapter = "mono"
	}
	con.Printf("build:   %s\n", buildinfo.String())
	con.Printf("display: %s, cursor %d\n", adapter, con.Display().Cursor())
	con.Printf("serial:  %v\n", con.SerialPresent())
	state := "not initialized"
	if m.s.pic.Initialized() {
		state = "initialized"
	}
	con.Printf("irqmask: %#04x (%s)\n", m.s.pic.Mask(), state)
}

func (m *monitor) mods([]string) {
	m.s.con.Printf("%s\n", m.s.con.Modifiers())
}

func (m *monitor) echo(args []string) {
	m.s.con.Printf("%s\n", strings.Join(args, " "))
}
