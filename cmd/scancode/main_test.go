package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() { color.NoColor = true }

func TestRunArgs(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"2a", "1e", "0xaa", "9e"}, nil, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines: %q", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[1], "1e  'A'") || !strings.HasSuffix(lines[1], "shift") {
		t.Fatalf("line 1 = %q", lines[1])
	}
	if !strings.HasSuffix(lines[3], "none") {
		t.Fatalf("line 3 = %q, want modifiers cleared", lines[3])
	}
}

func TestRunStdin(t *testing.T) {
	var out bytes.Buffer
	if err := run(nil, strings.NewReader("1d 38\ne0 53\n"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines: %q", len(lines), out.String())
	}
	last := lines[3]
	if !strings.Contains(last, "0xe9") || !strings.HasSuffix(last, "reset") {
		t.Fatalf("ctrl+alt+del line = %q", last)
	}
	if !strings.HasSuffix(lines[2], "|e0") {
		t.Fatalf("escape line = %q, want e0 state", lines[2])
	}
}

func TestRunBadCode(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"zz"}, nil, &out); err == nil {
		t.Fatal("run accepted a bad code")
	}
	if err := run([]string{"100"}, nil, &out); err == nil {
		t.Fatal("run accepted a code wider than a byte")
	}
}
