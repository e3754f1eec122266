// Package logger prints kernel log lines on the console and mirrors them to
// the platform logger.
package logger

import (
	"io"

	"kcons/hal"
)

// Service implements hal.Logger over a console.
type Service struct {
	out    io.Writer
	mirror hal.Logger
	buf    []byte
}

// New returns a logger writing to out. mirror may be nil.
func New(out io.Writer, mirror hal.Logger) *Service {
	if mirror == nil {
		mirror = hal.NopLogger{}
	}
	return &Service{out: out, mirror: mirror}
}

func (s *Service) WriteLineString(line string) {
	s.buf = append(s.buf[:0], line...)
	s.emit()
}

func (s *Service) WriteLineBytes(line []byte) {
	s.buf = append(s.buf[:0], line...)
	s.emit()
}

func (s *Service) emit() {
	for len(s.buf) > 0 && (s.buf[len(s.buf)-1] == '\n' || s.buf[len(s.buf)-1] == '\r') {
		s.buf = s.buf[:len(s.buf)-1]
	}
	s.mirror.WriteLineBytes(s.buf)
	if s.out == nil {
		return
	}
	s.buf = append(s.buf, '\n')
	_, _ = s.out.Write(s.buf)
}
