// Package capture reads and writes raw IR captures in the text format of LIRC's
// mode2 tool:
//
//	# NEC 0x01 0x00
//	pulse 9000
//	space 4500
//	pulse 562
//	...
//
// Durations are microseconds. A blank line or a "timeout" line ends a frame. The
// space after the last pulse of a frame is the gap to the next one and is dropped.
package capture

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/sparques/irkit"
	"github.com/sparques/irkit/decoder"
	"github.com/sparques/irkit/sim"
)

// ErrSyntax is returned for lines that are not a comment, a pulse, a space or a
// timeout.
var ErrSyntax = errors.New("capture: syntax error")

// frameBuilder accumulates the pairs of one frame.
type frameBuilder struct {
	pairs []irkit.TimePair
	// open is set while the last pair still waits for its space.
	open bool
}

// line consumes one line. It reports whether the line ended a frame.
func (b *frameBuilder) line(text string) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return true, nil
	}
	if strings.HasPrefix(text, "#") {
		return false, nil
	}
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return false, fmt.Errorf("%w: %q", ErrSyntax, text)
	}
	us, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil || us == 0 {
		return false, fmt.Errorf("%w: bad duration %q", ErrSyntax, fields[1])
	}
	d := time.Duration(us) * time.Microsecond

	switch strings.ToLower(fields[0]) {
	case "pulse":
		if b.open {
			// back to back pulses merge, as mode2 prints on some drivers
			b.pairs[len(b.pairs)-1][0] += d
			return false, nil
		}
		b.pairs = append(b.pairs, irkit.TimePair{d, 0})
		b.open = true
	case "space":
		if len(b.pairs) == 0 {
			// leading silence
			return false, nil
		}
		b.pairs[len(b.pairs)-1][1] += d
		b.open = false
	case "timeout":
		return true, nil
	default:
		return false, fmt.Errorf("%w: unknown keyword %q", ErrSyntax, fields[0])
	}
	return false, nil
}

// take returns the frame built so far, nil if empty, and starts a new one.
func (b *frameBuilder) take() []irkit.TimePair {
	p := b.pairs
	b.pairs, b.open = nil, false
	if len(p) == 0 {
		return nil
	}
	p[len(p)-1][1] = 0
	return p
}

// Parse reads every frame in r.
func Parse(r io.Reader) ([][]irkit.TimePair, error) {
	var (
		frames [][]irkit.TimePair
		b      frameBuilder
		n      int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		n++
		done, err := b.line(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if done {
			if f := b.take(); f != nil {
				frames = append(frames, f)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read capture: %w", err)
	}
	if f := b.take(); f != nil {
		frames = append(frames, f)
	}
	return frames, nil
}

// Write writes pairs as one frame followed by a blank line.
func Write(w io.Writer, pairs []irkit.TimePair) error {
	bw := bufio.NewWriter(w)
	for _, p := range pairs {
		fmt.Fprintf(bw, "pulse %d\n", p.Burst().Microseconds())
		if p.Space() > 0 {
			fmt.Fprintf(bw, "space %d\n", p.Space().Microseconds())
		}
	}
	bw.WriteString("\n")
	return bw.Flush()
}

// Scanner reads frames from a stream, such as a serial port, one at a time.
// Malformed lines are logged and drop the frame they occur in.
type Scanner struct {
	sc    *bufio.Scanner
	b     frameBuilder
	frame []irkit.TimePair
	bad   bool
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{sc: bufio.NewScanner(r)}
}

// Scan advances to the next frame. It returns false at the end of the stream or on a
// read error.
func (s *Scanner) Scan() bool {
	for s.sc.Scan() {
		done, err := s.b.line(s.sc.Text())
		if err != nil {
			glog.Warningf("capture: %v", err)
			s.bad = true
		}
		if !done {
			continue
		}
		f := s.b.take()
		if s.bad {
			s.bad = false
			continue
		}
		if f != nil {
			s.frame = f
			return true
		}
	}
	if f := s.b.take(); f != nil && !s.bad {
		s.frame = f
		return true
	}
	s.frame = nil
	return false
}

// Frame returns the frame read by the last call to Scan.
func (s *Scanner) Frame() []irkit.TimePair {
	return s.frame
}

func (s *Scanner) Err() error {
	return s.sc.Err()
}

// Replay plays frames into s through rx, letting the channel go idle after each, and
// returns the decoded frames.
func Replay(rx *sim.Receiver, s sim.Sink, frames [][]irkit.TimePair) []decoder.Frame {
	var out []decoder.Frame
	for i, f := range frames {
		got := rx.Feed(s, f)
		got = append(got, rx.Flush(s)...)
		glog.V(2).Infof("capture: frame %d: %d pairs, %d decoded", i, len(f), len(got))
		out = append(out, got...)
	}
	return out
}
