package serial

import (
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/sparques/irkit/capture"
	"github.com/sparques/irkit/sim"
)

// WaveformWriter implements transmitter.HAL for a board that does its own carrier
// timing: the transmitter's calls are recorded and Flush sends the recording to the
// board as one mode2 frame.
type WaveformWriter struct {
	sim.Carrier

	mu sync.Mutex
	w  io.Writer
}

func NewWaveformWriter(w io.Writer) *WaveformWriter {
	return &WaveformWriter{w: w}
}

// Flush writes what was recorded since the last Flush. It writes nothing if nothing
// was recorded.
func (ww *WaveformWriter) Flush() error {
	pairs := ww.Take()
	if len(pairs) == 0 {
		return nil
	}
	ww.mu.Lock()
	defer ww.mu.Unlock()
	if err := capture.Write(ww.w, pairs); err != nil {
		return fmt.Errorf("write waveform: %w", err)
	}
	glog.V(2).Infof("serial: wrote waveform of %d pairs", len(pairs))
	return nil
}
