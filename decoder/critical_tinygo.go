//go:build tinygo

package decoder

import "runtime/interrupt"

// guard masks interrupts while the decoder state is touched, so the edge and tick
// handlers never observe each other half way.
type guard struct {
	state interrupt.State
}

func (g *guard) lock() {
	g.state = interrupt.Disable()
}

func (g *guard) unlock() {
	interrupt.Restore(g.state)
}
