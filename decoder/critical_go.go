//go:build !tinygo

package decoder

import "sync"

// guard serialises edge, tick and poll calls. Hosted Go has no interrupts to mask, so
// a mutex stands in.
type guard struct {
	mu sync.Mutex
}

func (g *guard) lock() {
	g.mu.Lock()
}

func (g *guard) unlock() {
	g.mu.Unlock()
}
