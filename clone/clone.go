// Package clone keeps learned remote commands in a few numbered slots and resends
// them.
package clone

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sparques/irkit/decoder"
	"github.com/sparques/irkit/protocol"
	"github.com/sparques/irkit/transmitter"
)

// Slots is the number of commands a Store holds.
const Slots = 4

var (
	ErrSlot    = errors.New("clone: no such slot")
	ErrEmpty   = errors.New("clone: slot is empty")
	ErrNotData = errors.New("clone: not a data frame")
)

// Entry is a learned command.
type Entry struct {
	Protocol protocol.ID
	Raw      uint64
}

func (e Entry) String() string {
	a, c := protocol.Decode(e.Protocol, e.Raw)
	return fmt.Sprintf("%s addr=%#02x cmd=%#02x", e.Protocol, a, c)
}

// Store is a fixed set of slots. The zero value is empty and ready to use.
type Store struct {
	mu      sync.Mutex
	entries [Slots]Entry
	used    [Slots]bool
}

// Learn stores f in slot. Repeat frames carry no command of their own and are refused.
func (s *Store) Learn(slot int, f decoder.Frame) error {
	if slot < 0 || slot >= Slots {
		return ErrSlot
	}
	if !f.Valid || f.Repeat {
		return ErrNotData
	}
	s.mu.Lock()
	s.entries[slot] = Entry{Protocol: f.Protocol, Raw: f.Raw}
	s.used[slot] = true
	s.mu.Unlock()
	return nil
}

// Get returns the entry in slot.
func (s *Store) Get(slot int) (Entry, error) {
	if slot < 0 || slot >= Slots {
		return Entry{}, ErrSlot
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.used[slot] {
		return Entry{}, ErrEmpty
	}
	return s.entries[slot], nil
}

// Clear empties slot.
func (s *Store) Clear(slot int) error {
	if slot < 0 || slot >= Slots {
		return ErrSlot
	}
	s.mu.Lock()
	s.used[slot] = false
	s.entries[slot] = Entry{}
	s.mu.Unlock()
	return nil
}

// Used lists the occupied slots in order.
func (s *Store) Used() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var slots []int
	for i, ok := range s.used {
		if ok {
			slots = append(slots, i)
		}
	}
	return slots
}

// Send resends slot on hal with a transmitter set up for the learned protocol.
func (s *Store) Send(slot int, hal transmitter.HAL) error {
	e, err := s.Get(slot)
	if err != nil {
		return err
	}
	return transmitter.New(e.Protocol, hal).SendRaw(e.Raw)
}
