package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sparques/irkit/capture"
	"github.com/sparques/irkit/decoder"
	"github.com/sparques/irkit/protocol"
	"github.com/sparques/irkit/sim"
	"github.com/sparques/irkit/transmitter"
)

func parseProtocol(name string) (protocol.ID, error) {
	id, err := protocol.ParseID(name)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", name, err)
	}
	return id, nil
}

func parseUint(s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// parseCommand parses "<protocol> <address> <command>".
func parseCommand(args []string) (protocol.ID, uint8, uint16, error) {
	if len(args) != 3 {
		return 0, 0, 0, fmt.Errorf("expected PROTOCOL ADDRESS COMMAND")
	}
	id, err := parseProtocol(args[0])
	if err != nil {
		return 0, 0, 0, err
	}
	a, err := parseUint(args[1], 8)
	if err != nil {
		return 0, 0, 0, err
	}
	c, err := parseUint(args[2], 16)
	if err != nil {
		return 0, 0, 0, err
	}
	return id, uint8(a), uint16(c), nil
}

func listProtocols() string {
	var w bytes.Buffer
	for _, id := range protocol.All() {
		info := protocol.Lookup(id)
		fmt.Fprintf(&w, "%-10s %5dHz %2d bits", info.Name, info.Timing.Carrier, info.Timing.Bits)
		if info.Timing.HasRepeat() {
			w.WriteString(" repeat")
		}
		if info.Tx.Repeats > 0 {
			fmt.Fprintf(&w, " x%d", info.Tx.Repeats+1)
		}
		w.WriteString("\n")
	}
	return w.String()
}

func showTiming(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected PROTOCOL")
	}
	id, err := parseProtocol(args[0])
	if err != nil {
		return "", err
	}
	rx, tx := protocol.TimingFor(id), protocol.TxTimingFor(id)
	var w bytes.Buffer
	row := func(name string, win protocol.Window, us uint16) {
		if !win.Enabled() {
			fmt.Fprintf(&w, "%-13s -\n", name)
			return
		}
		fmt.Fprintf(&w, "%-13s %5dus  ticks %d-%d\n", name, us, win.Min, win.Max)
	}
	row("start burst", rx.StartBurst, tx.StartBurst)
	row("start space", rx.StartSpace, tx.StartSpace)
	row("repeat space", rx.RepeatSpace, tx.RepeatSpace)
	row("bit burst", rx.BitBurst, tx.BitBurst)
	row("zero space", rx.ZeroSpace, tx.ZeroSpace)
	row("one space", rx.OneSpace, tx.OneSpace)
	row("stop burst", rx.StopBurst, tx.StopBurst)
	fmt.Fprintf(&w, "bits %d, threshold %d ticks, timeout %d ticks, frame period %dus\n",
		rx.Bits, rx.BitThreshold, rx.Timeout, tx.FramePeriod)
	return w.String(), nil
}

func encode(args []string) (string, error) {
	id, a, c, err := parseCommand(args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%#x", protocol.Encode(id, a, c)), nil
}

func decode(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("expected PROTOCOL RAW")
	}
	id, err := parseProtocol(args[0])
	if err != nil {
		return "", err
	}
	raw, err := parseUint(args[1], 64)
	if err != nil {
		return "", err
	}
	a, c := protocol.Decode(id, raw)
	return fmt.Sprintf("addr=%#02x cmd=%#02x valid=%v", a, c, protocol.Validate(id, raw)), nil
}

// send frames a command on a simulated carrier and returns it as capture text.
func send(args []string) (string, error) {
	id, a, c, err := parseCommand(args)
	if err != nil {
		return "", err
	}
	carrier := new(sim.Carrier)
	if err := transmitter.New(id, carrier).Send(a, c); err != nil {
		return "", err
	}
	var w bytes.Buffer
	fmt.Fprintf(&w, "# %s %#02x %#02x\n", id, a, c)
	if err := capture.Write(&w, carrier.Take()); err != nil {
		return "", err
	}
	return w.String(), nil
}

func repeat(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected PROTOCOL")
	}
	id, err := parseProtocol(args[0])
	if err != nil {
		return "", err
	}
	carrier := new(sim.Carrier)
	if err := transmitter.New(id, carrier).SendRepeat(); err != nil {
		return "", fmt.Errorf("%s: %w", id, err)
	}
	var w bytes.Buffer
	if err := capture.Write(&w, carrier.Take()); err != nil {
		return "", err
	}
	return w.String(), nil
}

func loopback(args []string) (string, error) {
	id, a, c, err := parseCommand(args)
	if err != nil {
		return "", err
	}
	frames, err := sim.Loopback(id, protocol.Encode(id, a, c))
	if err != nil {
		return "", err
	}
	return formatFrames(frames), nil
}

// replay decodes a capture file with the given protocols, or all of them.
func replay(args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("expected FILE [PROTOCOL...]")
	}
	var ids []protocol.ID
	for _, name := range args[1:] {
		id, err := parseProtocol(name)
		if err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return "", err
	}
	defer f.Close()
	frames, err := capture.Parse(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", args[0], err)
	}
	rx := new(sim.Receiver)
	decoded := capture.Replay(rx, decoder.NewMulti(rx, ids...), frames)
	return fmt.Sprintf("%d frames captured\n", len(frames)) + formatFrames(decoded), nil
}

func formatFrames(frames []decoder.Frame) string {
	if len(frames) == 0 {
		return "no frames decoded\n"
	}
	var lines []string
	for _, f := range frames {
		line := f.String()
		if !f.Checked() {
			line += " (check failed)"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n") + "\n"
}
