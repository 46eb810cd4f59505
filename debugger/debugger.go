// Package debugger implements an interactive inspector for a running
// translator: single-stepping block-by-block, breakpoints on guest PC,
// and views into guest register state, the translation cache, and the
// execution trace sink.
package debugger

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/arm64x86/dbt/internal/dispatch"
	"github.com/arm64x86/dbt/internal/guest"
)

// Debugger wires a Dispatcher and a guest image together with
// breakpoints and a command-output buffer. It never advances the guest
// on its own; every step is driven by an explicit command.
type Debugger struct {
	Dispatcher  *dispatch.Dispatcher
	Image       *guest.Image
	State       *guest.State
	Breakpoints *BreakpointManager
	Symbols     map[string]uint64

	Output  bytes.Buffer
	Running bool
	history []string
}

// New returns a debugger ready to step img starting from st.
func New(d *dispatch.Dispatcher, img *guest.Image, st *guest.State) *Debugger {
	return &Debugger{
		Dispatcher:  d,
		Image:       img,
		State:       st,
		Breakpoints: NewBreakpointManager(),
		Symbols:     make(map[string]uint64),
	}
}

// Step dispatches exactly one block and moves the guest PC to the
// block's exit address. It does not check breakpoints.
func (d *Debugger) Step() error {
	exit, err := d.Dispatcher.Step(d.Image, d.State)
	if err != nil {
		return err
	}
	d.State.PC = exit
	return nil
}

// Continue steps repeatedly until a breakpoint fires, a trap sentinel is
// reached, or maxBlocks is exhausted (a runaway-guest backstop).
func (d *Debugger) Continue(maxBlocks int) (stopReason string, err error) {
	d.Running = true
	defer func() { d.Running = false }()
	for i := 0; i < maxBlocks; i++ {
		if err := d.Step(); err != nil {
			return "", err
		}
		if d.State.PC&dispatch.TrapMask == dispatch.TrapMask {
			return fmt.Sprintf("trapped at exit code %#x", d.State.PC), nil
		}
		if bp := d.Breakpoints.ProcessHit(d.State.PC); bp != nil {
			return fmt.Sprintf("breakpoint %d hit at %#x (count %d)", bp.ID, bp.Address, bp.HitCount), nil
		}
	}
	return "step limit reached", nil
}

// GetOutput drains and returns everything written to Output since the
// last call.
func (d *Debugger) GetOutput() string {
	s := d.Output.String()
	d.Output.Reset()
	return s
}

// ExecuteCommand parses and runs one command line, appending any result
// text to Output. history retains the last 200 commands for recall.
func (d *Debugger) ExecuteCommand(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	d.history = append(d.history, line)
	if len(d.history) > 200 {
		d.history = d.history[len(d.history)-200:]
	}
	return dispatchCommand(d, line)
}

// History returns the command history, oldest first.
func (d *Debugger) History() []string { return d.history }
