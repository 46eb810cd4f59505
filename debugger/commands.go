package debugger

import (
	"fmt"
	"strconv"
	"strings"
)

// dispatchCommand parses one command line and routes it to a handler,
// writing results into d.Output.
func dispatchCommand(d *Debugger, line string) error {
	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help", "h", "?":
		return cmdHelp(d, args)
	case "continue", "c":
		return cmdContinue(d, args)
	case "step", "s":
		return cmdStep(d, args)
	case "break", "b":
		return cmdBreak(d, args, false)
	case "tbreak":
		return cmdBreak(d, args, true)
	case "delete", "d":
		return cmdDelete(d, args)
	case "info":
		return cmdInfo(d, args)
	case "regs", "r":
		return cmdRegs(d, args)
	case "x":
		return cmdExamine(d, args)
	case "cache":
		return cmdCache(d, args)
	case "trace":
		return cmdTrace(d, args)
	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

func cmdHelp(d *Debugger, args []string) error {
	fmt.Fprintln(&d.Output, `commands:
  break <hex-addr>      set a breakpoint
  tbreak <hex-addr>     set a one-shot breakpoint
  delete <id>           delete a breakpoint
  continue              run until breakpoint, trap, or step limit
  step                  dispatch exactly one block
  regs                  print guest general registers, PC, SP and NZCV
  x <hex-addr> [n]      dump n guest words starting at addr (default 8)
  info breakpoints      list active breakpoints
  cache                 print translation cache statistics
  trace [n]             print the last n trace sink entries (default 20)`)
	return nil
}

func parseHexAddr(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", s, err)
	}
	return v, nil
}

func cmdBreak(d *Debugger, args []string, temporary bool) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <hex-addr>")
	}
	addr, err := parseHexAddr(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.Add(addr, temporary)
	fmt.Fprintf(&d.Output, "breakpoint %d at %#x\n", bp.ID, bp.Address)
	return nil
}

func cmdDelete(d *Debugger, args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		fmt.Fprintln(&d.Output, "all breakpoints deleted")
		return nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("usage: delete <id>")
	}
	if err := d.Breakpoints.DeleteByID(id); err != nil {
		return err
	}
	fmt.Fprintf(&d.Output, "breakpoint %d deleted\n", id)
	return nil
}

func cmdContinue(d *Debugger, args []string) error {
	reason, err := d.Continue(1_000_000)
	if err != nil {
		return err
	}
	fmt.Fprintf(&d.Output, "stopped: %s (pc=%#x)\n", reason, d.State.PC)
	return nil
}

func cmdStep(d *Debugger, args []string) error {
	if err := d.Step(); err != nil {
		return err
	}
	fmt.Fprintf(&d.Output, "pc=%#x\n", d.State.PC)
	return nil
}

func cmdRegs(d *Debugger, args []string) error {
	st := d.State
	for i := 0; i < 32; i += 4 {
		fmt.Fprintf(&d.Output, "X%-2d=%#016x  X%-2d=%#016x  X%-2d=%#016x  X%-2d=%#016x\n",
			i, st.GetX(uint8(i)), i+1, st.GetX(uint8(i+1)), i+2, st.GetX(uint8(i+2)), i+3, st.GetX(uint8(i+3)))
	}
	n, z, c, v := st.NZCV()
	fmt.Fprintf(&d.Output, "PC=%#016x SP=%#016x NZCV=%d%d%d%d\n", st.PC, st.SP, b2i(n), b2i(z), b2i(c), b2i(v))
	return nil
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func cmdExamine(d *Debugger, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: x <hex-addr> [count]")
	}
	addr, err := parseHexAddr(args[0])
	if err != nil {
		return err
	}
	count := 8
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil {
			count = n
		}
	}
	for i := 0; i < count; i++ {
		w, err := d.Image.ReadWord32(addr + uint64(i)*4)
		if err != nil {
			fmt.Fprintf(&d.Output, "%#x: <unmapped>\n", addr+uint64(i)*4)
			continue
		}
		fmt.Fprintf(&d.Output, "%#x: %#08x\n", addr+uint64(i)*4, w)
	}
	return nil
}

func cmdCache(d *Debugger, args []string) error {
	s := d.Dispatcher.Cache.Stats()
	fmt.Fprintf(&d.Output, "capacity=%d lookups=%d hits=%d misses=%d inserts=%d evictions=%d\n",
		d.Dispatcher.Cache.Capacity(), s.Lookups, s.Hits, s.Misses, s.Inserts, s.Evictions)
	return nil
}

func cmdTrace(d *Debugger, args []string) error {
	n := 20
	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil {
			n = v
		}
	}
	if d.Dispatcher.Trace == nil {
		fmt.Fprintln(&d.Output, "tracing disabled")
		return nil
	}
	for _, e := range d.Dispatcher.Trace.Recent(n) {
		fmt.Fprintf(&d.Output, "[%06d] pc=%#x exit=%#x instrs=%d reused=%v dur=%v\n",
			e.Sequence, e.GuestPC, e.ExitPC, e.InstrCount, e.Reused, e.Duration)
	}
	return nil
}

func cmdInfo(d *Debugger, args []string) error {
	if len(args) == 0 || args[0] != "breakpoints" {
		return fmt.Errorf("usage: info breakpoints")
	}
	bps := d.Breakpoints.All()
	if len(bps) == 0 {
		fmt.Fprintln(&d.Output, "no breakpoints set")
		return nil
	}
	for _, bp := range bps {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		fmt.Fprintf(&d.Output, "%d: %s at %#x (hits: %d)\n", bp.ID, status, bp.Address, bp.HitCount)
	}
	return nil
}
