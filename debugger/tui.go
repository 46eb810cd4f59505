package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is the text user interface wrapped around a Debugger.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application
	Pages    *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	RegisterView    *tview.TextView
	DisassemblyView *tview.TextView
	CacheView       *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField
}

// NewTUI builds and lays out every panel but does not start the event
// loop; call Run for that.
func NewTUI(d *Debugger) *TUI {
	t := &TUI{Debugger: d, App: tview.NewApplication()}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.DisassemblyView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.DisassemblyView.SetBorder(true).SetTitle(" Guest Code ")

	t.CacheView = tview.NewTextView().SetDynamicColors(true)
	t.CacheView.SetBorder(true).SetTitle(" Translation Cache ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	t.LeftPanel = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.DisassemblyView, 0, 3, false).
		AddItem(t.BreakpointsView, 8, 0, false)

	t.RightPanel = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 10, 0, false).
		AddItem(t.CacheView, 0, 1, false)

	mainContent := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(t.LeftPanel, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd != "" {
		t.executeCommand(cmd)
		t.CommandInput.SetText("")
	}
}

func (t *TUI) executeCommand(cmd string) {
	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()
	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}
	t.RefreshAll()
}

// WriteOutput appends text to the output panel and scrolls to the end.
func (t *TUI) WriteOutput(text string) {
	fmt.Fprint(t.OutputView, text)
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel from current debugger state.
func (t *TUI) RefreshAll() {
	t.updateRegisterView()
	t.updateDisassemblyView()
	t.updateCacheView()
	t.updateBreakpointsView()
	t.App.Draw()
}

func (t *TUI) updateRegisterView() {
	st := t.Debugger.State
	var lines []string
	for i := 0; i < 32; i += 2 {
		lines = append(lines, fmt.Sprintf("X%-2d: %#016x  X%-2d: %#016x", i, st.GetX(uint8(i)), i+1, st.GetX(uint8(i+1))))
	}
	n, z, c, v := st.NZCV()
	lines = append(lines, fmt.Sprintf("PC: %#016x  SP: %#016x", st.PC, st.SP))
	lines = append(lines, fmt.Sprintf("NZCV: %d%d%d%d", b2i(n), b2i(z), b2i(c), b2i(v)))
	t.RegisterView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateDisassemblyView() {
	pc := t.Debugger.State.PC
	var lines []string
	start := pc
	if start >= 32 {
		start -= 32
	} else {
		start = 0
	}
	for addr := start; addr < start+64; addr += 4 {
		w, err := t.Debugger.Image.ReadWord32(addr)
		if err != nil {
			continue
		}
		marker, color := "  ", "white"
		if addr == pc {
			marker, color = "->", "yellow"
		}
		if t.Debugger.Breakpoints.At(addr) != nil {
			marker = "* "
		}
		lines = append(lines, fmt.Sprintf("[%s]%s %#010x: %#08x[white]", color, marker, addr, w))
	}
	t.DisassemblyView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateCacheView() {
	s := t.Debugger.Dispatcher.Cache.Stats()
	lines := []string{
		fmt.Sprintf("capacity: %d", t.Debugger.Dispatcher.Cache.Capacity()),
		fmt.Sprintf("lookups:  %d", s.Lookups),
		fmt.Sprintf("hits:     %d", s.Hits),
		fmt.Sprintf("misses:   %d", s.Misses),
		fmt.Sprintf("inserts:  %d", s.Inserts),
		fmt.Sprintf("evicted:  %d", s.Evictions),
		fmt.Sprintf("arena left: %d bytes", t.Debugger.Dispatcher.Arena.Remaining()),
	}
	t.CacheView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateBreakpointsView() {
	bps := t.Debugger.Breakpoints.All()
	if len(bps) == 0 {
		t.BreakpointsView.SetText("[yellow]no breakpoints set[white]")
		return
	}
	var lines []string
	for _, bp := range bps {
		status, color := "enabled", "green"
		if !bp.Enabled {
			status, color = "disabled", "red"
		}
		lines = append(lines, fmt.Sprintf("%d: [%s]%s[white] %#x (hits: %d)", bp.ID, color, status, bp.Address, bp.HitCount))
	}
	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI event loop; it blocks until the application exits.
func (t *TUI) Run() error {
	t.RefreshAll()
	t.WriteOutput("[green]translator debugger[white]\nF5 continue, F11 step, type 'help' for commands\n\n")
	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop ends the TUI event loop.
func (t *TUI) Stop() { t.App.Stop() }
