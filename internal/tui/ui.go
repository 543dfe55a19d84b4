package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/docker/go-units"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Paintersrp/rip/internal/engine"
)

const (
	tableTitle      = "Processes"
	confirmPageName = "confirm"
	keyBuffer       = 256
	selectedMarker  = "●"
)

// Option configures UI behaviour.
type Option func(*UI)

// WithSignal sets the signal name shown in the title and the confirmation
// prompt.
func WithSignal(name string) Option {
	return func(u *UI) {
		if name != "" {
			u.signal = name
		}
	}
}

// UI renders engine view models with tview and forwards translated key
// presses to the engine loop.
type UI struct {
	app    *tview.Application
	pages  *tview.Pages
	prompt *tview.TextView
	table  *tview.Table
	footer *tview.TextView
	modal  *tview.Modal

	keys   chan engine.Key
	signal string

	mu      sync.Mutex
	latest  engine.ViewModel
	pending bool

	showing    bool
	confirmMsg string

	stopOnce sync.Once
	done     chan struct{}
}

// New constructs a UI configured with the supplied options.
func New(opts ...Option) *UI {
	app := tview.NewApplication()

	prompt := tview.NewTextView().SetDynamicColors(true).SetWrap(false)

	table := tview.NewTable().SetFixed(1, 0).SetSelectable(true, false)
	table.SetBorder(true).SetTitle(tableTitle)

	footer := tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	footer.SetText("[::d]space[::-] select  [::d]enter[::-] confirm  [::d]ctrl-s[::-] sort  [::d]ctrl-u[::-] clear  [::d]esc[::-] quit")

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(prompt, 1, 0, false).
		AddItem(table, 0, 1, true).
		AddItem(footer, 1, 0, false)

	modal := tview.NewModal()

	pages := tview.NewPages().
		AddPage("main", flex, true, true).
		AddPage(confirmPageName, modal, true, false)

	ui := &UI{
		app:    app,
		pages:  pages,
		prompt: prompt,
		table:  table,
		footer: footer,
		modal:  modal,
		keys:   make(chan engine.Key, keyBuffer),
		signal: "SIGKILL",
		done:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(ui)
	}

	app.SetRoot(pages, true)
	app.SetInputCapture(ui.handleKey)

	return ui
}

// Keys exposes the channel translated key presses are delivered on.
func (u *UI) Keys() <-chan engine.Key {
	return u.keys
}

// Done returns a channel that is closed when the UI stops.
func (u *UI) Done() <-chan struct{} {
	return u.done
}

// Render stores the view model and schedules a redraw. Redraws are coalesced
// so a burst of renders costs one draw, and the caller never waits on the
// tview event loop. Renders after Stop are dropped.
func (u *UI) Render(vm engine.ViewModel) {
	select {
	case <-u.done:
		return
	default:
	}

	u.mu.Lock()
	u.latest = vm
	if u.pending {
		u.mu.Unlock()
		return
	}
	u.pending = true
	u.mu.Unlock()

	go u.app.QueueUpdateDraw(u.draw)
}

// Run starts the tview application and the engine loop, and returns the
// loop's result once the session is confirmed or cancelled. The terminal is
// restored before Run returns.
func (u *UI) Run(ctx context.Context, loop *engine.Loop) (engine.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan engine.Result, 1)
	go func() {
		defer u.Stop()
		results <- loop.Run(ctx, u.keys)
	}()

	err := u.app.Run()
	cancel()
	res := <-results
	u.Stop()
	return res, err
}

// Stop terminates the application loop.
func (u *UI) Stop() {
	u.stopOnce.Do(func() {
		close(u.done)
		u.app.Stop()
		// Stop is a no-op until Run has created the screen, so queue a
		// second one for a loop that finished before the UI started.
		go u.app.QueueUpdate(u.app.Stop)
	})
}

func (u *UI) handleKey(event *tcell.EventKey) *tcell.EventKey {
	k, ok := translateKey(event)
	if !ok {
		return nil
	}
	select {
	case u.keys <- k:
	case <-u.done:
	}
	return nil
}

// translateKey maps a terminal key event to an engine key. Unknown keys are
// reported as not ok and swallowed by the caller.
func translateKey(event *tcell.EventKey) (engine.Key, bool) {
	switch event.Key() {
	case tcell.KeyRune:
		if event.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
			return engine.Key{}, false
		}
		if event.Rune() == ' ' {
			return engine.Key{Kind: engine.KeyToggle}, true
		}
		return engine.RuneKey(event.Rune()), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return engine.Key{Kind: engine.KeyBackspace}, true
	case tcell.KeyEnter:
		return engine.Key{Kind: engine.KeyEnter}, true
	case tcell.KeyEscape:
		return engine.Key{Kind: engine.KeyEscape}, true
	case tcell.KeyCtrlC:
		return engine.Key{Kind: engine.KeyInterrupt}, true
	case tcell.KeyUp, tcell.KeyCtrlP:
		return engine.Key{Kind: engine.KeyUp}, true
	case tcell.KeyDown, tcell.KeyCtrlN:
		return engine.Key{Kind: engine.KeyDown}, true
	case tcell.KeyPgUp:
		return engine.Key{Kind: engine.KeyPageUp}, true
	case tcell.KeyPgDn:
		return engine.Key{Kind: engine.KeyPageDown}, true
	case tcell.KeyHome:
		return engine.Key{Kind: engine.KeyHome}, true
	case tcell.KeyEnd:
		return engine.Key{Kind: engine.KeyEnd}, true
	case tcell.KeyCtrlU:
		return engine.Key{Kind: engine.KeyClearQuery}, true
	case tcell.KeyCtrlS:
		return engine.Key{Kind: engine.KeyCycleSort}, true
	}
	return engine.Key{}, false
}

func (u *UI) draw() {
	u.mu.Lock()
	vm := u.latest
	u.pending = false
	u.mu.Unlock()

	u.drawView(vm)
}

func (u *UI) drawView(vm engine.ViewModel) {
	u.prompt.SetText(formatPrompt(vm))
	u.table.SetTitle(formatTitle(vm, u.signal))
	u.refreshTable(vm)

	switch {
	case vm.Confirming:
		// A refresh may prune the selection while the prompt is open.
		if text := confirmText(u.signal, vm.Selected); text != u.confirmMsg {
			u.confirmMsg = text
			u.modal.SetText(text)
		}
		if !u.showing {
			u.pages.ShowPage(confirmPageName)
			u.showing = true
		}
	case u.showing:
		u.pages.HidePage(confirmPageName)
		u.showing = false
	}
}

func (u *UI) refreshTable(vm engine.ViewModel) {
	u.table.Clear()

	headers := []string{"", "PID", "NAME", "CPU%", "MEM"}
	if vm.Ports {
		headers = append(headers, "PORTS")
	}
	for col, header := range headers {
		cell := tview.NewTableCell(header).
			SetSelectable(false).
			SetAttributes(tcell.AttrBold)
		u.table.SetCell(0, col, cell)
	}

	for row, r := range vm.Rows {
		for col, value := range rowValues(r, vm.Ports) {
			cell := tview.NewTableCell(value)
			switch col {
			case 0:
				cell.SetTextColor(tcell.ColorGreen)
			case 1, 3, 4:
				cell.SetAlign(tview.AlignRight)
			case 2:
				cell.SetExpansion(1)
			}
			u.table.SetCell(row+1, col, cell)
		}
	}

	if len(vm.Rows) == 0 {
		u.table.Select(0, 0)
		return
	}
	u.table.Select(vm.Cursor+1, 0)
}

func rowValues(r engine.Row, ports bool) []string {
	marker := " "
	if r.Selected {
		marker = selectedMarker
	}
	values := []string{
		marker,
		strconv.FormatInt(int64(r.Entity.PID), 10),
		r.Entity.Name,
		fmt.Sprintf("%.1f", r.Entity.CPUPercent),
		units.BytesSize(float64(r.Entity.MemoryBytes)),
	}
	if ports {
		values = append(values, formatPorts(r.Entity.Ports))
	}
	return values
}

func formatPorts(ports []uint16) string {
	if len(ports) == 0 {
		return "-"
	}
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(int(p))
	}
	return strings.Join(parts, ",")
}

func formatPrompt(vm engine.ViewModel) string {
	var b strings.Builder
	b.WriteString("[::b]>[::-] ")
	b.WriteString(tview.Escape(vm.Query))
	fmt.Fprintf(&b, "  [::d]%d/%d", len(vm.Rows), vm.Total)
	if vm.Selected > 0 {
		fmt.Fprintf(&b, " (%d selected)", vm.Selected)
	}
	b.WriteString("[::-]")
	if vm.Stale {
		b.WriteString("  [yellow]refresh failed[-]")
	}
	return b.String()
}

func formatTitle(vm engine.ViewModel, signal string) string {
	title := fmt.Sprintf("%s (%s, sort %s)", tableTitle, signal, vm.Sort)
	if vm.Live {
		title += " live"
		if !vm.Refreshed.IsZero() {
			title += " " + vm.Refreshed.Format("15:04:05")
		}
	}
	return title
}

func confirmText(signal string, n int) string {
	noun := "processes"
	if n == 1 {
		noun = "process"
	}
	return fmt.Sprintf("Send %s to %d %s?\n\nEnter to confirm, Esc to go back", signal, n, noun)
}
