// Package terminal owns the screen. It wraps a tcell screen with the row
// printing, caret and event primitives the editor needs, and is the only
// package allowed to write to the terminal. Everything here runs on the
// event-loop goroutine except PostReload, which tcell makes safe to call
// from anywhere.
package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/edvik/inkwell/internal/annotate"
	"github.com/edvik/inkwell/internal/config"
)

// Device is the terminal surface.
type Device struct {
	screen tcell.Screen
}

// New opens a device on the process tty.
func New() (*Device, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}
	return &Device{screen: screen}, nil
}

// NewWithScreen wraps an existing screen. Tests pass a tcell simulation
// screen here.
func NewWithScreen(screen tcell.Screen) *Device {
	return &Device{screen: screen}
}

// Init puts the terminal into raw mode with an empty screen.
func (d *Device) Init() error {
	if err := d.screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	return nil
}

// Fini restores the terminal. Must run before the process exits, panics
// included, or the shell is left in raw mode.
func (d *Device) Fini() {
	d.screen.Fini()
}

// Size returns the screen dimensions in cells.
func (d *Device) Size() (width, height int) {
	return d.screen.Size()
}

// Show flushes pending drawing to the terminal.
func (d *Device) Show() {
	d.screen.Show()
}

// MoveCaretTo places and shows the terminal caret.
func (d *Device) MoveCaretTo(x, y int) {
	d.screen.ShowCursor(x, y)
}

// HideCaret hides the terminal caret during redraws.
func (d *Device) HideCaret() {
	d.screen.HideCursor()
}

// PollEvent blocks for the next terminal or posted event. It returns nil
// once the screen is finalized.
func (d *Device) PollEvent() tcell.Event {
	return d.screen.PollEvent()
}

// PostReload queues a configuration reload to be picked up by the event
// loop like any other event.
func (d *Device) PostReload(cfg *config.Config) {
	_ = d.screen.PostEvent(NewConfigReloadEvent(cfg))
}

// PrintRow draws text at the start of a row in the default style and
// clears the remainder of the row.
func (d *Device) PrintRow(row int, text string) {
	d.printRowStyled(row, text, tcell.StyleDefault)
}

// PrintStatusRow draws a full-width row in the theme's status bar style.
func (d *Device) PrintStatusRow(row int, text string, theme Theme) {
	d.printRowStyled(row, text, theme.Status)
}

// PrintAnnotatedRow draws an annotated document slice, resolving each
// annotation kind to its theme style, and clears the remainder of the row.
func (d *Device) PrintAnnotatedRow(row int, text *annotate.Text, theme Theme) {
	x := 0
	for _, part := range text.Parts() {
		x = d.printText(x, row, part.Text, theme.StyleFor(part.Type))
	}
	d.clearTo(x, row, tcell.StyleDefault)
}

func (d *Device) printRowStyled(row int, text string, style tcell.Style) {
	x := d.printText(0, row, text, style)
	d.clearTo(x, row, style)
}

// printText draws text cluster by cluster from column x and returns the
// column after the last cell written. Wide clusters occupy two cells;
// zero-width clusters are skipped since they cannot own a cell.
func (d *Device) printText(x, row int, text string, style tcell.Style) int {
	width, _ := d.screen.Size()
	state := -1
	var cluster string
	var cells int
	for text != "" && x < width {
		cluster, text, cells, state = uniseg.FirstGraphemeClusterInString(text, state)
		if cells <= 0 {
			continue
		}
		runes := []rune(cluster)
		d.screen.SetContent(x, row, runes[0], runes[1:], style)
		x += cells
	}
	return x
}

func (d *Device) clearTo(from, row int, style tcell.Style) {
	width, _ := d.screen.Size()
	for x := from; x < width; x++ {
		d.screen.SetContent(x, row, ' ', nil, style)
	}
}

// ConfigReloadEvent carries a freshly loaded configuration into the event
// loop, so applying it happens on the loop goroutine like any keypress.
type ConfigReloadEvent struct {
	when time.Time
	cfg  *config.Config
}

// NewConfigReloadEvent wraps cfg for posting.
func NewConfigReloadEvent(cfg *config.Config) *ConfigReloadEvent {
	return &ConfigReloadEvent{when: time.Now(), cfg: cfg}
}

// When returns the event creation time.
func (e *ConfigReloadEvent) When() time.Time { return e.when }

// Config returns the reloaded configuration.
func (e *ConfigReloadEvent) Config() *config.Config { return e.cfg }
