// Command louver-table paints every materialized row in the color of its
// slot id over a million-row dataset, which makes slot recycling visible:
// scroll and watch the colors rotate off one edge of the screen and reappear
// on the other as the allocator reuses the oldest released slots.
//
// Mouse wheel and arrow keys scroll, clicking the right-edge scrollbar jumps,
// q or escape quits.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kungfusheep/louver"
)

const wheelStep = 3

// rowHeight gives the dataset a ragged profile so row offsets drift away
// from simple multiples: every 7th row is double height, every 31st triple.
func rowHeight(i int) float64 {
	switch {
	case i%31 == 0:
		return 3
	case i%7 == 0:
		return 2
	}
	return 1
}

func main() {
	rows := flag.Int("rows", 1_000_000, "number of rows in the dataset")
	buffer := flag.Int("buffer", 3, "rows kept materialized beyond each edge of the viewport")
	flag.Parse()

	if *rows < 1 {
		fmt.Fprintln(os.Stderr, "louver-table: -rows must be positive")
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, "louver-table:", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "louver-table:", err)
		os.Exit(1)
	}

	err = run(screen, *rows, *buffer)
	screen.Fini()
	if err != nil {
		fmt.Fprintln(os.Stderr, "louver-table:", err)
		os.Exit(1)
	}
}

func run(screen tcell.Screen, rows, buffer int) error {
	defStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset)
	screen.SetStyle(defStyle)
	screen.HideCursor()
	screen.Clear()
	screen.EnableMouse()
	defer screen.DisableMouse()

	width, height := screen.Size()
	list := louver.NewList(louver.Config{
		RowCount:         rows,
		RowHeight:        rowHeight,
		BufferRows:       buffer,
		ViewportHeight:   float64(max(height-1, 1)),
		DefaultRowHeight: 1,
	})

	for {
		draw(screen, list, width, height)

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			width, height = screen.Size()
			cfg := list.Config()
			cfg.ViewportHeight = float64(max(height-1, 1))
			list.SetConfig(cfg)
			screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEsc, tcell.KeyCtrlC:
				return nil
			case tcell.KeyUp:
				list.ScrollBy(-1)
			case tcell.KeyDown:
				list.ScrollBy(1)
			case tcell.KeyPgUp:
				list.ScrollBy(-pageStep(height))
			case tcell.KeyPgDn:
				list.ScrollBy(pageStep(height))
			case tcell.KeyHome:
				list.ScrollToRow(0)
			case tcell.KeyEnd:
				list.ScrollToRowBottom(rows - 1)
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'q':
					return nil
				case 'g':
					list.ScrollToRow(0)
				case 'G':
					list.ScrollToRowBottom(rows - 1)
				}
			}
		case *tcell.EventMouse:
			x, y := ev.Position()
			buttons := ev.Buttons()
			switch {
			case buttons&tcell.WheelUp != 0:
				list.ScrollBy(-wheelStep)
			case buttons&tcell.WheelDown != 0:
				list.ScrollBy(wheelStep)
			case buttons&tcell.Button1 != 0 && x == width-1:
				if track := height - 1; track > 1 {
					win := list.Window()
					list.ScrollTo(win.MaxScrollY * float64(y) / float64(track-1))
				}
			}
		}
	}
}

func pageStep(height int) float64 {
	return float64(max(height-2, 1))
}

func draw(screen tcell.Screen, list *louver.List, width, height int) {
	screen.Clear()
	viewport := height - 1
	if viewport < 1 || width < 24 {
		screen.Show()
		return
	}
	win := list.Window()

	for _, row := range win.Rows {
		slot, _ := win.Slot(row)
		top := int(win.Offsets[row] - win.ScrollY)
		lines := int(win.Heights[row])
		for line := 0; line < lines; line++ {
			y := top + line
			if y < 0 || y >= viewport {
				continue
			}
			drawRowLine(screen, width, y, row, slot, line, lines, win.Offsets[row])
		}
	}

	start, size := win.Scrollbar(viewport)
	for y := 0; y < viewport; y++ {
		ch, st := '│', tcell.StyleDefault.Foreground(tcell.ColorGray)
		if y >= start && y < start+size {
			ch, st = '┃', tcell.StyleDefault.Foreground(tcell.ColorAqua)
		}
		screen.SetContent(width-1, y, ch, nil, st)
	}

	drawStatus(screen, win, width, height)
	screen.Show()
}

// drawRowLine paints one terminal line of a row: a gutter block colored by
// the row's slot id, then the row label on the first line and a faint
// continuation mark on the rest.
func drawRowLine(screen tcell.Screen, width, y, row, slot, line, lines int, offset float64) {
	color := tcell.PaletteColor(1 + slot%14)
	gutter := tcell.StyleDefault.Background(color)
	for x := 0; x < 3; x++ {
		screen.SetContent(x, y, ' ', nil, gutter)
	}

	if line == 0 {
		label := tcell.StyleDefault.Foreground(color).Bold(true)
		text := fmt.Sprintf(" slot %2d  row %8d  offset %9.0f  h %d", slot, row, offset, lines)
		drawText(screen, 4, y, width-1, label, text)
		return
	}
	faint := tcell.StyleDefault.Foreground(tcell.ColorGray)
	drawText(screen, 4, y, width-1, faint, " │")
}

func drawStatus(screen tcell.Screen, win louver.Window, width, height int) {
	st := tcell.StyleDefault.Reverse(true)
	for x := 0; x < width; x++ {
		screen.SetContent(x, height-1, ' ', nil, st)
	}
	span := "-"
	if len(win.Rows) > 0 {
		span = fmt.Sprintf("%d..%d", win.Rows[0], win.Rows[len(win.Rows)-1])
	}
	text := fmt.Sprintf(" scroll %.0f/%.0f  rows %s  slots %d  content %.0f lines   wheel scroll, click bar to jump, q quits",
		win.ScrollY, win.MaxScrollY, span, win.Slots.Len(), win.ContentHeight)
	drawText(screen, 0, height-1, width, st, text)
}

func drawText(screen tcell.Screen, x, y, maxX int, style tcell.Style, text string) {
	for _, r := range text {
		if x >= maxX {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
