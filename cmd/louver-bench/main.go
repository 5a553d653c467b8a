package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/kungfusheep/louver"

	"golang.org/x/term"
)

var (
	duration = flag.Duration("d", 5*time.Second, "benchmark duration")
	rows     = flag.Int("rows", 1000000, "number of rows in the list")
	buffer   = flag.Int("buffer", 5, "buffer rows each side of the viewport")
	pattern  = flag.String("pattern", "ragged", "height pattern: uniform, ragged, bimodal")
	step     = flag.Float64("step", 48, "scroll step per event in pixels")
	jumpPct  = flag.Int("jump", 5, "percent of events that jump to a random position")
)

func heightGetter(pattern string) func(int) float64 {
	switch pattern {
	case "uniform":
		return func(int) float64 { return 24 }
	case "bimodal":
		return func(i int) float64 {
			if i%37 == 0 {
				return 240
			}
			return 24
		}
	default: // ragged
		return func(i int) float64 { return 16 + float64((i*31)%9)*6 }
	}
}

func main() {
	flag.Parse()

	// Derive a viewport from the terminal, pretending a cell is 24px tall.
	viewport := 800.0
	if _, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		viewport = float64(h) * 24
	}

	cfg := louver.Config{
		RowCount:         *rows,
		RowHeight:        heightGetter(*pattern),
		BufferRows:       *buffer,
		ViewportHeight:   viewport,
		DefaultRowHeight: 24,
	}

	w, err := louver.ComputeWindow(louver.Window{}, louver.FirstRow(0, 0), cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "louver-bench:", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Running %v over %d rows (%s heights, viewport %.0fpx, buffer %d)...\n",
		*duration, *rows, *pattern, viewport, *buffer)

	rng := rand.New(rand.NewSource(1))
	eventTimes := make([]time.Duration, 0, 1<<20)
	inWindow := map[int]bool{}
	var (
		events    int
		entered   int
		direction = 1.0
	)

	var memBefore runtime.MemStats
	runtime.ReadMemStats(&memBefore)

	start := time.Now()
	for time.Since(start) < *duration {
		var anchor louver.Anchor
		if rng.Intn(100) < *jumpPct {
			anchor = w.AnchorAt(rng.Float64() * w.MaxScrollY)
		} else {
			if w.ScrollY >= w.MaxScrollY {
				direction = -1
			} else if w.ScrollY <= 0 {
				direction = 1
			}
			anchor = w.ScrolledBy(direction * *step)
		}

		eventStart := time.Now()
		w, err = louver.ComputeWindow(w, anchor, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "louver-bench:", err)
			os.Exit(1)
		}
		eventTimes = append(eventTimes, time.Since(eventStart))
		events++

		for _, i := range w.Rows {
			if !inWindow[i] {
				entered++
			}
		}
		for k := range inWindow {
			delete(inWindow, k)
		}
		for _, i := range w.Rows {
			inWindow[i] = true
		}
	}
	elapsed := time.Since(start)

	if events == 0 {
		fmt.Fprintln(os.Stderr, "louver-bench: no events recorded, increase -d")
		os.Exit(1)
	}

	var memAfter runtime.MemStats
	runtime.ReadMemStats(&memAfter)

	sort.Slice(eventTimes, func(i, j int) bool { return eventTimes[i] < eventTimes[j] })
	var total time.Duration
	for _, et := range eventTimes {
		total += et
	}
	n := len(eventTimes)

	fmt.Fprintf(os.Stderr, "\n=== Results ===\n")
	fmt.Fprintf(os.Stderr, "Events:       %d\n", events)
	fmt.Fprintf(os.Stderr, "Duration:     %v\n", elapsed)
	fmt.Fprintf(os.Stderr, "Events/sec:   %.0f\n", float64(events)/elapsed.Seconds())
	fmt.Fprintf(os.Stderr, "Rows entered: %d (%.1f per event)\n", entered, float64(entered)/float64(events))
	fmt.Fprintf(os.Stderr, "Allocs/event: %.1f\n", float64(memAfter.Mallocs-memBefore.Mallocs)/float64(events))
	fmt.Fprintf(os.Stderr, "\nEvent times:\n")
	fmt.Fprintf(os.Stderr, "  Min:        %v\n", eventTimes[0])
	fmt.Fprintf(os.Stderr, "  Max:        %v\n", eventTimes[n-1])
	fmt.Fprintf(os.Stderr, "  Avg:        %v\n", total/time.Duration(n))
	fmt.Fprintf(os.Stderr, "  P50:        %v\n", eventTimes[n*50/100])
	fmt.Fprintf(os.Stderr, "  P90:        %v\n", eventTimes[n*90/100])
	fmt.Fprintf(os.Stderr, "  P99:        %v\n", eventTimes[n*99/100])
	fmt.Fprintf(os.Stderr, "\nList state:\n")
	fmt.Fprintf(os.Stderr, "  Content:    %.0fpx\n", w.ContentHeight)
	fmt.Fprintf(os.Stderr, "  MaxScroll:  %.0fpx\n", w.MaxScrollY)
	fmt.Fprintf(os.Stderr, "  Window:     %d rows\n", len(w.Rows))
}
