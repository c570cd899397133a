package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ProgressLine redraws a single status line for one transfer. On a
// non-terminal writer it stays silent until Done.
type ProgressLine struct {
	mu       sync.Mutex
	w        io.Writer
	label    string
	tty      bool
	start    time.Time
	last     time.Time
	interval time.Duration
}

func NewProgressLine(label string) *ProgressLine {
	return &ProgressLine{
		w:        os.Stdout,
		label:    label,
		tty:      IsTerminal(),
		start:    time.Now(),
		interval: 100 * time.Millisecond,
	}
}

// Update matches the progress callbacks of the transfer packages.
func (p *ProgressLine) Update(done, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.tty {
		return
	}
	if time.Since(p.last) < p.interval && done < total {
		return
	}
	p.last = time.Now()
	elapsed := time.Since(p.start).Seconds()
	line := fmt.Sprintf("%s %s %s/%s %s %s", p.label, ProgressBar(done, total, 30),
		FormatBytes(uint64(done)), FormatBytes(uint64(max(total, 0))), StyleSymbols["bullet"], FormatSpeed(done, elapsed))
	fmt.Fprintf(p.w, "\r\033[K%s", debugStyle.Render(truncate(line, terminalWidth()-1)))
}

func (p *ProgressLine) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tty && !p.last.IsZero() {
		fmt.Fprint(p.w, "\r\033[K")
	}
}
