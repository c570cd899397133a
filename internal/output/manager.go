package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"
)

const (
	StatusPending = "pending"
	StatusActive  = "active"
	StatusSuccess = "success"
	StatusError   = "error"
)

type transferLine struct {
	index     int
	label     string
	status    string
	message   string
	progress  string
	started   time.Time
	updated   time.Time
	err       error
	completed bool
}

type ErrorReport struct {
	Label string
	Error error
	Time  time.Time
}

// Manager keeps one status line per batch transfer and redraws them on a
// ticker while the display runs.
type Manager struct {
	mutex       sync.RWMutex
	w           io.Writer
	live        bool
	lines       map[int]*transferLine
	count       int
	numLines    int
	errors      []ErrorReport
	displayTick time.Duration
	doneCh      chan struct{}
	displayWg   sync.WaitGroup
}

func NewManager() *Manager {
	return newManager(os.Stdout, IsTerminal())
}

func newManager(w io.Writer, live bool) *Manager {
	return &Manager{
		w:           w,
		live:        live,
		lines:       make(map[int]*transferLine),
		displayTick: 300 * time.Millisecond,
		doneCh:      make(chan struct{}),
	}
}

func (m *Manager) Register(label string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.count++
	now := time.Now()
	m.lines[m.count] = &transferLine{
		index:   m.count,
		label:   label,
		status:  StatusPending,
		started: now,
		updated: now,
	}
	return m.count
}

func (m *Manager) update(id int, fn func(l *transferLine)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if l, ok := m.lines[id]; ok {
		fn(l)
		l.updated = time.Now()
	}
}

func (m *Manager) SetMessage(id int, message string) {
	m.update(id, func(l *transferLine) {
		l.message = message
		if l.status == StatusPending {
			l.status = StatusActive
		}
	})
}

func (m *Manager) SetProgress(id int, done, total int64) {
	m.update(id, func(l *transferLine) {
		elapsed := time.Since(l.started).Seconds()
		l.progress = fmt.Sprintf("%s %s %s", ProgressBar(done, total, 30), StyleSymbols["bullet"], FormatSpeed(done, elapsed))
	})
}

func (m *Manager) Complete(id int, message string) {
	m.update(id, func(l *transferLine) {
		if message == "" {
			message = "Completed " + l.label
		}
		l.message = message
		l.progress = ""
		l.status = StatusSuccess
		l.completed = true
	})
}

func (m *Manager) ReportError(id int, err error) {
	m.update(id, func(l *transferLine) {
		l.status = StatusError
		l.message = fmt.Sprintf("Failed %s", l.label)
		l.progress = ""
		l.err = err
		l.completed = true
		m.errors = append(m.errors, ErrorReport{Label: l.label, Error: err, Time: time.Now()})
	})
}

func (m *Manager) Status(id int) string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if l, ok := m.lines[id]; ok {
		return l.status
	}
	return "unknown"
}

// Counts returns the number of successful and failed transfers.
func (m *Manager) Counts() (succeeded, failed int) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for _, l := range m.lines {
		switch l.status {
		case StatusSuccess:
			succeeded++
		case StatusError:
			failed++
		}
	}
	return succeeded, failed
}

func statusIndicator(status string) string {
	switch status {
	case StatusSuccess:
		return successStyle.Render(StyleSymbols["pass"])
	case StatusError:
		return errorStyle.Render(StyleSymbols["fail"])
	case StatusPending:
		return pendingStyle.Render(StyleSymbols["pending"])
	default:
		return infoStyle.Render(StyleSymbols["arrow"])
	}
}

func styleMessage(status, message string) string {
	switch status {
	case StatusSuccess:
		return successStyle.Render(message)
	case StatusError:
		return errorStyle.Render(message)
	default:
		return pendingStyle.Render(message)
	}
}

func (m *Manager) sorted() []*transferLine {
	all := make([]*transferLine, 0, len(m.lines))
	for _, l := range m.lines {
		all = append(all, l)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].index < all[j].index
	})
	return all
}

func (m *Manager) updateDisplay() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	available := terminalHeight() - 3
	width := terminalWidth() - 1
	if m.numLines > 0 {
		fmt.Fprintf(m.w, "\033[%dA\033[J", m.numLines)
	}
	all := m.sorted()
	// keep unfinished transfers on screen, drop the oldest finished ones first
	for len(all) > available && len(all) > 0 && all[0].completed {
		all = all[1:]
	}
	lineCount := 0
	for _, l := range all {
		if lineCount >= available {
			break
		}
		message := l.message
		if l.status == StatusPending {
			message = "Waiting..."
		}
		elapsed := l.updated.Sub(l.started).Round(time.Second)
		if !l.completed {
			elapsed = time.Since(l.started).Round(time.Second)
		}
		fmt.Fprintf(m.w, "  %s %s %s\n", statusIndicator(l.status), debugStyle.Render(elapsed.String()), styleMessage(l.status, truncate(message, width)))
		lineCount++
		if l.progress != "" && lineCount < available {
			fmt.Fprintf(m.w, "      %s\n", streamStyle.Render(l.progress))
			lineCount++
		}
	}
	m.numLines = lineCount
}

func (m *Manager) StartDisplay() {
	if !m.live {
		return
	}
	m.displayWg.Add(1)
	go func() {
		defer m.displayWg.Done()
		ticker := time.NewTicker(m.displayTick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.updateDisplay()
			case <-m.doneCh:
				m.updateDisplay()
				return
			}
		}
	}()
}

func (m *Manager) StopDisplay() {
	if m.live {
		close(m.doneCh)
		m.displayWg.Wait()
	} else {
		m.printFinal()
	}
	m.ShowSummary()
}

// printFinal writes one line per transfer for non-interactive output.
func (m *Manager) printFinal() {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for _, l := range m.sorted() {
		fmt.Fprintf(m.w, "  %s %s\n", statusIndicator(l.status), styleMessage(l.status, l.message))
	}
}

func (m *Manager) ShowSummary() {
	succeeded, failed := m.Counts()
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	total := len(m.lines)
	fmt.Fprintln(m.w)
	if succeeded > 0 {
		fmt.Fprintln(m.w, success2Style.Render(fmt.Sprintf("Completed %d of %d", succeeded, total)))
	}
	if failed > 0 {
		fmt.Fprintln(m.w, errorStyle.Render(fmt.Sprintf("Failed %d of %d", failed, total)))
		failures := NewTable("File", "Error")
		for _, report := range m.errors {
			failures.Row(report.Label, report.Error.Error())
		}
		fmt.Fprintln(m.w, failures.String())
	}
}
